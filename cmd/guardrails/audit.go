package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"guardrails/internal/audit"
	"guardrails/internal/storage"
)

var (
	auditSince    string
	auditChangeID string
	auditFormat   string
	auditPrune    bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query the breaking-change audit trail",
	Long: `List recorded breaking-change-detected events, filtered by time
window or change ID.

Examples:
  guardrails audit                  # Last 24 hours
  guardrails audit --since=168h     # Last week
  guardrails audit --change-id=abc
  guardrails audit --prune          # Drop events past the retention period`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditSince, "since", "24h", "Window to query (Go duration)")
	auditCmd.Flags().StringVar(&auditChangeID, "change-id", "", "Show events for one change ID")
	auditCmd.Flags().StringVar(&auditFormat, "format", "human", "Output format (json, human)")
	auditCmd.Flags().BoolVar(&auditPrune, "prune", false, "Prune events older than the retention period")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, auditFormat)

	db, err := storage.Open(repoRootFlag, logger)
	if err != nil {
		return fmt.Errorf("failed to open audit storage: %w", err)
	}
	defer db.Close()

	recorder := audit.NewRecorder(db, logger, time.Duration(cfg.Audit.CacheTtlSeconds)*time.Second)

	if auditPrune {
		retention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
		pruned, err := recorder.Prune(retention)
		if err != nil {
			return err
		}
		fmt.Printf("pruned %d event(s) older than %d days\n", pruned, cfg.Audit.RetentionDays)
		return nil
	}

	var events []*storage.AuditEvent
	if auditChangeID != "" {
		events, err = recorder.EventsForChange(auditChangeID)
	} else {
		window, parseErr := time.ParseDuration(auditSince)
		if parseErr != nil {
			return fmt.Errorf("invalid --since duration: %w", parseErr)
		}
		events, err = recorder.EventsSince(time.Now().Add(-window))
	}
	if err != nil {
		return err
	}

	if auditFormat == "json" {
		output, err := formatJSON(events)
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	}

	if len(events) == 0 {
		fmt.Println("no audit events in window")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  %s  %s %s  risk=%s  components=%d\n",
			e.CreatedAt.Format(time.RFC3339), e.ChangeID, e.ChangeType, e.FilePath,
			e.RiskLevel, len(e.AffectedComponents))
	}
	return nil
}
