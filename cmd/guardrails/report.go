package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"guardrails/internal/impact"
	"guardrails/internal/logging"
	"guardrails/internal/report"
	"guardrails/internal/storage"
)

var (
	reportDiff    string
	reportChanges string
	reportAuthor  string
	reportTitle   string
	reportFormat  string
	reportOut     string
	reportStore   bool
	reportShowID  int64
	reportList    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate or retrieve impact reports",
	Long: `Generate a markdown or HTML report over a batch of changes, print
it or store it compressed in the local database, and retrieve stored
reports later.

Examples:
  guardrails report --diff changes.patch --title "release 1.4"
  guardrails report --changes changes.json --format=html --out report.html
  guardrails report --diff - --store
  guardrails report --list
  guardrails report --show 3 --out report.md`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDiff, "diff", "", "Unified diff file to analyze (- for stdin)")
	reportCmd.Flags().StringVar(&reportChanges, "changes", "", "JSON change-set file to analyze")
	reportCmd.Flags().StringVar(&reportAuthor, "author", "", "Author to attribute diff changes to")
	reportCmd.Flags().StringVar(&reportTitle, "title", "Change impact report", "Report title")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "Report format (markdown, html); defaults to config")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Write the report to a file instead of stdout")
	reportCmd.Flags().BoolVar(&reportStore, "store", false, "Store the report in the local database")
	reportCmd.Flags().Int64Var(&reportShowID, "show", 0, "Print a stored report by ID")
	reportCmd.Flags().BoolVar(&reportList, "list", false, "List stored reports")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, "human")

	if reportList || reportShowID != 0 {
		return runStoredReport(logger)
	}

	changes, err := loadChanges(reportDiff, reportChanges, reportAuthor)
	if err != nil {
		return err
	}

	analyzer, err := loadEngine(cfg, logger)
	if err != nil {
		return err
	}

	format := report.Format(reportFormat)
	if reportFormat == "" {
		format = report.Format(cfg.Report.Format)
	}

	m, err := analyzer.BuildMap(context.Background(), changes)
	if err != nil {
		return err
	}

	generated, err := report.NewGenerator().Generate(reportTitle, format, []*impact.Map{m})
	if err != nil {
		return err
	}

	if reportStore {
		if err := storeReport(logger, cfg.Report.Compress, generated); err != nil {
			return err
		}
	}

	return emit(generated.Body)
}

func storeReport(logger *logging.Logger, compress bool, generated *report.Report) error {
	db, err := storage.Open(repoRootFlag, logger)
	if err != nil {
		return fmt.Errorf("failed to open report storage: %w", err)
	}
	defer db.Close()

	content := []byte(generated.Body)
	if compress {
		if content, err = report.Compress(content); err != nil {
			return err
		}
	}

	stored := &storage.StoredReport{
		Title:       generated.Title,
		Format:      string(generated.Format),
		Compressed:  compress,
		Content:     content,
		ChangeCount: generated.ChangeCount,
		RiskLevel:   string(generated.RiskLevel),
		CreatedAt:   generated.GeneratedAt,
	}
	if err := db.InsertReport(stored); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "stored report %d (%s, %d change(s))\n",
		stored.ID, stored.Format, stored.ChangeCount)
	return nil
}

func runStoredReport(logger *logging.Logger) error {
	db, err := storage.Open(repoRootFlag, logger)
	if err != nil {
		return fmt.Errorf("failed to open report storage: %w", err)
	}
	defer db.Close()

	if reportList {
		reports, err := db.ListReports(20)
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Println("no stored reports")
			return nil
		}
		for _, r := range reports {
			fmt.Printf("%4d  %s  %s  risk=%s  changes=%d  %s\n",
				r.ID, r.CreatedAt.Format(time.RFC3339), r.Format, r.RiskLevel, r.ChangeCount, r.Title)
		}
		return nil
	}

	stored, err := db.ReportByID(reportShowID)
	if err != nil {
		return err
	}
	content := stored.Content
	if stored.Compressed {
		if content, err = report.Decompress(content); err != nil {
			return err
		}
	}
	return emit(string(content))
}

func emit(body string) error {
	if reportOut != "" {
		return os.WriteFile(reportOut, []byte(body), 0644)
	}
	fmt.Print(body)
	return nil
}
