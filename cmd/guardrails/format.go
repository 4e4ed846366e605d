package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"guardrails/internal/impact"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatAnalyses formats analysis results according to the requested format
func FormatAnalyses(analyses []*impact.Analysis, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(analyses)
	case FormatHuman:
		return formatAnalysesHuman(analyses), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatAnalysesHuman(analyses []*impact.Analysis) string {
	var b strings.Builder
	for i, a := range analyses {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s  [%s/%s/%s]  risk: %s\n",
			a.Change.Type, a.Change.FilePath,
			a.Classification.Scope, a.Classification.Category, a.Classification.Complexity,
			a.RiskLevel)
		if a.Risk != nil {
			fmt.Fprintf(&b, "  risk score: %.1f (%s)\n", a.Risk.Value, a.Risk.Level)
		}
		if a.Propagation != nil {
			fmt.Fprintf(&b, "  propagation: %s (~%.0f min to visible failure)\n",
				a.Propagation.Level, a.Propagation.EstimatedMinutes)
		}
		if a.Radius != nil && a.Radius.Radius > 0 {
			fmt.Fprintf(&b, "  ripple radius: %d layer(s)\n", a.Radius.Radius)
		}

		if len(a.BreakingChanges) > 0 {
			fmt.Fprintf(&b, "  breaking changes (%d):\n", len(a.BreakingChanges))
			for _, bc := range a.BreakingChanges {
				fmt.Fprintf(&b, "    [%s] %s\n", bc.Severity, bc.Description)
			}
		}
		for _, f := range a.Findings {
			fmt.Fprintf(&b, "  domain finding [%s/%s]: %s\n", f.Detector, f.Severity, f.Description)
		}
		if len(a.AffectedFiles) > 1 {
			fmt.Fprintf(&b, "  affected files: %s\n", strings.Join(a.AffectedFiles, ", "))
		}
		for _, m := range a.Mitigations {
			fmt.Fprintf(&b, "  mitigation [%s, priority %d]: %s\n", m.Type, m.Priority, m.Description)
		}
		for _, d := range a.Degradations {
			fmt.Fprintf(&b, "  degraded at %s: %s\n", d.Stage, d.Reason)
		}
	}
	return b.String()
}
