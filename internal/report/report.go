// Package report aggregates impact maps into markdown or HTML summaries
// and optionally compresses them for storage.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"guardrails/internal/impact"
	"guardrails/internal/risk"
)

// Format selects the report output format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Report is one generated summary over a set of impact maps
type Report struct {
	Title       string     `json:"title"`
	Format      Format     `json:"format"`
	GeneratedAt time.Time  `json:"generatedAt"`
	ChangeCount int        `json:"changeCount"`
	RiskLevel   risk.Level `json:"riskLevel"`
	Body        string     `json:"body"`
}

// Generator renders reports from impact maps
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a report generator
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate aggregates the given maps into one report. The report's risk
// level is the max across every map's assessment.
func (g *Generator) Generate(title string, format Format, maps []*impact.Map) (*Report, error) {
	if format != FormatMarkdown && format != FormatHTML {
		return nil, fmt.Errorf("unsupported report format %q", format)
	}

	report := &Report{
		Title:       title,
		Format:      format,
		GeneratedAt: g.now(),
		RiskLevel:   risk.Low,
	}
	for _, m := range maps {
		report.ChangeCount += len(m.Changes)
		if m.RiskAssessment != nil {
			report.RiskLevel = risk.Max(report.RiskLevel, m.RiskAssessment.Level)
		}
	}

	switch format {
	case FormatHTML:
		report.Body = renderHTML(report, maps)
	default:
		report.Body = renderMarkdown(report, maps)
	}
	return report, nil
}

func renderMarkdown(report *Report, maps []*impact.Map) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", report.Title)
	fmt.Fprintf(&b, "Generated %s. %d change(s) across %d batch(es); overall risk **%s**.\n\n",
		report.GeneratedAt.Format(time.RFC3339), report.ChangeCount, len(maps), report.RiskLevel)

	for i, m := range maps {
		fmt.Fprintf(&b, "## Batch %d\n\n", i+1)
		if m.SemverAdvice != "" {
			fmt.Fprintf(&b, "Suggested version bump: **%s**\n\n", m.SemverAdvice)
		}
		if m.RiskAssessment != nil {
			fmt.Fprintf(&b, "Risk: **%s** (%.1f)\n\n", m.RiskAssessment.Level, m.RiskAssessment.Value)
			for _, rec := range m.RiskAssessment.Recommendations {
				fmt.Fprintf(&b, "- %s\n", rec)
			}
			b.WriteString("\n")
		}

		b.WriteString("| File | Impact | Risk | Changes |\n")
		b.WriteString("|------|--------|------|---------|\n")
		for _, node := range sortedNodes(m) {
			fmt.Fprintf(&b, "| `%s` | %s | %s | %d |\n",
				node.ID, node.Impact, node.RiskLevel, len(node.Changes))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderHTML(report *Report, maps []*impact.Map) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title></head>\n<body>\n", html.EscapeString(report.Title))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(report.Title))
	fmt.Fprintf(&b, "<p>Generated %s. %d change(s); overall risk <strong>%s</strong>.</p>\n",
		report.GeneratedAt.Format(time.RFC3339), report.ChangeCount, report.RiskLevel)

	for i, m := range maps {
		fmt.Fprintf(&b, "<h2>Batch %d</h2>\n", i+1)
		if m.SemverAdvice != "" {
			fmt.Fprintf(&b, "<p>Suggested version bump: <strong>%s</strong></p>\n", html.EscapeString(m.SemverAdvice))
		}
		if m.RiskAssessment != nil {
			fmt.Fprintf(&b, "<p>Risk: <strong>%s</strong> (%.1f)</p>\n<ul>\n",
				m.RiskAssessment.Level, m.RiskAssessment.Value)
			for _, rec := range m.RiskAssessment.Recommendations {
				fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(rec))
			}
			b.WriteString("</ul>\n")
		}

		b.WriteString("<table>\n<tr><th>File</th><th>Impact</th><th>Risk</th><th>Changes</th></tr>\n")
		for _, node := range sortedNodes(m) {
			fmt.Fprintf(&b, "<tr><td><code>%s</code></td><td>%s</td><td>%s</td><td>%d</td></tr>\n",
				html.EscapeString(node.ID), node.Impact, node.RiskLevel, len(node.Changes))
		}
		b.WriteString("</table>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// sortedNodes orders nodes riskiest first, then by path for stability
func sortedNodes(m *impact.Map) []impact.Node {
	nodes := make([]impact.Node, len(m.Nodes))
	copy(nodes, m.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.RiskLevel != b.RiskLevel {
			return risk.Max(a.RiskLevel, b.RiskLevel) == a.RiskLevel
		}
		return a.ID < b.ID
	})
	return nodes
}
