package breaking

import (
	"fmt"
	"regexp"

	"guardrails/internal/change"
	"guardrails/internal/source"
)

// direction controls which way a pattern-count shift must move to be flagged
type direction int

const (
	onDecrease direction = iota
	onIncrease
	onAnyChange
)

// patternRule is one domain-specific breaking signature: a pattern whose
// before/after occurrence counts are compared, with any qualifying
// mismatch flagged as worth reviewing.
type patternRule struct {
	label    string
	re       *regexp.Regexp
	dir      direction
	severity Severity
	message  string
}

// DomainDetector applies a pattern-rule family to files matching a path
// pattern. All domain detectors share the count-mismatch strategy.
type DomainDetector struct {
	name   string
	pathRe *regexp.Regexp
	rules  []patternRule
}

// Name returns the detector's identity for findings
func (d *DomainDetector) Name() string { return d.name }

// Matches reports whether this detector applies to the file path
func (d *DomainDetector) Matches(filePath string) bool {
	return d.pathRe.MatchString(filePath)
}

// Validate compares pattern occurrence counts between old and new content
func (d *DomainDetector) Validate(oldContent, newContent string) []Finding {
	var out []Finding
	for _, rule := range d.rules {
		before := source.CountOccurrences(oldContent, rule.re)
		after := source.CountOccurrences(newContent, rule.re)
		if before == after {
			continue
		}
		flagged := false
		switch rule.dir {
		case onDecrease:
			flagged = after < before
		case onIncrease:
			flagged = after > before
		case onAnyChange:
			flagged = true
		}
		if !flagged {
			continue
		}
		out = append(out, Finding{
			Detector:    d.name,
			Pattern:     rule.label,
			Severity:    rule.severity,
			Description: fmt.Sprintf("%s (%d before, %d after)", rule.message, before, after),
			Before:      before,
			After:       after,
		})
	}
	return out
}

// DomainDetectors returns the full specialized detector set
func DomainDetectors() []*DomainDetector {
	return []*DomainDetector{
		databaseDetector(),
		apiContractDetector(),
		sharedTypesDetector(),
		paymentDetector(),
		businessHoursDetector(),
		loyaltyTokenDetector(),
	}
}

// ValidateDomains runs every applicable domain detector against a change
func ValidateDomains(ch *change.CodeChange) []Finding {
	var out []Finding
	for _, d := range DomainDetectors() {
		if !d.Matches(ch.FilePath) {
			continue
		}
		out = append(out, d.Validate(ch.OldContent, ch.NewContent)...)
	}
	return out
}

func databaseDetector() *DomainDetector {
	return &DomainDetector{
		name:   "database-schema",
		pathRe: regexp.MustCompile(`/migrations?/|/schema/|\.sql$`),
		rules: []patternRule{
			{
				label:    "table-definition",
				re:       regexp.MustCompile(`(?i)create\s+table\s+\w+`),
				dir:      onDecrease,
				severity: SeverityCritical,
				message:  "a table definition was removed",
			},
			{
				label:    "column-removal",
				re:       regexp.MustCompile(`(?i)drop\s+(column|table)`),
				dir:      onIncrease,
				severity: SeverityCritical,
				message:  "a drop statement was added",
			},
			{
				label:    "not-null-constraint",
				re:       regexp.MustCompile(`(?i)not\s+null`),
				dir:      onIncrease,
				severity: SeverityMajor,
				message:  "a not-null constraint was added; existing rows may violate it",
			},
			{
				label:    "type-narrowing",
				re:       regexp.MustCompile(`(?i)alter\s+column|\.alter\(`),
				dir:      onAnyChange,
				severity: SeverityMajor,
				message:  "a column type alteration changed",
			},
		},
	}
}

func apiContractDetector() *DomainDetector {
	return &DomainDetector{
		name:   "api-contract",
		pathRe: regexp.MustCompile(`/api/|/routes/|/endpoints/|\.api\.ts$`),
		rules: []patternRule{
			{
				label:    "http-method",
				re:       regexp.MustCompile(`\.(get|post|put|delete|patch)\s*\(`),
				dir:      onDecrease,
				severity: SeverityCritical,
				message:  "an HTTP route handler was removed or its method changed",
			},
			{
				label:    "status-code",
				re:       regexp.MustCompile(`\.status\s*\(\s*\d{3}\s*\)`),
				dir:      onAnyChange,
				severity: SeverityMinor,
				message:  "response status code usage changed",
			},
			{
				label:    "required-field",
				re:       regexp.MustCompile(`(?m)^\s*\w+\s*:\s*\w+(\[\])?\s*;`),
				dir:      onIncrease,
				severity: SeverityMajor,
				message:  "a required field was added to a request or response shape",
			},
		},
	}
}

func sharedTypesDetector() *DomainDetector {
	return &DomainDetector{
		name:   "shared-types",
		pathRe: regexp.MustCompile(`\.d\.ts$|/types/`),
		rules: []patternRule{
			{
				label:    "exported-interface",
				re:       regexp.MustCompile(`export\s+interface\s+\w+`),
				dir:      onDecrease,
				severity: SeverityCritical,
				message:  "an exported interface was removed",
			},
			{
				label:    "exported-type",
				re:       regexp.MustCompile(`export\s+type\s+\w+`),
				dir:      onDecrease,
				severity: SeverityCritical,
				message:  "an exported type alias was removed",
			},
			{
				label:    "optional-marker",
				re:       regexp.MustCompile(`\w+\?\s*:`),
				dir:      onDecrease,
				severity: SeverityMajor,
				message:  "an optional field became required",
			},
		},
	}
}

func paymentDetector() *DomainDetector {
	return &DomainDetector{
		name:   "payment-logic",
		pathRe: regexp.MustCompile(`(?i)payment|billing|transaction`),
		rules: []patternRule{
			{
				label:    "calculation-block",
				re:       regexp.MustCompile(`(?i)(calculate|compute)\w*\s*\(`),
				dir:      onAnyChange,
				severity: SeverityCritical,
				message:  "a payment calculation block changed",
			},
			{
				label:    "validation-block",
				re:       regexp.MustCompile(`(?i)(validate|verify)\w*\s*\(`),
				dir:      onDecrease,
				severity: SeverityCritical,
				message:  "a payment validation was removed",
			},
			{
				label:    "amount-handling",
				re:       regexp.MustCompile(`(?i)(amount|total|tip)\s*[*+\-/]=|[*+\-/]\s*(amount|total|tip)`),
				dir:      onAnyChange,
				severity: SeverityMajor,
				message:  "arithmetic on monetary fields changed",
			},
		},
	}
}

func businessHoursDetector() *DomainDetector {
	return &DomainDetector{
		name:   "business-hours",
		pathRe: regexp.MustCompile(`(?i)hours|overdue|isOpen`),
		rules: []patternRule{
			{
				label:    "open-check",
				re:       regexp.MustCompile(`(?i)isOpen\w*\s*\(`),
				dir:      onAnyChange,
				severity: SeverityMajor,
				message:  "an opening-hours check changed",
			},
			{
				label:    "overdue-calculation",
				re:       regexp.MustCompile(`(?i)overdue|grace\w*period`),
				dir:      onAnyChange,
				severity: SeverityMajor,
				message:  "overdue handling changed",
			},
		},
	}
}

func loyaltyTokenDetector() *DomainDetector {
	return &DomainDetector{
		name:   "loyalty-token",
		pathRe: regexp.MustCompile(`(?i)token|loyalty|reward`),
		rules: []patternRule{
			{
				label:    "token-issuance",
				re:       regexp.MustCompile(`(?i)(issue|mint|grant)\w*token`),
				dir:      onAnyChange,
				severity: SeverityCritical,
				message:  "token issuance logic changed",
			},
			{
				label:    "token-redemption",
				re:       regexp.MustCompile(`(?i)(redeem|spend|burn)\w*`),
				dir:      onAnyChange,
				severity: SeverityCritical,
				message:  "token redemption logic changed",
			},
			{
				label:    "status-update",
				re:       regexp.MustCompile(`(?i)status\s*[:=]`),
				dir:      onAnyChange,
				severity: SeverityMinor,
				message:  "a status update changed",
			},
		},
	}
}
