package breaking

// ChangeKind represents the kind of breaking change detected
type ChangeKind string

const (
	// FunctionRemoved indicates a function present before is gone
	FunctionRemoved ChangeKind = "function-removed"
	// MethodSignatureChanged indicates a function's captured signature differs
	MethodSignatureChanged ChangeKind = "method-signature-changed"
	// PropertyRemoved indicates a type or interface is gone
	PropertyRemoved ChangeKind = "property-removed"
	// PropertyTypeChanged indicates a type definition textually changed
	PropertyTypeChanged ChangeKind = "property-type-changed"
	// InheritanceChanged tags the generic file-move import warning
	InheritanceChanged ChangeKind = "inheritance-changed"
	// AnalysisWarning is the fail-soft substitute when extraction fails
	AnalysisWarning ChangeKind = "analysis-warning"
)

// Severity indicates how breaking a change is
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityMinor:    1,
	SeverityMajor:    2,
	SeverityCritical: 3,
}

// Compare returns a negative, zero, or positive number as a sorts
// before, equal to, or after b by severity.
func Compare(a, b Severity) int {
	return severityRank[a] - severityRank[b]
}

// BreakingChange is one detected consumer-visible break
type BreakingChange struct {
	Kind        ChangeKind `json:"kind"`
	Description string     `json:"description"`
	FilePath    string     `json:"filePath"`
	Line        int        `json:"line,omitempty"`
	Severity    Severity   `json:"severity"`
}

// CountBySeverity tallies changes per severity level
func CountBySeverity(changes []BreakingChange) map[Severity]int {
	out := make(map[Severity]int, 3)
	for _, c := range changes {
		out[c.Severity]++
	}
	return out
}

// SemverAdvice maps a severity tally to the version bump the batch
// would require: critical or major breaks call for a major bump, minor
// breaks for a minor bump, anything else is patch-safe.
func SemverAdvice(bySeverity map[Severity]int) string {
	switch {
	case bySeverity[SeverityCritical] > 0 || bySeverity[SeverityMajor] > 0:
		return "major"
	case bySeverity[SeverityMinor] > 0:
		return "minor"
	default:
		return "patch"
	}
}

// Finding is a severity-tagged observation from a domain detector.
// Unlike BreakingChange it reports a pattern-count mismatch, not a
// specific symbol, and feeds validation output rather than scoring.
type Finding struct {
	Detector    string   `json:"detector"`
	Pattern     string   `json:"pattern"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Before      int      `json:"before"`
	After       int      `json:"after"`
}
