// Package impact orchestrates the full analysis pipeline for proposed
// changes: classification, dependency scoping, breaking-change detection,
// impact scoring, and mitigation planning. Everything past the
// initialization precondition degrades instead of failing, so one bad
// file never sinks a batch.
package impact

import (
	"guardrails/internal/breaking"
	"guardrails/internal/change"
	"guardrails/internal/classify"
	"guardrails/internal/graph"
	"guardrails/internal/ripple"
	"guardrails/internal/risk"
	"guardrails/internal/source"
)

// Level says whether a node is touched by a change itself or only reached
// through the dependency graph.
type Level string

const (
	LevelDirect   Level = "direct"
	LevelIndirect Level = "indirect"
)

// Degradation records one fallback the pipeline took instead of failing.
// Consumers use these to judge how much to trust an analysis.
type Degradation struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// Analysis is the full result for one change
type Analysis struct {
	Change             *change.CodeChange          `json:"change"`
	Classification     classify.Classification     `json:"classification"`
	AffectedFiles      []string                    `json:"affectedFiles"`
	AffectedComponents []source.ComponentReference `json:"affectedComponents"`
	BreakingChanges    []breaking.BreakingChange   `json:"breakingChanges"`
	Findings           []breaking.Finding          `json:"findings,omitempty"`
	RiskLevel          risk.Level                  `json:"riskLevel"`
	Score              *ripple.ImpactScore         `json:"score"`
	Risk               *risk.Score                 `json:"risk"`
	Radius             *ripple.RippleRadius        `json:"radius"`
	Propagation        *ripple.PropagationSpeed    `json:"propagation"`
	Mitigations        []MitigationStrategy        `json:"mitigations"`
	Degradations       []Degradation               `json:"degradations,omitempty"`

	// graph is the scoped dependency graph the analysis used; map building
	// merges these for batch-level calculations.
	graph *graph.DependencyGraph
}

// Degraded reports whether any pipeline stage fell back to synthetic data
func (a *Analysis) Degraded() bool {
	return len(a.Degradations) > 0
}

// Node is one file in an impact map
type Node struct {
	ID        string     `json:"id"` // File path
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Impact    Level      `json:"impact"`
	RiskLevel risk.Level `json:"riskLevel"`
	Changes   []string   `json:"changes"` // IDs of the changes touching this node
}

// Connection is a directed edge between two impact nodes
type Connection struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Strength      float64 `json:"strength"` // 0..1
	Bidirectional bool    `json:"bidirectional"`
}

// Map is the merged result for a batch of changes. Every file in any
// change's affected set has exactly one node, keyed by path.
type Map struct {
	Changes        []change.CodeChange  `json:"changes"`
	Nodes          []Node               `json:"nodes"`
	Connections    []Connection         `json:"connections"`
	RiskAssessment *risk.Score          `json:"riskAssessment"`
	BlastRadius    *ripple.BlastRadius  `json:"blastRadius"`
	Deployment     *risk.DeploymentRisk `json:"deployment"`
	SemverAdvice   string               `json:"semverAdvice"`
}

// StrategyType names a mitigation approach
type StrategyType string

const (
	StrategyTesting               StrategyType = "testing"
	StrategyVersioning            StrategyType = "versioning"
	StrategyDeprecation           StrategyType = "deprecation"
	StrategyBackwardCompatibility StrategyType = "backward-compatibility"
	StrategyRollbackPlan          StrategyType = "rollback-plan"
)

// MitigationStrategy is one recommended measure with concrete steps
type MitigationStrategy struct {
	Type        StrategyType `json:"type"`
	Description string       `json:"description"`
	Priority    int          `json:"priority"` // 1 is most urgent
	Effort      string       `json:"effort"`
	Steps       []string     `json:"steps"`
}
