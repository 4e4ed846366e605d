package risk

import (
	"fmt"

	"guardrails/internal/breaking"
	"guardrails/internal/change"
	"guardrails/internal/pathclass"
)

// BatchSignals summarizes an impact map for batch-level assessment.
// The orchestrator computes these from its nodes and connections so this
// package does not need to know the map representation.
type BatchSignals struct {
	ChangeCount        int
	BreakingBySeverity map[breaking.Severity]int
	NodeCount          int
	EdgeCount          int
	CriticalNodeCount  int
	HighRiskNodeCount  int // Nodes rated high or critical
	BidirectionalEdges int
}

// AssessOverall aggregates risk across a whole batch of changes
func AssessOverall(sig BatchSignals) *Score {
	factors := []Factor{
		aggregateBreakingFactor(sig.BreakingBySeverity),
		interconnectionFactor(sig.NodeCount, sig.EdgeCount),
		criticalDensityFactor(sig.NodeCount, sig.CriticalNodeCount),
		changeVelocityFactor(sig.ChangeCount),
		systemStabilityFactor(sig.BidirectionalEdges, sig.HighRiskNodeCount),
	}

	value := clamp(weightedSum(factors), 0, 100)
	level := levelForValue(value)

	return &Score{
		Value:           value,
		Level:           level,
		Factors:         factors,
		Recommendations: recommendOverall(level, sig),
	}
}

func aggregateBreakingFactor(counts map[breaking.Severity]int) Factor {
	score := float64(counts[breaking.SeverityCritical])*15 +
		float64(counts[breaking.SeverityMajor])*8 +
		float64(counts[breaking.SeverityMinor])*3
	total := counts[breaking.SeverityCritical] + counts[breaking.SeverityMajor] + counts[breaking.SeverityMinor]
	return Factor{
		Type:        FactorAggregateBreaking,
		Weight:      1.0,
		Score:       min(score, 25),
		Description: fmt.Sprintf("%d breaking change(s) across the batch", total),
	}
}

// interconnectionFactor scores edge density over the possible directed pairs
func interconnectionFactor(nodeCount, edgeCount int) Factor {
	var density float64
	if nodeCount > 1 {
		density = float64(edgeCount) / float64(nodeCount*(nodeCount-1))
	}
	return Factor{
		Type:        FactorInterconnection,
		Weight:      0.8,
		Score:       min(density*20, 15),
		Description: fmt.Sprintf("interconnection density %.2f over %d node(s)", density, nodeCount),
	}
}

func criticalDensityFactor(nodeCount, criticalCount int) Factor {
	var density float64
	if nodeCount > 0 {
		density = float64(criticalCount) / float64(nodeCount)
	}
	return Factor{
		Type:        FactorCriticalDensity,
		Weight:      0.7,
		Score:       min(density*15, 12),
		Description: fmt.Sprintf("%d of %d impacted node(s) are critical components", criticalCount, nodeCount),
	}
}

// changeVelocityFactor scores how many changes land simultaneously
func changeVelocityFactor(changeCount int) Factor {
	var score float64
	switch {
	case changeCount > 20:
		score = 10
	case changeCount > 10:
		score = 7
	case changeCount > 5:
		score = 4
	case changeCount > 1:
		score = 2
	}
	return Factor{
		Type:        FactorChangeVelocity,
		Weight:      0.6,
		Score:       score,
		Description: fmt.Sprintf("%d simultaneous change(s)", changeCount),
	}
}

func systemStabilityFactor(bidirectionalEdges, highRiskNodes int) Factor {
	score := float64(bidirectionalEdges)*2 + float64(highRiskNodes)
	return Factor{
		Type:        FactorSystemStability,
		Weight:      0.5,
		Score:       min(score, 10),
		Description: fmt.Sprintf("%d bidirectional connection(s), %d high-risk node(s)", bidirectionalEdges, highRiskNodes),
	}
}

func recommendOverall(level Level, sig BatchSignals) []string {
	var out []string
	if level.AtLeast(High) {
		out = append(out, "Land this batch behind a coordinated release with a rollback owner")
	}
	if sig.ChangeCount > 10 {
		out = append(out, "Consider splitting the batch; more than ten simultaneous changes are hard to bisect")
	}
	if sig.CriticalNodeCount > 0 {
		out = append(out, fmt.Sprintf("Notify owners of the %d critical component(s) in the blast area", sig.CriticalNodeCount))
	}
	if len(out) == 0 {
		out = append(out, "Batch risk is manageable with standard review")
	}
	return out
}

// RollbackComplexity estimates how hard undoing the batch would be
type RollbackComplexity string

const (
	RollbackSimple      RollbackComplexity = "simple"
	RollbackModerate    RollbackComplexity = "moderate"
	RollbackComplex     RollbackComplexity = "complex"
	RollbackVeryComplex RollbackComplexity = "very-complex"
)

// DeploymentRisk is the deployment-time view over a batch
type DeploymentRisk struct {
	Score              *Score             `json:"score"`
	RollbackComplexity RollbackComplexity `json:"rollbackComplexity"`
}

// AssessDeployment combines batch risk with rollback complexity
func AssessDeployment(changes []change.CodeChange, breakingTotal int, sig BatchSignals) *DeploymentRisk {
	var databaseChanges, deletions, configChanges int
	for i := range changes {
		if pathclass.IsDatabaseFile(changes[i].FilePath) {
			databaseChanges++
		}
		if changes[i].Type == change.Delete {
			deletions++
		}
		if pathclass.IsConfigurationFile(changes[i].FilePath) {
			configChanges++
		}
	}

	rollbackScore := databaseChanges*3 + breakingTotal*2 + deletions*2 + configChanges
	var complexity RollbackComplexity
	switch {
	case rollbackScore >= 15:
		complexity = RollbackVeryComplex
	case rollbackScore >= 8:
		complexity = RollbackComplex
	case rollbackScore >= 3:
		complexity = RollbackModerate
	default:
		complexity = RollbackSimple
	}

	return &DeploymentRisk{
		Score:              AssessOverall(sig),
		RollbackComplexity: complexity,
	}
}
