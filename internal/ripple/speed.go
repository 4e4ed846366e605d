package ripple

import (
	"guardrails/internal/change"
	"guardrails/internal/graph"
	"guardrails/internal/pathclass"
)

// SpeedLevel describes how quickly a regression would become visible
type SpeedLevel string

const (
	SpeedImmediate SpeedLevel = "immediate"
	SpeedFast      SpeedLevel = "fast"
	SpeedModerate  SpeedLevel = "moderate"
	SpeedSlow      SpeedLevel = "slow"
)

// PropagationSpeed estimates minutes-to-visible-failure for one change
type PropagationSpeed struct {
	Level            SpeedLevel `json:"level"`
	EstimatedMinutes float64    `json:"estimatedMinutes"`
	Score            float64    `json:"score"`
}

// PropagationSpeed is a scoring pass independent of the impact score. It
// accumulates minutes and a speed score from the change type, the kind of
// file touched, and how many files depend on it.
func (c *Calculator) PropagationSpeed(ch *change.CodeChange, g *graph.DependencyGraph) *PropagationSpeed {
	var minutes, score float64

	switch ch.Type {
	case change.Delete:
		minutes, score = 5, 3
	case change.Move:
		minutes, score = 3, 2
	case change.Modify:
		minutes, score = 2, 1
	case change.Create:
		minutes, score = 1, 0
	}

	if pathclass.IsAPIFile(ch.FilePath) {
		minutes += 10
		score += 2
	}
	if pathclass.IsDatabaseFile(ch.FilePath) {
		minutes += 15
		score += 3
	}
	if pathclass.IsConfigurationFile(ch.FilePath) {
		minutes += 5
		score += 2
	}

	var dependents int
	if g != nil {
		dependents = len(g.DependentsOf(g.ResolveID(ch.FilePath)))
	}
	if dependents > 10 {
		minutes += 0.5 * float64(dependents)
		score += 2
	}

	if c.critical(ch.FilePath) {
		minutes += 10
		score += 2
	}

	return &PropagationSpeed{
		Level:            speedForScore(score),
		EstimatedMinutes: minutes,
		Score:            score,
	}
}

func speedForScore(score float64) SpeedLevel {
	switch {
	case score >= 6:
		return SpeedImmediate
	case score >= 4:
		return SpeedFast
	case score >= 2:
		return SpeedModerate
	default:
		return SpeedSlow
	}
}
