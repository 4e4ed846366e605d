// Package risk converts detected breakage and impact breadth into a
// weighted risk score with human-readable recommendations.
package risk

import (
	"fmt"

	"guardrails/internal/breaking"
	"guardrails/internal/pathclass"
	"guardrails/internal/source"
)

// FactorType tags one contributor to an aggregate score
type FactorType string

const (
	FactorBreakingChanges   FactorType = "breaking-change"
	FactorFileImpact        FactorType = "wide-impact"
	FactorComponentImpact   FactorType = "complexity"
	FactorTestCoverage      FactorType = "test-coverage"
	FactorHistoricalRisk    FactorType = "critical-component"
	FactorInterconnection   FactorType = "interconnection"
	FactorChangeVelocity    FactorType = "change-velocity"
	FactorSystemStability   FactorType = "system-stability"
	FactorCriticalDensity   FactorType = "critical-density"
	FactorAggregateBreaking FactorType = "aggregate-breaking"
)

// Factor is one weighted contributor: raw score times weight feeds the sum
type Factor struct {
	Type        FactorType `json:"type"`
	Weight      float64    `json:"weight"`
	Score       float64    `json:"score"`
	Description string     `json:"description"`
}

// Score is the assessor's verdict
type Score struct {
	Value           float64  `json:"value"`
	Level           Level    `json:"level"`
	Factors         []Factor `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// Input carries everything one change-level assessment needs.
// IsCritical and HasTestFile are injected so the assessor stays free of
// project-context and filesystem dependencies.
type Input struct {
	BreakingChanges    []breaking.BreakingChange
	AffectedFiles      []string
	AffectedComponents []source.ComponentReference
	IsCritical         func(string) bool
	HasTestFile        func(string) bool
}

// Assess computes the weighted risk score for one analyzed change
func Assess(in Input) *Score {
	isCritical := in.IsCritical
	if isCritical == nil {
		isCritical = func(string) bool { return false }
	}
	hasTest := in.HasTestFile
	if hasTest == nil {
		hasTest = func(string) bool { return false }
	}

	factors := []Factor{
		breakingFactor(in.BreakingChanges),
		fileImpactFactor(in.AffectedFiles, isCritical),
		componentImpactFactor(in.AffectedComponents),
		testCoverageFactor(in.AffectedFiles, hasTest),
		historicalFactor(in.AffectedFiles),
	}

	value := clamp(weightedSum(factors), 0, 100)
	level := levelForValue(value)

	return &Score{
		Value:           value,
		Level:           level,
		Factors:         factors,
		Recommendations: recommend(level, factors),
	}
}

func breakingFactor(changes []breaking.BreakingChange) Factor {
	counts := breaking.CountBySeverity(changes)
	score := float64(counts[breaking.SeverityCritical])*15 +
		float64(counts[breaking.SeverityMajor])*8 +
		float64(counts[breaking.SeverityMinor])*3
	return Factor{
		Type:   FactorBreakingChanges,
		Weight: 1.0,
		Score:  min(score, 25),
		Description: fmt.Sprintf("%d breaking change(s): %d critical, %d major, %d minor",
			len(changes), counts[breaking.SeverityCritical], counts[breaking.SeverityMajor], counts[breaking.SeverityMinor]),
	}
}

func fileImpactFactor(files []string, isCritical func(string) bool) Factor {
	score := min(0.5*float64(len(files)), 10)
	for _, f := range files {
		if isCritical(f) {
			score += 3
		}
		if pathclass.IsAPIFile(f) {
			score += 2
		}
		if pathclass.IsDatabaseFile(f) {
			score += 4
		}
	}
	return Factor{
		Type:        FactorFileImpact,
		Weight:      0.8,
		Score:       min(score, 20),
		Description: fmt.Sprintf("%d affected file(s)", len(files)),
	}
}

func componentImpactFactor(components []source.ComponentReference) Factor {
	var score float64
	for _, c := range components {
		switch c.Type {
		case source.ComponentFunction:
			score += 1
		case source.ComponentClass:
			score += 2
		case source.ComponentInterface:
			score += 1.5
		case source.ComponentAPIEndpoint:
			score += 3
		default:
			score += 1
		}
	}
	return Factor{
		Type:        FactorComponentImpact,
		Weight:      0.7,
		Score:       min(score, 15),
		Description: fmt.Sprintf("%d affected component(s)", len(components)),
	}
}

func testCoverageFactor(files []string, hasTest func(string) bool) Factor {
	untested := 0
	for _, f := range files {
		if !hasTest(f) {
			untested++
		}
	}
	return Factor{
		Type:        FactorTestCoverage,
		Weight:      0.6,
		Score:       min(float64(untested)*2, 12),
		Description: fmt.Sprintf("%d affected file(s) without a discoverable test file", untested),
	}
}

func historicalFactor(files []string) Factor {
	risky := 0
	for _, f := range files {
		if pathclass.IsHistoricallyRisky(f) {
			risky++
		}
	}
	return Factor{
		Type:        FactorHistoricalRisk,
		Weight:      0.4,
		Score:       min(float64(risky)*3, 8),
		Description: fmt.Sprintf("%d affected file(s) in historically risky areas", risky),
	}
}

func levelForValue(value float64) Level {
	switch {
	case value >= 60:
		return Critical
	case value >= 35:
		return High
	case value >= 15:
		return Medium
	default:
		return Low
	}
}

// recommend generates fixed-rule recommendations keyed on the overall
// level and on which factors exceeded their attention thresholds.
func recommend(level Level, factors []Factor) []string {
	var out []string

	switch level {
	case Critical:
		out = append(out,
			"Split this change into smaller, independently reviewable pieces",
			"Require a second reviewer familiar with the affected area")
	case High:
		out = append(out, "Schedule focused review time; do not merge under deadline pressure")
	}

	for _, f := range factors {
		switch f.Type {
		case FactorBreakingChanges:
			if f.Score > 10 {
				out = append(out, "Version the affected API surface and keep the previous contract available")
			}
		case FactorTestCoverage:
			if f.Score > 6 {
				out = append(out, "Add test coverage for affected files before merging")
			}
		case FactorFileImpact:
			if f.Score > 12 {
				out = append(out, "Stage the rollout; verify each affected area behind a flag where possible")
			}
		case FactorHistoricalRisk:
			if f.Score > 4 {
				out = append(out, "Request review from owners of the auth/payment/database areas touched")
			}
		}
	}

	if len(out) == 0 {
		out = append(out, "Standard review is sufficient")
	}
	return out
}

func weightedSum(factors []Factor) float64 {
	var total float64
	for _, f := range factors {
		total += f.Score * f.Weight
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
