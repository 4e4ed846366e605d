// Package ripple computes how far a change reaches: an additive impact
// score, breadth-first ripple layers, cross-change blast radius, and an
// estimate of how quickly a regression would surface.
package ripple

import (
	"fmt"

	"guardrails/internal/change"
	"guardrails/internal/graph"
	"guardrails/internal/pathclass"
	"guardrails/internal/risk"
	"guardrails/internal/source"
)

// maxRippleDepth caps the breadth-first traversal so cyclic graphs
// always terminate.
const maxRippleDepth = 5

// Factor is one additive contributor to an impact score
type Factor struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// ImpactScore is the summed factor score with its mapped level
type ImpactScore struct {
	Score   float64    `json:"score"`
	Level   risk.Level `json:"level"`
	Factors []Factor   `json:"factors"`
}

// Calculator scores changes against a dependency graph. IsCritical is
// injected by the caller so this package stays free of project-context
// wiring; a nil predicate treats every path as non-critical.
type Calculator struct {
	IsCritical func(path string) bool
}

// NewCalculator returns a Calculator using the given criticality predicate
func NewCalculator(isCritical func(string) bool) *Calculator {
	return &Calculator{IsCritical: isCritical}
}

func (c *Calculator) critical(path string) bool {
	if c == nil || c.IsCritical == nil {
		return false
	}
	return c.IsCritical(path)
}

// ImpactScore sums six independent factors and maps the total onto the
// four-step level scale. Factors add up, they are never averaged, so a
// change that is bad in several small ways scores like one that is very
// bad in a single way.
func (c *Calculator) ImpactScore(ch *change.CodeChange, affectedFiles []string, components []source.ComponentReference, g *graph.DependencyGraph) *ImpactScore {
	factors := []Factor{
		changeTypeFactor(ch.Type),
		fileCountFactor(len(affectedFiles)),
		componentFactor(components),
		c.criticalFactor(ch.FilePath, affectedFiles),
		depthFactor(ch.FilePath, g),
		apiSurfaceFactor(ch.FilePath, affectedFiles),
	}

	var total float64
	for _, f := range factors {
		total += f.Score
	}

	return &ImpactScore{
		Score:   total,
		Level:   LevelFor(total),
		Factors: factors,
	}
}

// LevelFor maps a summed impact score onto the four-step level scale
func LevelFor(total float64) risk.Level {
	switch {
	case total >= 25:
		return risk.Critical
	case total >= 15:
		return risk.High
	case total >= 8:
		return risk.Medium
	default:
		return risk.Low
	}
}

func changeTypeFactor(t change.Type) Factor {
	var score float64
	switch t {
	case change.Delete:
		score = 8
	case change.Move:
		score = 5
	case change.Modify:
		score = 3
	case change.Create:
		score = 1
	}
	return Factor{
		Name:        "change-type",
		Score:       score,
		Description: fmt.Sprintf("base score for a %s change", t),
	}
}

func fileCountFactor(count int) Factor {
	var score float64
	switch {
	case count > 20:
		score = 8
	case count > 10:
		score = 6
	case count > 5:
		score = 4
	case count > 1:
		score = 2
	}
	return Factor{
		Name:        "affected-files",
		Score:       score,
		Description: fmt.Sprintf("%d affected file(s)", count),
	}
}

// componentFactor treats classes and heavily-depended components as
// complex and weighs them three times a plain component.
func componentFactor(components []source.ComponentReference) Factor {
	var complex int
	for _, comp := range components {
		if comp.Type == source.ComponentClass || len(comp.Dependencies) > 3 {
			complex++
		}
	}
	score := 0.5*float64(len(components)) + 1.5*float64(complex)
	if score > 8 {
		score = 8
	}
	return Factor{
		Name:        "component-complexity",
		Score:       score,
		Description: fmt.Sprintf("%d component(s), %d complex", len(components), complex),
	}
}

func (c *Calculator) criticalFactor(changedPath string, affectedFiles []string) Factor {
	var score float64
	if c.critical(changedPath) {
		score += 5
	}
	for _, f := range affectedFiles {
		if f != changedPath && c.critical(f) {
			score += 3
		}
	}
	if score > 10 {
		score = 10
	}
	return Factor{
		Name:        "critical-involvement",
		Score:       score,
		Description: "critical components in the affected set",
	}
}

func depthFactor(changedPath string, g *graph.DependencyGraph) Factor {
	var dependents, dependencies int
	if g != nil {
		dependents = len(g.DependentsOf(changedPath))
		dependencies = len(g.DependenciesOf(changedPath))
	}
	score := 0.3*float64(dependents) + 0.1*float64(dependencies)
	if score > 8 {
		score = 8
	}
	return Factor{
		Name:        "dependency-depth",
		Score:       score,
		Description: fmt.Sprintf("%d dependent(s), %d dependency(ies)", dependents, dependencies),
	}
}

func apiSurfaceFactor(changedPath string, affectedFiles []string) Factor {
	var score float64
	if pathclass.IsAPIFile(changedPath) {
		score += 4
	}
	for _, f := range affectedFiles {
		if f != changedPath && pathclass.IsAPIFile(f) {
			score++
		}
	}
	if score > 8 {
		score = 8
	}
	return Factor{
		Name:        "api-surface",
		Score:       score,
		Description: "API files touched by the change",
	}
}
