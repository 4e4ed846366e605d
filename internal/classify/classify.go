// Package classify categorizes a single proposed change by scope,
// category, and complexity from path heuristics and content deltas.
package classify

import (
	"strings"

	"guardrails/internal/change"
	"guardrails/internal/pathclass"
	"guardrails/internal/project"
)

// Scope locates a change in the system's layering
type Scope string

const (
	ScopeAPI           Scope = "api"
	ScopeDatabase      Scope = "database"
	ScopeConfiguration Scope = "configuration"
	ScopeComponent     Scope = "component"
	ScopeFile          Scope = "file"
)

// Category describes what kind of change this is
type Category string

const (
	CategoryBreaking      Category = "breaking"
	CategoryFeature       Category = "feature"
	CategoryFix           Category = "fix"
	CategoryRefactor      Category = "refactor"
	CategoryDocumentation Category = "documentation"
)

// Complexity is a coarse effort/attention proxy
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Classification is the classifier's verdict for one change
type Classification struct {
	Scope             Scope      `json:"scope"`
	Category          Category   `json:"category"`
	Complexity        Complexity `json:"complexity"`
	CriticalComponent bool       `json:"criticalComponent"`
}

// Classifier categorizes changes against a project context
type Classifier struct {
	project *project.Context
}

// NewClassifier creates a classifier. A nil context disables the
// critical-component scope and flag.
func NewClassifier(projCtx *project.Context) *Classifier {
	return &Classifier{project: projCtx}
}

// Classify categorizes one change
func (c *Classifier) Classify(ch *change.CodeChange) Classification {
	critical := c.isCritical(ch.FilePath)
	scope := c.scopeOf(ch.FilePath, critical)
	return Classification{
		Scope:             scope,
		Category:          categoryOf(ch),
		Complexity:        complexityOf(ch, scope),
		CriticalComponent: critical,
	}
}

// scopeOf decides scope by path heuristics, first match wins
func (c *Classifier) scopeOf(filePath string, critical bool) Scope {
	switch {
	case pathclass.IsAPIFile(filePath):
		return ScopeAPI
	case pathclass.IsDatabaseFile(filePath):
		return ScopeDatabase
	case pathclass.IsConfigurationFile(filePath):
		return ScopeConfiguration
	case critical:
		return ScopeComponent
	default:
		return ScopeFile
	}
}

func (c *Classifier) isCritical(filePath string) bool {
	if c.project == nil {
		return false
	}
	return c.project.IsCriticalFile(filePath)
}

func categoryOf(ch *change.CodeChange) Category {
	if ch.Type == change.Delete {
		return CategoryBreaking
	}
	if ch.OldContent == "" || ch.NewContent == "" {
		return CategoryFeature
	}

	// Removed export or function keywords read as breaking
	if countWord(ch.OldContent, "export") > countWord(ch.NewContent, "export") ||
		countWord(ch.OldContent, "function") > countWord(ch.NewContent, "function") {
		return CategoryBreaking
	}

	oldLines := lineCount(ch.OldContent)
	newLines := lineCount(ch.NewContent)
	lineDelta := abs(newLines - oldLines)

	commentDelta := abs(commentMarkers(ch.NewContent) - commentMarkers(ch.OldContent))
	if commentDelta*2 > lineDelta {
		return CategoryDocumentation
	}

	if oldLines > 0 && float64(lineDelta) > 0.3*float64(oldLines) {
		return CategoryRefactor
	}
	// A delta of zero lines is additive or in-place editing, not a fix
	if lineDelta > 0 && lineDelta < 5 {
		return CategoryFix
	}
	return CategoryFeature
}

func complexityOf(ch *change.CodeChange, scope Scope) Complexity {
	level := ComplexityLow
	if scope == ScopeDatabase || scope == ScopeAPI {
		level = ComplexityMedium
	}
	if ch.Type == change.Delete {
		level = bump(level)
	}

	delta := abs(lineCount(ch.NewContent) - lineCount(ch.OldContent))
	if delta > 100 {
		level = ComplexityHigh
	} else if delta > 20 && level == ComplexityLow {
		level = ComplexityMedium
	}
	return level
}

func bump(c Complexity) Complexity {
	switch c {
	case ComplexityLow:
		return ComplexityMedium
	default:
		return ComplexityHigh
	}
}

func countWord(content, word string) int {
	return strings.Count(content, word)
}

func commentMarkers(content string) int {
	return strings.Count(content, "/**") +
		strings.Count(content, "*/") +
		strings.Count(content, "//")
}

func lineCount(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
