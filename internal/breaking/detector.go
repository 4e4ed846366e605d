// Package breaking enumerates consumer-visible breaks a change would
// introduce by diffing regex-extracted symbols between old and new content.
package breaking

import (
	"fmt"
	"sort"

	"guardrails/internal/change"
	"guardrails/internal/logging"
	"guardrails/internal/source"
)

// Detector enumerates breaking changes for a single proposed change
type Detector struct {
	logger *logging.Logger
}

// NewDetector creates a breaking change detector
func NewDetector(logger *logging.Logger) *Detector {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Detector{logger: logger}
}

// Detect enumerates breaking changes, dispatched by change type.
// It never fails: an internal panic during extraction is converted to one
// minor analysis warning so a malformed file cannot abort a batch scan.
func (d *Detector) Detect(ch *change.CodeChange) (result []BreakingChange) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("breaking change analysis failed", map[string]interface{}{
				"file":  ch.FilePath,
				"error": fmt.Sprint(r),
			})
			result = []BreakingChange{{
				Kind:        AnalysisWarning,
				Description: fmt.Sprintf("unable to analyze %s: %v", ch.FilePath, r),
				FilePath:    ch.FilePath,
				Severity:    SeverityMinor,
			}}
		}
	}()

	switch ch.Type {
	case change.Modify:
		result = d.detectModify(ch)
	case change.Delete:
		result = d.detectDelete(ch)
	case change.Move:
		result = d.detectMove(ch)
	case change.Create:
		result = nil // New files cannot break existing consumers
	}

	sortChanges(result)
	return result
}

// detectModify diffs function signatures and type definitions between
// old and new content, keyed by name.
func (d *Detector) detectModify(ch *change.CodeChange) []BreakingChange {
	var out []BreakingChange

	oldFuncs := source.ExtractFunctions(ch.OldContent)
	newFuncs := source.ExtractFunctions(ch.NewContent)

	for name, oldSig := range oldFuncs {
		newSig, exists := newFuncs[name]
		switch {
		case !exists:
			out = append(out, BreakingChange{
				Kind:        FunctionRemoved,
				Description: fmt.Sprintf("function '%s' was removed", name),
				FilePath:    ch.FilePath,
				Severity:    SeverityMajor,
			})
		case oldSig != newSig:
			out = append(out, BreakingChange{
				Kind:        MethodSignatureChanged,
				Description: fmt.Sprintf("signature of '%s' changed from (%s) to (%s)", name, oldSig, newSig),
				FilePath:    ch.FilePath,
				Severity:    SeverityMajor,
			})
		}
	}

	oldTypes := source.ExtractTypes(ch.OldContent)
	newTypes := source.ExtractTypes(ch.NewContent)

	for name, oldDef := range oldTypes {
		newDef, exists := newTypes[name]
		switch {
		case !exists:
			out = append(out, BreakingChange{
				Kind:        PropertyRemoved,
				Description: fmt.Sprintf("type '%s' was removed", name),
				FilePath:    ch.FilePath,
				Severity:    SeverityMajor,
			})
		case oldDef != newDef:
			out = append(out, BreakingChange{
				Kind:        PropertyTypeChanged,
				Description: fmt.Sprintf("definition of type '%s' changed", name),
				FilePath:    ch.FilePath,
				Severity:    SeverityMinor,
			})
		}
	}

	return out
}

// detectDelete flags every extractable function and type as gone
func (d *Detector) detectDelete(ch *change.CodeChange) []BreakingChange {
	var out []BreakingChange

	for name := range source.ExtractFunctions(ch.OldContent) {
		out = append(out, BreakingChange{
			Kind:        FunctionRemoved,
			Description: fmt.Sprintf("function '%s' deleted along with file", name),
			FilePath:    ch.FilePath,
			Severity:    SeverityCritical,
		})
	}
	for name := range source.ExtractTypes(ch.OldContent) {
		out = append(out, BreakingChange{
			Kind:        PropertyRemoved,
			Description: fmt.Sprintf("type '%s' deleted along with file", name),
			FilePath:    ch.FilePath,
			Severity:    SeverityCritical,
		})
	}

	return out
}

// detectMove emits the single generic import warning. Resolving which
// importers actually break would require rewriting imports, which the
// engine deliberately does not do.
func (d *Detector) detectMove(ch *change.CodeChange) []BreakingChange {
	return []BreakingChange{{
		Kind:        InheritanceChanged,
		Description: fmt.Sprintf("file '%s' was moved; imports referencing the old path may be broken", ch.FilePath),
		FilePath:    ch.FilePath,
		Severity:    SeverityMinor,
	}}
}

func sortChanges(changes []BreakingChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		if c := Compare(changes[i].Severity, changes[j].Severity); c != 0 {
			return c > 0 // Most severe first
		}
		return changes[i].Description < changes[j].Description
	})
}
