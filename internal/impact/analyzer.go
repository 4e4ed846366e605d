package impact

import (
	"context"
	"path"
	"strings"
	"time"

	"guardrails/internal/breaking"
	"guardrails/internal/change"
	"guardrails/internal/classify"
	"guardrails/internal/errors"
	"guardrails/internal/graph"
	"guardrails/internal/logging"
	"guardrails/internal/pathclass"
	"guardrails/internal/project"
	"guardrails/internal/ripple"
	"guardrails/internal/risk"
	"guardrails/internal/source"
)

// DefaultAnalysisTimeout bounds each external source-analysis call so a
// hung file scan cannot stall a whole batch.
const DefaultAnalysisTimeout = 10 * time.Second

// Analyzer is the orchestrator. Initialize must be called with a project
// context before any analysis; every other failure degrades in place.
type Analyzer struct {
	source      source.Analyzer
	logger      *logging.Logger
	timeout     time.Duration
	concurrency int
	resolver    pathclass.ImportResolver
	project     *project.Context
	classifier  *classify.Classifier
	detector    *breaking.Detector
	calculator  *ripple.Calculator
}

// NewAnalyzer creates an uninitialized analyzer around a source-analysis
// capability. A nil logger discards output.
func NewAnalyzer(src source.Analyzer, logger *logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Analyzer{
		source:      src,
		logger:      logger,
		timeout:     DefaultAnalysisTimeout,
		concurrency: mapAnalysisConcurrency,
		resolver:    pathclass.RelativeResolver{},
	}
}

// SetTimeout overrides the per-call source analysis timeout
func (a *Analyzer) SetTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// SetConcurrency overrides the parallel fan-out used when building maps
func (a *Analyzer) SetConcurrency(n int) {
	if n > 0 {
		a.concurrency = n
	}
}

// Initialize binds the analyzer to a project context. It must be called
// exactly once before AnalyzeChange or BuildMap.
func (a *Analyzer) Initialize(projCtx *project.Context) error {
	if projCtx == nil {
		return errors.Newf(errors.InvalidChange, "project context is required")
	}
	a.project = projCtx
	a.classifier = classify.NewClassifier(projCtx)
	a.detector = breaking.NewDetector(a.logger)
	a.calculator = ripple.NewCalculator(projCtx.IsCriticalFile)
	a.logger.Info("impact analyzer initialized", map[string]interface{}{
		"rootPath":      projCtx.RootPath,
		"criticalFiles": len(projCtx.CriticalFiles),
	})
	return nil
}

func (a *Analyzer) initialized() bool {
	return a.project != nil
}

// AnalyzeChange runs the full pipeline for one change. The returned
// Analysis is always complete; stages that failed are listed in its
// Degradations with synthetic data standing in for the missing piece.
// Only the initialization precondition and change validation can fail.
func (a *Analyzer) AnalyzeChange(ctx context.Context, ch *change.CodeChange) (*Analysis, error) {
	if !a.initialized() {
		return nil, errors.Newf(errors.NotInitialized, "analyzer must be initialized before analyzing changes")
	}
	if err := change.Validate(ch); err != nil {
		return nil, err
	}

	analysis := &Analysis{Change: ch}
	analysis.Classification = a.classifier.Classify(ch)

	g := a.scopedGraph(ctx, ch, analysis)
	analysis.graph = g

	files := []string{ch.FilePath}
	components := a.directComponents(ch, analysis)

	depFiles, depComponents := a.dependentReach(ctx, ch, g, analysis)
	files = append(files, depFiles...)
	components = append(components, depComponents...)

	analysis.AffectedFiles = dedupeStrings(files)
	analysis.AffectedComponents = dedupeComponents(components)
	analysis.BreakingChanges = a.detector.Detect(ch)
	analysis.Findings = breaking.ValidateDomains(ch)

	analysis.Score = a.calculator.ImpactScore(ch, analysis.AffectedFiles, analysis.AffectedComponents, g)
	analysis.Risk = risk.Assess(risk.Input{
		BreakingChanges:    analysis.BreakingChanges,
		AffectedFiles:      analysis.AffectedFiles,
		AffectedComponents: analysis.AffectedComponents,
		IsCritical:         a.project.IsCriticalFile,
		HasTestFile:        hasTestIn(g),
	})
	analysis.Radius = a.calculator.RippleRadius(ch, g)
	analysis.Propagation = a.calculator.PropagationSpeed(ch, g)
	analysis.RiskLevel = overallLevel(analysis.Score, analysis.BreakingChanges)
	analysis.Mitigations = mitigationsFor(ch, analysis.RiskLevel, len(analysis.BreakingChanges) > 0)

	a.logger.Debug("change analyzed", map[string]interface{}{
		"changeId":      ch.ID,
		"filePath":      ch.FilePath,
		"riskLevel":     string(analysis.RiskLevel),
		"affectedFiles": len(analysis.AffectedFiles),
		"degradations":  len(analysis.Degradations),
	})
	return analysis, nil
}

// overallLevel folds detected breaking changes into the impact score
// before mapping to a level, so a low-reach change that removes exported
// functions still rates as risky as it is.
func overallLevel(score *ripple.ImpactScore, changes []breaking.BreakingChange) risk.Level {
	total := score.Score
	for s, n := range breaking.CountBySeverity(changes) {
		switch s {
		case breaking.SeverityCritical:
			total += 5 * float64(n)
		case breaking.SeverityMajor:
			total += 3 * float64(n)
		case breaking.SeverityMinor:
			total += float64(n)
		}
	}
	return ripple.LevelFor(total)
}

func (a *Analyzer) degrade(analysis *Analysis, stage string, err error) {
	reason := "unknown"
	if err != nil {
		reason = err.Error()
	}
	analysis.Degradations = append(analysis.Degradations, Degradation{Stage: stage, Reason: reason})
	a.logger.Warn("analysis stage degraded", map[string]interface{}{
		"stage":  stage,
		"reason": reason,
	})
}

// scopedGraph builds the dependency graph around the changed file. Any
// failure, timeout included, yields an empty graph.
func (a *Analyzer) scopedGraph(ctx context.Context, ch *change.CodeChange, analysis *Analysis) *graph.DependencyGraph {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	g, err := a.source.AnalyzeDependencies(callCtx, ch.FilePath)
	if err != nil || g == nil {
		a.degrade(analysis, "dependency-graph", err)
		return graph.NewDependencyGraph()
	}
	return g
}

// directComponents extracts components from the change's own content: the
// old content for deletes, the new content otherwise. Extraction cannot
// produce a useful answer for empty or unparseable content, so the
// fallback is a single synthetic variable reference covering the file.
func (a *Analyzer) directComponents(ch *change.CodeChange, analysis *Analysis) []source.ComponentReference {
	content := ch.Content()
	if content == "" {
		a.degrade(analysis, "component-extraction", errors.Newf(errors.InternalError, "no content available for %s", ch.FilePath))
		return []source.ComponentReference{syntheticComponent(ch.FilePath)}
	}

	facts := source.FactsFromContent(content, ch.FilePath)
	components := facts.Components()
	if len(components) == 0 {
		return []source.ComponentReference{syntheticComponent(ch.FilePath)}
	}
	return components
}

// dependentReach walks one hop of dependents and gathers their components.
// A dependent whose file cannot be analyzed, or whose imports do not
// resolve back to the changed file, is still recorded with a synthetic
// component so ripple visibility is never silently dropped.
func (a *Analyzer) dependentReach(ctx context.Context, ch *change.CodeChange, g *graph.DependencyGraph, analysis *Analysis) ([]string, []source.ComponentReference) {
	var files []string
	var components []source.ComponentReference

	for _, dependent := range g.DependentsOf(g.ResolveID(ch.FilePath)) {
		files = append(files, dependent)

		facts, err := a.analyzeFile(ctx, dependent)
		if err != nil {
			a.degrade(analysis, "dependent-analysis", err)
			components = append(components, syntheticComponent(dependent))
			continue
		}

		if a.importsFile(facts, dependent, ch.FilePath) {
			components = append(components, facts.Components()...)
		} else {
			components = append(components, syntheticComponent(dependent))
		}
	}
	return files, components
}

func (a *Analyzer) analyzeFile(ctx context.Context, filePath string) (*source.FileFacts, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.source.AnalyzeFile(callCtx, filePath)
}

// importsFile reports whether any of the file's import specifiers resolve
// to the changed file by relative-path probing.
func (a *Analyzer) importsFile(facts *source.FileFacts, fromFile, target string) bool {
	exists := func(candidate string) bool {
		return samePath(candidate, target)
	}
	for _, specifier := range facts.Imports {
		if resolved, ok := a.resolver.Resolve(fromFile, specifier, exists); ok && samePath(resolved, target) {
			return true
		}
	}
	return false
}

func syntheticComponent(filePath string) source.ComponentReference {
	return source.ComponentReference{
		Type:     source.ComponentVariable,
		Name:     path.Base(filePath),
		FilePath: filePath,
		Line:     1,
		Column:   1,
	}
}

// hasTestIn reports test coverage from the scoped graph: a test file that
// imports the covered file shows up as one of its graph nodes.
func hasTestIn(g *graph.DependencyGraph) func(string) bool {
	return func(filePath string) bool {
		for _, candidate := range pathclass.TestCandidates(filePath) {
			if g.HasNode(g.ResolveID(candidate)) {
				return true
			}
		}
		return false
	}
}

func samePath(a, b string) bool {
	return strings.TrimPrefix(a, "/") == strings.TrimPrefix(b, "/")
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func dedupeComponents(in []source.ComponentReference) []source.ComponentReference {
	seen := make(map[string]bool, len(in))
	out := make([]source.ComponentReference, 0, len(in))
	for _, c := range in {
		if !seen[c.Key()] {
			seen[c.Key()] = true
			out = append(out, c)
		}
	}
	return out
}
