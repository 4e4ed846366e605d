package source

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"guardrails/internal/graph"
	"guardrails/internal/logging"
	"guardrails/internal/pathclass"
)

// sourceExtensions are the file types the analyzer will scan
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// defaultSkipDirs are directory names never descended into during a
// project scan unless the caller overrides them.
var defaultSkipDirs = []string{"node_modules", ".git", "dist", "build", "coverage"}

// RegexAnalyzer implements the Analyzer capability with regex extraction
// over a file tree. An injectable FS keeps tests hermetic.
type RegexAnalyzer struct {
	root     fs.FS
	rootPath string
	resolver pathclass.ImportResolver
	logger   *logging.Logger
	maxFiles int
	skipDirs map[string]bool
}

// NewRegexAnalyzer creates an analyzer rooted at rootPath on the OS filesystem
func NewRegexAnalyzer(rootPath string, logger *logging.Logger) *RegexAnalyzer {
	return NewRegexAnalyzerFS(os.DirFS(rootPath), rootPath, logger)
}

// NewRegexAnalyzerFS creates an analyzer over an arbitrary fs.FS.
// rootPath is only used to relativize incoming absolute paths.
func NewRegexAnalyzerFS(fsys fs.FS, rootPath string, logger *logging.Logger) *RegexAnalyzer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &RegexAnalyzer{
		root:     fsys,
		rootPath: rootPath,
		resolver: pathclass.RelativeResolver{},
		logger:   logger,
		maxFiles: 5000,
		skipDirs: dirSet(defaultSkipDirs),
	}
}

// SetScanLimits overrides the project-scan bounds. Zero or negative
// maxFiles keeps the current cap; an empty ignoreDirs keeps the defaults.
func (a *RegexAnalyzer) SetScanLimits(maxFiles int, ignoreDirs []string) {
	if maxFiles > 0 {
		a.maxFiles = maxFiles
	}
	if len(ignoreDirs) > 0 {
		a.skipDirs = dirSet(ignoreDirs)
	}
}

func dirSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// AnalyzeFile extracts functions, types, and imports from one file
func (a *RegexAnalyzer) AnalyzeFile(ctx context.Context, filePath string) (*FileFacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := a.readFile(filePath)
	if err != nil {
		return nil, err
	}
	return FactsFromContent(content, filePath), nil
}

// AnalyzeDependencies builds a dependency graph scoped to the given file:
// the file itself, everything it imports, and everything that imports it.
// Only relative imports are resolved; package imports stay unresolved.
func (a *RegexAnalyzer) AnalyzeDependencies(ctx context.Context, filePath string) (*graph.DependencyGraph, error) {
	files, err := a.listSourceFiles(ctx)
	if err != nil {
		return nil, err
	}

	fileSet := make(map[string]bool, len(files))
	for _, f := range files {
		fileSet[f] = true
	}
	exists := func(p string) bool { return fileSet[strings.TrimPrefix(p, "/")] || fileSet[p] }

	g := graph.NewDependencyGraph()
	target := a.relativize(filePath)
	g.AddNode(&graph.Node{ID: target, Type: graph.NodeFile, Weight: nodeWeight(target)})

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := a.readFile(f)
		if err != nil {
			a.logger.Debug("skipping unreadable file", map[string]interface{}{
				"file": f, "error": err.Error(),
			})
			continue
		}

		for _, spec := range ExtractImports(content) {
			resolved, ok := a.resolver.Resolve(f, spec, exists)
			if !ok {
				continue
			}
			resolved = strings.TrimPrefix(resolved, "/")
			if f != target && resolved != target {
				continue // Scoped graph: only edges touching the target file
			}
			if _, present := g.Nodes[f]; !present {
				g.AddNode(&graph.Node{ID: f, Type: graph.NodeFile, Weight: nodeWeight(f)})
			}
			g.AddEdge(graph.Edge{From: f, To: resolved, Type: graph.EdgeImport, Weight: 1.0})
		}
	}

	g.DetectCycles()
	return g, nil
}

func (a *RegexAnalyzer) readFile(filePath string) (string, error) {
	data, err := fs.ReadFile(a.root, a.relativize(filePath))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// relativize maps absolute and slash-rooted paths into the fs.FS namespace
func (a *RegexAnalyzer) relativize(p string) string {
	p = filepath.ToSlash(p)
	if a.rootPath != "" {
		if rel, err := filepath.Rel(filepath.ToSlash(a.rootPath), p); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return strings.TrimPrefix(p, "/")
}

func (a *RegexAnalyzer) listSourceFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := fs.WalkDir(a.root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Unreadable subtree: keep walking
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			if a.skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if sourceExtensions[path.Ext(p)] {
			files = append(files, p)
		}
		if len(files) >= a.maxFiles {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// nodeWeight is a coarse importance proxy derived from path classification
func nodeWeight(filePath string) float64 {
	switch {
	case pathclass.IsDatabaseFile(filePath):
		return 0.9
	case pathclass.IsAPIFile(filePath):
		return 0.8
	case pathclass.IsConfigurationFile(filePath):
		return 0.6
	default:
		return 0.4
	}
}
