package source

import (
	"context"

	"guardrails/internal/graph"
)

// ComponentType represents the kind of a named unit inside a file
type ComponentType string

const (
	ComponentFunction    ComponentType = "function"
	ComponentClass       ComponentType = "class"
	ComponentInterface   ComponentType = "interface"
	ComponentTypeAlias   ComponentType = "type"
	ComponentVariable    ComponentType = "variable"
	ComponentAPIEndpoint ComponentType = "api-endpoint"
)

// ComponentReference is a named unit inside a file: a function, class,
// interface, type alias, variable, or API endpoint.
type ComponentReference struct {
	Type         ComponentType `json:"type"`
	Name         string        `json:"name"`
	FilePath     string        `json:"filePath"`
	Line         int           `json:"line"`
	Column       int           `json:"column"`
	Signature    string        `json:"signature,omitempty"`
	Dependencies []string      `json:"dependencies,omitempty"`
}

// Key returns the deduplication key for a component
func (c ComponentReference) Key() string {
	return c.Name + "|" + c.FilePath
}

// FileFacts holds everything extraction learned about one file
type FileFacts struct {
	FilePath  string               `json:"filePath"`
	Functions []ComponentReference `json:"functions"`
	Types     []ComponentReference `json:"types"`
	Imports   []string             `json:"imports"`
}

// Components returns all components in the file, functions first
func (f *FileFacts) Components() []ComponentReference {
	out := make([]ComponentReference, 0, len(f.Functions)+len(f.Types))
	out = append(out, f.Functions...)
	out = append(out, f.Types...)
	return out
}

// Analyzer is the source analysis capability the engine consumes.
// Both calls may touch the filesystem and may fail; the engine treats
// every failure as recoverable and degrades instead of aborting.
type Analyzer interface {
	// AnalyzeFile extracts per-file facts: functions, types, imports
	AnalyzeFile(ctx context.Context, path string) (*FileFacts, error)

	// AnalyzeDependencies builds a dependency graph scoped to the given file
	AnalyzeDependencies(ctx context.Context, path string) (*graph.DependencyGraph, error)
}
