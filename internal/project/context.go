// Package project defines the project context supplied once at
// initialization: which files and components the business considers
// critical. Read-only after loading.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"guardrails/internal/source"
)

// ContextFile is the default declaration filename at the project root
const ContextFile = ".guardrails.toml"

// Context describes the project under analysis
type Context struct {
	RootPath            string                      `toml:"root_path" yaml:"rootPath" json:"rootPath"`
	CriticalFiles       []string                    `toml:"critical_files" yaml:"criticalFiles" json:"criticalFiles"`
	ProtectedComponents []source.ComponentReference `toml:"-" yaml:"-" json:"protectedComponents"`
	BusinessLogicPaths  []string                    `toml:"business_logic_paths" yaml:"businessLogicPaths" json:"businessLogicPaths"`

	// Protected mirrors ProtectedComponents in declaration files, which
	// only need the name and path.
	Protected []ProtectedDeclaration `toml:"protected" yaml:"protected" json:"-"`
}

// ProtectedDeclaration names a component that must not change silently
type ProtectedDeclaration struct {
	Name string `toml:"name" yaml:"name"`
	Path string `toml:"path" yaml:"path"`
}

// Load reads a context declaration from a .toml, .yaml, or .yml file
func Load(filePath string) (*Context, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading project context: %w", err)
	}

	var ctx Context
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		if err := toml.Unmarshal(data, &ctx); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filePath, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ctx); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filePath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported context format: %s", filepath.Ext(filePath))
	}

	if ctx.RootPath == "" {
		ctx.RootPath = filepath.Dir(filePath)
	}
	for _, p := range ctx.Protected {
		ctx.ProtectedComponents = append(ctx.ProtectedComponents, source.ComponentReference{
			Type:     source.ComponentFunction,
			Name:     p.Name,
			FilePath: p.Path,
		})
	}
	return &ctx, nil
}

// IsCriticalFile reports whether the path is flagged critical: listed in
// CriticalFiles, matching a protected component's path, or containing a
// business-logic path substring.
func (c *Context) IsCriticalFile(filePath string) bool {
	for _, f := range c.CriticalFiles {
		if f == filePath {
			return true
		}
	}
	for _, p := range c.ProtectedComponents {
		if p.FilePath == filePath {
			return true
		}
	}
	for _, sub := range c.BusinessLogicPaths {
		if sub != "" && strings.Contains(filePath, sub) {
			return true
		}
	}
	return false
}
