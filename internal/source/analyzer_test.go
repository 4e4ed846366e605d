package source

import (
	"context"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"src/api/tabs.ts": &fstest.MapFile{Data: []byte(
			"import { openTab } from '../services/tabs';\n" +
				"export function handleOpen(req: Request) { return openTab(req.tableId, 2); }\n")},
		"src/services/tabs.ts": &fstest.MapFile{Data: []byte(
			"import { supabase } from '../lib/supabase';\n" +
				"export function openTab(tableId: string, guests: number) {}\n" +
				"export type TabStatus = 'open' | 'closed';\n")},
		"src/lib/supabase.ts": &fstest.MapFile{Data: []byte(
			"export const supabase = createClient();\n")},
		"src/pages/Menu.tsx": &fstest.MapFile{Data: []byte(
			"import { openTab } from '../services/tabs';\n" +
				"export function MenuPage() {}\n")},
		"node_modules/react/index.js": &fstest.MapFile{Data: []byte("module.exports = {};\n")},
	}
}

func TestAnalyzeFile(t *testing.T) {
	a := NewRegexAnalyzerFS(testFS(), "", nil)

	facts, err := a.AnalyzeFile(context.Background(), "src/services/tabs.ts")
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if len(facts.Functions) != 1 || facts.Functions[0].Name != "openTab" {
		t.Errorf("functions = %v", facts.Functions)
	}
	if len(facts.Types) != 1 || facts.Types[0].Name != "TabStatus" {
		t.Errorf("types = %v", facts.Types)
	}
	if len(facts.Imports) != 1 || facts.Imports[0] != "../lib/supabase" {
		t.Errorf("imports = %v", facts.Imports)
	}
}

func TestAnalyzeFileMissing(t *testing.T) {
	a := NewRegexAnalyzerFS(testFS(), "", nil)
	if _, err := a.AnalyzeFile(context.Background(), "src/nope.ts"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAnalyzeDependenciesScopedGraph(t *testing.T) {
	a := NewRegexAnalyzerFS(testFS(), "", nil)

	g, err := a.AnalyzeDependencies(context.Background(), "src/services/tabs.ts")
	if err != nil {
		t.Fatalf("AnalyzeDependencies: %v", err)
	}

	dependents := g.DependentsOf("src/services/tabs.ts")
	if len(dependents) != 2 {
		t.Fatalf("dependents = %v, want api/tabs.ts and pages/Menu.tsx", dependents)
	}

	deps := g.DependenciesOf("src/services/tabs.ts")
	if len(deps) != 1 || deps[0] != "src/lib/supabase.ts" {
		t.Errorf("dependencies = %v, want [src/lib/supabase.ts]", deps)
	}

	// Scoped graph must not contain edges between unrelated files
	for _, e := range g.Edges {
		if e.From != "src/services/tabs.ts" && e.To != "src/services/tabs.ts" {
			t.Errorf("edge %v does not touch the target file", e)
		}
	}
}

func TestAnalyzeDependenciesCancelled(t *testing.T) {
	a := NewRegexAnalyzerFS(testFS(), "", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.AnalyzeDependencies(ctx, "src/services/tabs.ts"); err == nil {
		t.Error("expected context cancellation error")
	}
}

func TestNodeWeight(t *testing.T) {
	tests := []struct {
		path string
		want float64
	}{
		{"src/models/tab.ts", 0.9},
		{"src/api/tabs.ts", 0.8},
		{"src/app.config.ts", 0.6},
		{"src/utils/format.ts", 0.4},
	}
	for _, tt := range tests {
		if got := nodeWeight(tt.path); got != tt.want {
			t.Errorf("nodeWeight(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSetScanLimitsIgnoreDirs(t *testing.T) {
	fsys := testFS()
	fsys["vendor/lib/dep.ts"] = &fstest.MapFile{Data: []byte(
		"import { openTab } from '../../src/services/tabs';\nexport function vendored() {}\n")}

	a := NewRegexAnalyzerFS(fsys, "", nil)
	g, err := a.AnalyzeDependencies(context.Background(), "src/services/tabs.ts")
	if err != nil {
		t.Fatalf("AnalyzeDependencies: %v", err)
	}
	if !g.HasNode("vendor/lib/dep.ts") {
		t.Fatal("vendor dependent missing before override")
	}

	a = NewRegexAnalyzerFS(fsys, "", nil)
	a.SetScanLimits(0, []string{"vendor", "node_modules"})
	g, err = a.AnalyzeDependencies(context.Background(), "src/services/tabs.ts")
	if err != nil {
		t.Fatalf("AnalyzeDependencies: %v", err)
	}
	if g.HasNode("vendor/lib/dep.ts") {
		t.Error("vendor dir still scanned after being ignored")
	}
}

func TestSetScanLimitsMaxFiles(t *testing.T) {
	a := NewRegexAnalyzerFS(testFS(), "", nil)
	a.SetScanLimits(1, nil)

	g, err := a.AnalyzeDependencies(context.Background(), "src/api/tabs.ts")
	if err != nil {
		t.Fatalf("AnalyzeDependencies: %v", err)
	}
	// Only one file is scanned, so no dependent edges can be discovered.
	if got := g.DependentsOf("src/api/tabs.ts"); len(got) != 0 {
		t.Errorf("dependents = %v, want none under a one-file scan cap", got)
	}
}
