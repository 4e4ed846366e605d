package ripple

import (
	"fmt"
	"testing"

	"guardrails/internal/change"
	"guardrails/internal/graph"
	"guardrails/internal/risk"
	"guardrails/internal/source"
)

func edge(from, to string) graph.Edge {
	return graph.Edge{From: from, To: to, Type: graph.EdgeImport, Weight: 0.5}
}

func TestImpactScoreCreateWithNoReachIsLow(t *testing.T) {
	calc := NewCalculator(nil)
	ch := &change.CodeChange{ID: "c1", Type: change.Create, FilePath: "/src/util/new.ts"}

	score := calc.ImpactScore(ch, []string{ch.FilePath}, nil, graph.NewDependencyGraph())

	if score.Score != 1 {
		t.Errorf("score = %.1f, want 1 (create base only)", score.Score)
	}
	if score.Level != risk.Low {
		t.Errorf("level = %s, want %s", score.Level, risk.Low)
	}
	if len(score.Factors) != 6 {
		t.Errorf("got %d factors, want 6", len(score.Factors))
	}
}

func TestImpactScoreDeleteOfAPIFileIsAtLeastHigh(t *testing.T) {
	g := graph.NewDependencyGraph()
	for _, from := range []string{"/src/a.ts", "/src/b.ts", "/src/c.ts", "/src/d.ts"} {
		g.AddEdge(edge(from, "/src/api/tabs.ts"))
	}

	calc := NewCalculator(nil)
	ch := &change.CodeChange{ID: "c1", Type: change.Delete, FilePath: "/src/api/tabs.ts"}
	affected := []string{"/src/api/tabs.ts", "/src/a.ts", "/src/b.ts", "/src/c.ts", "/src/d.ts", "/src/e.ts", "/src/f.ts"}

	score := calc.ImpactScore(ch, affected, nil, g)

	// delete 8 + 7 files 4 + api 4 + depth 4*0.3 = 17.2
	if !score.Level.AtLeast(risk.High) {
		t.Errorf("level = %s (score %.1f), want at least %s", score.Level, score.Score, risk.High)
	}
}

func TestImpactScoreComponentComplexityCapped(t *testing.T) {
	comps := make([]source.ComponentReference, 10)
	for i := range comps {
		comps[i] = source.ComponentReference{Type: source.ComponentClass, Name: "C"}
	}

	score := NewCalculator(nil).ImpactScore(
		&change.CodeChange{ID: "c1", Type: change.Modify, FilePath: "/src/x.ts"},
		[]string{"/src/x.ts"}, comps, graph.NewDependencyGraph())

	var got float64
	for _, f := range score.Factors {
		if f.Name == "component-complexity" {
			got = f.Score
		}
	}
	// 10 classes: 0.5*10 + 1.5*10 = 20, capped at 8.
	if got != 8 {
		t.Errorf("component factor = %.1f, want 8 (capped)", got)
	}
}

func TestImpactScoreCriticalInvolvement(t *testing.T) {
	critical := func(path string) bool { return path == "/src/payment/charge.ts" }
	calc := NewCalculator(critical)

	ch := &change.CodeChange{ID: "c1", Type: change.Modify, FilePath: "/src/payment/charge.ts"}
	score := calc.ImpactScore(ch, []string{ch.FilePath}, nil, graph.NewDependencyGraph())

	var got float64
	for _, f := range score.Factors {
		if f.Name == "critical-involvement" {
			got = f.Score
		}
	}
	if got != 5 {
		t.Errorf("critical factor = %.1f, want 5 for a critical changed file", got)
	}
}

func TestRippleRadiusLayersDependents(t *testing.T) {
	// c depends on b depends on a: change to a ripples out two layers.
	g := graph.NewDependencyGraph()
	g.AddEdge(edge("/src/b.ts", "/src/a.ts"))
	g.AddEdge(edge("/src/c.ts", "/src/b.ts"))

	ch := &change.CodeChange{ID: "c1", Type: change.Modify, FilePath: "/src/a.ts"}
	radius := NewCalculator(nil).RippleRadius(ch, g)

	if radius.Radius != 2 {
		t.Fatalf("radius = %d, want 2", radius.Radius)
	}
	if got := radius.Layers[1].Files; len(got) != 1 || got[0] != "/src/b.ts" {
		t.Errorf("layer 1 = %v, want [/src/b.ts]", got)
	}
	if got := radius.Layers[2].Files; len(got) != 1 || got[0] != "/src/c.ts" {
		t.Errorf("layer 2 = %v, want [/src/c.ts]", got)
	}
}

func TestRippleRadiusTerminatesOnCycle(t *testing.T) {
	g := graph.NewDependencyGraph()
	g.AddEdge(edge("/src/a.ts", "/src/b.ts"))
	g.AddEdge(edge("/src/b.ts", "/src/a.ts"))

	ch := &change.CodeChange{ID: "c1", Type: change.Modify, FilePath: "/src/a.ts"}
	radius := NewCalculator(nil).RippleRadius(ch, g)

	if radius.Radius > maxRippleDepth {
		t.Errorf("radius = %d, want <= %d", radius.Radius, maxRippleDepth)
	}
	total := len(radius.AffectedFiles())
	if total != 2 {
		t.Errorf("affected files = %d, want 2 (visited set must dedupe the cycle)", total)
	}
}

func TestRippleRadiusDepthCap(t *testing.T) {
	// A ten-deep chain must stop at the cap.
	g := graph.NewDependencyGraph()
	files := []string{"/src/f0.ts", "/src/f1.ts", "/src/f2.ts", "/src/f3.ts", "/src/f4.ts",
		"/src/f5.ts", "/src/f6.ts", "/src/f7.ts", "/src/f8.ts", "/src/f9.ts"}
	for i := 1; i < len(files); i++ {
		g.AddEdge(edge(files[i], files[i-1]))
	}

	ch := &change.CodeChange{ID: "c1", Type: change.Modify, FilePath: files[0]}
	radius := NewCalculator(nil).RippleRadius(ch, g)

	if radius.Radius != maxRippleDepth {
		t.Errorf("radius = %d, want %d", radius.Radius, maxRippleDepth)
	}
	if got := len(radius.AffectedFiles()); got != maxRippleDepth+1 {
		t.Errorf("affected files = %d, want %d", got, maxRippleDepth+1)
	}
}

func TestBlastRadiusSharedFileInterconnects(t *testing.T) {
	// Both a and b are imported by shared.ts.
	g := graph.NewDependencyGraph()
	g.AddEdge(edge("/src/shared.ts", "/src/a.ts"))
	g.AddEdge(edge("/src/shared.ts", "/src/b.ts"))

	changes := []change.CodeChange{
		{ID: "c1", Type: change.Modify, FilePath: "/src/a.ts"},
		{ID: "c2", Type: change.Modify, FilePath: "/src/b.ts"},
	}

	blast := NewCalculator(nil).BlastRadius(changes, g)

	if len(blast.OverlappingAreas) != 1 || blast.OverlappingAreas[0] != "/src/shared.ts" {
		t.Errorf("overlapping = %v, want [/src/shared.ts]", blast.OverlappingAreas)
	}
	if len(blast.InterconnectedChanges) != 2 {
		t.Errorf("interconnected = %v, want both change IDs", blast.InterconnectedChanges)
	}
	if len(blast.IsolatedChanges) != 0 {
		t.Errorf("isolated = %v, want none", blast.IsolatedChanges)
	}
}

func TestBlastRadiusDisjointChangesAreIsolated(t *testing.T) {
	g := graph.NewDependencyGraph()
	g.AddEdge(edge("/src/x.ts", "/src/a.ts"))
	g.AddEdge(edge("/src/y.ts", "/src/b.ts"))

	changes := []change.CodeChange{
		{ID: "c1", Type: change.Modify, FilePath: "/src/a.ts"},
		{ID: "c2", Type: change.Modify, FilePath: "/src/b.ts"},
	}

	blast := NewCalculator(nil).BlastRadius(changes, g)

	if len(blast.OverlappingAreas) != 0 {
		t.Errorf("overlapping = %v, want none", blast.OverlappingAreas)
	}
	if len(blast.IsolatedChanges) != 2 {
		t.Errorf("isolated = %v, want both change IDs", blast.IsolatedChanges)
	}
}

func TestPropagationSpeed(t *testing.T) {
	tests := []struct {
		name        string
		ch          change.CodeChange
		dependents  int
		isCritical  bool
		wantLevel   SpeedLevel
		wantMinutes float64
	}{
		{
			name:        "create in a quiet corner",
			ch:          change.CodeChange{ID: "c1", Type: change.Create, FilePath: "/src/util/new.ts"},
			wantLevel:   SpeedSlow,
			wantMinutes: 1,
		},
		{
			name:        "modify a plain file",
			ch:          change.CodeChange{ID: "c1", Type: change.Modify, FilePath: "/src/util/fmt.ts"},
			wantLevel:   SpeedSlow,
			wantMinutes: 2,
		},
		{
			name:        "delete a database migration",
			ch:          change.CodeChange{ID: "c1", Type: change.Delete, FilePath: "/src/migrations/001_init.sql"},
			wantLevel:   SpeedImmediate,
			wantMinutes: 20,
		},
		{
			name:        "modify an API file with many dependents",
			ch:          change.CodeChange{ID: "c1", Type: change.Modify, FilePath: "/src/api/tabs.ts"},
			dependents:  12,
			wantLevel:   SpeedFast,
			wantMinutes: 2 + 10 + 6, // base + api + 0.5*12
		},
		{
			name:        "move a critical config file",
			ch:          change.CodeChange{ID: "c1", Type: change.Move, FilePath: "/src/app.config.ts"},
			isCritical:  true,
			wantLevel:   SpeedImmediate,
			wantMinutes: 3 + 5 + 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.NewDependencyGraph()
			for i := 0; i < tt.dependents; i++ {
				g.AddEdge(edge(fmt.Sprintf("/src/dep%d.ts", i), tt.ch.FilePath))
			}
			var pred func(string) bool
			if tt.isCritical {
				pred = func(string) bool { return true }
			}

			speed := NewCalculator(pred).PropagationSpeed(&tt.ch, g)

			if speed.Level != tt.wantLevel {
				t.Errorf("level = %s, want %s", speed.Level, tt.wantLevel)
			}
			if speed.EstimatedMinutes != tt.wantMinutes {
				t.Errorf("minutes = %.1f, want %.1f", speed.EstimatedMinutes, tt.wantMinutes)
			}
		})
	}
}

func TestRippleRadiusResolvesRootRelativeNodeIDs(t *testing.T) {
	// Graphs built from a project scan carry root-relative node IDs while
	// change paths keep their leading slash.
	g := graph.NewDependencyGraph()
	g.AddEdge(edge("src/caller.ts", "src/lib.ts"))

	calc := NewCalculator(nil)
	radius := calc.RippleRadius(&change.CodeChange{ID: "c1", Type: change.Modify, FilePath: "/src/lib.ts"}, g)

	if radius.Radius != 1 {
		t.Fatalf("radius = %d, want 1 (dependent reachable through trimmed ID)", radius.Radius)
	}
	if got := radius.Layers[1].Files; len(got) != 1 || got[0] != "src/caller.ts" {
		t.Errorf("layer 1 = %v, want [src/caller.ts]", got)
	}
}

func TestBlastRadiusResolvesRootRelativeNodeIDs(t *testing.T) {
	g := graph.NewDependencyGraph()
	g.AddEdge(edge("src/shared.ts", "src/a.ts"))
	g.AddEdge(edge("src/shared.ts", "src/b.ts"))

	changes := []change.CodeChange{
		{ID: "c1", Type: change.Modify, FilePath: "/src/a.ts"},
		{ID: "c2", Type: change.Modify, FilePath: "/src/b.ts"},
	}
	blast := NewCalculator(nil).BlastRadius(changes, g)

	if len(blast.OverlappingAreas) != 1 || blast.OverlappingAreas[0] != "src/shared.ts" {
		t.Errorf("overlapping = %v, want [src/shared.ts]", blast.OverlappingAreas)
	}
	if len(blast.InterconnectedChanges) != 2 {
		t.Errorf("interconnected = %v, want both changes", blast.InterconnectedChanges)
	}
}

func TestPropagationSpeedCountsDependentsThroughResolvedID(t *testing.T) {
	g := graph.NewDependencyGraph()
	for i := 0; i < 12; i++ {
		g.AddEdge(edge(fmt.Sprintf("src/dep%d.ts", i), "src/util/core.ts"))
	}

	speed := NewCalculator(nil).PropagationSpeed(
		&change.CodeChange{ID: "c1", Type: change.Create, FilePath: "/src/util/core.ts"}, g)

	// create 1 min + 0.5*12 for the dependent fan-out
	if speed.EstimatedMinutes != 7 {
		t.Errorf("minutes = %.1f, want 7", speed.EstimatedMinutes)
	}
	if speed.Score != 2 {
		t.Errorf("score = %.1f, want 2", speed.Score)
	}
}
