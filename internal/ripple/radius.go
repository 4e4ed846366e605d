package ripple

import (
	"sort"

	"guardrails/internal/change"
	"guardrails/internal/graph"
)

// Layer is one breadth-first ring of dependents around a changed file
type Layer struct {
	Depth      int      `json:"depth"`
	Files      []string `json:"files"`
	Components []string `json:"components,omitempty"`
}

// RippleRadius is the layered reach of one change through the graph
type RippleRadius struct {
	Radius int     `json:"radius"`
	Layers []Layer `json:"layers"`
}

// AffectedFiles flattens every layer, origin included, into one list
func (r *RippleRadius) AffectedFiles() []string {
	var out []string
	for _, layer := range r.Layers {
		out = append(out, layer.Files...)
	}
	return out
}

// RippleRadius walks "is depended upon by" edges breadth-first from the
// changed file. The visited set plus the depth cap guarantee termination
// on any graph, cycles included.
func (c *Calculator) RippleRadius(ch *change.CodeChange, g *graph.DependencyGraph) *RippleRadius {
	origin := g.ResolveID(ch.FilePath)
	visited := map[string]bool{origin: true}

	layers := []Layer{layerFor(0, []string{origin}, g)}
	frontier := []string{origin}

	for depth := 1; depth <= maxRippleDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, id := range frontier {
			for _, dep := range g.DependentsOf(id) {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				next = append(next, dep)
			}
		}
		if len(next) == 0 {
			break
		}
		sort.Strings(next)
		layers = append(layers, layerFor(depth, next, g))
		frontier = next
	}

	return &RippleRadius{
		Radius: layers[len(layers)-1].Depth,
		Layers: layers,
	}
}

func layerFor(depth int, files []string, g *graph.DependencyGraph) Layer {
	var components []string
	for _, f := range files {
		if node, ok := g.Nodes[f]; ok {
			components = append(components, node.Components...)
		}
	}
	return Layer{Depth: depth, Files: files, Components: components}
}

// BlastRadius relates several simultaneous changes through their ripple sets
type BlastRadius struct {
	OverlappingAreas      []string `json:"overlappingAreas"`
	InterconnectedChanges []string `json:"interconnectedChanges"` // Change IDs
	IsolatedChanges       []string `json:"isolatedChanges"`       // Change IDs
}

// BlastRadius computes each change's ripple set independently, then marks
// files reached by more than one change as overlapping areas and splits
// the changes into interconnected and isolated.
func (c *Calculator) BlastRadius(changes []change.CodeChange, g *graph.DependencyGraph) *BlastRadius {
	sets := make([]map[string]bool, len(changes))
	touched := make(map[string]int)
	for i := range changes {
		radius := c.RippleRadius(&changes[i], g)
		set := make(map[string]bool)
		for _, f := range radius.AffectedFiles() {
			if !set[f] {
				set[f] = true
				touched[f]++
			}
		}
		sets[i] = set
	}

	var overlapping []string
	for f, n := range touched {
		if n > 1 {
			overlapping = append(overlapping, f)
		}
	}
	sort.Strings(overlapping)

	result := &BlastRadius{OverlappingAreas: overlapping}
	for i := range changes {
		if sharesFile(sets[i], overlapping) {
			result.InterconnectedChanges = append(result.InterconnectedChanges, changes[i].ID)
		} else {
			result.IsolatedChanges = append(result.IsolatedChanges, changes[i].ID)
		}
	}
	return result
}

func sharesFile(set map[string]bool, overlapping []string) bool {
	for _, f := range overlapping {
		if set[f] {
			return true
		}
	}
	return false
}
