// Package graph defines the dependency graph produced by source analysis
// and consumed by the impact pipeline. A graph is a snapshot: the engine
// never mutates one after it has been built.
package graph

import "strings"

// NodeType represents what a graph node stands for
type NodeType string

const (
	NodeFile    NodeType = "file"
	NodePackage NodeType = "package"
)

// EdgeType represents the relationship an edge encodes
type EdgeType string

const (
	EdgeImport        EdgeType = "import"
	EdgeCall          EdgeType = "call"
	EdgeTypeReference EdgeType = "type-reference"
	EdgeInheritance   EdgeType = "inheritance"
)

// Node is a single file or package in the dependency graph
type Node struct {
	ID         string   `json:"id"`   // File path
	Type       NodeType `json:"type"` // file or package
	Weight     float64  `json:"weight"`
	Components []string `json:"components,omitempty"` // Exported component names
}

// Edge is a directed dependency: From depends on To
type Edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Type   EdgeType `json:"type"`
	Weight float64  `json:"weight"`
}

// DependencyGraph is the project-wide (or file-scoped) dependency snapshot
type DependencyGraph struct {
	Nodes         map[string]*Node `json:"nodes"`
	Edges         []Edge           `json:"edges"`
	Cycles        [][]string       `json:"cycles,omitempty"`
	CriticalPaths [][]string       `json:"criticalPaths,omitempty"`
}

// NewDependencyGraph creates an empty graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes: make(map[string]*Node),
		Edges: make([]Edge, 0),
	}
}

// AddNode inserts or replaces a node
func (g *DependencyGraph) AddNode(node *Node) {
	g.Nodes[node.ID] = node
}

// AddEdge appends a directed edge. Endpoints that are not yet nodes are
// created as zero-weight file nodes so traversal never dead-ends.
func (g *DependencyGraph) AddEdge(edge Edge) {
	if _, ok := g.Nodes[edge.From]; !ok {
		g.Nodes[edge.From] = &Node{ID: edge.From, Type: NodeFile}
	}
	if _, ok := g.Nodes[edge.To]; !ok {
		g.Nodes[edge.To] = &Node{ID: edge.To, Type: NodeFile}
	}
	g.Edges = append(g.Edges, edge)
}

// ResolveID maps a file path onto this graph's node ID space. Analysis
// builds graphs with root-relative IDs while change paths usually carry
// a leading slash; the trimmed form is tried when the path as given is
// not a node.
func (g *DependencyGraph) ResolveID(filePath string) string {
	if g.HasNode(filePath) {
		return filePath
	}
	trimmed := strings.TrimPrefix(filePath, "/")
	if g.HasNode(trimmed) {
		return trimmed
	}
	return filePath
}

// DependentsOf returns the IDs of nodes whose edges point to the given
// node, i.e. the files that would feel a change to it.
func (g *DependencyGraph) DependentsOf(id string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if e.To == id && !seen[e.From] {
			seen[e.From] = true
			out = append(out, e.From)
		}
	}
	return out
}

// DependenciesOf returns the IDs of nodes the given node points to
func (g *DependencyGraph) DependenciesOf(id string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if e.From == id && !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

// HasNode reports whether the graph contains the given node ID
func (g *DependencyGraph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// NodeCount returns the number of nodes
func (g *DependencyGraph) NodeCount() int {
	return len(g.Nodes)
}

// DetectCycles finds simple cycles via DFS and records them on the graph.
// Each cycle is reported once, starting at its entry node.
func (g *DependencyGraph) DetectCycles() {
	adj := make(map[string][]string)
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[string]int)
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stack = append(stack, id)
		for _, next := range adj[id] {
			switch color[next] {
			case white:
				visit(next)
			case grey:
				// Back edge closes a cycle: slice it off the stack
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle := make([]string, len(stack)-i)
						copy(cycle, stack[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for id := range g.Nodes {
		if color[id] == white {
			visit(id)
		}
	}
	g.Cycles = cycles
}
