// Package render serializes impact maps for visualization. The color and
// shape assignments are plain lookup tables so presentation tweaks never
// touch control flow.
package render

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"guardrails/internal/impact"
	"guardrails/internal/risk"
)

// riskColors maps a node's risk level to its fill color
var riskColors = map[risk.Level]string{
	risk.Low:      "#4caf50",
	risk.Medium:   "#ffc107",
	risk.High:     "#ff7043",
	risk.Critical: "#e53935",
}

// impactShapes maps a node's impact level to its DOT shape
var impactShapes = map[impact.Level]string{
	impact.LevelDirect:   "box",
	impact.LevelIndirect: "ellipse",
}

// edgeStyles maps connection strength bands to DOT edge styles
var edgeStyles = []struct {
	minStrength float64
	style       string
}{
	{0.9, "bold"},
	{0.8, "solid"},
	{0.0, "dashed"},
}

// DOT renders an impact map as a Graphviz digraph
func DOT(m *impact.Map) string {
	var b strings.Builder
	b.WriteString("digraph impact {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [style=filled, fontname=\"Helvetica\"];\n\n")

	nodes := make([]impact.Node, len(m.Nodes))
	copy(nodes, m.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, node := range nodes {
		fmt.Fprintf(&b, "  %q [label=%q, shape=%s, fillcolor=%q];\n",
			node.ID, node.Name, shapeFor(node.Impact), colorFor(node.RiskLevel))
	}
	b.WriteString("\n")

	for _, conn := range m.Connections {
		attrs := fmt.Sprintf("style=%s, penwidth=%.1f", styleFor(conn.Strength), 1+2*conn.Strength)
		if conn.Bidirectional {
			attrs += ", dir=both"
		}
		fmt.Fprintf(&b, "  %q -> %q [%s];\n", conn.From, conn.To, attrs)
	}

	b.WriteString("}\n")
	return b.String()
}

// JSON renders an impact map as indented JSON for downstream tooling
func JSON(m *impact.Map) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

func colorFor(level risk.Level) string {
	if c, ok := riskColors[level]; ok {
		return c
	}
	return riskColors[risk.Low]
}

func shapeFor(level impact.Level) string {
	if s, ok := impactShapes[level]; ok {
		return s
	}
	return impactShapes[impact.LevelIndirect]
}

func styleFor(strength float64) string {
	for _, band := range edgeStyles {
		if strength >= band.minStrength {
			return band.style
		}
	}
	return "dashed"
}
