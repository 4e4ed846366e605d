package impact

import (
	"context"
	"path"
	"sort"

	"golang.org/x/sync/errgroup"

	"guardrails/internal/breaking"
	"guardrails/internal/change"
	"guardrails/internal/errors"
	"guardrails/internal/graph"
	"guardrails/internal/pathclass"
	"guardrails/internal/risk"
)

// mapAnalysisConcurrency is the default parallel fan-out in BuildMap.
// Each AnalyzeChange call is read-only over shared inputs, so independent
// changes can run side by side.
const mapAnalysisConcurrency = 4

// BuildMap analyzes every change and merges the results into one map:
// one node per unique affected file, connections from each changed file
// to its affected set, and an aggregate risk assessment over the batch.
func (a *Analyzer) BuildMap(ctx context.Context, changes []change.CodeChange) (*Map, error) {
	if !a.initialized() {
		return nil, errors.Newf(errors.NotInitialized, "analyzer must be initialized before building an impact map")
	}

	analyses := make([]*Analysis, len(changes))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.concurrency)
	for i := range changes {
		i := i
		group.Go(func() error {
			analysis, err := a.AnalyzeChange(groupCtx, &changes[i])
			if err != nil {
				return err
			}
			analyses[i] = analysis
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	nodes := a.mergeNodes(changes, analyses)
	connections := a.deriveConnections(analyses)
	signals := a.batchSignals(changes, analyses, nodes, connections)

	breakingTotal := 0
	for _, n := range signals.BreakingBySeverity {
		breakingTotal += n
	}

	return &Map{
		Changes:        changes,
		Nodes:          nodes,
		Connections:    connections,
		RiskAssessment: risk.AssessOverall(signals),
		BlastRadius:    a.calculator.BlastRadius(changes, mergeGraphs(analyses)),
		Deployment:     risk.AssessDeployment(changes, breakingTotal, signals),
		SemverAdvice:   breaking.SemverAdvice(signals.BreakingBySeverity),
	}, nil
}

// mergeGraphs folds every analysis's scoped graph into one batch graph so
// blast-radius walks can cross change boundaries.
func mergeGraphs(analyses []*Analysis) *graph.DependencyGraph {
	merged := graph.NewDependencyGraph()
	seen := make(map[string]bool)
	for _, analysis := range analyses {
		if analysis.graph == nil {
			continue
		}
		for _, node := range analysis.graph.Nodes {
			if _, ok := merged.Nodes[node.ID]; !ok {
				merged.AddNode(node)
			}
		}
		for _, edge := range analysis.graph.Edges {
			key := edge.From + "\x00" + edge.To + "\x00" + string(edge.Type)
			if !seen[key] {
				seen[key] = true
				merged.AddEdge(edge)
			}
		}
	}
	return merged
}

// mergeNodes folds every analysis's affected files into one node per
// path. Risk levels combine by max on collision; the changes list on a
// node accumulates every change that touches it.
func (a *Analyzer) mergeNodes(changes []change.CodeChange, analyses []*Analysis) []Node {
	byPath := make(map[string]*Node)
	var order []string

	for i, analysis := range analyses {
		for _, filePath := range analysis.AffectedFiles {
			impactLevel := LevelIndirect
			if samePath(filePath, changes[i].FilePath) {
				impactLevel = LevelDirect
			}

			node, ok := byPath[filePath]
			if !ok {
				node = &Node{
					ID:        filePath,
					Type:      "file",
					Name:      path.Base(filePath),
					Impact:    impactLevel,
					RiskLevel: analysis.RiskLevel,
				}
				byPath[filePath] = node
				order = append(order, filePath)
			} else {
				node.RiskLevel = risk.Max(node.RiskLevel, analysis.RiskLevel)
				if impactLevel == LevelDirect {
					node.Impact = LevelDirect
				}
			}
			node.Changes = appendUnique(node.Changes, changes[i].ID)
		}
	}

	sort.Strings(order)
	out := make([]Node, 0, len(order))
	for _, id := range order {
		out = append(out, *byPath[id])
	}
	return out
}

// deriveConnections links each changed file to every other file in its
// affected set. Strength is 0.5 baseline, 0.8 when both endpoints are API
// files, 0.9 when either endpoint is a critical component; the highest
// applicable rule wins. A pair connected in both directions is collapsed
// into one bidirectional connection.
func (a *Analyzer) deriveConnections(analyses []*Analysis) []Connection {
	type key struct{ from, to string }
	byPair := make(map[key]*Connection)
	var order []key

	for _, analysis := range analyses {
		from := analysis.Change.FilePath
		for _, to := range analysis.AffectedFiles {
			if samePath(from, to) {
				continue
			}
			k := key{from, to}
			if existing, ok := byPair[k]; ok {
				if s := a.connectionStrength(from, to); s > existing.Strength {
					existing.Strength = s
				}
				continue
			}
			if reverse, ok := byPair[key{to, from}]; ok {
				reverse.Bidirectional = true
				if s := a.connectionStrength(from, to); s > reverse.Strength {
					reverse.Strength = s
				}
				continue
			}
			byPair[k] = &Connection{
				From:     from,
				To:       to,
				Strength: a.connectionStrength(from, to),
			}
			order = append(order, k)
		}
	}

	out := make([]Connection, 0, len(order))
	for _, k := range order {
		out = append(out, *byPair[k])
	}
	return out
}

func (a *Analyzer) connectionStrength(from, to string) float64 {
	if a.project.IsCriticalFile(from) || a.project.IsCriticalFile(to) {
		return 0.9
	}
	if pathclass.IsAPIFile(from) && pathclass.IsAPIFile(to) {
		return 0.8
	}
	return 0.5
}

func (a *Analyzer) batchSignals(changes []change.CodeChange, analyses []*Analysis, nodes []Node, connections []Connection) risk.BatchSignals {
	bySeverity := make(map[breaking.Severity]int)
	for _, analysis := range analyses {
		for s, n := range breaking.CountBySeverity(analysis.BreakingChanges) {
			bySeverity[s] += n
		}
	}

	var critical, highRisk int
	for _, node := range nodes {
		if a.project.IsCriticalFile(node.ID) {
			critical++
		}
		if node.RiskLevel.AtLeast(risk.High) {
			highRisk++
		}
	}

	var bidirectional int
	for _, c := range connections {
		if c.Bidirectional {
			bidirectional++
		}
	}

	return risk.BatchSignals{
		ChangeCount:        len(changes),
		BreakingBySeverity: bySeverity,
		NodeCount:          len(nodes),
		EdgeCount:          len(connections),
		CriticalNodeCount:  critical,
		HighRiskNodeCount:  highRisk,
		BidirectionalEdges: bidirectional,
	}
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
