// Package graph holds a directed weighted graph stored as flat arrays keyed by dense
// integer ids, and the shortest-path search over it.
//
// A Graph is filled once with AddEdge and is read-only afterwards, so any number of
// goroutines may query it concurrently.
package graph

import "fmt"

// VertexID is a dense vertex index in [0, VertexCount).
type VertexID int

// EdgeID is a dense edge index in [0, EdgeCount), in insertion order.
type EdgeID int

// Edge is a directed weighted edge. Weights must be non-negative.
type Edge struct {
	From   VertexID
	To     VertexID
	Weight float64
}

// Graph is a directed weighted graph in arena layout: edges live in one slice and
// every vertex keeps the ids of its outgoing edges in insertion order.
type Graph struct {
	edges     []Edge
	incidence [][]EdgeID
}

// New creates a graph with vertexCount vertices and no edges.
func New(vertexCount int) *Graph {
	return &Graph{
		incidence: make([][]EdgeID, vertexCount),
	}
}

// AddEdge appends an edge and returns its id.
func (g *Graph) AddEdge(e Edge) (EdgeID, error) {
	if !g.hasVertex(e.From) || !g.hasVertex(e.To) {
		return 0, fmt.Errorf("edge %d->%d out of range for %d vertices", e.From, e.To, len(g.incidence))
	}
	if e.Weight < 0 {
		return 0, fmt.Errorf("edge %d->%d has negative weight %f", e.From, e.To, e.Weight)
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, e)
	g.incidence[e.From] = append(g.incidence[e.From], id)
	return id, nil
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.incidence)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Edge returns a copy of the edge with the given id.
func (g *Graph) Edge(id EdgeID) Edge {
	return g.edges[id]
}

// IncidentEdges returns the outgoing edges of v. The slice must not be modified.
func (g *Graph) IncidentEdges(v VertexID) []EdgeID {
	return g.incidence[v]
}

func (g *Graph) hasVertex(v VertexID) bool {
	return v >= 0 && int(v) < len(g.incidence)
}
