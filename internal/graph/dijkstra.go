package graph

import (
	"container/heap"
	"math"
)

// RouteInfo is the result of a successful search: the total weight and the edges of the
// best path in forward order.
type RouteInfo struct {
	Weight float64
	Edges  []EdgeID
}

// Router answers single-pair shortest-path queries over a built graph.
type Router struct {
	graph *Graph
}

// NewRouter creates a router over g. The graph must not be modified afterwards.
func NewRouter(g *Graph) *Router {
	return &Router{graph: g}
}

// BuildRoute finds the cheapest path from one vertex to another.
//
// Among paths of equal weight the one with fewer edges wins; any remaining tie goes to the
// path settled first, with the heap ordered by (weight, edges, vertex id) and edges relaxed
// in insertion order, so the answer is deterministic for a fixed graph.
// The boolean is false when either vertex is out of range or no path exists.
func (r *Router) BuildRoute(from, to VertexID) (RouteInfo, bool) {
	g := r.graph
	if !g.hasVertex(from) || !g.hasVertex(to) {
		return RouteInfo{}, false
	}
	if from == to {
		return RouteInfo{Weight: 0, Edges: []EdgeID{}}, true
	}

	n := g.VertexCount()
	dist := make([]float64, n)
	hops := make([]int, n)
	prev := make([]EdgeID, n)
	settled := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[from] = 0

	pq := &queue{{vertex: from}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		u := item.vertex
		if settled[u] || item.weight != dist[u] || item.hops != hops[u] {
			continue
		}
		settled[u] = true
		if u == to {
			break
		}

		for _, id := range g.incidence[u] {
			e := g.edges[id]
			if settled[e.To] {
				continue
			}
			weight := dist[u] + e.Weight
			if weight < dist[e.To] || (weight == dist[e.To] && hops[u]+1 < hops[e.To]) {
				dist[e.To] = weight
				hops[e.To] = hops[u] + 1
				prev[e.To] = id
				heap.Push(pq, queueItem{vertex: e.To, weight: weight, hops: hops[e.To]})
			}
		}
	}

	if !settled[to] {
		return RouteInfo{}, false
	}

	edges := make([]EdgeID, 0, hops[to])
	for v := to; v != from; {
		id := prev[v]
		edges = append(edges, id)
		v = g.edges[id].From
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return RouteInfo{Weight: dist[to], Edges: edges}, true
}

type queueItem struct {
	vertex VertexID
	weight float64
	hops   int
}

// queue is a binary min-heap of search frontier entries.
type queue []queueItem

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight < q[j].weight
	}
	if q[i].hops != q[j].hops {
		return q[i].hops < q[j].hops
	}
	return q[i].vertex < q[j].vertex
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *queue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}
