package routing

import (
	"context"
	"math"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// QueryState holds per-query state for array-backed bidirectional Dijkstra.
type QueryState struct {
	DistFwd []float64
	DistBwd []float64
	PredFwd []uint32 // predecessor in forward search (noNode = no predecessor)
	PredBwd []uint32 // successor towards the target in backward search
	EdgeFwd []uint32 // edge to PredFwd
	EdgeBwd []uint32 // edge to PredBwd
	Touched []uint32 // nodes touched during this query (for fast reset)
	FwdPQ   MinHeap
	BwdPQ   MinHeap
}

// NewQueryState creates a new QueryState for a graph with n nodes.
func NewQueryState(n uint32) *QueryState {
	qs := &QueryState{
		DistFwd: make([]float64, n),
		DistBwd: make([]float64, n),
		PredFwd: make([]uint32, n),
		PredBwd: make([]uint32, n),
		EdgeFwd: make([]uint32, n),
		EdgeBwd: make([]uint32, n),
		Touched: make([]uint32, 0, 1024),
		FwdPQ:   MinHeap{items: make([]PQItem, 0, 256)},
		BwdPQ:   MinHeap{items: make([]PQItem, 0, 256)},
	}
	for i := range qs.DistFwd {
		qs.clear(uint32(i))
	}
	return qs
}

func (qs *QueryState) clear(node uint32) {
	qs.DistFwd[node] = math.Inf(1)
	qs.DistBwd[node] = math.Inf(1)
	qs.PredFwd[node] = noNode
	qs.PredBwd[node] = noNode
	qs.EdgeFwd[node] = noEdge
	qs.EdgeBwd[node] = noEdge
}

// Reset clears only the touched entries for fast reuse.
func (qs *QueryState) Reset() {
	for _, node := range qs.Touched {
		qs.clear(node)
	}
	qs.Touched = qs.Touched[:0]
	qs.FwdPQ.Reset()
	qs.BwdPQ.Reset()
}

func (qs *QueryState) touched(node uint32) bool {
	return !math.IsInf(qs.DistFwd[node], 1) || !math.IsInf(qs.DistBwd[node], 1)
}

func (qs *QueryState) touchFwd(node uint32, dist float64, pred, edge uint32) {
	if !qs.touched(node) {
		qs.Touched = append(qs.Touched, node)
	}
	qs.DistFwd[node] = dist
	qs.PredFwd[node] = pred
	qs.EdgeFwd[node] = edge
}

func (qs *QueryState) touchBwd(node uint32, dist float64, pred, edge uint32) {
	if !qs.touched(node) {
		qs.Touched = append(qs.Touched, node)
	}
	qs.DistBwd[node] = dist
	qs.PredBwd[node] = pred
	qs.EdgeBwd[node] = edge
}

// DijkstraBidirection is bidirectional node-based Dijkstra on flat arrays
// sized to the graph. The arrays are allocated once and reset through the
// touched list, which makes repeated queries on one instance cheap.
type DijkstraBidirection struct {
	searchBase
	qs *QueryState
}

func NewDijkstraBidirection(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*DijkstraBidirection, error) {
	base, err := newSearchBase(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &DijkstraBidirection{searchBase: base}, nil
}

func (d *DijkstraBidirection) Name() string     { return d.Variant().String() }
func (d *DijkstraBidirection) Variant() Variant { return VariantDijkstraBidirection }

func (d *DijkstraBidirection) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	if err := d.checkNodes(from, to); err != nil {
		return nil, err
	}
	if d.qs == nil {
		d.qs = NewQueryState(d.g.NumNodes)
	}
	qs := d.qs
	defer qs.Reset()
	d.visited = 0

	qs.touchFwd(from, 0, noNode, noEdge)
	qs.FwdPQ.Push(from, 0)
	qs.touchBwd(to, 0, noNode, noEdge)
	qs.BwdPQ.Push(to, 0)

	mu, meetNode := math.Inf(1), noNode
	meet := func(node uint32) {
		if c := qs.DistFwd[node] + qs.DistBwd[node]; c < mu {
			mu, meetNode = c, node
		}
	}
	meet(from)

	iterations := 0
	for qs.FwdPQ.Len() > 0 && qs.BwdPQ.Len() > 0 {
		if qs.FwdPQ.PeekKey()+qs.BwdPQ.PeekKey() >= mu {
			break
		}
		iterations++
		if err := canceled(ctx, iterations); err != nil {
			return nil, err
		}

		// Forward step.
		if item := qs.FwdPQ.Pop(); item.Key <= qs.DistFwd[item.Node] {
			d.visited++
			u := item.Node
			start, end := d.g.EdgesFrom(u)
			for a := start; a < end; a++ {
				e := d.g.EdgeAt(a)
				c, ok := d.cost(e, e.Reverse)
				if !ok {
					continue
				}
				if nd := item.Key + c; nd < qs.DistFwd[e.To] {
					qs.touchFwd(e.To, nd, u, e.ID)
					qs.FwdPQ.Push(e.To, nd)
					meet(e.To)
				}
			}
		}

		// Backward step.
		if qs.BwdPQ.Len() == 0 {
			continue
		}
		if item := qs.BwdPQ.Pop(); item.Key <= qs.DistBwd[item.Node] {
			d.visited++
			u := item.Node
			start, end := d.g.EdgesFrom(u)
			for a := start; a < end; a++ {
				e := d.g.EdgeAt(a)
				c, ok := d.cost(e, !e.Reverse)
				if !ok {
					continue
				}
				if nd := item.Key + c; nd < qs.DistBwd[e.To] {
					qs.touchBwd(e.To, nd, u, e.ID)
					qs.BwdPQ.Push(e.To, nd)
					meet(e.To)
				}
			}
		}
	}

	if meetNode == noNode {
		return nil, ErrNoRoute
	}
	return d.buildPath(from, to, d.reconstruct(meetNode)), nil
}

// reconstruct walks the forward predecessors back to the source, then the
// backward ones on to the target.
func (d *DijkstraBidirection) reconstruct(meetNode uint32) []step {
	qs := d.qs
	var steps []step
	for v := meetNode; qs.PredFwd[v] != noNode; v = qs.PredFwd[v] {
		steps = append(steps, step{edge: qs.EdgeFwd[v], node: v})
	}
	reverseSteps(steps)
	for v := meetNode; qs.PredBwd[v] != noNode; v = qs.PredBwd[v] {
		steps = append(steps, step{edge: qs.EdgeBwd[v], node: qs.PredBwd[v]})
	}
	return steps
}
