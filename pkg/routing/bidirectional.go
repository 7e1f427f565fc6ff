package routing

import (
	"context"
	"math"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// biEntry is one label of a map-based search. id is the search state: a
// node for node-based searches, a directed edge for edge-based ones.
type biEntry struct {
	id     uint32
	edge   uint32 // edge that produced the label, noEdge at a seed
	node   uint32 // node the label sits at
	weight float64
	parent *biEntry
}

// frontier is one direction of a map-based bidirectional search. Labels
// are replaced, never mutated, so a recorded meeting point stays valid.
type frontier struct {
	entries map[uint32]*biEntry
	settled map[uint32]struct{}
	pq      MinHeap
}

func newFrontier() frontier {
	return frontier{
		entries: make(map[uint32]*biEntry),
		settled: make(map[uint32]struct{}),
		pq:      MinHeap{items: make([]PQItem, 0, 64)},
	}
}

func (f *frontier) isSettled(id uint32) bool {
	_, ok := f.settled[id]
	return ok
}

// improves reports whether weight beats the current label of id.
func (f *frontier) improves(id uint32, weight float64) bool {
	if f.isSettled(id) {
		return false
	}
	old, ok := f.entries[id]
	return !ok || weight < old.weight
}

// next pops the cheapest unsettled label and settles it, or returns nil
// once the queue is drained.
func (f *frontier) next() *biEntry {
	for f.pq.Len() > 0 {
		id := f.pq.Pop().Node
		if f.isSettled(id) {
			continue // stale entry
		}
		f.settled[id] = struct{}{}
		return f.entries[id]
	}
	return nil
}

// biRef drives two frontiers towards each other. Queue keys may carry a
// potential; label weights never do.
type biRef struct {
	fwd, bwd     frontier
	mu           float64
	meetF, meetB *biEntry
}

func newBiRef() *biRef {
	return &biRef{fwd: newFrontier(), bwd: newFrontier(), mu: math.Inf(1)}
}

// labelFwd stores e in the forward frontier and records a meeting with
// the backward one.
func (r *biRef) labelFwd(e *biEntry, key float64) {
	r.fwd.entries[e.id] = e
	r.fwd.pq.Push(e.id, key)
	if o, ok := r.bwd.entries[e.id]; ok && e.weight+o.weight < r.mu {
		r.mu = e.weight + o.weight
		r.meetF, r.meetB = e, o
	}
}

func (r *biRef) labelBwd(e *biEntry, key float64) {
	r.bwd.entries[e.id] = e
	r.bwd.pq.Push(e.id, key)
	if o, ok := r.fwd.entries[e.id]; ok && o.weight+e.weight < r.mu {
		r.mu = o.weight + e.weight
		r.meetF, r.meetB = o, e
	}
}

// run alternates between directions until the queue tops can no longer
// improve the best meeting or either side runs dry.
func (r *biRef) run(ctx context.Context, expandFwd, expandBwd func(*biEntry)) error {
	iterations := 0
	forward := true
	for r.fwd.pq.Len() > 0 && r.bwd.pq.Len() > 0 {
		if r.fwd.pq.PeekKey()+r.bwd.pq.PeekKey() >= r.mu {
			break
		}
		iterations++
		if err := canceled(ctx, iterations); err != nil {
			return err
		}

		if forward {
			if e := r.fwd.next(); e != nil {
				expandFwd(e)
			}
		} else {
			if e := r.bwd.next(); e != nil {
				expandBwd(e)
			}
		}
		forward = !forward
	}
	return nil
}

func (r *biRef) visited() int {
	return len(r.fwd.settled) + len(r.bwd.settled)
}

// nodeBiSearch is map-based bidirectional node search with an optional
// potential. pot(v) is added to forward keys and subtracted from
// backward keys; it must be zero or an average potential.
type nodeBiSearch struct {
	searchBase
}

func (s *nodeBiSearch) run(ctx context.Context, from, to uint32, pot func(uint32) float64) (*Path, error) {
	r := newBiRef()
	r.labelFwd(&biEntry{id: from, edge: noEdge, node: from}, pot(from))
	r.labelBwd(&biEntry{id: to, edge: noEdge, node: to}, -pot(to))

	expandFwd := func(p *biEntry) {
		start, end := s.g.EdgesFrom(p.node)
		for a := start; a < end; a++ {
			e := s.g.EdgeAt(a)
			c, ok := s.cost(e, e.Reverse)
			if !ok {
				continue
			}
			if w := p.weight + c; r.fwd.improves(e.To, w) {
				r.labelFwd(&biEntry{id: e.To, edge: e.ID, node: e.To, weight: w, parent: p}, w+pot(e.To))
			}
		}
	}
	expandBwd := func(p *biEntry) {
		start, end := s.g.EdgesFrom(p.node)
		for a := start; a < end; a++ {
			e := s.g.EdgeAt(a)
			// travel runs e.To -> p.node
			c, ok := s.cost(e, !e.Reverse)
			if !ok {
				continue
			}
			if w := p.weight + c; r.bwd.improves(e.To, w) {
				r.labelBwd(&biEntry{id: e.To, edge: e.ID, node: e.To, weight: w, parent: p}, w-pot(e.To))
			}
		}
	}

	err := r.run(ctx, expandFwd, expandBwd)
	s.visited = r.visited()
	if err != nil {
		return nil, err
	}
	if r.meetF == nil {
		return nil, ErrNoRoute
	}

	var steps []step
	for e := r.meetF; e.parent != nil; e = e.parent {
		steps = append(steps, step{edge: e.edge, node: e.node})
	}
	reverseSteps(steps)
	for e := r.meetB; e.parent != nil; e = e.parent {
		steps = append(steps, step{edge: e.edge, node: e.parent.node})
	}
	return s.buildPath(from, to, steps), nil
}

// DijkstraBidirectionRef is bidirectional node-based Dijkstra keeping its
// labels in maps, so its footprint follows the explored area rather than
// the graph size.
type DijkstraBidirectionRef struct {
	nodeBiSearch
}

func NewDijkstraBidirectionRef(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*DijkstraBidirectionRef, error) {
	base, err := newSearchBase(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &DijkstraBidirectionRef{nodeBiSearch{searchBase: base}}, nil
}

func (d *DijkstraBidirectionRef) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	if err := d.checkNodes(from, to); err != nil {
		return nil, err
	}
	return d.run(ctx, from, to, zeroHeuristic)
}

func (d *DijkstraBidirectionRef) Name() string     { return d.Variant().String() }
func (d *DijkstraBidirectionRef) Variant() Variant { return VariantDijkstraBidirectionRef }

// AStarBidirection is bidirectional node-based A*. Both directions share
// the average potential (hTo(v) - hFrom(v)) / 2, which keeps the usual
// bidirectional stopping rule exact for the non-approximate heuristic.
type AStarBidirection struct {
	nodeBiSearch
	approximate bool
}

func NewAStarBidirection(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*AStarBidirection, error) {
	base, err := newSearchBase(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &AStarBidirection{nodeBiSearch: nodeBiSearch{searchBase: base}}, nil
}

// SetApproximation switches to the faster, inflated heuristic. Paths are
// then no longer guaranteed to be optimal.
func (a *AStarBidirection) SetApproximation(approximate bool) *AStarBidirection {
	a.approximate = approximate
	return a
}

func (a *AStarBidirection) Approximation() bool { return a.approximate }

func (a *AStarBidirection) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	if err := a.checkNodes(from, to); err != nil {
		return nil, err
	}
	return a.run(ctx, from, to, averagePotential(
		a.heuristic(to, a.approximate),
		a.heuristic(from, a.approximate),
	))
}

func (a *AStarBidirection) Name() string     { return a.Variant().String() }
func (a *AStarBidirection) Variant() Variant { return VariantAStarBidirection }

func averagePotential(toTarget, toSource func(uint32) float64) func(uint32) float64 {
	return func(v uint32) float64 {
		return (toTarget(v) - toSource(v)) / 2
	}
}
