package routing

import (
	"context"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// EdgeDijkstraBidirectionRef is bidirectional edge-based Dijkstra with
// map-backed labels.
//
// A forward label covers the path up to and including its edge. A
// backward label covers the path after its edge, so the two labels of
// one state add up to a complete route.
type EdgeDijkstraBidirectionRef struct {
	searchBase
}

func NewEdgeDijkstraBidirectionRef(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (*EdgeDijkstraBidirectionRef, error) {
	base, err := newSearchBase(g, enc, w)
	if err != nil {
		return nil, err
	}
	return &EdgeDijkstraBidirectionRef{searchBase: base}, nil
}

func (d *EdgeDijkstraBidirectionRef) Name() string { return d.Variant().String() }
func (d *EdgeDijkstraBidirectionRef) Variant() Variant {
	return VariantEdgeDijkstraBidirectionRef
}

func (d *EdgeDijkstraBidirectionRef) CalcPath(ctx context.Context, from, to uint32) (*Path, error) {
	if err := d.checkNodes(from, to); err != nil {
		return nil, err
	}
	d.visited = 0
	if from == to {
		return d.buildPath(from, to, nil), nil
	}

	r := newBiRef()
	start, end := d.g.EdgesFrom(from)
	for a := start; a < end; a++ {
		e := d.g.EdgeAt(a)
		if c, ok := d.cost(e, e.Reverse); ok {
			id := stateID(e.ID, e.Reverse)
			if r.fwd.improves(id, c) {
				r.labelFwd(&biEntry{id: id, edge: e.ID, node: e.To, weight: c}, c)
			}
		}
	}
	start, end = d.g.EdgesFrom(to)
	for a := start; a < end; a++ {
		e := d.g.EdgeAt(a)
		if _, ok := d.cost(e, !e.Reverse); ok {
			id := stateID(e.ID, !e.Reverse)
			if r.bwd.improves(id, 0) {
				r.labelBwd(&biEntry{id: id, edge: e.ID, node: to}, 0)
			}
		}
	}

	expandFwd := func(p *biEntry) {
		v := p.node
		start, end := d.g.EdgesFrom(v)
		for a := start; a < end; a++ {
			e := d.g.EdgeAt(a)
			if e.ID == p.edge || d.g.TurnRestricted(p.edge, v, e.ID) {
				continue
			}
			c, ok := d.cost(e, e.Reverse)
			if !ok {
				continue
			}
			id := stateID(e.ID, e.Reverse)
			if w := p.weight + c; r.fwd.improves(id, w) {
				r.labelFwd(&biEntry{id: id, edge: e.ID, node: e.To, weight: w, parent: p}, w)
			}
		}
	}
	expandBwd := func(p *biEntry) {
		u := d.g.OtherNode(p.edge, p.node)
		own := d.g.Edge(p.edge, u)
		pc, ok := d.cost(own, own.Reverse)
		if !ok {
			return
		}
		start, end := d.g.EdgesFrom(u)
		for a := start; a < end; a++ {
			e := d.g.EdgeAt(a)
			if e.ID == p.edge || d.g.TurnRestricted(e.ID, u, p.edge) {
				continue
			}
			// travel runs e.To -> u
			if _, ok := d.cost(e, !e.Reverse); !ok {
				continue
			}
			id := stateID(e.ID, !e.Reverse)
			if w := p.weight + pc; r.bwd.improves(id, w) {
				r.labelBwd(&biEntry{id: id, edge: e.ID, node: u, weight: w, parent: p}, w)
			}
		}
	}

	err := r.run(ctx, expandFwd, expandBwd)
	d.visited = r.visited()
	if err != nil {
		return nil, err
	}
	if r.meetF == nil {
		return nil, ErrNoRoute
	}

	var steps []step
	for e := r.meetF; e != nil; e = e.parent {
		steps = append(steps, step{edge: e.edge, node: e.node})
	}
	reverseSteps(steps)
	for e := r.meetB.parent; e != nil; e = e.parent {
		steps = append(steps, step{edge: e.edge, node: e.node})
	}
	return d.buildPath(from, to, steps), nil
}
