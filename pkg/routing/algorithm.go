package routing

import (
	"context"
	"errors"
	"math"

	"algo_router/pkg/encoding"
	"algo_router/pkg/geo"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

var (
	// ErrNoRoute is returned when no route exists between the two nodes.
	ErrNoRoute = errors.New("no route found")

	// ErrNodeOutOfRange is returned when a query names a node the graph does not have.
	ErrNodeOutOfRange = errors.New("node out of range")

	// ErrNilGraph is returned when an algorithm is constructed without a graph.
	ErrNilGraph = errors.New("routing: graph is nil")

	// ErrNilEncoder is returned when an algorithm is constructed without an encoder.
	ErrNilEncoder = errors.New("routing: edge property encoder is nil")

	// ErrNilWeighting is returned when an algorithm is constructed without a weighting.
	ErrNilWeighting = errors.New("routing: weighting is nil")
)

const (
	noNode = ^uint32(0) // sentinel for "no node"
	noEdge = ^uint32(0) // sentinel for "no edge"

	// cancelCheckInterval is how many settled states pass between context checks.
	cancelCheckInterval = 100

	// approximationFactor inflates A* heuristics in approximate mode.
	approximationFactor = 1.2
)

// Algorithm is a shortest-path search bound to one graph, one encoder and
// one weighting. Instances keep per-query state and must not be shared
// between goroutines.
type Algorithm interface {
	// CalcPath computes the cheapest path from one node to another.
	CalcPath(ctx context.Context, from, to uint32) (*Path, error)

	// Name is the identifier the algorithm is selected with.
	Name() string
	Variant() Variant

	Weighting() weighting.Weighting
	Encoder() encoding.EdgePropertyEncoder

	// VisitedNodes counts states settled by the last query.
	VisitedNodes() int
}

// searchBase holds what every search variant is constructed with.
type searchBase struct {
	g       *graph.Graph
	enc     encoding.EdgePropertyEncoder
	w       weighting.Weighting
	visited int
}

func newSearchBase(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (searchBase, error) {
	switch {
	case g == nil:
		return searchBase{}, ErrNilGraph
	case enc == nil:
		return searchBase{}, ErrNilEncoder
	case w == nil:
		return searchBase{}, ErrNilWeighting
	}
	return searchBase{g: g, enc: enc, w: w}, nil
}

func (b *searchBase) Weighting() weighting.Weighting        { return b.w }
func (b *searchBase) Encoder() encoding.EdgePropertyEncoder { return b.enc }
func (b *searchBase) VisitedNodes() int                     { return b.visited }

func (b *searchBase) checkNodes(from, to uint32) error {
	if from >= b.g.NumNodes || to >= b.g.NumNodes {
		return ErrNodeOutOfRange
	}
	return nil
}

// cost returns the cost of travelling e in the given direction, and false
// when the encoder closes that direction or the weighting rules it out.
func (b *searchBase) cost(e graph.EdgeRef, reverse bool) (float64, bool) {
	if !b.enc.CanTraverse(e.Flags, reverse) {
		return 0, false
	}
	c := b.w.Weight(e, reverse)
	if math.IsInf(c, 1) || math.IsNaN(c) {
		return 0, false
	}
	return c, true
}

// heuristic returns an A* estimate towards target, scaled for approximate
// mode.
func (b *searchBase) heuristic(target uint32, approximate bool) func(v uint32) float64 {
	dist := geo.DistanceCalc(approximate)
	factor := 1.0
	if approximate {
		factor = approximationFactor
	}
	tLat, tLon := b.g.NodeLat[target], b.g.NodeLon[target]
	return func(v uint32) float64 {
		return factor * b.w.MinWeight(dist(b.g.NodeLat[v], b.g.NodeLon[v], tLat, tLon))
	}
}

// canceled reports a context error every cancelCheckInterval iterations.
func canceled(ctx context.Context, iterations int) error {
	if iterations%cancelCheckInterval == 0 {
		return ctx.Err()
	}
	return nil
}

// ready converts a constructor result into an Algorithm without leaking a
// typed nil on error.
func ready[T Algorithm](a T, err error) (Algorithm, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
