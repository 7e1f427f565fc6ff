package routing

import (
	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// Selector turns an algorithm identifier into fresh search instances.
// It holds only immutable configuration and is safe for concurrent use.
type Selector struct {
	algorithm   string
	approximate bool
}

// NewSelector captures the configuration. Nothing is validated: every
// identifier maps to some variant, see ParseVariant.
func NewSelector(algorithm string, approximate bool) Selector {
	return Selector{algorithm: algorithm, approximate: approximate}
}

func (s Selector) Algorithm() string { return s.algorithm }

func (s Selector) Approximate() bool { return s.approximate }

// Variant is the variant Create will instantiate.
func (s Selector) Variant() Variant { return ParseVariant(s.algorithm) }

// Create instantiates the selected variant for g, enc and w. The
// approximation toggle only reaches astarbi and astarEdge and is ignored
// otherwise. Errors come from the algorithm constructors and are returned
// unchanged.
func (s Selector) Create(g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) (Algorithm, error) {
	switch s.Variant() {
	case VariantDijkstraBidirectionRef:
		a, err := NewDijkstraBidirectionRef(g, enc, w)
		return ready(a, err)
	case VariantEdgeDijkstraBidirectionRef:
		a, err := NewEdgeDijkstraBidirectionRef(g, enc, w)
		return ready(a, err)
	case VariantDijkstraBidirection:
		a, err := NewDijkstraBidirection(g, enc, w)
		return ready(a, err)
	case VariantDijkstra:
		a, err := NewDijkstra(g, enc, w)
		return ready(a, err)
	case VariantEdgeDijkstra:
		a, err := NewEdgeDijkstra(g, enc, w)
		return ready(a, err)
	case VariantAStarBidirection:
		a, err := NewAStarBidirection(g, enc, w)
		if err != nil {
			return nil, err
		}
		return a.SetApproximation(s.approximate), nil
	case VariantEdgeAStar:
		a, err := NewEdgeAStar(g, enc, w)
		if err != nil {
			return nil, err
		}
		return a.SetApproximation(s.approximate), nil
	case VariantDijkstraOneToMany:
		a, err := NewDijkstraOneToMany(g, enc, w)
		return ready(a, err)
	default:
		a, err := NewAStar(g, enc, w)
		return ready(a, err)
	}
}
