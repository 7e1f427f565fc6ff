// Package weighting defines the cost of traversing an edge, independent of
// the search algorithm that consumes it.
package weighting

import (
	"fmt"
	"strings"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
)

// Weighting assigns a non-negative cost to walking an edge in one direction.
// +Inf marks the edge as unusable.
type Weighting interface {
	// Weight returns the cost of e travelled against its stored orientation
	// when reverse is true.
	Weight(e graph.EdgeRef, reverse bool) float64

	// MinWeight is a lower bound of the cost to cover distanceMeters. A*
	// heuristics are built on it.
	MinWeight(distanceMeters float64) float64

	Name() string
}

const (
	NameShortest = "shortest"
	NameFastest  = "fastest"
)

// ForName returns the weighting called name. enc is only used by fastest.
func ForName(name string, enc encoding.EdgePropertyEncoder) (Weighting, error) {
	switch strings.ToLower(name) {
	case NameShortest:
		return Shortest{}, nil
	case NameFastest:
		return NewFastest(enc), nil
	default:
		return nil, fmt.Errorf("weighting: unknown weighting %q", name)
	}
}
