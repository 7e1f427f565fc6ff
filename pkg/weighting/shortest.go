package weighting

import "algo_router/pkg/graph"

// Shortest weights edges by length in meters. Direction and vehicle are ignored.
type Shortest struct{}

func (Shortest) Weight(e graph.EdgeRef, _ bool) float64 {
	return e.DistanceMeters()
}

func (Shortest) MinWeight(distanceMeters float64) float64 {
	return distanceMeters
}

func (Shortest) Name() string { return NameShortest }
