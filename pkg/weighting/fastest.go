package weighting

import (
	"math"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
)

const kmhToMps = 1 / 3.6

// Fastest weights edges by travel time in seconds, using the speed the
// encoder stores for the travelled direction.
type Fastest struct {
	enc encoding.EdgePropertyEncoder
}

// NewFastest binds the weighting to enc. The same encoder must be handed to
// the search algorithm, otherwise cost and access can disagree.
func NewFastest(enc encoding.EdgePropertyEncoder) *Fastest {
	return &Fastest{enc: enc}
}

// Encoder returns the encoder the weighting reads speeds from.
func (f *Fastest) Encoder() encoding.EdgePropertyEncoder { return f.enc }

func (f *Fastest) Weight(e graph.EdgeRef, reverse bool) float64 {
	speed := f.enc.Speed(e.Flags, reverse)
	if !(speed > 0) {
		return math.Inf(1)
	}
	return e.DistanceMeters() / (speed * kmhToMps)
}

func (f *Fastest) MinWeight(distanceMeters float64) float64 {
	return distanceMeters / (f.enc.MaxSpeed() * kmhToMps)
}

func (f *Fastest) Name() string { return NameFastest }
