// Package encoding packs per-edge vehicle properties (access direction and
// speed) into a compact flag word and answers traversal questions about it.
package encoding

import (
	"errors"

	"github.com/paulmach/osm"
)

var (
	// ErrInvalidSpeedFactor is returned when the speed step is not positive.
	ErrInvalidSpeedFactor = errors.New("encoding: speed factor must be positive")

	// ErrSpeedBitsTooSmall is returned when the speed field cannot hold the max speed.
	ErrSpeedBitsTooSmall = errors.New("encoding: speed bits cannot represent max speed")
)

// EdgePropertyEncoder is the vehicle-specific view of an edge. Flags are
// produced once while reading the map and stored per edge in the graph.
//
// reverse is false when the edge is travelled from its base node to its
// adjacent node, and true for the opposite direction.
type EdgePropertyEncoder interface {
	// Name identifies the vehicle profile, e.g. "car".
	Name() string

	// AcceptWay reports whether the vehicle may use the way in any direction.
	AcceptWay(tags osm.Tags) bool

	// HandleWayTags converts way tags into a flag word. Only valid for
	// accepted ways.
	HandleWayTags(tags osm.Tags) uint32

	// Flags encodes a speed in km/h and the open directions.
	Flags(speedKmh float64, forward, backward bool) uint32

	// CanTraverse reports whether the edge is open in the given direction.
	CanTraverse(flags uint32, reverse bool) bool

	// Speed returns the speed in km/h for the given direction, or 0 if the
	// direction is closed.
	Speed(flags uint32, reverse bool) float64

	// MaxSpeed is the highest speed Speed can return.
	MaxSpeed() float64
}
