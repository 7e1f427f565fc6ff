package encoding

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

const (
	forwardBit  = uint32(1) << 0
	backwardBit = uint32(1) << 1
	speedShift  = 2

	defaultSpeedBits   = 5
	defaultSpeedFactor = 5.0
	defaultMaxSpeed    = 100.0

	mphToKmh = 1.609344
)

// carSpeeds lists highway tag values accessible by car with their default
// speed in km/h.
var carSpeeds = map[string]float64{
	"motorway":       100,
	"motorway_link":  70,
	"trunk":          70,
	"trunk_link":     65,
	"primary":        65,
	"primary_link":   60,
	"secondary":      60,
	"secondary_link": 50,
	"tertiary":       50,
	"tertiary_link":  40,
	"unclassified":   30,
	"residential":    30,
	"living_street":  5,
	"service":        20,
}

// CarFlagEncoder is the default vehicle profile.
//
// Flag layout: bit 0 forward access, bit 1 backward access, then speedBits
// bits holding speed/speedFactor.
type CarFlagEncoder struct {
	speedBits   uint
	speedFactor float64
	speedMask   uint32
	maxSpeed    float64
}

// CarOption customizes a CarFlagEncoder.
type CarOption func(*CarFlagEncoder)

// WithSpeedBits sets the width of the speed field.
func WithSpeedBits(bits uint) CarOption {
	return func(c *CarFlagEncoder) { c.speedBits = bits }
}

// WithSpeedFactor sets the speed step in km/h.
func WithSpeedFactor(factor float64) CarOption {
	return func(c *CarFlagEncoder) { c.speedFactor = factor }
}

// WithMaxSpeed caps encoded speeds, in km/h.
func WithMaxSpeed(kmh float64) CarOption {
	return func(c *CarFlagEncoder) { c.maxSpeed = kmh }
}

// NewCarFlagEncoder builds a car encoder. Defaults: 5 speed bits in steps of
// 5 km/h, capped at 100 km/h.
func NewCarFlagEncoder(opts ...CarOption) (*CarFlagEncoder, error) {
	c := &CarFlagEncoder{
		speedBits:   defaultSpeedBits,
		speedFactor: defaultSpeedFactor,
		maxSpeed:    defaultMaxSpeed,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.speedFactor <= 0 || math.IsNaN(c.speedFactor) {
		return nil, ErrInvalidSpeedFactor
	}
	if c.speedBits == 0 || c.speedBits > 30 {
		return nil, ErrSpeedBitsTooSmall
	}
	c.speedMask = uint32(1)<<c.speedBits - 1
	if c.maxSpeed <= 0 || math.Ceil(c.maxSpeed/c.speedFactor) > float64(c.speedMask) {
		return nil, ErrSpeedBitsTooSmall
	}
	return c, nil
}

func (c *CarFlagEncoder) Name() string { return "car" }

// MaxSpeed is the configured cap rounded up to the next speed step, the
// highest value Flags can store.
func (c *CarFlagEncoder) MaxSpeed() float64 {
	return math.Ceil(c.maxSpeed/c.speedFactor) * c.speedFactor
}

// AcceptWay returns true if the way is drivable by car in at least one direction.
func (c *CarFlagEncoder) AcceptWay(tags osm.Tags) bool {
	if _, ok := carSpeeds[tags.Find("highway")]; !ok {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" || tags.Find("motorcar") == "no" {
		return false
	}

	fwd, bwd := directionFlags(tags)
	return fwd || bwd
}

// HandleWayTags encodes direction and speed for an accepted way. A numeric
// maxspeed tag overrides the highway default.
func (c *CarFlagEncoder) HandleWayTags(tags osm.Tags) uint32 {
	speed := carSpeeds[tags.Find("highway")]
	if ms, ok := parseMaxSpeed(tags.Find("maxspeed")); ok {
		speed = ms
	}
	fwd, bwd := directionFlags(tags)
	return c.Flags(speed, fwd, bwd)
}

func (c *CarFlagEncoder) Flags(speedKmh float64, forward, backward bool) uint32 {
	var flags uint32
	if forward {
		flags |= forwardBit
	}
	if backward {
		flags |= backwardBit
	}

	if speedKmh > c.maxSpeed {
		speedKmh = c.maxSpeed
	}
	units := uint32(0)
	if speedKmh > 0 {
		units = uint32(math.Round(speedKmh / c.speedFactor))
		if units == 0 {
			units = 1 // slow but open roads must stay usable
		}
		if units > c.speedMask {
			units = c.speedMask
		}
	}
	return flags | units<<speedShift
}

func (c *CarFlagEncoder) CanTraverse(flags uint32, reverse bool) bool {
	if reverse {
		return flags&backwardBit != 0
	}
	return flags&forwardBit != 0
}

func (c *CarFlagEncoder) Speed(flags uint32, reverse bool) float64 {
	if !c.CanTraverse(flags, reverse) {
		return 0
	}
	return float64((flags>>speedShift)&c.speedMask) * c.speedFactor
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward = true
	backward = true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		// Time-dependent, not routable.
		forward, backward = false, false
	}

	return forward, backward
}

// parseMaxSpeed understands plain km/h values and "<n> mph".
func parseMaxSpeed(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	factor := 1.0
	if s, ok := strings.CutSuffix(v, "mph"); ok {
		v = strings.TrimSpace(s)
		factor = mphToKmh
	} else if s, ok := strings.CutSuffix(v, "km/h"); ok {
		v = strings.TrimSpace(s)
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n * factor, true
}
