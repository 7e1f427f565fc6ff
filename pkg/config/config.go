// Package config loads router settings from ROUTER_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"algo_router/pkg/weighting"
)

// Output formats of the route command.
const (
	FormatSummary  = "summary"
	FormatPolyline = "polyline"
	FormatGeoJSON  = "geojson"
)

// Config holds defaults for the route CLI. Flags override them.
// Example: ROUTER_ALGORITHM=dijkstrabi ROUTER_WEIGHTING=shortest
type Config struct {
	// Algorithm is never validated: unknown identifiers select the default search.
	Algorithm   string `envconfig:"ALGORITHM" default:"astarbi"`
	Approximate bool   `envconfig:"APPROXIMATE" default:"false"`
	Weighting   string `envconfig:"WEIGHTING" default:"fastest"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Format   string `envconfig:"FORMAT" default:"summary"`

	// MaxSnapMeters bounds how far a query point may lie from the road network.
	MaxSnapMeters float64 `envconfig:"MAX_SNAP_METERS" default:"500"`
}

// Validate rejects settings the CLI cannot act on.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Weighting) {
	case weighting.NameShortest, weighting.NameFastest:
	default:
		return fmt.Errorf("unsupported WEIGHTING: %s", c.Weighting)
	}

	switch strings.ToLower(c.Format) {
	case FormatSummary, FormatPolyline, FormatGeoJSON:
	default:
		return fmt.Errorf("unsupported FORMAT: %s", c.Format)
	}

	if !(c.MaxSnapMeters > 0) {
		return fmt.Errorf("MAX_SNAP_METERS must be positive, got %v", c.MaxSnapMeters)
	}
	return nil
}

// Shortest reports whether distance rather than travel time is minimised.
func (c *Config) Shortest() bool {
	return strings.EqualFold(c.Weighting, weighting.NameShortest)
}

// New creates a Config from ROUTER_* environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ROUTER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
