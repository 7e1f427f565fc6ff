package routing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

// RouteResult is the output of a coordinate-to-coordinate query.
type RouteResult struct {
	Algorithm    string
	Start, End   graph.SnapResult
	Path         *Path
	Geometry     []LatLng
	VisitedNodes int
	Took         time.Duration
}

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, start, end LatLng) (*RouteResult, error)
}

// Engine implements Router by snapping both coordinates to graph nodes and
// running a freshly created algorithm for every query, so one Engine can
// serve concurrent callers.
type Engine struct {
	g       *graph.Graph
	snapper *graph.Snapper
	create  func() (Algorithm, error)
	logger  zerolog.Logger
}

// NewEngine creates an engine that builds its algorithms through sel with
// the given encoder and weighting.
func NewEngine(g *graph.Graph, snapper *graph.Snapper, sel Selector, enc encoding.EdgePropertyEncoder, w weighting.Weighting, logger zerolog.Logger) *Engine {
	return &Engine{
		g:       g,
		snapper: snapper,
		create:  func() (Algorithm, error) { return sel.Create(g, enc, w) },
		logger:  logger,
	}
}

// NewVehicleEngine creates an engine that composes its algorithms with
// CreateForVehicle. The graph flags must come from the default car encoder.
func NewVehicleEngine(g *graph.Graph, snapper *graph.Snapper, algorithm string, shortest bool, logger zerolog.Logger) *Engine {
	return &Engine{
		g:       g,
		snapper: snapper,
		create:  func() (Algorithm, error) { return CreateForVehicle(algorithm, g, shortest) },
		logger:  logger,
	}
}

// Route computes the cheapest path between the nodes nearest to start and end.
func (e *Engine) Route(ctx context.Context, start, end LatLng) (*RouteResult, error) {
	startSnap, err := e.snapper.Snap(start.Lat, start.Lng)
	if err != nil {
		return nil, err
	}
	endSnap, err := e.snapper.Snap(end.Lat, end.Lng)
	if err != nil {
		return nil, err
	}

	algo, err := e.create()
	if err != nil {
		return nil, err
	}

	began := time.Now()
	path, err := algo.CalcPath(ctx, startSnap.Node, endSnap.Node)
	took := time.Since(began)
	if err != nil {
		e.logger.Debug().Err(err).
			Str("algorithm", algo.Name()).
			Uint32("from", startSnap.Node).
			Uint32("to", endSnap.Node).
			Msg("route failed")
		return nil, err
	}

	e.logger.Debug().
		Str("algorithm", algo.Name()).
		Str("weighting", algo.Weighting().Name()).
		Int("visited", algo.VisitedNodes()).
		Float64("weight", path.Weight).
		Dur("took", took).
		Msg("route found")

	return &RouteResult{
		Algorithm:    algo.Name(),
		Start:        startSnap,
		End:          endSnap,
		Path:         path,
		Geometry:     path.Points(e.g),
		VisitedNodes: algo.VisitedNodes(),
		Took:         took,
	}, nil
}
