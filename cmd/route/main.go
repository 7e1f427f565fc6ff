package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"algo_router/pkg/config"
	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/logger"
	osmparser "algo_router/pkg/osm"
	"algo_router/pkg/routing"
	"algo_router/pkg/weighting"
)

// Named bounding boxes accepted by --region.
var regions = map[string]osmparser.BBox{
	"singapore": {MinLat: 1.15, MaxLat: 1.48, MinLng: 103.6, MaxLng: 104.1},
	"kl":        {MinLat: 2.75, MaxLat: 3.5, MinLng: 101.2, MaxLng: 102.0},
}

type pathOptions struct {
	input       string
	from, to    string
	bbox        string
	region      string
	algorithm   string
	approximate bool
	weighting   string
	format      string
	maxSnap     float64
	logLevel    string
}

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:           "route",
		Short:         "Shortest-path queries over an OSM extract",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newPathCmd(cfg), newAlgorithmsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPathCmd(cfg *config.Config) *cobra.Command {
	opts := pathOptions{}
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Route between two coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "Path to .osm.pbf file (required)")
	f.StringVar(&opts.from, "from", "", "Start as lat,lng (required)")
	f.StringVar(&opts.to, "to", "", "Destination as lat,lng (required)")
	f.StringVar(&opts.bbox, "bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng")
	f.StringVar(&opts.region, "region", "", "Named bounding box: singapore or kl")
	f.StringVarP(&opts.algorithm, "algorithm", "a", cfg.Algorithm, "Search algorithm, see 'route algorithms'")
	f.BoolVar(&opts.approximate, "approximate", cfg.Approximate, "Trade optimality for speed (astarbi, astarEdge)")
	f.StringVarP(&opts.weighting, "weighting", "w", cfg.Weighting, "shortest or fastest")
	f.StringVarP(&opts.format, "format", "f", cfg.Format, "summary, polyline or geojson")
	f.Float64Var(&opts.maxSnap, "max-snap", cfg.MaxSnapMeters, "Maximum snapping distance in meters")
	f.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the algorithm identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeAlgorithms(cmd.OutOrStdout())
		},
	}
}

func runPath(ctx context.Context, opts pathOptions, out io.Writer) error {
	log := logger.New("route", opts.logLevel)

	resolved := config.Config{Weighting: opts.weighting, Format: opts.format, MaxSnapMeters: opts.maxSnap}
	if err := resolved.Validate(); err != nil {
		return err
	}
	start, err := parseLatLng(opts.from)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	end, err := parseLatLng(opts.to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	bbox, err := resolveBBox(opts.bbox, opts.region)
	if err != nil {
		return err
	}

	enc, err := encoding.NewCarFlagEncoder()
	if err != nil {
		return fmt.Errorf("vehicle profile: %w", err)
	}
	g, err := loadGraph(ctx, opts.input, enc, bbox, log)
	if err != nil {
		return err
	}

	w, err := weighting.ForName(opts.weighting, enc)
	if err != nil {
		return err
	}
	sel := routing.NewSelector(opts.algorithm, opts.approximate)
	if opts.approximate && !sel.Variant().SupportsApproximation() {
		log.Warn().Str("algorithm", sel.Variant().String()).Msg("approximation has no effect on this algorithm")
	}

	engine := routing.NewEngine(g, graph.NewSnapper(g, opts.maxSnap), sel, enc, w, log)
	res, err := engine.Route(ctx, start, end)
	if err != nil {
		log.Error().Stack().Err(err).Msg("route failed")
		return err
	}
	return writeResult(out, opts.format, g, w, res)
}

// loadGraph parses the extract, builds the graph and keeps its largest
// connected component.
func loadGraph(ctx context.Context, path string, enc encoding.EdgePropertyEncoder, bbox osmparser.BBox, log zerolog.Logger) (*graph.Graph, error) {
	began := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	parsed, err := osmparser.Parse(ctx, f, enc, osmparser.ParseOptions{BBox: bbox, Logger: &log})
	if err != nil {
		return nil, fmt.Errorf("parse OSM data: %w", err)
	}

	g := graph.Build(parsed)
	log.Info().Uint32("nodes", g.NumNodes).Uint32("edges", g.NumEdges).Int("restrictions", len(g.Restrictions)).Msg("graph built")

	nodes := graph.LargestComponent(g)
	if g.NumNodes > 0 {
		log.Info().
			Int("nodes", len(nodes)).
			Float64("share", float64(len(nodes))/float64(g.NumNodes)*100).
			Msg("largest component")
	}
	g = graph.FilterToComponent(g, nodes)
	log.Info().
		Uint32("nodes", g.NumNodes).
		Uint32("edges", g.NumEdges).
		Dur("took", time.Since(began).Round(time.Millisecond)).
		Msg("graph ready")
	return g, nil
}
