package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"

	"algo_router/pkg/config"
	"algo_router/pkg/graph"
	osmparser "algo_router/pkg/osm"
	"algo_router/pkg/routing"
	"algo_router/pkg/weighting"
)

// parseLatLng reads "lat,lng".
func parseLatLng(s string) (routing.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return routing.LatLng{}, fmt.Errorf("expected lat,lng, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return routing.LatLng{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return routing.LatLng{}, fmt.Errorf("longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return routing.LatLng{}, fmt.Errorf("coordinate out of range: %q", s)
	}
	return routing.LatLng{Lat: lat, Lng: lng}, nil
}

// resolveBBox turns --bbox or --region into a parser filter. Both empty
// means no filter.
func resolveBBox(bbox, region string) (osmparser.BBox, error) {
	switch {
	case bbox != "" && region != "":
		return osmparser.BBox{}, fmt.Errorf("--bbox and --region are mutually exclusive")
	case region != "":
		b, ok := regions[strings.ToLower(region)]
		if !ok {
			return osmparser.BBox{}, fmt.Errorf("unknown region %q", region)
		}
		return b, nil
	case bbox != "":
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			return osmparser.BBox{}, fmt.Errorf("invalid bbox format (expected minLat,minLng,maxLat,maxLng): %w", err)
		}
		if minLat > maxLat || minLng > maxLng {
			return osmparser.BBox{}, fmt.Errorf("invalid bbox: min exceeds max")
		}
		return osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}, nil
	}
	return osmparser.BBox{}, nil
}

func writeAlgorithms(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEDGE-BASED\tBIDIRECTIONAL\tAPPROXIMATION")
	for _, v := range routing.Variants() {
		id := v.String()
		if v == routing.VariantAStar {
			id = "(default)"
		}
		fmt.Fprintf(tw, "%s\t%t\t%t\t%t\n", id, v.EdgeBased(), v.Bidirectional(), v.SupportsApproximation())
	}
	return tw.Flush()
}

func writeResult(w io.Writer, format string, g *graph.Graph, wt weighting.Weighting, res *routing.RouteResult) error {
	switch strings.ToLower(format) {
	case config.FormatPolyline:
		coords := make([][]float64, len(res.Geometry))
		for i, p := range res.Geometry {
			coords[i] = []float64{p.Lat, p.Lng}
		}
		_, err := fmt.Fprintln(w, string(polyline.EncodeCoords(coords)))
		return err

	case config.FormatGeoJSON:
		f := geojson.NewFeature(res.Path.LineString(g))
		f.Properties["algorithm"] = res.Algorithm
		f.Properties["weighting"] = wt.Name()
		f.Properties["weight"] = res.Path.Weight
		f.Properties["distance_m"] = res.Path.DistanceMeters
		f.Properties["time_s"] = res.Path.TimeSeconds
		f.Properties["visited_nodes"] = res.VisitedNodes

		fc := geojson.NewFeatureCollection()
		fc.Append(f)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(fc)

	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "algorithm\t%s\n", res.Algorithm)
		fmt.Fprintf(tw, "weighting\t%s\n", wt.Name())
		fmt.Fprintf(tw, "weight\t%.3f\n", res.Path.Weight)
		fmt.Fprintf(tw, "distance\t%.1f m\n", res.Path.DistanceMeters)
		fmt.Fprintf(tw, "time\t%.1f s\n", res.Path.TimeSeconds)
		fmt.Fprintf(tw, "nodes\t%d\n", len(res.Path.Nodes))
		fmt.Fprintf(tw, "visited\t%d\n", res.VisitedNodes)
		fmt.Fprintf(tw, "snap\t%.1f m / %.1f m\n", res.Start.DistanceMeters, res.End.DistanceMeters)
		fmt.Fprintf(tw, "took\t%s\n", res.Took)
		return tw.Flush()
	}
}
