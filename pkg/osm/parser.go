package osm

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/rs/zerolog"

	"algo_router/pkg/encoding"
	"algo_router/pkg/geo"
)

// RawEdge is one way segment between two consecutive way nodes. Direction
// and speed live in Flags, produced by the vehicle encoder.
type RawEdge struct {
	WayID      osm.WayID
	FromNodeID osm.NodeID
	ToNodeID   osm.NodeID
	Weight     uint32 // distance in millimeters
	Flags      uint32
}

// RawRestriction forbids turning from FromWay into ToWay at ViaNode.
type RawRestriction struct {
	FromWay osm.WayID
	ViaNode osm.NodeID
	ToWay   osm.WayID
}

// ParseResult holds the output of parsing an OSM PBF file.
type ParseResult struct {
	Edges        []RawEdge
	Restrictions []RawRestriction
	NodeLat      map[osm.NodeID]float64
	NodeLon      map[osm.NodeID]float64
}

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	ID      osm.WayID
	NodeIDs []osm.NodeID
	Flags   uint32
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only edges with both endpoints inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox   BBox            // if non-zero, filter edges to this bounding box
	Logger *zerolog.Logger // nil disables progress logging
}

// Parse reads an OSM PBF file and returns the edges the encoder accepts.
// The reader is consumed twice (seeks back to start for the second pass),
// so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, enc encoding.EdgePropertyEncoder, opts ...ParseOptions) (*ParseResult, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	log := zerolog.Nop()
	if opt.Logger != nil {
		log = *opt.Logger
	}

	// Pass 1: ways and restriction relations.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo
	var restrictions []RawRestriction

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true

	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Way:
			if len(obj.Nodes) < 2 || !enc.AcceptWay(obj.Tags) {
				continue
			}
			nodeIDs := make([]osm.NodeID, len(obj.Nodes))
			for i, wn := range obj.Nodes {
				nodeIDs[i] = wn.ID
				referencedNodes[wn.ID] = struct{}{}
			}
			ways = append(ways, wayInfo{
				ID:      obj.ID,
				NodeIDs: nodeIDs,
				Flags:   enc.HandleWayTags(obj.Tags),
			})
		case *osm.Relation:
			if r, ok := parseRestriction(obj, enc.Name()); ok {
				restrictions = append(restrictions, r)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Info().
		Int("ways", len(ways)).
		Int("nodes", len(referencedNodes)).
		Int("restrictions", len(restrictions)).
		Msg("pass 1 complete")

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Info().Int("coordinates", len(nodeLat)).Msg("pass 2 complete")

	edges, skipped, filtered := buildEdges(ways, nodeLat, nodeLon, opt.BBox)
	if skipped > 0 {
		log.Warn().Int("edges", skipped).Msg("skipped edges with missing node coordinates")
	}
	if filtered > 0 {
		log.Info().Int("edges", filtered).Msg("filtered edges outside bounding box")
	}
	log.Info().Int("edges", len(edges)).Msg("built edges")

	return &ParseResult{
		Edges:        edges,
		Restrictions: restrictions,
		NodeLat:      nodeLat,
		NodeLon:      nodeLon,
	}, nil
}

// buildEdges splits ways into segments with Haversine lengths.
func buildEdges(ways []wayInfo, nodeLat, nodeLon map[osm.NodeID]float64, bbox BBox) (edges []RawEdge, skipped, filtered int) {
	useBBox := !bbox.IsZero()

	for _, w := range ways {
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID := w.NodeIDs[i]
			toID := w.NodeIDs[i+1]

			fromLat, fromOk := nodeLat[fromID]
			fromLon := nodeLon[fromID]
			toLat, toOk := nodeLat[toID]
			toLon := nodeLon[toID]

			if !fromOk || !toOk {
				skipped++
				continue
			}
			if useBBox && (!bbox.Contains(fromLat, fromLon) || !bbox.Contains(toLat, toLon)) {
				filtered++
				continue
			}

			dist := geo.Haversine(fromLat, fromLon, toLat, toLon)
			weightMM := uint32(math.Round(dist * 1000))
			if weightMM == 0 {
				weightMM = 1 // avoid zero-weight edges
			}

			edges = append(edges, RawEdge{
				WayID:      w.ID,
				FromNodeID: fromID,
				ToNodeID:   toID,
				Weight:     weightMM,
				Flags:      w.Flags,
			})
		}
	}
	return edges, skipped, filtered
}

// exemptingTags lists the except= values that release a vehicle from a
// restriction.
var exemptingTags = map[string][]string{
	"car": {"motorcar", "motor_vehicle", "vehicle"},
}

// exempt reports whether an except=a;b;c list covers vehicle.
func exempt(except, vehicle string) bool {
	if except == "" {
		return false
	}
	for _, v := range strings.Split(except, ";") {
		for _, tag := range exemptingTags[vehicle] {
			if strings.TrimSpace(v) == tag {
				return true
			}
		}
	}
	return false
}

// parseRestriction extracts a prohibitive turn restriction ("no_*") with a
// way-node-way shape. Restrictions whose except tag covers vehicle are
// skipped.
func parseRestriction(r *osm.Relation, vehicle string) (RawRestriction, bool) {
	if r.Tags.Find("type") != "restriction" {
		return RawRestriction{}, false
	}
	if exempt(r.Tags.Find("except"), vehicle) {
		return RawRestriction{}, false
	}
	kind := r.Tags.Find("restriction")
	if kind == "" && vehicle == "car" {
		kind = r.Tags.Find("restriction:motorcar")
	}
	if !strings.HasPrefix(kind, "no_") {
		return RawRestriction{}, false
	}

	var res RawRestriction
	var haveFrom, haveVia, haveTo bool
	for _, m := range r.Members {
		switch {
		case m.Role == "from" && m.Type == osm.TypeWay:
			res.FromWay = osm.WayID(m.Ref)
			haveFrom = true
		case m.Role == "via" && m.Type == osm.TypeNode:
			res.ViaNode = osm.NodeID(m.Ref)
			haveVia = true
		case m.Role == "to" && m.Type == osm.TypeWay:
			res.ToWay = osm.WayID(m.Ref)
			haveTo = true
		}
	}
	return res, haveFrom && haveVia && haveTo
}
