package graph

import (
	"sort"

	"github.com/paulmach/osm"

	osmparser "algo_router/pkg/osm"
)

// Build creates a CSR Graph from parsed OSM edges. Self-loops are dropped.
func Build(result *osmparser.ParseResult) *Graph {
	edges := result.Edges
	if len(edges) == 0 {
		return &Graph{}
	}

	// Step 1: Collect all unique node IDs and build a compact mapping.
	nodeSet := make(map[osm.NodeID]uint32)
	var nodeIDs []osm.NodeID

	addNode := func(id osm.NodeID) uint32 {
		if idx, ok := nodeSet[id]; ok {
			return idx
		}
		idx := uint32(len(nodeIDs))
		nodeSet[id] = idx
		nodeIDs = append(nodeIDs, id)
		return idx
	}

	for i := range edges {
		if edges[i].FromNodeID == edges[i].ToNodeID {
			continue
		}
		addNode(edges[i].FromNodeID)
		addNode(edges[i].ToNodeID)
	}

	// Step 2: Build compact edge list with remapped indices.
	compact := make([]compactEdge, 0, len(edges))
	for _, e := range edges {
		if e.FromNodeID == e.ToNodeID {
			continue
		}
		compact = append(compact, compactEdge{
			way:   e.WayID,
			base:  nodeSet[e.FromNodeID],
			adj:   nodeSet[e.ToNodeID],
			dist:  e.Weight,
			flags: e.Flags,
		})
	}

	// Step 3: Sort edges by base node for a deterministic edge order.
	sort.SliceStable(compact, func(i, j int) bool {
		if compact[i].base != compact[j].base {
			return compact[i].base < compact[j].base
		}
		return compact[i].adj < compact[j].adj
	})

	// Step 4: Node coordinates.
	numNodes := uint32(len(nodeIDs))
	nodeLat := make([]float64, numNodes)
	nodeLon := make([]float64, numNodes)
	for id, idx := range nodeSet {
		nodeLat[idx] = result.NodeLat[id]
		nodeLon[idx] = result.NodeLon[id]
	}

	g := assemble(compact, nodeLat, nodeLon)

	// Step 5: Resolve way-level restrictions to edge-level turns.
	if len(result.Restrictions) > 0 {
		wayEdgesAt := make(map[wayNode][]uint32)
		for id, e := range compact {
			wayEdgesAt[wayNode{e.way, e.base}] = append(wayEdgesAt[wayNode{e.way, e.base}], uint32(id))
			wayEdgesAt[wayNode{e.way, e.adj}] = append(wayEdgesAt[wayNode{e.way, e.adj}], uint32(id))
		}
		for _, r := range result.Restrictions {
			via, ok := nodeSet[r.ViaNode]
			if !ok {
				continue
			}
			for _, from := range wayEdgesAt[wayNode{r.FromWay, via}] {
				for _, to := range wayEdgesAt[wayNode{r.ToWay, via}] {
					if g.Restrictions == nil {
						g.Restrictions = make(map[Turn]struct{})
					}
					g.Restrictions[Turn{FromEdge: from, Via: via, ToEdge: to}] = struct{}{}
				}
			}
		}
	}

	return g
}

// compactEdge is an edge with dense node indices.
type compactEdge struct {
	way   osm.WayID
	base  uint32
	adj   uint32
	dist  uint32
	flags uint32
}

type wayNode struct {
	way  osm.WayID
	node uint32
}

// assemble lays out edge arrays and the two-sided CSR adjacency. Edge ids
// are positions in edges.
func assemble(edges []compactEdge, nodeLat, nodeLon []float64) *Graph {
	numNodes := uint32(len(nodeLat))
	numEdges := uint32(len(edges))

	base := make([]uint32, numEdges)
	adj := make([]uint32, numEdges)
	dist := make([]uint32, numEdges)
	flags := make([]uint32, numEdges)

	// Count adjacency entries per node; every edge appears at both ends.
	firstOut := make([]uint32, numNodes+1)
	for i, e := range edges {
		base[i] = e.base
		adj[i] = e.adj
		dist[i] = e.dist
		flags[i] = e.flags
		firstOut[e.base+1]++
		firstOut[e.adj+1]++
	}
	// Prefix sum.
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	adjEdge := make([]uint32, 2*numEdges)
	adjNode := make([]uint32, 2*numEdges)
	pos := make([]uint32, numNodes)
	copy(pos, firstOut[:numNodes])
	for i, e := range edges {
		adjEdge[pos[e.base]] = uint32(i)
		adjNode[pos[e.base]] = e.adj
		pos[e.base]++

		adjEdge[pos[e.adj]] = uint32(i)
		adjNode[pos[e.adj]] = e.base
		pos[e.adj]++
	}

	return &Graph{
		NumNodes: numNodes,
		NumEdges: numEdges,
		EdgeBase: base,
		EdgeAdj:  adj,
		Distance: dist,
		Flags:    flags,
		FirstOut: firstOut,
		AdjEdge:  adjEdge,
		AdjNode:  adjNode,
		NodeLat:  nodeLat,
		NodeLon:  nodeLon,
	}
}
