package graph

// UnionFind groups graph nodes into connected sets. Sets are merged by size
// and Find shortens paths as it walks.
type UnionFind struct {
	parent []uint32
	size   []uint32
}

func NewUnionFind(n uint32) *UnionFind {
	uf := &UnionFind{parent: make([]uint32, n), size: make([]uint32, n)}
	for i := range n {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

// Find returns the root of x's set.
func (uf *UnionFind) Find(x uint32) uint32 {
	for p := uf.parent[x]; p != x; p = uf.parent[x] {
		uf.parent[x] = uf.parent[p]
		x = p
	}
	return x
}

// Union joins the sets of x and y, hanging the smaller under the larger.
// It reports false when they were already joined.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.size[rx] < uf.size[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	return true
}

// Size returns the number of nodes in x's set.
func (uf *UnionFind) Size(x uint32) uint32 { return uf.size[uf.Find(x)] }

// LargestComponent returns the nodes of the largest component, in id order.
// Every edge is stored once as a base/adj pair and is walkable from both
// ends, so one union per edge covers the graph. Access flags are ignored:
// a oneway still connects its ends. Ties go to the set holding the lowest
// node id.
func LargestComponent(g *Graph) []uint32 {
	if g.NumNodes == 0 {
		return nil
	}

	uf := NewUnionFind(g.NumNodes)
	for e := uint32(0); e < g.NumEdges; e++ {
		uf.Union(g.EdgeBase[e], g.EdgeAdj[e])
	}

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := uint32(0); i < g.NumNodes; i++ {
		if size := uf.Size(i); size > bestSize {
			bestRoot, bestSize = uf.Find(i), size
		}
	}

	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < g.NumNodes; i++ {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}

	return nodes
}

// FilterToComponent creates a new graph containing only the specified nodes.
// Edges and turn restrictions are renumbered; edges keep their relative order.
func FilterToComponent(g *Graph, nodes []uint32) *Graph {
	if len(nodes) == 0 {
		return &Graph{}
	}

	oldToNew := make(map[uint32]uint32, len(nodes))
	for newIdx, oldIdx := range nodes {
		oldToNew[oldIdx] = uint32(newIdx)
	}

	var edges []compactEdge
	edgeOldToNew := make(map[uint32]uint32)
	for e := uint32(0); e < g.NumEdges; e++ {
		newBase, okBase := oldToNew[g.EdgeBase[e]]
		newAdj, okAdj := oldToNew[g.EdgeAdj[e]]
		if !okBase || !okAdj {
			continue
		}
		edgeOldToNew[e] = uint32(len(edges))
		edges = append(edges, compactEdge{
			base:  newBase,
			adj:   newAdj,
			dist:  g.Distance[e],
			flags: g.Flags[e],
		})
	}

	nodeLat := make([]float64, len(nodes))
	nodeLon := make([]float64, len(nodes))
	for newIdx, oldIdx := range nodes {
		nodeLat[newIdx] = g.NodeLat[oldIdx]
		nodeLon[newIdx] = g.NodeLon[oldIdx]
	}

	out := assemble(edges, nodeLat, nodeLon)

	for t := range g.Restrictions {
		from, okFrom := edgeOldToNew[t.FromEdge]
		to, okTo := edgeOldToNew[t.ToEdge]
		via, okVia := oldToNew[t.Via]
		if !okFrom || !okTo || !okVia {
			continue
		}
		if out.Restrictions == nil {
			out.Restrictions = make(map[Turn]struct{})
		}
		out.Restrictions[Turn{FromEdge: from, Via: via, ToEdge: to}] = struct{}{}
	}

	return out
}
