package graph

// Graph is a read-only road graph. Edges are stored once, from EdgeBase to
// EdgeAdj; the encoder flags decide which directions are open. Adjacency is
// kept in CSR (Compressed Sparse Row) format and lists every edge at both
// of its end nodes.
type Graph struct {
	NumNodes uint32
	NumEdges uint32

	EdgeBase []uint32 // len: NumEdges
	EdgeAdj  []uint32 // len: NumEdges
	Distance []uint32 // len: NumEdges; length in millimeters
	Flags    []uint32 // len: NumEdges; encoder flag word

	FirstOut []uint32 // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] index AdjEdge/AdjNode
	AdjEdge  []uint32 // edge id of each adjacency entry
	AdjNode  []uint32 // node on the other side of each adjacency entry

	NodeLat []float64 // len: NumNodes
	NodeLon []float64 // len: NumNodes

	// Restrictions holds forbidden turns. Only edge-based searches read it.
	Restrictions map[Turn]struct{}
}

// Turn is a transition from one edge to another over their shared node.
type Turn struct {
	FromEdge uint32
	Via      uint32
	ToEdge   uint32
}

// EdgeRef is one edge seen from an adjacency walk starting at From.
type EdgeRef struct {
	ID       uint32
	From     uint32
	To       uint32
	Distance uint32 // millimeters
	Flags    uint32
	// Reverse is true when From->To runs against the stored orientation.
	Reverse bool
}

// DistanceMeters returns the edge length in meters.
func (e EdgeRef) DistanceMeters() float64 {
	return float64(e.Distance) / 1000.0
}

// EdgesFrom returns the range of adjacency indices for node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// EdgeAt returns the edge behind adjacency index a.
func (g *Graph) EdgeAt(a uint32) EdgeRef {
	id := g.AdjEdge[a]
	to := g.AdjNode[a]
	return EdgeRef{
		ID:       id,
		From:     g.OtherNode(id, to),
		To:       to,
		Distance: g.Distance[id],
		Flags:    g.Flags[id],
		Reverse:  g.EdgeBase[id] == to,
	}
}

// Edge returns edge id walked from node from. from must be one of its ends.
func (g *Graph) Edge(id, from uint32) EdgeRef {
	return EdgeRef{
		ID:       id,
		From:     from,
		To:       g.OtherNode(id, from),
		Distance: g.Distance[id],
		Flags:    g.Flags[id],
		Reverse:  g.EdgeBase[id] != from,
	}
}

// OtherNode returns the end of edge id that is not node.
func (g *Graph) OtherNode(id, node uint32) uint32 {
	if g.EdgeBase[id] == node {
		return g.EdgeAdj[id]
	}
	return g.EdgeBase[id]
}

// TurnRestricted reports whether turning from one edge into another at via is forbidden.
func (g *Graph) TurnRestricted(fromEdge, via, toEdge uint32) bool {
	if len(g.Restrictions) == 0 {
		return false
	}
	_, ok := g.Restrictions[Turn{FromEdge: fromEdge, Via: via, ToEdge: toEdge}]
	return ok
}

// FindEdge returns the first edge connecting u and v in either orientation.
func (g *Graph) FindEdge(u, v uint32) (uint32, bool) {
	start, end := g.EdgesFrom(u)
	for a := start; a < end; a++ {
		if g.AdjNode[a] == v {
			return g.AdjEdge[a], true
		}
	}
	return 0, false
}
