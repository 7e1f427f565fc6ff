package routing

import "strings"

// Variant enumerates the search algorithms the Selector can produce.
type Variant int

const (
	// VariantAStar is unidirectional node-based A*, the fallback for any
	// identifier outside the vocabulary.
	VariantAStar Variant = iota
	VariantDijkstraBidirectionRef
	VariantEdgeDijkstraBidirectionRef
	VariantDijkstraBidirection
	VariantDijkstra
	VariantEdgeDijkstra
	VariantAStarBidirection
	VariantEdgeAStar
	VariantDijkstraOneToMany
)

// variantTokens is the identifier vocabulary in matching priority order.
var variantTokens = []struct {
	token   string
	variant Variant
}{
	{"dijkstrabi", VariantDijkstraBidirectionRef},
	{"dijkstrabiEdge", VariantEdgeDijkstraBidirectionRef},
	{"dijkstraNative", VariantDijkstraBidirection},
	{"dijkstra", VariantDijkstra},
	{"dijkstraEdge", VariantEdgeDijkstra},
	{"astarbi", VariantAStarBidirection},
	{"astarEdge", VariantEdgeAStar},
	{"dijkstraOneToMany", VariantDijkstraOneToMany},
}

// ParseVariant maps an identifier to its variant, ignoring case. It never
// fails: anything outside the vocabulary, including "", selects VariantAStar.
func ParseVariant(algorithm string) Variant {
	for _, t := range variantTokens {
		if strings.EqualFold(t.token, algorithm) {
			return t.variant
		}
	}
	return VariantAStar
}

// Variants lists every variant, the default last.
func Variants() []Variant {
	out := make([]Variant, 0, len(variantTokens)+1)
	for _, t := range variantTokens {
		out = append(out, t.variant)
	}
	return append(out, VariantAStar)
}

// String returns the identifier that selects v.
func (v Variant) String() string {
	for _, t := range variantTokens {
		if t.variant == v {
			return t.token
		}
	}
	return "astar"
}

// SupportsApproximation reports whether the approximation toggle has an
// effect. Only A* variants with a selectable identifier honour it.
func (v Variant) SupportsApproximation() bool {
	return v == VariantAStarBidirection || v == VariantEdgeAStar
}

// EdgeBased reports whether search states are edges instead of nodes.
func (v Variant) EdgeBased() bool {
	switch v {
	case VariantEdgeDijkstraBidirectionRef, VariantEdgeDijkstra, VariantEdgeAStar:
		return true
	}
	return false
}

// Bidirectional reports whether the variant searches from both ends.
func (v Variant) Bidirectional() bool {
	switch v {
	case VariantDijkstraBidirectionRef, VariantEdgeDijkstraBidirectionRef,
		VariantDijkstraBidirection, VariantAStarBidirection:
		return true
	}
	return false
}
