package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"algo_router/pkg/encoding"
	"algo_router/pkg/graph"
	"algo_router/pkg/weighting"
)

func create(t *testing.T, v Variant, g *graph.Graph, enc encoding.EdgePropertyEncoder, w weighting.Weighting) Algorithm {
	t.Helper()
	a, err := NewSelector(v.String(), false).Create(g, enc, w)
	require.NoError(t, err)
	require.Equal(t, v, a.Variant())
	return a
}

func TestAllVariantsShortest(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})

			p, err := a.CalcPath(context.Background(), 0, 5)
			require.NoError(t, err)
			requireConsistentPath(t, g, p)
			assert.InDelta(t, 550.0, p.Weight, 1e-9)
			assert.Equal(t, []uint32{0, 1, 2, 5}, p.Nodes)
			assert.InDelta(t, 550.0, p.DistanceMeters, 1e-9)
			assert.Positive(t, a.VisitedNodes())
		})
	}
}

func TestAllVariantsFastest(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)
	w := weighting.NewFastest(enc)

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, w)

			p, err := a.CalcPath(context.Background(), 0, 5)
			require.NoError(t, err)
			requireConsistentPath(t, g, p)
			assert.Equal(t, []uint32{0, 3, 4, 5}, p.Nodes)
			// 160 m + 200 m + 200 m at 80 km/h.
			assert.InDelta(t, 25.2, p.Weight, 1e-9)
			assert.InDelta(t, 25.2, p.TimeSeconds, 1e-9)
			assert.InDelta(t, 560.0, p.DistanceMeters, 1e-9)
		})
	}
}

func TestAllVariantsReverseQuery(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})

			p, err := a.CalcPath(context.Background(), 5, 0)
			require.NoError(t, err)
			requireConsistentPath(t, g, p)
			assert.Equal(t, []uint32{5, 2, 1, 0}, p.Nodes)
		})
	}
}

func TestAllVariantsSameNode(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})

			p, err := a.CalcPath(context.Background(), 4, 4)
			require.NoError(t, err)
			assert.Equal(t, []uint32{4}, p.Nodes)
			assert.Empty(t, p.Edges)
			assert.Zero(t, p.Weight)
		})
	}
}

func TestAllVariantsOneway(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc, withOneway(enc))

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})

			// With the oneway, 1 -> 2 is open but 2 -> 1 is not.
			p, err := a.CalcPath(context.Background(), 0, 2)
			require.NoError(t, err)
			assert.Equal(t, []uint32{0, 1, 2}, p.Nodes)

			p, err = a.CalcPath(context.Background(), 2, 0)
			require.NoError(t, err)
			requireConsistentPath(t, g, p)
			assert.Equal(t, []uint32{2, 5, 4, 3, 0}, p.Nodes)
			assert.InDelta(t, 710.0, p.Weight, 1e-9)
		})
	}
}

func TestTurnRestrictionsOnlyAffectEdgeBased(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc, withNoStraightOn)
	require.Len(t, g.Restrictions, 1)

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})

			p, err := a.CalcPath(context.Background(), 0, 2)
			require.NoError(t, err)
			requireConsistentPath(t, g, p)
			if v.EdgeBased() {
				assert.Equal(t, []uint32{0, 3, 4, 5, 2}, p.Nodes)
				assert.InDelta(t, 710.0, p.Weight, 1e-9)
			} else {
				assert.Equal(t, []uint32{0, 1, 2}, p.Nodes)
				assert.InDelta(t, 400.0, p.Weight, 1e-9)
			}

			// The opposite direction is not restricted.
			p, err = a.CalcPath(context.Background(), 2, 0)
			require.NoError(t, err)
			assert.Equal(t, []uint32{2, 1, 0}, p.Nodes)
		})
	}
}

func TestAllVariantsNoRoute(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc, withIsland(enc))
	require.Equal(t, uint32(8), g.NumNodes)

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})

			_, err := a.CalcPath(context.Background(), 0, 7)
			assert.ErrorIs(t, err, ErrNoRoute)
			_, err = a.CalcPath(context.Background(), 6, 5)
			assert.ErrorIs(t, err, ErrNoRoute)

			// The instance stays usable after a failed query.
			p, err := a.CalcPath(context.Background(), 6, 7)
			require.NoError(t, err)
			assert.Equal(t, []uint32{6, 7}, p.Nodes)
		})
	}
}

func TestAllVariantsNodeOutOfRange(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)

	for _, v := range Variants() {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})

			_, err := a.CalcPath(context.Background(), 0, g.NumNodes)
			assert.ErrorIs(t, err, ErrNodeOutOfRange)
			_, err = a.CalcPath(context.Background(), 99, 0)
			assert.ErrorIs(t, err, ErrNodeOutOfRange)
		})
	}
}

func TestExactVariantsAgreeOnGrid(t *testing.T) {
	enc := newCar(t)
	g := buildGrid(t, enc, 6)

	pairs := [][4]int{
		{0, 0, 5, 5},
		{5, 5, 0, 0},
		{0, 5, 5, 0},
		{2, 3, 4, 1},
		{1, 1, 1, 4},
	}
	for _, w := range []weighting.Weighting{weighting.Shortest{}, weighting.NewFastest(enc)} {
		ref := create(t, VariantDijkstra, g, enc, w)
		for _, v := range Variants() {
			a := create(t, v, g, enc, w)
			for _, pr := range pairs {
				from, to := gridNode(t, g, pr[0], pr[1]), gridNode(t, g, pr[2], pr[3])

				want, err := ref.CalcPath(context.Background(), from, to)
				require.NoError(t, err)
				got, err := a.CalcPath(context.Background(), from, to)
				require.NoError(t, err)

				requireConsistentPath(t, g, got)
				assert.InDelta(t, want.Weight, got.Weight, 1e-6, "%s %s %v", v, w.Name(), pr)
			}
		}
	}
}

func TestApproximateVariantsFindValidPaths(t *testing.T) {
	enc := newCar(t)
	g := buildGrid(t, enc, 8)
	from, to := gridNode(t, g, 0, 0), gridNode(t, g, 7, 6)
	optimal := 13 * 120.0

	for _, id := range []string{"astarbi", "astarEdge"} {
		t.Run(id, func(t *testing.T) {
			a, err := NewSelector(id, true).Create(g, enc, weighting.Shortest{})
			require.NoError(t, err)

			p, err := a.CalcPath(context.Background(), from, to)
			require.NoError(t, err)
			requireConsistentPath(t, g, p)
			assert.GreaterOrEqual(t, p.Weight, optimal-1e-6)
		})
	}
}

func TestCanceledContext(t *testing.T) {
	enc := newCar(t)
	g := buildGrid(t, enc, 20)
	from, to := gridNode(t, g, 0, 0), gridNode(t, g, 19, 19)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A* variants may reach the target before the first check.
	for _, v := range []Variant{
		VariantDijkstra,
		VariantDijkstraBidirectionRef,
		VariantDijkstraBidirection,
		VariantEdgeDijkstra,
		VariantEdgeDijkstraBidirectionRef,
		VariantDijkstraOneToMany,
	} {
		t.Run(v.String(), func(t *testing.T) {
			a := create(t, v, g, enc, weighting.Shortest{})
			_, err := a.CalcPath(ctx, from, to)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestDijkstraBidirectionReuse(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)
	a, err := NewDijkstraBidirection(g, enc, weighting.Shortest{})
	require.NoError(t, err)

	for range 3 {
		p, err := a.CalcPath(context.Background(), 0, 5)
		require.NoError(t, err)
		assert.Equal(t, []uint32{0, 1, 2, 5}, p.Nodes)

		p, err = a.CalcPath(context.Background(), 3, 2)
		require.NoError(t, err)
		assert.InDelta(t, 550.0, p.Weight, 1e-9)
		assert.Equal(t, []uint32{3, 4, 5, 2}, p.Nodes)
	}
	assert.Empty(t, a.qs.Touched, "state is reset after each query")
}

func TestDijkstraOneToManyKeepsTree(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)
	a, err := NewDijkstraOneToMany(g, enc, weighting.Shortest{})
	require.NoError(t, err)
	ctx := context.Background()

	_, ok := a.Source()
	assert.False(t, ok)

	p, err := a.CalcPath(ctx, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 5}, p.Nodes)
	visited := a.VisitedNodes()

	// Node 2 was settled on the way to 5; no further search is needed.
	p, err = a.CalcPath(ctx, 0, 2)
	require.NoError(t, err)
	assert.InDelta(t, 400.0, p.Weight, 1e-9)
	assert.Equal(t, visited, a.VisitedNodes())

	weight, err := a.Weight(ctx, 0, 4)
	require.NoError(t, err)
	assert.InDelta(t, 360.0, weight, 1e-9)

	src, ok := a.Source()
	assert.True(t, ok)
	assert.Equal(t, uint32(0), src)

	// A new source starts a new tree.
	p, err = a.CalcPath(ctx, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{5, 2, 1, 0}, p.Nodes)
	src, _ = a.Source()
	assert.Equal(t, uint32(5), src)

	a.Clear()
	_, ok = a.Source()
	assert.False(t, ok)
}

func TestConstructorsRejectNilCollaborators(t *testing.T) {
	enc := newCar(t)
	g := buildTestGraph(t, enc)

	tests := []struct {
		name string
		g    *graph.Graph
		enc  encoding.EdgePropertyEncoder
		w    weighting.Weighting
		want error
	}{
		{"graph", nil, enc, weighting.Shortest{}, ErrNilGraph},
		{"encoder", g, nil, weighting.Shortest{}, ErrNilEncoder},
		{"weighting", g, enc, nil, ErrNilWeighting},
	}
	for _, tt := range tests {
		for _, v := range Variants() {
			t.Run(tt.name+"/"+v.String(), func(t *testing.T) {
				a, err := NewSelector(v.String(), true).Create(tt.g, tt.enc, tt.w)
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, a)
			})
		}
	}
}
