package main

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	return NewCanvas("test")
}

func TestNewCanvas(t *testing.T) {
	c := NewCanvas("")
	require.Equal(t, defaultTitle, c.Title)
	require.Equal(t, 0, c.NodeCount())
	require.Equal(t, maxDisplayWidth, c.Viewport.Width)
	_, ok := c.Bounds()
	require.False(t, ok)
	require.NoError(t, c.Check())
}

func TestCreateNodeDefaults(t *testing.T) {
	tests := []struct {
		kind NodeKind
		w, h int
	}{
		{KindBox, 20, 5},
		{KindDiamond, 15, 7},
		{KindText, 12, 3},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c := newTestCanvas(t)
			id := c.CreateNode(tt.kind, -4, 7)
			n, ok := c.Node(id)
			require.True(t, ok)
			require.Equal(t, tt.kind, n.Kind)
			require.Equal(t, -4, n.X)
			require.Equal(t, 7, n.Y)
			require.Equal(t, tt.w, n.Width)
			require.Equal(t, tt.h, n.Height)
			require.Empty(t, n.Text)
		})
	}
}

func TestNodeIDsAreNeverReused(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 30, 0)
	require.Equal(t, 1, a)
	require.Equal(t, 2, b)

	c.DeleteNode(b)
	c.DeleteNode(a)
	require.Equal(t, 3, c.CreateNode(KindBox, 0, 0))
}

func TestDeleteNodeCascades(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 30, 0)
	d := c.CreateNode(KindBox, 0, 20)

	ab, err := c.CreateConnection(a, b, false)
	require.NoError(t, err)
	bd, err := c.CreateConnection(b, d, true)
	require.NoError(t, err)
	ad, err := c.CreateConnection(a, d, false)
	require.NoError(t, err)

	removed := c.DeleteNode(b)
	require.Equal(t, []int{ab, bd}, removed)

	_, ok := c.Node(b)
	require.False(t, ok)
	_, ok = c.Connection(ab)
	require.False(t, ok)
	_, ok = c.Connection(bd)
	require.False(t, ok)
	_, ok = c.Connection(ad)
	require.True(t, ok, "unrelated connection must survive")

	require.Equal(t, []int{ad}, c.ConnectionsOf(a))
	require.NoError(t, c.Check())

	require.Nil(t, c.DeleteNode(b), "second delete is a no-op")
	require.NoError(t, c.Check())
}

func TestStaleIDs(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 30, 0)
	conn, err := c.CreateConnection(a, b, false)
	require.NoError(t, err)
	c.DeleteNode(b)

	require.ErrorIs(t, c.MoveNode(b, 1, 1), ErrNotFound)
	require.ErrorIs(t, c.ResizeNode(b, 1, 1), ErrNotFound)
	require.ErrorIs(t, c.SetText(b, "x"), ErrNotFound)
	require.ErrorIs(t, c.DeleteConnection(conn), ErrNotFound)
	_, err = c.ToggleArrow(conn)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.CreateConnection(a, b, false)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = c.CreateConnection(a, a, false)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, c.Check())
}

func TestMoveAndResizeReroute(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 40, 0)
	id, err := c.CreateConnection(a, b, true)
	require.NoError(t, err)

	require.NoError(t, c.MoveNode(b, 5, 12))
	require.NoError(t, c.ResizeNode(a, 4, 2))

	na, _ := c.Node(a)
	nb, _ := c.Node(b)
	conn, _ := c.Connection(id)
	require.Equal(t, Route(na.rect(), nb.rect()), conn.Path)
	require.Equal(t, 45, nb.X)
	require.Equal(t, 12, nb.Y)
	require.Equal(t, 24, na.Width)
	require.Equal(t, 7, na.Height)
	require.NoError(t, c.Check())
}

func TestResizeClampsToMinimum(t *testing.T) {
	c := newTestCanvas(t)
	id := c.CreateNode(KindBox, 0, 0)
	require.NoError(t, c.ResizeNode(id, -100, -100))
	n, _ := c.Node(id)
	require.Equal(t, minNodeWidth, n.Width)
	require.Equal(t, minNodeHeight, n.Height)
}

func TestSetTextVerbatim(t *testing.T) {
	c := newTestCanvas(t)
	id := c.CreateNode(KindBox, 0, 0)
	text := "  first line\nsecond  "
	require.NoError(t, c.SetText(id, text))
	n, _ := c.Node(id)
	require.Equal(t, text, n.Text)
}

func TestToggleArrow(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 30, 0)
	id, err := c.CreateConnection(a, b, false)
	require.NoError(t, err)

	on, err := c.ToggleArrow(id)
	require.NoError(t, err)
	require.True(t, on)
	off, err := c.ToggleArrow(id)
	require.NoError(t, err)
	require.False(t, off)
}

func TestCycleSelection(t *testing.T) {
	c := newTestCanvas(t)
	_, ok := c.CycleSelection(-1, Next)
	require.False(t, ok)

	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 0, 10)
	d := c.CreateNode(KindBox, 0, 20)

	tests := []struct {
		name    string
		current int
		dir     Direction
		want    int
	}{
		{"no selection next", -1, Next, a},
		{"no selection previous", -1, Previous, d},
		{"forward", a, Next, b},
		{"wraps forward", d, Next, a},
		{"backward", b, Previous, a},
		{"wraps backward", a, Previous, d},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.CycleSelection(tt.current, tt.dir)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	c.DeleteNode(b)
	got, ok := c.CycleSelection(a, Next)
	require.True(t, ok)
	require.Equal(t, d, got)
}

func TestCycleConnection(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 30, 0)
	first, _ := c.CreateConnection(a, b, false)
	second, _ := c.CreateConnection(b, a, true)

	got, ok := c.CycleConnection(-1, Next)
	require.True(t, ok)
	require.Equal(t, first, got)
	got, _ = c.CycleConnection(first, Next)
	require.Equal(t, second, got)
	got, _ = c.CycleConnection(second, Next)
	require.Equal(t, first, got)
}

func TestHitTesting(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 10, 2)
	far := c.CreateNode(KindBox, 60, 2)
	conn, _ := c.CreateConnection(b, far, false)

	id, ok := c.NodeAt(12, 3)
	require.True(t, ok)
	require.Equal(t, b, id, "newest node wins where nodes overlap")

	id, ok = c.NodeAt(1, 1)
	require.True(t, ok)
	require.Equal(t, a, id)

	_, ok = c.NodeAt(45, 30)
	require.False(t, ok)

	routed, _ := c.Connection(conn)
	start := routed.Path[0]
	hit, ok := c.ConnectionAt(start.X+3, start.Y)
	require.True(t, ok)
	require.Equal(t, conn, hit)
}

func TestViewport(t *testing.T) {
	c := newTestCanvas(t)
	c.SetViewportSize(200, 40)
	require.Equal(t, maxDisplayWidth, c.Viewport.Width)
	require.Equal(t, 40, c.Viewport.Height)

	id := c.CreateNode(KindBox, 3, 3)
	c.Pan(-7, 2)
	require.Equal(t, -7, c.Viewport.X)
	require.Equal(t, 2, c.Viewport.Y)
	n, _ := c.Node(id)
	require.Equal(t, 3, n.X, "panning never moves nodes")
}

func TestSpawnPosition(t *testing.T) {
	c := newTestCanvas(t)
	c.Pan(5, -3)
	x, y := c.spawnPosition()
	require.Equal(t, 15, x)
	require.Equal(t, 7, y)

	c.CreateNode(KindBox, x, y)
	x, y = c.spawnPosition()
	require.Equal(t, 15, x)
	require.Equal(t, 7+5+spawnGap, y)
}

func TestBounds(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, -5, 2)
	b := c.CreateNode(KindText, 30, 20)
	_, err := c.CreateConnection(a, b, false)
	require.NoError(t, err)

	bounds, ok := c.Bounds()
	require.True(t, ok)
	require.Equal(t, rect{X: -5, Y: 2, W: 47, H: 21}, bounds)
}

func TestCheckDetectsDanglingConnection(t *testing.T) {
	c := newTestCanvas(t)
	a := c.CreateNode(KindBox, 0, 0)
	b := c.CreateNode(KindBox, 30, 0)
	_, err := c.CreateConnection(a, b, false)
	require.NoError(t, err)

	// Bypass DeleteNode to simulate a broken cascade.
	delete(c.nodes, b)
	c.nodeOrder = c.nodeOrder[:1]
	require.ErrorIs(t, c.Check(), ErrIntegrity)
}

func TestRandomOperationsKeepIntegrity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	c := newTestCanvas(t)
	kinds := []NodeKind{KindBox, KindDiamond, KindText}
	// Covers zero, deleted and not yet allocated ids.
	pick := func() int { return rng.IntN(c.nextNodeID + 2) }

	for step := 0; step < 2000; step++ {
		switch rng.IntN(8) {
		case 0:
			c.CreateNode(kinds[rng.IntN(len(kinds))], rng.IntN(120)-20, rng.IntN(60)-10)
		case 1:
			_ = c.MoveNode(pick(), rng.IntN(21)-10, rng.IntN(11)-5)
		case 2:
			_ = c.ResizeNode(pick(), rng.IntN(9)-4, rng.IntN(5)-2)
		case 3:
			_ = c.SetText(pick(), "t")
		case 4:
			id := pick()
			c.DeleteNode(id)
			require.Empty(t, c.ConnectionsOf(id))
		case 5, 6:
			_, _ = c.CreateConnection(pick(), pick(), rng.IntN(2) == 0)
		case 7:
			if conns := c.Connections(); len(conns) > 0 {
				conn := conns[rng.IntN(len(conns))]
				if rng.IntN(2) == 0 {
					_, _ = c.ToggleArrow(conn.ID)
				} else {
					require.NoError(t, c.DeleteConnection(conn.ID))
				}
			}
		}
		require.NoError(t, c.Check(), "step %d", step)
	}
}
