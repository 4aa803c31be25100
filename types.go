package main

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// rect is a node footprint in logical coordinates. Boundary cells are the
// first/last row and column; everything else is interior.
type rect struct {
	X, Y int
	W, H int
}

func (r rect) right() int   { return r.X + r.W - 1 }
func (r rect) bottom() int  { return r.Y + r.H - 1 }
func (r rect) centerX() int { return r.X + r.W/2 }
func (r rect) centerY() int { return r.Y + r.H/2 }

func (r rect) contains(p point) bool {
	return p.X >= r.X && p.X <= r.right() && p.Y >= r.Y && p.Y <= r.bottom()
}

func (r rect) onBoundary(p point) bool {
	if !r.contains(p) {
		return false
	}
	return p.X == r.X || p.X == r.right() || p.Y == r.Y || p.Y == r.bottom()
}

func (r rect) inInterior(p point) bool {
	return r.contains(p) && !r.onBoundary(p)
}

type Node struct {
	ID     int
	Kind   NodeKind
	X      int
	Y      int
	Width  int
	Height int
	Text   string
}

func (n Node) rect() rect {
	return rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

type Connection struct {
	ID     int
	FromID int
	ToID   int
	Arrow  bool
	Path   []point
}

// Viewport is the window onto the canvas. Offset is in logical coordinates.
type Viewport struct {
	X      int
	Y      int
	Width  int
	Height int
}

type pendingConnection struct {
	SourceID    int
	Arrow       bool
	CandidateID int // -1 when no other node exists
}

// Selection holds at most one of NodeID/ConnID (-1 means none) plus the
// pending connection, which only lives while a node is the source.
type Selection struct {
	NodeID  int
	ConnID  int
	Pending *pendingConnection
}

func noSelection() Selection {
	return Selection{NodeID: -1, ConnID: -1}
}

func (s Selection) hasNode() bool       { return s.NodeID >= 0 }
func (s Selection) hasConnection() bool { return s.ConnID >= 0 }
func (s Selection) pending() bool       { return s.Pending != nil }

func (s *Selection) selectNode(id int) {
	s.NodeID = id
	s.ConnID = -1
}

func (s *Selection) selectConnection(id int) {
	s.NodeID = -1
	s.ConnID = id
}

func (s *Selection) clear() {
	*s = noSelection()
}

type dragKind int

const (
	dragNone dragKind = iota
	dragMove
	dragResize
	dragConnect
)

type dragState struct {
	kind   dragKind
	nodeID int
	// last pointer position in logical coordinates
	lastX, lastY int
}

type model struct {
	width     int
	height    int
	canvas    *Canvas
	mode      Mode
	selection Selection
	editText  string
	drag      dragState
	store     Saver
	clipboard Clipboard

	statusMessage string
	errorMessage  string
	fatal         error
}
