package main

import (
	"fmt"
	"slices"
	"sort"
)

// Canvas is the diagram: nodes, the connections between them, and the
// viewport onto the unbounded logical plane.
//
// Connections are indexed by the nodes they touch so deleting a node can
// cascade without scanning, and so every mutation of a node re-routes exactly
// the connections that depend on it.
type Canvas struct {
	Title    string
	Viewport Viewport

	nodes       map[int]*Node
	nodeOrder   []int
	connections map[int]*Connection
	connOrder   []int
	byNode      map[int]map[int]struct{}

	nextNodeID int
	nextConnID int
}

func NewCanvas(title string) *Canvas {
	if title == "" {
		title = defaultTitle
	}
	return &Canvas{
		Title:       title,
		Viewport:    Viewport{Width: maxDisplayWidth, Height: 20},
		nodes:       make(map[int]*Node),
		connections: make(map[int]*Connection),
		byNode:      make(map[int]map[int]struct{}),
		nextNodeID:  1,
		nextConnID:  1,
	}
}

func (c *Canvas) CreateNode(kind NodeKind, x, y int) int {
	w, h := defaultSize(kind)
	node := Node{
		ID:     c.nextNodeID,
		Kind:   kind,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
	}
	c.insertNode(node)
	return node.ID
}

// insertNode adds a node with a caller-chosen id and moves the allocator
// past it so ids are never handed out twice.
func (c *Canvas) insertNode(node Node) {
	n := node
	c.nodes[n.ID] = &n
	c.nodeOrder = append(c.nodeOrder, n.ID)
	c.byNode[n.ID] = make(map[int]struct{})
	if n.ID >= c.nextNodeID {
		c.nextNodeID = n.ID + 1
	}
}

func (c *Canvas) Node(id int) (Node, bool) {
	n, ok := c.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all nodes in creation order.
func (c *Canvas) Nodes() []Node {
	out := make([]Node, 0, len(c.nodeOrder))
	for _, id := range c.nodeOrder {
		out = append(out, *c.nodes[id])
	}
	return out
}

func (c *Canvas) NodeCount() int {
	return len(c.nodeOrder)
}

// LastNode returns the most recently created node still on the canvas.
func (c *Canvas) LastNode() (Node, bool) {
	if len(c.nodeOrder) == 0 {
		return Node{}, false
	}
	return *c.nodes[c.nodeOrder[len(c.nodeOrder)-1]], true
}

func (c *Canvas) Connection(id int) (Connection, bool) {
	conn, ok := c.connections[id]
	if !ok {
		return Connection{}, false
	}
	out := *conn
	out.Path = slices.Clone(conn.Path)
	return out, true
}

// Connections returns all connections in creation order.
func (c *Canvas) Connections() []Connection {
	out := make([]Connection, 0, len(c.connOrder))
	for _, id := range c.connOrder {
		conn, _ := c.Connection(id)
		out = append(out, conn)
	}
	return out
}

// ConnectionsOf returns the ids of the connections touching nodeID, sorted.
func (c *Canvas) ConnectionsOf(nodeID int) []int {
	deps := c.byNode[nodeID]
	ids := make([]int, 0, len(deps))
	for id := range deps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (c *Canvas) MoveNode(id, dx, dy int) error {
	n, ok := c.nodes[id]
	if !ok {
		return fmt.Errorf("move node %d: %w", id, ErrNotFound)
	}
	if dx == 0 && dy == 0 {
		return nil
	}
	n.X += dx
	n.Y += dy
	c.reroute(id)
	return nil
}

func (c *Canvas) ResizeNode(id, dw, dh int) error {
	n, ok := c.nodes[id]
	if !ok {
		return fmt.Errorf("resize node %d: %w", id, ErrNotFound)
	}
	w := max(n.Width+dw, minNodeWidth)
	h := max(n.Height+dh, minNodeHeight)
	if w == n.Width && h == n.Height {
		return nil
	}
	n.Width = w
	n.Height = h
	c.reroute(id)
	return nil
}

func (c *Canvas) SetText(id int, text string) error {
	n, ok := c.nodes[id]
	if !ok {
		return fmt.Errorf("set text on node %d: %w", id, ErrNotFound)
	}
	n.Text = text
	return nil
}

// DeleteNode removes the node and every connection that references it and
// returns the removed connection ids. Deleting a missing node is a no-op.
func (c *Canvas) DeleteNode(id int) []int {
	if _, ok := c.nodes[id]; !ok {
		return nil
	}
	removed := c.ConnectionsOf(id)
	for _, connID := range removed {
		c.removeConnection(connID)
	}
	delete(c.nodes, id)
	delete(c.byNode, id)
	c.nodeOrder = slices.DeleteFunc(c.nodeOrder, func(v int) bool { return v == id })
	return removed
}

func (c *Canvas) CreateConnection(from, to int, arrow bool) (int, error) {
	src, ok := c.nodes[from]
	if !ok {
		return 0, fmt.Errorf("connect source %d: %w", from, ErrNotFound)
	}
	dst, ok := c.nodes[to]
	if !ok {
		return 0, fmt.Errorf("connect target %d: %w", to, ErrNotFound)
	}
	if from == to {
		return 0, fmt.Errorf("connect node %d to itself: %w", from, ErrNotFound)
	}

	conn := &Connection{
		ID:     c.nextConnID,
		FromID: from,
		ToID:   to,
		Arrow:  arrow,
		Path:   Route(src.rect(), dst.rect()),
	}
	c.nextConnID++
	c.addConnection(conn)
	return conn.ID, nil
}

func (c *Canvas) addConnection(conn *Connection) {
	c.connections[conn.ID] = conn
	c.connOrder = append(c.connOrder, conn.ID)
	c.byNode[conn.FromID][conn.ID] = struct{}{}
	c.byNode[conn.ToID][conn.ID] = struct{}{}
	if conn.ID >= c.nextConnID {
		c.nextConnID = conn.ID + 1
	}
}

func (c *Canvas) removeConnection(id int) {
	conn, ok := c.connections[id]
	if !ok {
		return
	}
	delete(c.byNode[conn.FromID], id)
	delete(c.byNode[conn.ToID], id)
	delete(c.connections, id)
	c.connOrder = slices.DeleteFunc(c.connOrder, func(v int) bool { return v == id })
}

// ToggleArrow flips the arrowhead of a connection and returns the new state.
func (c *Canvas) ToggleArrow(id int) (bool, error) {
	conn, ok := c.connections[id]
	if !ok {
		return false, fmt.Errorf("toggle arrow on connection %d: %w", id, ErrNotFound)
	}
	conn.Arrow = !conn.Arrow
	return conn.Arrow, nil
}

func (c *Canvas) DeleteConnection(id int) error {
	if _, ok := c.connections[id]; !ok {
		return fmt.Errorf("delete connection %d: %w", id, ErrNotFound)
	}
	c.removeConnection(id)
	return nil
}

// CycleSelection returns the node after (or before) current in creation
// order, wrapping around. A current id that is not on the canvas starts the
// walk from the first (or last) node.
func (c *Canvas) CycleSelection(current int, dir Direction) (int, bool) {
	return cycleRing(c.nodeOrder, current, dir)
}

func (c *Canvas) CycleConnection(current int, dir Direction) (int, bool) {
	return cycleRing(c.connOrder, current, dir)
}

func cycleRing(order []int, current int, dir Direction) (int, bool) {
	if len(order) == 0 {
		return 0, false
	}
	idx := slices.Index(order, current)
	if idx < 0 {
		if dir == Previous {
			return order[len(order)-1], true
		}
		return order[0], true
	}
	if dir == Previous {
		return order[(idx+len(order)-1)%len(order)], true
	}
	return order[(idx+1)%len(order)], true
}

// NodeAt returns the topmost node covering the logical cell (x, y). Later
// nodes are drawn over earlier ones, so the search runs newest first.
func (c *Canvas) NodeAt(x, y int) (int, bool) {
	p := point{x, y}
	for i := len(c.nodeOrder) - 1; i >= 0; i-- {
		n := c.nodes[c.nodeOrder[i]]
		if n.rect().contains(p) {
			return n.ID, true
		}
	}
	return 0, false
}

// ConnectionAt returns the newest connection whose path covers (x, y).
func (c *Canvas) ConnectionAt(x, y int) (int, bool) {
	p := point{x, y}
	for i := len(c.connOrder) - 1; i >= 0; i-- {
		conn := c.connections[c.connOrder[i]]
		if slices.Contains(pathCells(conn.Path), p) {
			return conn.ID, true
		}
	}
	return 0, false
}

func (c *Canvas) Pan(dx, dy int) {
	c.Viewport.X += dx
	c.Viewport.Y += dy
}

func (c *Canvas) SetViewportSize(width, height int) {
	c.Viewport.Width = min(max(width, 1), maxDisplayWidth)
	c.Viewport.Height = max(height, 1)
}

// spawnPosition is where the next created node goes: below the most recent
// node, or near the viewport origin on an empty canvas.
func (c *Canvas) spawnPosition() (int, int) {
	if last, ok := c.LastNode(); ok {
		return last.X, last.Y + last.Height + spawnGap
	}
	return c.Viewport.X + spawnX, c.Viewport.Y + spawnY
}

// Bounds returns the box covering every node and every connection waypoint.
func (c *Canvas) Bounds() (rect, bool) {
	if len(c.nodeOrder) == 0 {
		return rect{}, false
	}
	first := c.nodes[c.nodeOrder[0]]
	minX, minY := first.X, first.Y
	maxX, maxY := first.rect().right(), first.rect().bottom()

	grow := func(p point) {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	for _, id := range c.nodeOrder {
		r := c.nodes[id].rect()
		grow(point{r.X, r.Y})
		grow(point{r.right(), r.bottom()})
	}
	for _, id := range c.connOrder {
		for _, p := range c.connections[id].Path {
			grow(p)
		}
	}
	return rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}, true
}

func (c *Canvas) reroute(nodeID int) {
	for connID := range c.byNode[nodeID] {
		c.routeConnection(c.connections[connID])
	}
}

func (c *Canvas) routeConnection(conn *Connection) {
	src := c.nodes[conn.FromID]
	dst := c.nodes[conn.ToID]
	conn.Path = Route(src.rect(), dst.rect())
}

// Check verifies that every connection references live nodes, that the
// dependency index matches the connections, and that every cached path is a
// valid route. Any failure wraps ErrIntegrity.
func (c *Canvas) Check() error {
	if len(c.nodeOrder) != len(c.nodes) || len(c.connOrder) != len(c.connections) {
		return fmt.Errorf("%w: order and index sizes differ", ErrIntegrity)
	}
	for _, id := range c.nodeOrder {
		n, ok := c.nodes[id]
		if !ok {
			return fmt.Errorf("%w: node %d ordered but missing", ErrIntegrity, id)
		}
		if n.Width < minNodeWidth || n.Height < minNodeHeight {
			return fmt.Errorf("%w: node %d is %dx%d", ErrIntegrity, id, n.Width, n.Height)
		}
		if id >= c.nextNodeID {
			return fmt.Errorf("%w: node %d not below allocator %d", ErrIntegrity, id, c.nextNodeID)
		}
		for connID := range c.byNode[id] {
			conn, ok := c.connections[connID]
			if !ok || (conn.FromID != id && conn.ToID != id) {
				return fmt.Errorf("%w: node %d indexes stale connection %d", ErrIntegrity, id, connID)
			}
		}
	}
	for _, id := range c.connOrder {
		conn, ok := c.connections[id]
		if !ok {
			return fmt.Errorf("%w: connection %d ordered but missing", ErrIntegrity, id)
		}
		src, okSrc := c.nodes[conn.FromID]
		dst, okDst := c.nodes[conn.ToID]
		if !okSrc || !okDst {
			return fmt.Errorf("%w: connection %d references a deleted node", ErrIntegrity, id)
		}
		if _, ok := c.byNode[conn.FromID][id]; !ok {
			return fmt.Errorf("%w: connection %d missing from source index", ErrIntegrity, id)
		}
		if _, ok := c.byNode[conn.ToID][id]; !ok {
			return fmt.Errorf("%w: connection %d missing from target index", ErrIntegrity, id)
		}
		if len(conn.Path) == 0 || !isOrthogonal(conn.Path) {
			return fmt.Errorf("%w: connection %d has an invalid path", ErrIntegrity, id)
		}
		if !src.rect().onBoundary(conn.Path[0]) || !dst.rect().onBoundary(conn.Path[len(conn.Path)-1]) {
			return fmt.Errorf("%w: connection %d path is detached from its nodes", ErrIntegrity, id)
		}
	}
	return nil
}
