package main

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Grid is a rendered character matrix, indexed [row][column].
type Grid [][]rune

func newGrid(width, height int) Grid {
	width = max(width, 0)
	height = max(height, 0)
	g := make(Grid, height)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", width))
	}
	return g
}

func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g Grid) Height() int { return len(g) }

// At returns the rune at column x, row y, or a space outside the grid.
func (g Grid) At(x, y int) rune {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return ' '
	}
	return g[y][x]
}

// Rows returns every row at full grid width. Each row is exactly Width
// display columns wide: a double-width rune whose second cell was
// overwritten or clipped becomes a space.
func (g Grid) Rows() []string {
	rows := make([]string, len(g))
	for i, row := range g {
		var b strings.Builder
		for x := 0; x < len(row); x++ {
			r := row[x]
			switch {
			case r == glyphWide:
				b.WriteRune(' ')
			case runewidth.RuneWidth(r) == 2:
				if x+1 < len(row) && row[x+1] == glyphWide {
					b.WriteRune(r)
					x++
				} else {
					b.WriteRune(' ')
				}
			default:
				b.WriteRune(r)
			}
		}
		rows[i] = b.String()
	}
	return rows
}

// Lines returns every row with trailing blanks removed.
func (g Grid) Lines() []string {
	lines := g.Rows()
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}

func (g Grid) String() string {
	if len(g) == 0 {
		return ""
	}
	return strings.Join(g.Lines(), "\n") + "\n"
}

// highlight carries interaction state that changes glyphs but never
// geometry. The zero value is not valid, use noHighlight.
type highlight struct {
	nodeID       int
	connID       int
	candidateID  int
	preview      []point
	previewArrow bool
}

func noHighlight() highlight {
	return highlight{nodeID: -1, connID: -1, candidateID: -1}
}

// Render draws the part of the canvas visible through vp.
func Render(c *Canvas, vp Viewport, hl highlight) Grid {
	g := newGrid(vp.Width, vp.Height)
	drawScene(painter{grid: g, offX: vp.X, offY: vp.Y}, c, hl)
	return g
}

// RenderExport draws the whole diagram cropped to its content, ignoring the
// viewport. Content wider than the export limit is cut at the limit and
// reported with an *OverflowWarning next to the otherwise complete grid.
func RenderExport(c *Canvas) (Grid, error) {
	bounds, ok := c.Bounds()
	if !ok {
		return Grid{}, nil
	}
	width := bounds.W
	var warn error
	if width > maxDisplayWidth {
		warn = &OverflowWarning{Width: width, Limit: maxDisplayWidth}
		width = maxDisplayWidth
	}
	g := newGrid(width, bounds.H)
	drawScene(painter{grid: g, offX: bounds.X, offY: bounds.Y}, c, noHighlight())
	return g, warn
}

// painter translates logical coordinates into grid cells and drops writes
// that fall outside the grid.
type painter struct {
	grid       Grid
	offX, offY int
}

func (p painter) set(x, y int, r rune) {
	sx, sy := x-p.offX, y-p.offY
	if sy < 0 || sy >= len(p.grid) || sx < 0 || sx >= len(p.grid[sy]) {
		return
	}
	p.grid[sy][sx] = r
}

func drawScene(p painter, c *Canvas, hl highlight) {
	for _, n := range c.Nodes() {
		selected := n.ID == hl.nodeID
		switch n.Kind {
		case KindBox:
			drawBox(p, n, selected, n.ID == hl.candidateID)
		case KindDiamond:
			drawDiamond(p, n, selected, n.ID == hl.candidateID)
		case KindText:
			drawTextNode(p, n, selected)
		}
	}

	var selected *Connection
	for _, conn := range c.Connections() {
		if conn.ID == hl.connID {
			selected = &conn
			continue
		}
		drawConnection(p, conn.Path, conn.Arrow, false)
	}
	if selected != nil {
		drawConnection(p, selected.Path, selected.Arrow, true)
	}
	if len(hl.preview) > 0 {
		drawConnection(p, hl.preview, hl.previewArrow, true)
	}
}

func drawBox(p painter, n Node, selected, candidate bool) {
	corner, horizontal, vertical := glyphCorner, glyphHorizontal, glyphVertical
	if selected {
		corner, horizontal, vertical = glyphSelCorner, glyphSelHoriz, glyphSelVertical
	} else if candidate {
		corner = glyphCandidate
	}

	r := n.rect()
	for x := r.X; x <= r.right(); x++ {
		g := horizontal
		if x == r.X || x == r.right() {
			g = corner
		}
		p.set(x, r.Y, g)
		p.set(x, r.bottom(), g)
	}
	for y := r.Y + 1; y < r.bottom(); y++ {
		p.set(r.X, y, vertical)
		p.set(r.right(), y, vertical)
	}

	drawInterior(p, n.Text, r.X+1, r.Y+1, r.W-2, r.H-2)
}

func drawDiamond(p painter, n Node, selected, candidate bool) {
	r := n.rect()
	cx, cy := r.centerX(), r.centerY()

	tip := glyphCorner
	upper, lower := glyphBackslash, glyphSlash
	if selected {
		tip, upper, lower = glyphSelCorner, glyphSelCorner, glyphSelCorner
	} else if candidate {
		tip = glyphCandidate
	}

	// Upper edges lean away from the top tip, lower edges toward the bottom.
	drawLine(p, cx, r.Y, r.right(), cy, upper)
	drawLine(p, r.right(), cy, cx, r.bottom(), lower)
	drawLine(p, cx, r.bottom(), r.X, cy, upper)
	drawLine(p, r.X, cy, cx, r.Y, lower)

	p.set(cx, r.Y, tip)
	p.set(cx, r.bottom(), tip)
	p.set(r.X, cy, tip)
	p.set(r.right(), cy, tip)

	width := max(r.W-6, 1)
	drawInterior(p, n.Text, r.X+(r.W-width)/2, r.Y+1, width, r.H-2)
}

func drawTextNode(p painter, n Node, selected bool) {
	r := n.rect()
	if selected {
		p.set(r.X, r.centerY(), '[')
		p.set(r.right(), r.centerY(), ']')
	}
	drawInterior(p, n.Text, r.X+1, r.Y+1, r.W-2, r.H-2)
}

// drawLine plots a Bresenham line between two points, leaving both endpoints
// untouched.
func drawLine(p painter, x1, y1, x2, y2 int, g rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	x, y := x1, y1
	for {
		if (x != x1 || y != y1) && (x != x2 || y != y2) {
			p.set(x, y, g)
		}
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// drawInterior wraps text to the w×h area at (x, y), centers it both ways,
// and drops whatever does not fit.
func drawInterior(p painter, text string, x, y, w, h int) {
	if w <= 0 || h <= 0 || text == "" {
		return
	}
	lines := wrapText(text, w)
	if len(lines) > h {
		lines = lines[:h]
	}
	row := y + (h-len(lines))/2
	for _, line := range lines {
		col := x + (w-runewidth.StringWidth(line))/2
		for _, r := range line {
			p.set(col, row, r)
			if runewidth.RuneWidth(r) == 2 {
				p.set(col+1, row, glyphWide)
				col++
			}
			col++
		}
		row++
	}
}

func drawConnection(p painter, path []point, arrow, selected bool) {
	if len(path) == 0 {
		return
	}
	horizontal, vertical, join, end := glyphHorizontal, glyphVertical, glyphCorner, glyphEnd
	if selected {
		horizontal, vertical, join, end = glyphSelHoriz, glyphSelVertical, glyphSelCorner, glyphSelEnd
	}

	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		g := vertical
		if from.Y == to.Y {
			g = horizontal
		}
		for _, cell := range pathCells([]point{from, to}) {
			p.set(cell.X, cell.Y, g)
		}
	}
	for _, bend := range path[1 : len(path)-1] {
		p.set(bend.X, bend.Y, join)
	}

	first, last := path[0], path[len(path)-1]
	p.set(first.X, first.Y, end)
	if arrow && len(path) > 1 {
		p.set(last.X, last.Y, arrowHead(path[len(path)-2], last))
	} else {
		p.set(last.X, last.Y, end)
	}
}

// arrowHead points along the final segment from -> to.
func arrowHead(from, to point) rune {
	switch {
	case to.X > from.X:
		return arrowRight
	case to.X < from.X:
		return arrowLeft
	case to.Y > from.Y:
		return arrowDown
	default:
		return arrowUp
	}
}
