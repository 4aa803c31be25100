package main

// Route computes the connector path from src to dst. The result starts on a
// boundary cell of src, ends on a boundary cell of dst, and every pair of
// consecutive points differs in exactly one coordinate. Route is pure: the
// same rectangles always yield the same path.
func Route(src, dst rect) []point {
	rowsOverlap := src.Y <= dst.bottom() && dst.Y <= src.bottom()
	colsOverlap := src.X <= dst.right() && dst.X <= src.right()

	dx := dst.centerX() - src.centerX()
	dy := dst.centerY() - src.centerY()
	horizontal := abs(dx) >= abs(dy)

	switch {
	case rowsOverlap && !colsOverlap:
		return straightHorizontal(src, dst)
	case colsOverlap && !rowsOverlap:
		return straightVertical(src, dst)
	case rowsOverlap && colsOverlap:
		// Overlapping shapes: no clean route exists, keep it straight.
		if horizontal {
			return straightHorizontal(src, dst)
		}
		return straightVertical(src, dst)
	}

	if horizontal {
		return bentHorizontal(src, dst)
	}
	return bentVertical(src, dst)
}

func straightHorizontal(src, dst rect) []point {
	y := sharedLine(src.centerY(), dst.centerY(), max(src.Y, dst.Y), min(src.bottom(), dst.bottom()))
	if dst.centerX() >= src.centerX() {
		return compact([]point{{src.right(), y}, {dst.X, y}})
	}
	return compact([]point{{src.X, y}, {dst.right(), y}})
}

func straightVertical(src, dst rect) []point {
	x := sharedLine(src.centerX(), dst.centerX(), max(src.X, dst.X), min(src.right(), dst.right()))
	if dst.centerY() >= src.centerY() {
		return compact([]point{{x, src.bottom()}, {x, dst.Y}})
	}
	return compact([]point{{x, src.Y}, {x, dst.bottom()}})
}

// sharedLine picks the row (or column) a straight connector runs on inside
// the shared band [lo, hi]: the source center, then the target center, then
// the middle of the band.
func sharedLine(srcCenter, dstCenter, lo, hi int) int {
	if srcCenter >= lo && srcCenter <= hi {
		return srcCenter
	}
	if dstCenter >= lo && dstCenter <= hi {
		return dstCenter
	}
	return lo + (hi-lo)/2
}

func bentHorizontal(src, dst rect) []point {
	east := dst.centerX() > src.centerX()
	start := point{src.X, src.centerY()}
	end := point{dst.right(), dst.centerY()}
	step := -1
	if east {
		start.X = src.right()
		end.X = dst.X
		step = 1
	}

	gap := abs(end.X - start.X)
	if gap < 2 {
		// No room for a bend between the facing sides: come in through the
		// top or bottom of the target instead.
		entryY := dst.bottom()
		if dst.centerY() > src.centerY() {
			entryY = dst.Y
		}
		return compact([]point{start, {dst.centerX(), start.Y}, {dst.centerX(), entryY}})
	}

	mid := start.X + step*(gap/2)
	return []point{start, {mid, start.Y}, {mid, end.Y}, end}
}

func bentVertical(src, dst rect) []point {
	south := dst.centerY() > src.centerY()
	start := point{src.centerX(), src.Y}
	end := point{dst.centerX(), dst.bottom()}
	step := -1
	if south {
		start.Y = src.bottom()
		end.Y = dst.Y
		step = 1
	}

	gap := abs(end.Y - start.Y)
	if gap < 2 {
		entryX := dst.right()
		if dst.centerX() > src.centerX() {
			entryX = dst.X
		}
		return compact([]point{start, {start.X, dst.centerY()}, {entryX, dst.centerY()}})
	}

	mid := start.Y + step*(gap/2)
	return []point{start, {start.X, mid}, {end.X, mid}, end}
}

// compact drops consecutive duplicate points.
func compact(path []point) []point {
	out := make([]point, 0, len(path))
	for i, p := range path {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// isOrthogonal reports whether consecutive points differ in exactly one
// coordinate.
func isOrthogonal(path []point) bool {
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if (a.X == b.X) == (a.Y == b.Y) {
			return false
		}
	}
	return true
}

// pathCells expands a waypoint path into every cell it covers, in order.
func pathCells(path []point) []point {
	if len(path) == 0 {
		return nil
	}
	cells := []point{path[0]}
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
		for p := from; p != to; {
			p = point{p.X + sx, p.Y + sy}
			cells = append(cells, p)
		}
	}
	return cells
}
