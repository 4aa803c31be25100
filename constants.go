package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeLeader
	ModeResize
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInsert:
		return "INSERT"
	case ModeLeader:
		return "LEADER"
	case ModeResize:
		return "RESIZE"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}

type NodeKind int

const (
	KindBox NodeKind = iota
	KindDiamond
	KindText
)

func (k NodeKind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindDiamond:
		return "diamond"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

func parseNodeKind(s string) (NodeKind, bool) {
	switch s {
	case "box":
		return KindBox, true
	case "diamond":
		return KindDiamond, true
	case "text":
		return KindText, true
	}
	return 0, false
}

// defaultSize returns the size a freshly created node of kind k gets.
func defaultSize(k NodeKind) (int, int) {
	switch k {
	case KindDiamond:
		return 15, 7
	case KindText:
		return 12, 3
	default:
		return 20, 5
	}
}

// Direction selects which way a selection ring is walked.
type Direction int

const (
	Next Direction = iota
	Previous
)

const (
	minNodeWidth  = 3
	minNodeHeight = 3

	maxDisplayWidth = 79

	spawnX   = 10
	spawnY   = 10
	spawnGap = 2

	resizeStepX = 2
	resizeStepY = 1

	defaultTitle = "Untitled Diagram"
)

// Glyphs
const (
	glyphCorner      = '+'
	glyphHorizontal  = '-'
	glyphVertical    = '|'
	glyphSlash       = '/'
	glyphBackslash   = '\\'
	glyphSelCorner   = '#'
	glyphSelHoriz    = '='
	glyphSelVertical = '#'
	glyphCandidate   = '*'

	glyphEnd    = 'o'
	glyphSelEnd = '@'

	arrowRight = '>'
	arrowLeft  = '<'
	arrowDown  = 'v'
	arrowUp    = '^'

	// glyphWide fills the second cell of a double-width rune.
	glyphWide rune = 0
)
