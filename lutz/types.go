package lutz

import "fmt"

// Pixel is the coordinate of one foreground cell.
type Pixel struct {
	X int `json:"x"` // Column (0 = leftmost)
	Y int `json:"y"` // Row (0 = topmost)
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Connectivity selects which neighbouring cells belong to the same region.
type Connectivity int

const (
	// Conn8 joins the eight surrounding cells, diagonals included.
	Conn8 Connectivity = iota
	// Conn4 joins only the cells above, below, left and right.
	Conn4
)

func (c Connectivity) String() string {
	switch c {
	case Conn8:
		return "8-connected"
	case Conn4:
		return "4-connected"
	default:
		return fmt.Sprintf("Connectivity(%d)", int(c))
	}
}

// marker is a signal left on a column while scanning one row and consumed
// while scanning the next.
type marker uint8

const (
	noMarker marker = iota
	markStart          // a region starts at this column on the row above
	markStartOfSegment // further segment of a region already seen on the row above
	markEndOfSegment   // a segment ends here, its region continues to the right
	markEnd            // the region's extent on the row above is closed
)

// prevState tracks whether the row-above segment feeding the top-of-stack
// region has been resolved.
type prevState uint8

const (
	psComplete prevState = iota
	psObject
	psIncomplete
)

// curState records whether the previous cell of the current row was foreground.
type curState uint8

const (
	csNonObject curState = iota
	csObject
)

// span is the inclusive column range a region occupies on the active row.
type span struct {
	start, end int
}

// object is a region that has not been emitted yet. hasSpan is set only
// while the region touches the row being scanned.
type object[A any] struct {
	span    span
	hasSpan bool
	acc     A
}

// cellKind classifies one scanned cell. Bridge cells only exist in Conn4
// scans; they join two horizontally adjacent foreground cells and carry no
// payload.
type cellKind uint8

const (
	background cellKind = iota
	foreground
	bridge
)
