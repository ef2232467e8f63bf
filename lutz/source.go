package lutz

import (
	"fmt"
	"strings"
)

// Raster reports which cells of a width×height grid are foreground.
//
// Foreground must be deterministic for the duration of a scan and is only
// called with 0 <= x < Width() and 0 <= y < Height().
type Raster interface {
	Width() int
	Height() int
	Foreground(x, y int) bool
}

// Source is a raster whose foreground cells carry a payload of type P.
// Sample returns ok == false for background cells.
type Source[P any] interface {
	Width() int
	Height() int
	Sample(x, y int) (p P, ok bool)
}

// ErrorReporter is implemented by sources that can fail while sampling, for
// example when pixels are decoded lazily. A failing source keeps answering
// Sample (typically with background) and reports the first failure through
// Err. The scanner checks Err after every row and before emitting a region.
type ErrorReporter interface {
	Err() error
}

// PixelSource adapts r into a Source whose payload is the cell coordinate.
// If r implements ErrorReporter, so does the returned source.
func PixelSource(r Raster) Source[Pixel] {
	return pixelSource{r}
}

type pixelSource struct {
	Raster
}

func (s pixelSource) Sample(x, y int) (Pixel, bool) {
	return Pixel{X: x, Y: y}, s.Foreground(x, y)
}

func (s pixelSource) Err() error {
	if er, ok := s.Raster.(ErrorReporter); ok {
		return er.Err()
	}
	return nil
}

// RasterFunc is a Raster backed by a predicate.
type RasterFunc struct {
	W, H int
	Fn   func(x, y int) bool
}

func (r RasterFunc) Width() int               { return r.W }
func (r RasterFunc) Height() int              { return r.H }
func (r RasterFunc) Foreground(x, y int) bool { return r.Fn(x, y) }

// Grid is an in-memory binary raster stored row-major.
type Grid struct {
	w, h  int
	cells []bool
}

// NewGrid returns an all-background grid. Negative dimensions are treated as zero.
func NewGrid(width, height int) *Grid {
	width, height = max(width, 0), max(height, 0)
	return &Grid{w: width, h: height, cells: make([]bool, width*height)}
}

// ParseGrid builds a grid from text rows. 'X', '#' and '1' mark foreground;
// '.', ' ' and '0' mark background. All rows must have the same length.
func ParseGrid(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return NewGrid(0, 0), nil
	}
	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.w {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(row), g.w, ErrNonRectangular)
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case 'X', '#', '1':
				g.cells[y*g.w+x] = true
			case '.', ' ', '0':
			default:
				return nil, fmt.Errorf("cell (%d,%d) is %q: %w", x, y, row[x], ErrGridCell)
			}
		}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// Foreground reports whether (x, y) is set. It panics outside the grid.
func (g *Grid) Foreground(x, y int) bool {
	return g.cells[g.index(x, y)]
}

// Set marks (x, y) as foreground or background. It panics outside the grid.
func (g *Grid) Set(x, y int, fg bool) {
	g.cells[g.index(x, y)] = fg
}

func (g *Grid) index(x, y int) int {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic(fmt.Sprintf("lutz: cell (%d,%d) outside %dx%d grid", x, y, g.w, g.h))
	}
	return y*g.w + x
}

// String renders the grid in the format accepted by ParseGrid.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if g.cells[y*g.w+x] {
				b.WriteByte('X')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// cells presents a Source to the scanner as a row of classified cells,
// including the sentinel column and row past the edge.
//
// For Conn4 the scanned row is 2w-1 cells wide: even columns are source
// cells, odd columns are bridges that are set only when both horizontal
// neighbours are. The right-hand neighbour sampled for a bridge is kept for
// the following even column so every source cell is sampled once.
type cells[P any] struct {
	src    Source[P]
	width  int // scanned width, excluding the sentinel column
	height int
	conn4  bool

	left    bool // last even column was foreground
	aheadX  int  // source column held in ahead, -1 if none
	ahead   P
	aheadOK bool
}

func newCells[P any](src Source[P], conn Connectivity) (*cells[P], error) {
	w, h := src.Width(), src.Height()
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrDimensions, w, h)
	}
	c := &cells[P]{src: src, width: w, height: h, aheadX: -1}
	switch conn {
	case Conn8:
	case Conn4:
		c.conn4 = true
		if w > 0 {
			c.width = 2*w - 1
		}
	default:
		return nil, fmt.Errorf("%w: got %v", ErrConnectivity, conn)
	}
	return c, nil
}

func (c *cells[P]) resetRow() {
	c.left = false
	c.aheadX = -1
}

func (c *cells[P]) at(x, y int) (P, cellKind) {
	var zero P
	if x >= c.width || y >= c.height {
		return zero, background
	}
	if !c.conn4 {
		if p, ok := c.src.Sample(x, y); ok {
			return p, foreground
		}
		return zero, background
	}

	sx := x / 2
	if x%2 == 0 {
		var p P
		var ok bool
		if c.aheadX == sx {
			p, ok = c.ahead, c.aheadOK
			c.aheadX = -1
		} else {
			p, ok = c.src.Sample(sx, y)
		}
		c.left = ok
		if ok {
			return p, foreground
		}
		return zero, background
	}

	if !c.left {
		return zero, background
	}
	c.ahead, c.aheadOK = c.src.Sample(sx+1, y)
	c.aheadX = sx + 1
	if c.aheadOK {
		return zero, bridge
	}
	return zero, background
}
