package lutz

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// mustGrid parses text rows or fails the test.
func mustGrid(t testing.TB, rows ...string) *Grid {
	t.Helper()
	g, err := ParseGrid(rows...)
	require.NoError(t, err)
	return g
}

// randomGrid fills a w×h grid with foreground cells at the given density.
func randomGrid(rng *rand.Rand, w, h int, density float64) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, rng.Float64() < density)
		}
	}
	return g
}

// floodFill labels g with an explicit-stack flood fill. It is the
// reference the single-pass scanner is checked against.
func floodFill(g *Grid, conn Connectivity) [][]Pixel {
	offsets := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	if conn == Conn8 {
		offsets = append(offsets, [2]int{1, 1}, [2]int{1, -1}, [2]int{-1, 1}, [2]int{-1, -1})
	}

	w, h := g.Width(), g.Height()
	visited := make([]bool, w*h)
	var regions [][]Pixel
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !g.Foreground(x, y) || visited[y*w+x] {
				continue
			}
			var region []Pixel
			stack := []Pixel{{X: x, Y: y}}
			visited[y*w+x] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				region = append(region, p)
				for _, d := range offsets {
					nx, ny := p.X+d[0], p.Y+d[1]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if g.Foreground(nx, ny) && !visited[ny*w+nx] {
						visited[ny*w+nx] = true
						stack = append(stack, Pixel{X: nx, Y: ny})
					}
				}
			}
			regions = append(regions, region)
		}
	}
	return normalize(regions)
}

func comparePixels(a, b Pixel) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

// normalize sorts every region in raster order and the regions by their
// first pixel, so label results can be compared as sets.
func normalize(regions [][]Pixel) [][]Pixel {
	out := make([][]Pixel, 0, len(regions))
	for _, r := range regions {
		r = slices.Clone(r)
		slices.SortFunc(r, comparePixels)
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b []Pixel) int {
		return comparePixels(a[0], b[0])
	})
	return out
}

// collectNormalized scans g and normalizes the result.
func collectNormalized(t testing.TB, g Raster, conn Connectivity) [][]Pixel {
	t.Helper()
	regions, err := Collect(g, conn)
	require.NoError(t, err)
	return normalize(regions)
}

var errDecode = errors.New("decode failed")

// failingRaster reports background from row failAt on and an error once it
// has been asked for a cell of that row.
type failingRaster struct {
	*Grid
	failAt int
	err    error
}

func (r *failingRaster) Foreground(x, y int) bool {
	if y >= r.failAt {
		r.err = errDecode
		return false
	}
	return r.Grid.Foreground(x, y)
}

func (r *failingRaster) Err() error { return r.err }

// countingRaster counts how often each cell is sampled.
type countingRaster struct {
	*Grid
	hits []int
}

func (r *countingRaster) Foreground(x, y int) bool {
	r.hits[y*r.Width()+x]++
	return r.Grid.Foreground(x, y)
}
