package lutz

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCollect_CShape checks a region that looks like two separate segments on
// row 3 and is only joined by the run on row 4.
func TestCollect_CShape(t *testing.T) {
	g := mustGrid(t,
		".XXX.",
		".X.X.",
		"...X.",
		".X.X.",
		".XXX.",
	)

	for _, conn := range []Connectivity{Conn8, Conn4} {
		t.Run(conn.String(), func(t *testing.T) {
			regions := collectNormalized(t, g, conn)
			require.Len(t, regions, 1)
			assert.Len(t, regions[0], 11)
			assert.Equal(t, floodFill(g, conn), regions)
		})
	}
}

func TestCollect_Boundaries(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		for _, g := range []*Grid{NewGrid(0, 0), NewGrid(3, 0), NewGrid(0, 3)} {
			regions := collectNormalized(t, g, Conn8)
			assert.Empty(t, regions)
		}
	})

	t.Run("all background", func(t *testing.T) {
		for _, conn := range []Connectivity{Conn8, Conn4} {
			regions := collectNormalized(t, NewGrid(7, 5), conn)
			assert.Empty(t, regions)
		}
	})

	t.Run("single cell", func(t *testing.T) {
		for _, conn := range []Connectivity{Conn8, Conn4} {
			regions := collectNormalized(t, mustGrid(t, "X"), conn)
			assert.Equal(t, [][]Pixel{{{X: 0, Y: 0}}}, regions)
		}
	})

	t.Run("full square", func(t *testing.T) {
		for n := 1; n <= 9; n++ {
			g := NewGrid(n, n)
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					g.Set(x, y, true)
				}
			}
			for _, conn := range []Connectivity{Conn8, Conn4} {
				regions := collectNormalized(t, g, conn)
				require.Len(t, regions, 1, "n=%d %v", n, conn)
				assert.Len(t, regions[0], n*n, "n=%d %v", n, conn)
			}
		}
	})

	t.Run("touching every edge", func(t *testing.T) {
		g := mustGrid(t,
			"X...X",
			".....",
			"X...X",
		)
		regions := collectNormalized(t, g, Conn8)
		assert.Len(t, regions, 4)
	})
}

// TestCollect_Connectivity uses the diamond and island grids from the
// grid-graph component tests.
func TestCollect_Connectivity(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		conn  Connectivity
		sizes []int
	}{
		{
			name:  "diagonal cross 8",
			rows:  []string{"X...X", ".X.X.", "..X..", ".X.X.", "X...X"},
			conn:  Conn8,
			sizes: []int{9},
		},
		{
			name:  "diagonal cross 4",
			rows:  []string{"X...X", ".X.X.", "..X..", ".X.X.", "X...X"},
			conn:  Conn4,
			sizes: []int{1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		{
			name:  "islands 4",
			rows:  []string{".XX.", "XX..", "..XX"},
			conn:  Conn4,
			sizes: []int{4, 2},
		},
		{
			name:  "islands 8",
			rows:  []string{".XX.", "XX..", "..XX"},
			conn:  Conn8,
			sizes: []int{6},
		},
		{
			name:  "staircase 8",
			rows:  []string{"X...", ".X..", "..X.", "...X"},
			conn:  Conn8,
			sizes: []int{4},
		},
		{
			name:  "anti-diagonal 8",
			rows:  []string{"...X", "..X.", ".X..", "X..."},
			conn:  Conn8,
			sizes: []int{4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.rows...)
			regions := collectNormalized(t, g, tt.conn)

			got := make([]int, len(regions))
			for i, r := range regions {
				got[i] = len(r)
			}
			assert.ElementsMatch(t, tt.sizes, got)
			assert.Equal(t, floodFill(g, tt.conn), regions)
		})
	}
}

// TestCollect_Shapes covers nesting and merge patterns that exercise the
// object stack: U-turns, combs, rings and spirals.
func TestCollect_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		count int // under Conn8
	}{
		{"u", []string{"X.X", "X.X", "XXX"}, 1},
		{"n", []string{"XXX", "X.X", "X.X"}, 1},
		{"comb up", []string{"X.X.X.X", "X.X.X.X", "XXXXXXX"}, 1},
		{"comb down", []string{"XXXXXXX", "X.X.X.X", "X.X.X.X"}, 1},
		{"w", []string{"X...X...X", ".X.X.X.X.", "..X...X.."}, 1},
		{"rings", []string{
			"XXXXXXX",
			"X.....X",
			"X.XXX.X",
			"X.X.X.X",
			"X.XXX.X",
			"X.....X",
			"XXXXXXX",
		}, 2},
		{"spiral", []string{
			"XXXXXXX",
			"......X",
			"XXXXX.X",
			"X...X.X",
			"X.X.X.X",
			"X.XXX.X",
			"X.....X",
			"XXXXXXX",
		}, 1},
		{"nested u", []string{
			"X.......X",
			"X.X...X.X",
			"X.X.X.X.X",
			"X.XXXXX.X",
			"X.......X",
			"XXXXXXXXX",
		}, 2},
		{"late merge", []string{
			"X.X.X.X.X",
			"X.X.X.X.X",
			"X.X.X.X.X",
			"X.X.X.X.X",
			"XXXXXXXXX",
		}, 1},
		{"separate columns", []string{
			"X.X.X",
			"X.X.X",
			"X.X.X",
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.rows...)
			regions := collectNormalized(t, g, Conn8)
			assert.Len(t, regions, tt.count)
			for _, conn := range []Connectivity{Conn8, Conn4} {
				if diff := cmp.Diff(floodFill(g, conn), collectNormalized(t, g, conn)); diff != "" {
					t.Errorf("%v mismatch (-flood fill +scan):\n%s", conn, diff)
				}
			}
		})
	}
}

// TestCollect_MatchesFloodFill compares the scanner with the reference
// labeling on random grids. Equal normalized output implies the partition,
// connectivity and count properties at once.
func TestCollect_MatchesFloodFill(t *testing.T) {
	rng := rand.New(rand.NewSource(1980))
	densities := []float64{0.2, 0.45, 0.6, 0.8}

	for _, conn := range []Connectivity{Conn8, Conn4} {
		t.Run(conn.String(), func(t *testing.T) {
			for i := 0; i < 400; i++ {
				w, h := 1+rng.Intn(16), 1+rng.Intn(16)
				g := randomGrid(rng, w, h, densities[i%len(densities)])

				want := floodFill(g, conn)
				got := collectNormalized(t, g, conn)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("grid %d (%dx%d):\n%s(-flood fill +scan):\n%s", i, w, h, g, diff)
				}
			}
		})
	}
}

func TestCollect_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := randomGrid(rng, 40, 30, 0.55)

	for _, conn := range []Connectivity{Conn8, Conn4} {
		first := collectNormalized(t, g, conn)
		second := collectNormalized(t, g, conn)
		assert.Equal(t, first, second)
	}
}

func TestScan_SamplesEachCellOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, conn := range []Connectivity{Conn8, Conn4} {
		g := randomGrid(rng, 13, 9, 0.5)
		r := &countingRaster{Grid: g, hits: make([]int, 13*9)}

		_, err := Collect(r, conn)
		require.NoError(t, err)
		for i, n := range r.hits {
			require.Equal(t, 1, n, "%v: cell (%d,%d) sampled %d times", conn, i%13, i/13, n)
		}
	}
}

func TestScan_StopEarly(t *testing.T) {
	g := mustGrid(t,
		"X.X.X",
		".....",
		"X.X.X",
	)

	calls := 0
	err := Scan(PixelSource(g), Conn8, func(Count[Pixel]) bool {
		calls++
		return calls < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRegions(t *testing.T) {
	g := mustGrid(t,
		"XX..X",
		"....X",
		"X.X..",
	)

	t.Run("all", func(t *testing.T) {
		var got [][]Pixel
		for pixels, err := range Regions[Pixel, List[Pixel]](PixelSource(g), Conn8) {
			require.NoError(t, err)
			got = append(got, pixels)
		}
		assert.Equal(t, floodFill(g, Conn8), normalize(got))
	})

	t.Run("break", func(t *testing.T) {
		n := 0
		for _, err := range Regions[Pixel, Count[Pixel]](PixelSource(g), Conn8) {
			require.NoError(t, err)
			n++
			if n == 2 {
				break
			}
		}
		assert.Equal(t, 2, n)
	})

	t.Run("error", func(t *testing.T) {
		r := &failingRaster{Grid: g, failAt: 1}
		var errs []error
		for _, err := range Regions[Pixel, Count[Pixel]](PixelSource(r), Conn8) {
			if err != nil {
				errs = append(errs, err)
			}
		}
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], errDecode)
	})
}

func TestScan_SourceError(t *testing.T) {
	g := mustGrid(t,
		"X...X",
		"X...X",
		"X...X",
		"XXXXX",
	)
	r := &failingRaster{Grid: g, failAt: 2}

	emitted := 0
	err := Scan(PixelSource(r), Conn8, func(List[Pixel]) bool {
		emitted++
		return true
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDecode)
	assert.Contains(t, err.Error(), "row 2")
	assert.Zero(t, emitted)
}

func TestScan_InvalidInput(t *testing.T) {
	noop := func(Count[Pixel]) bool { return true }

	err := Scan(PixelSource(NewGrid(2, 2)), Connectivity(6), noop)
	assert.ErrorIs(t, err, ErrConnectivity)

	neg := RasterFunc{W: -1, H: 3, Fn: func(int, int) bool { return true }}
	err = Scan(PixelSource(neg), Conn8, noop)
	assert.ErrorIs(t, err, ErrDimensions)
}

// weights is a payload source whose foreground cells carry their value.
type weights [][]int

func (w weights) Width() int  { return len(w[0]) }
func (w weights) Height() int { return len(w) }
func (w weights) Sample(x, y int) (int, bool) {
	return w[y][x], w[y][x] > 0
}

type sum int

func (s *sum) Push(v int)   { *s += sum(v) }
func (s *sum) Merge(o *sum) { *s += *o }

func TestScan_Payload(t *testing.T) {
	src := weights{
		{1, 2, 0, 4},
		{0, 3, 0, 5},
		{6, 0, 0, 0},
	}

	var got8 []sum
	require.NoError(t, Scan[int, sum](src, Conn8, func(s sum) bool {
		got8 = append(got8, s)
		return true
	}))
	assert.ElementsMatch(t, []sum{12, 9}, got8)

	var got4 []sum
	require.NoError(t, Scan[int, sum](src, Conn4, func(s sum) bool {
		got4 = append(got4, s)
		return true
	}))
	assert.ElementsMatch(t, []sum{6, 6, 9}, got4)
}

func TestScan_Conn4BridgesCarryNoPayload(t *testing.T) {
	g := mustGrid(t,
		"XXXX",
		"X..X",
	)
	regions := collectNormalized(t, g, Conn4)
	require.Len(t, regions, 1)
	assert.Equal(t, []Pixel{
		{0, 0}, {1, 0}, {2, 0}, {3, 0},
		{0, 1}, {3, 1},
	}, regions[0])
}

func TestScan_AllocationsIndependentOfHeight(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	motif := randomGrid(rng, 64, 4, 0.4)
	tile := func(h int) *Grid {
		g := NewGrid(64, h)
		for y := 0; y < h; y++ {
			for x := 0; x < 64; x++ {
				g.Set(x, y, motif.Foreground(x, y%4))
			}
		}
		return g
	}
	allocs := func(g *Grid) float64 {
		src := PixelSource(g)
		return testing.AllocsPerRun(5, func() {
			_ = Scan(src, Conn8, func(Count[Pixel]) bool { return true })
		})
	}

	short, tall := allocs(tile(8)), allocs(tile(2000))
	assert.LessOrEqual(t, tall, short+2, "short=%v tall=%v", short, tall)
}
