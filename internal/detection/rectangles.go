package detection

import (
	"cmp"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/blob-tools-mcp/lutz"
)

const (
	// edgeThreshold is the gray-level step that marks an edge pixel.
	edgeThreshold = 30
	// minContourPixels drops edge fragments too small to outline a shape.
	minContourPixels = 10
)

// Rectangle is a detected axis-aligned rectangular outline.
type Rectangle struct {
	Bounds Bounds `json:"bounds"`
	Center Point  `json:"center"`

	// Width and Height are the edge-to-edge extents (X2 - X1, Y2 - Y1).
	Width  int `json:"width"`
	Height int `json:"height"`
	Area   int `json:"area"`

	// FillColor is sampled at the center, BorderColor at the top-left corner.
	FillColor   string `json:"fill_color,omitempty"`
	BorderColor string `json:"border_color,omitempty"`

	// Confidence is 1 - |contour pixels - perimeter| / perimeter.
	Confidence float64 `json:"confidence"`
}

// RectanglesResult contains the rectangles found in an image.
type RectanglesResult struct {
	// Rectangles is sorted by area, largest first.
	Rectangles []Rectangle `json:"rectangles"`
	Count      int         `json:"count"`
}

// edgeRaster marks pixels whose gray level differs from their right or
// lower neighbor by more than edgeThreshold. Border pixels are never edges.
type edgeRaster struct {
	gray   *image.Gray
	origin image.Point
	w, h   int
}

func newEdgeRaster(img image.Image) *edgeRaster {
	gray := effect.Grayscale(img)
	b := gray.Bounds()
	return &edgeRaster{gray: gray, origin: b.Min, w: b.Dx(), h: b.Dy()}
}

func (r *edgeRaster) Width() int  { return r.w }
func (r *edgeRaster) Height() int { return r.h }

func (r *edgeRaster) Foreground(x, y int) bool {
	if x == 0 || y == 0 || x == r.w-1 || y == r.h-1 {
		return false
	}
	c := r.level(x, y)
	return absDiff(c, r.level(x+1, y)) > edgeThreshold || absDiff(c, r.level(x, y+1)) > edgeThreshold
}

func (r *edgeRaster) level(x, y int) int {
	return int(r.gray.GrayAt(r.origin.X+x, r.origin.Y+y).Y)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// DetectRectangles finds rectangular outlines by labeling 8-connected edge
// pixels and comparing each contour's pixel count with the perimeter of its
// bounding box.
//
// minArea drops rectangles whose bounding box is smaller; tolerance (0 to 1)
// is the minimum confidence. Only axis-aligned rectangles score well.
func DetectRectangles(img image.Image, minArea int, tolerance float64) (*RectanglesResult, error) {
	origin := img.Bounds().Min
	rectangles := make([]Rectangle, 0)

	err := lutz.Scan(lutz.PixelSource(newEdgeRaster(img)), lutz.Conn8, func(c lutz.Bounds) bool {
		if c.Area < minContourPixels {
			return true
		}
		w := c.Max.X - c.Min.X
		h := c.Max.Y - c.Min.Y
		area := w * h
		if area < minArea || area == 0 {
			return true
		}

		perimeter := 2 * (w + h)
		confidence := 1 - math.Abs(float64(c.Area-perimeter))/float64(perimeter)
		if confidence < tolerance {
			return true
		}

		cx := (c.Min.X+c.Max.X)/2 + origin.X
		cy := (c.Min.Y+c.Max.Y)/2 + origin.Y
		rectangles = append(rectangles, Rectangle{
			Bounds: Bounds{
				X1: c.Min.X + origin.X,
				Y1: c.Min.Y + origin.Y,
				X2: c.Max.X + origin.X,
				Y2: c.Max.Y + origin.Y,
			},
			Center:      Point{X: cx, Y: cy},
			Width:       w,
			Height:      h,
			Area:        area,
			FillColor:   sampleHex(img, cx, cy),
			BorderColor: sampleHex(img, c.Min.X+origin.X, c.Min.Y+origin.Y),
			Confidence:  confidence,
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rectangles, func(a, b Rectangle) int {
		return cmp.Compare(b.Area, a.Area)
	})

	return &RectanglesResult{
		Rectangles: rectangles,
		Count:      len(rectangles),
	}, nil
}

// sampleHex returns the "#RRGGBB" color at (x, y), or "" for a fully
// transparent pixel.
func sampleHex(img image.Image, x, y int) string {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return ""
	}
	return strings.ToUpper(c.Hex())
}
