package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/segment"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/blob-tools-mcp/lutz"
)

// ThresholdOptions controls how an image is binarized.
type ThresholdOptions struct {
	// BlurRadius smooths the image with a Gaussian blur before thresholding.
	// Zero disables the blur.
	BlurRadius float64

	// Invert makes dark pixels the foreground, for dark objects on a light
	// background.
	Invert bool
}

// ThresholdRaster classifies pixels by luminance. A pixel is foreground when
// its rank 0.3R+0.6G+0.1B is at least the threshold level (or below it when
// inverted). Fully transparent pixels count as white.
//
// Coordinates are relative to the image's bounds minimum.
type ThresholdRaster struct {
	bin    *image.Gray
	origin image.Point
	w, h   int
	invert bool
}

// NewThresholdRaster binarizes img once against level.
func NewThresholdRaster(img image.Image, level uint8, opts ThresholdOptions) *ThresholdRaster {
	src := img
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(img, opts.BlurRadius)
	}
	bin := segment.Threshold(src, level)
	b := bin.Bounds()
	return &ThresholdRaster{
		bin:    bin,
		origin: b.Min,
		w:      b.Dx(),
		h:      b.Dy(),
		invert: opts.Invert,
	}
}

func (r *ThresholdRaster) Width() int  { return r.w }
func (r *ThresholdRaster) Height() int { return r.h }

func (r *ThresholdRaster) Foreground(x, y int) bool {
	on := r.bin.GrayAt(r.origin.X+x, r.origin.Y+y).Y != 0
	return on != r.invert
}

// ColorKeyRaster marks pixels whose CIE Lab distance to a key color is within
// a tolerance. Lab distances are roughly 0 to 1; 0.1 is a visible but close
// match. Fully transparent pixels are background.
type ColorKeyRaster struct {
	img       image.Image
	key       colorful.Color
	tolerance float64
}

// NewColorKeyRaster parses keyHex ("#RRGGBB" or "#RGB") and returns the raster.
func NewColorKeyRaster(img image.Image, keyHex string, tolerance float64) (*ColorKeyRaster, error) {
	key, err := colorful.Hex(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key color %q: %w", keyHex, err)
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %g", tolerance)
	}
	return &ColorKeyRaster{img: img, key: key, tolerance: tolerance}, nil
}

func (r *ColorKeyRaster) Width() int  { return r.img.Bounds().Dx() }
func (r *ColorKeyRaster) Height() int { return r.img.Bounds().Dy() }

func (r *ColorKeyRaster) Foreground(x, y int) bool {
	o := r.img.Bounds().Min
	c, ok := colorful.MakeColor(r.img.At(o.X+x, o.Y+y))
	if !ok {
		return false
	}
	return c.DistanceLab(r.key) <= r.tolerance
}

// ColorPixel is a foreground pixel together with its color.
type ColorPixel struct {
	lutz.Pixel
	Color colorful.Color
}

// ColorSource pairs a mask with the image it was computed from, so that
// labeled regions carry each pixel's color.
type ColorSource struct {
	img  image.Image
	mask lutz.Raster
}

// NewColorSource returns a source sampling img wherever mask is foreground.
// mask must have the image's size.
func NewColorSource(img image.Image, mask lutz.Raster) *ColorSource {
	return &ColorSource{img: img, mask: mask}
}

func (s *ColorSource) Width() int  { return s.mask.Width() }
func (s *ColorSource) Height() int { return s.mask.Height() }

func (s *ColorSource) Sample(x, y int) (ColorPixel, bool) {
	if !s.mask.Foreground(x, y) {
		return ColorPixel{}, false
	}
	o := s.img.Bounds().Min
	c, _ := colorful.MakeColor(s.img.At(o.X+x, o.Y+y))
	return ColorPixel{Pixel: lutz.Pixel{X: x, Y: y}, Color: c}, true
}

// Err forwards the mask's error, if it reports any.
func (s *ColorSource) Err() error {
	if er, ok := s.mask.(lutz.ErrorReporter); ok {
		return er.Err()
	}
	return nil
}
