package detection

import (
	"cmp"
	"fmt"
	"image"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/blob-tools-mcp/internal/imaging"
	"github.com/ironsheep/blob-tools-mcp/lutz"
)

// BlobOptions selects the foreground and filters the result of DetectBlobs.
type BlobOptions struct {
	// Threshold is the luminance level (0-255) at or above which a pixel is
	// foreground. Ignored when KeyColor is set.
	Threshold uint8

	// Invert makes pixels below Threshold the foreground.
	Invert bool

	// BlurRadius applies a Gaussian blur before thresholding. 0 disables it.
	BlurRadius float64

	// KeyColor ("#RRGGBB") switches to color keying: pixels within Tolerance
	// (CIE Lab distance) of KeyColor are foreground.
	KeyColor  string
	Tolerance float64

	Connectivity lutz.Connectivity

	// MinArea and MaxArea bound the pixel count of reported blobs.
	// MaxArea 0 means no upper bound.
	MinArea int
	MaxArea int

	// MaxResults caps the number of blobs returned, largest first. 0 means all.
	MaxResults int
}

// Blob is one connected foreground region.
type Blob struct {
	ID       int      `json:"id"`
	Bounds   Bounds   `json:"bounds"`
	Centroid Centroid `json:"centroid"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`

	// Area is the number of pixels in the blob.
	Area int `json:"area"`

	// FillRatio is Area divided by the bounding box area.
	FillRatio float64 `json:"fill_ratio"`

	// MeanColor averages the blob's pixels in linear RGB.
	MeanColor imaging.ColorResult `json:"mean_color"`
}

// BlobsResult contains the blobs found in an image.
type BlobsResult struct {
	// Blobs is sorted by area, largest first. IDs follow this order.
	Blobs []Blob `json:"blobs"`
	Count int    `json:"count"`

	// Detected counts every region before area filtering and MaxResults.
	Detected int `json:"detected"`

	// ForegroundPixels counts every foreground pixel in the image.
	ForegroundPixels int `json:"foreground_pixels"`

	Connectivity string `json:"connectivity"`

	// AreaMean and AreaStdDev summarize the areas of the returned blobs.
	AreaMean   float64 `json:"area_mean"`
	AreaStdDev float64 `json:"area_stddev"`
}

// blobStats summarizes one region while it is being labeled.
type blobStats struct {
	bounds     lutz.Bounds
	sumX, sumY int
	color      imaging.MeanColor
}

func (s *blobStats) Push(p imaging.ColorPixel) {
	s.bounds.Push(p.Pixel)
	s.sumX += p.X
	s.sumY += p.Y
	s.color.Add(p.Color)
}

func (s *blobStats) Merge(other *blobStats) {
	s.bounds.Merge(&other.bounds)
	s.sumX += other.sumX
	s.sumY += other.sumY
	s.color.Merge(&other.color)
}

// Mask builds the foreground raster DetectBlobs labels for img.
func Mask(img image.Image, opts BlobOptions) (lutz.Raster, error) {
	if opts.KeyColor != "" {
		r, err := imaging.NewColorKeyRaster(img, opts.KeyColor, opts.Tolerance)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	if opts.BlurRadius < 0 {
		return nil, fmt.Errorf("blur radius must be non-negative, got %g", opts.BlurRadius)
	}
	return imaging.NewThresholdRaster(img, opts.Threshold, imaging.ThresholdOptions{
		BlurRadius: opts.BlurRadius,
		Invert:     opts.Invert,
	}), nil
}

// DetectBlobs labels the connected foreground regions of img in a single
// pass and reports each region's bounds, centroid, area and mean color.
//
// Positions are in image coordinates, so they include img.Bounds().Min.
func DetectBlobs(img image.Image, opts BlobOptions) (*BlobsResult, error) {
	if opts.MinArea < 0 || opts.MaxArea < 0 || opts.MaxResults < 0 {
		return nil, fmt.Errorf("area limits and max results must be non-negative")
	}
	if opts.MaxArea > 0 && opts.MaxArea < opts.MinArea {
		return nil, fmt.Errorf("max area %d is below min area %d", opts.MaxArea, opts.MinArea)
	}
	mask, err := Mask(img, opts)
	if err != nil {
		return nil, err
	}

	origin := img.Bounds().Min
	result := &BlobsResult{
		Blobs:        make([]Blob, 0),
		Connectivity: opts.Connectivity.String(),
	}

	src := imaging.NewColorSource(img, mask)
	err = lutz.Scan[imaging.ColorPixel, blobStats](src, opts.Connectivity, func(s blobStats) bool {
		result.Detected++
		result.ForegroundPixels += s.bounds.Area
		if s.bounds.Area < opts.MinArea || (opts.MaxArea > 0 && s.bounds.Area > opts.MaxArea) {
			return true
		}
		result.Blobs = append(result.Blobs, newBlob(s, origin))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("blob labeling failed: %w", err)
	}

	slices.SortFunc(result.Blobs, func(a, b Blob) int {
		return cmp.Or(
			cmp.Compare(b.Area, a.Area),
			cmp.Compare(a.Bounds.Y1, b.Bounds.Y1),
			cmp.Compare(a.Bounds.X1, b.Bounds.X1),
		)
	})
	if opts.MaxResults > 0 && len(result.Blobs) > opts.MaxResults {
		result.Blobs = result.Blobs[:opts.MaxResults]
	}

	areas := make([]float64, len(result.Blobs))
	for i := range result.Blobs {
		result.Blobs[i].ID = i
		areas[i] = float64(result.Blobs[i].Area)
	}
	result.Count = len(result.Blobs)
	switch len(areas) {
	case 0:
	case 1:
		result.AreaMean = areas[0]
	default:
		result.AreaMean, result.AreaStdDev = stat.MeanStdDev(areas, nil)
	}

	return result, nil
}

func newBlob(s blobStats, origin image.Point) Blob {
	b := s.bounds
	w := b.Max.X - b.Min.X + 1
	h := b.Max.Y - b.Min.Y + 1
	n := float64(b.Area)
	return Blob{
		Bounds: Bounds{
			X1: b.Min.X + origin.X,
			Y1: b.Min.Y + origin.Y,
			X2: b.Max.X + origin.X,
			Y2: b.Max.Y + origin.Y,
		},
		Centroid: Centroid{
			X: float64(s.sumX)/n + float64(origin.X),
			Y: float64(s.sumY)/n + float64(origin.Y),
		},
		Width:     w,
		Height:    h,
		Area:      b.Area,
		FillRatio: n / float64(w*h),
		MeanColor: imaging.DescribeColor(s.color.Color()),
	}
}
