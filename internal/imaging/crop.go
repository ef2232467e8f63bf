package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped image.
type CropResult struct {
	X           int    `json:"x"` // top-left of the crop in image coordinates
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropRegion cuts r, grown by padding on every side and clipped to the image,
// out of img. A scale other than 1 resizes the crop with a Lanczos filter.
func CropRegion(img image.Image, r image.Rectangle, padding int, scale float64) (*CropResult, error) {
	if padding < 0 {
		return nil, fmt.Errorf("padding must be non-negative, got %d", padding)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}
	region := r.Inset(-padding).Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, img.Bounds())
	}

	cropped := imaging.Crop(img, region)
	if scale != 1 {
		w := max(1, int(float64(cropped.Bounds().Dx())*scale))
		h := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		X:           region.Min.X,
		Y:           region.Min.Y,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
