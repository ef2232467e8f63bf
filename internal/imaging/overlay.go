package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBoxColor is used when no or an unparsable box color is given.
const DefaultBoxColor = "#FF0000"

// Box is one rectangle to outline, in image coordinates. Rect is half-open.
type Box struct {
	Rect image.Rectangle
	ID   int
}

// OverlayResult contains the annotated image.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Boxes       int    `json:"boxes"`
}

// DrawBoxes returns a copy of img with every box outlined in boxHex. When
// showIDs is set, each box is tagged with its ID just inside its top-left
// corner. The copy's bounds start at (0,0).
func DrawBoxes(img image.Image, boxes []Box, boxHex string, showIDs bool) *image.NRGBA {
	dst := imaging.Clone(img)
	origin := img.Bounds().Min
	stroke := parseBoxColor(boxHex)

	for _, b := range boxes {
		r := b.Rect.Sub(origin).Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetNRGBA(x, r.Min.Y, stroke)
			dst.SetNRGBA(x, r.Max.Y-1, stroke)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			dst.SetNRGBA(r.Min.X, y, stroke)
			dst.SetNRGBA(r.Max.X-1, y, stroke)
		}
		if showIDs {
			drawNumber(dst, r.Min.X+2, r.Min.Y+2, b.ID, stroke)
		}
	}
	return dst
}

// BoxOverlay draws boxes onto a copy of img and returns it as a base64 PNG.
func BoxOverlay(img image.Image, boxes []Box, boxHex string, showIDs bool) (*OverlayResult, error) {
	dst := DrawBoxes(img, boxes, boxHex, showIDs)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := dst.Bounds()
	return &OverlayResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Boxes:       len(boxes),
	}, nil
}

func parseBoxColor(hex string) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultBoxColor)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// digitGlyphs is a 3x5 bitmap font; each row uses the low three bits.
var digitGlyphs = [10][5]uint8{
	{7, 5, 5, 5, 7}, // 0
	{2, 6, 2, 2, 7}, // 1
	{7, 1, 7, 4, 7}, // 2
	{7, 1, 7, 1, 7}, // 3
	{5, 5, 7, 1, 1}, // 4
	{7, 4, 7, 1, 7}, // 5
	{7, 4, 7, 5, 7}, // 6
	{7, 1, 1, 1, 1}, // 7
	{7, 5, 7, 5, 7}, // 8
	{7, 5, 7, 1, 7}, // 9
}

// drawNumber renders n at (x, y) on a black plate, clipped to dst.
func drawNumber(dst *image.NRGBA, x, y, n int, fg color.NRGBA) {
	text := strconv.Itoa(n)
	plate := color.NRGBA{A: 200}
	b := dst.Bounds()
	set := func(px, py int, c color.NRGBA) {
		if image.Pt(px, py).In(b) {
			dst.SetNRGBA(px, py, c)
		}
	}

	for dy := -1; dy < 6; dy++ {
		for dx := -1; dx < 4*len(text); dx++ {
			set(x+dx, y+dy, plate)
		}
	}
	for i, ch := range text {
		if ch < '0' || ch > '9' {
			continue
		}
		g := digitGlyphs[ch-'0']
		for row := 0; row < 5; row++ {
			for col := 0; col < 3; col++ {
				if g[row]&(4>>col) != 0 {
					set(x+4*i+col, y+row, fg)
				}
			}
		}
	}
}
