package detection

import "image"

// Bounds is a bounding box in image coordinates. (X1, Y1) is the top-left
// pixel and (X2, Y2) the bottom-right pixel; both are inclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect returns b as a half-open image.Rectangle covering the same pixels.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2+1, b.Y2+1)
}

// Point is a pixel position.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Centroid is the mean position of a region's pixels.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
