package lutz

import "image"

// Accumulator is satisfied by *A when A can summarize the payloads of one
// region. The zero value of A must be an empty summary.
//
// Push adds the payload of one foreground cell. Merge folds another partial
// summary of the same region into the receiver; other is not used afterwards.
// Payloads reach a region in no particular order, so Push and Merge must not
// depend on it.
type Accumulator[P, A any] interface {
	*A
	Push(p P)
	Merge(other *A)
}

// List accumulates every payload of a region.
type List[P any] []P

func (l *List[P]) Push(p P) { *l = append(*l, p) }

func (l *List[P]) Merge(other *List[P]) {
	if len(*l) == 0 {
		*l = *other
		return
	}
	*l = append(*l, *other...)
}

// Count counts the cells of a region without keeping them.
type Count[P any] int

func (c *Count[P]) Push(P) { *c++ }

func (c *Count[P]) Merge(other *Count[P]) { *c += *other }

// Bounds tracks the bounding box and cell count of a region of pixels.
// Min and Max are inclusive and only meaningful when Area > 0.
type Bounds struct {
	Min, Max Pixel
	Area     int
}

func (b *Bounds) Push(p Pixel) {
	if b.Area == 0 {
		b.Min, b.Max = p, p
	} else {
		b.Min.X, b.Min.Y = min(b.Min.X, p.X), min(b.Min.Y, p.Y)
		b.Max.X, b.Max.Y = max(b.Max.X, p.X), max(b.Max.Y, p.Y)
	}
	b.Area++
}

func (b *Bounds) Merge(other *Bounds) {
	switch {
	case other.Area == 0:
	case b.Area == 0:
		*b = *other
	default:
		b.Min.X, b.Min.Y = min(b.Min.X, other.Min.X), min(b.Min.Y, other.Min.Y)
		b.Max.X, b.Max.Y = max(b.Max.X, other.Max.X), max(b.Max.Y, other.Max.Y)
		b.Area += other.Area
	}
}

// Rect returns the bounding box as a half-open image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	if b.Area == 0 {
		return image.Rectangle{}
	}
	return image.Rect(b.Min.X, b.Min.Y, b.Max.X+1, b.Max.Y+1)
}
