package lutz

import (
	"fmt"
	"iter"
)

// Scan labels the foreground regions of src and calls yield once per region
// with its accumulated payload. Regions arrive in completion order. Returning
// false from yield stops the scan; regions still open are dropped.
//
// Scan returns ErrConnectivity or ErrDimensions for invalid input, and the
// source's error, wrapped, if src implements ErrorReporter and fails. It
// panics if the scanner's own bookkeeping becomes inconsistent.
//
// The type arguments usually follow from yield:
//
//	err := lutz.Scan(src, lutz.Conn8, func(b lutz.Bounds) bool {
//	    fmt.Println(b.Rect())
//	    return true
//	})
func Scan[P, A any, PA Accumulator[P, A]](src Source[P], conn Connectivity, yield func(A) bool) error {
	c, err := newCells(src, conn)
	if err != nil {
		return err
	}
	s := &scanner[P, A, PA]{
		cells:  c,
		yield:  yield,
		marker: make([]marker, c.width+1),
		store:  make([]A, c.width+1),
	}
	if er, ok := src.(ErrorReporter); ok {
		s.reporter = er
	}
	return s.run()
}

// Regions returns the regions of src as a single-use sequence. A failing
// source ends the sequence with one (zero, err) pair. Breaking out of the
// loop stops the scan.
//
//	for blob, err := range lutz.Regions[lutz.Pixel, lutz.List[lutz.Pixel]](src, lutz.Conn4) {
//	    ...
//	}
func Regions[P, A any, PA Accumulator[P, A]](src Source[P], conn Connectivity) iter.Seq2[A, error] {
	return func(yield func(A, error) bool) {
		stopped := false
		err := Scan[P, A, PA](src, conn, func(a A) bool {
			if !yield(a, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			var zero A
			yield(zero, err)
		}
	}
}

// Each calls fn with the payloads of every region of src.
func Each[P any](src Source[P], conn Connectivity, fn func([]P)) error {
	return Scan(src, conn, func(l List[P]) bool {
		fn(l)
		return true
	})
}

// Collect returns the pixels of every region of r, in completion order.
func Collect(r Raster, conn Connectivity) ([][]Pixel, error) {
	var regions [][]Pixel
	err := Each(PixelSource(r), conn, func(pixels []Pixel) {
		regions = append(regions, pixels)
	})
	if err != nil {
		return nil, err
	}
	return regions, nil
}

type scanner[P, A any, PA Accumulator[P, A]] struct {
	cells    *cells[P]
	yield    func(A) bool
	reporter ErrorReporter

	marker  []marker // width+1 slots
	store   []A      // width+1 slots, indexed by span start
	objects []object[A]
	psStack []prevState
	ps      prevState
	cs      curState

	y   int
	err error
}

func (s *scanner[P, A, PA]) run() error {
	for s.y = 0; s.y <= s.cells.height; s.y++ {
		s.ps, s.cs = psComplete, csNonObject
		s.cells.resetRow()
		for x := 0; x <= s.cells.width; x++ {
			m := s.marker[x]
			s.marker[x] = noMarker

			p, kind := s.cells.at(x, s.y)
			if kind != background && s.cs != csObject {
				s.startSegment(x)
			}
			if m != noMarker && !s.processMarker(m, x) {
				return s.stop()
			}
			if kind == foreground {
				PA(&s.top().acc).Push(p)
			}
			if kind == background && s.cs == csObject {
				s.endSegment(x)
			}
		}
		if s.failed() {
			return s.stop()
		}
	}
	if len(s.objects) != 0 || len(s.psStack) != 0 {
		panic(fmt.Sprintf("lutz: %d regions and %d states left after last row", len(s.objects), len(s.psStack)))
	}
	return nil
}

// startSegment handles the first foreground cell of a run.
func (s *scanner[P, A, PA]) startSegment(x int) {
	s.cs = csObject
	if s.ps == psObject {
		// The run touches the region open on the row above.
		top := s.top()
		if !top.hasSpan {
			top.span, top.hasSpan = span{x, x}, true
			s.marker[x] = markStart
		} else {
			s.marker[x] = markStartOfSegment
		}
		return
	}
	s.pushPS(s.ps)
	s.ps = psComplete
	s.objects = append(s.objects, object[A]{span: span{x, x}, hasSpan: true})
	s.marker[x] = markStart
}

// endSegment handles the first background cell after a run.
func (s *scanner[P, A, PA]) endSegment(x int) {
	s.cs = csNonObject
	if s.ps != psComplete {
		// More of this region may follow on the current row.
		top := s.top()
		if !top.hasSpan {
			panic("lutz: segment ended on a region without span")
		}
		top.span.end = x
		s.marker[x] = markEndOfSegment
		return
	}
	s.ps = s.popPS()
	obj := s.popObject()
	s.store[obj.span.start] = obj.acc
	s.marker[x] = markEnd
}

// processMarker consumes a marker left at column x by the row above. It
// returns false when the scan has to stop.
func (s *scanner[P, A, PA]) processMarker(m marker, x int) bool {
	switch m {
	case markStart:
		s.pushPS(s.ps)
		acc := s.store[x]
		var zero A
		s.store[x] = zero
		if s.cs == csNonObject {
			s.pushPS(psComplete)
			s.objects = append(s.objects, object[A]{acc: acc})
		} else {
			PA(&s.top().acc).Merge(&acc)
		}
		s.ps = psObject

	case markStartOfSegment:
		if s.cs == csObject && s.ps == psComplete {
			// The run open on this row and the region above are one object.
			s.popPS()
			obj := s.popObject()
			top := s.top()
			PA(&top.acc).Merge(&obj.acc)
			k := obj.span.start
			if !top.hasSpan {
				top.span, top.hasSpan = span{k, k}, true
			} else {
				s.marker[k] = markStartOfSegment
			}
		}
		s.ps = psObject

	case markEndOfSegment:
		s.ps = psIncomplete

	case markEnd:
		ps := s.popPS()
		if s.cs != csNonObject || ps != psComplete {
			s.ps = ps
			return true
		}
		obj := s.popObject()
		if obj.hasSpan {
			// Closed on this row; the row below decides whether it is done.
			s.marker[obj.span.end] = markEnd
			s.store[obj.span.start] = obj.acc
		} else if !s.emit(obj.acc) {
			return false
		}
		s.ps = s.popPS()
	}
	return true
}

func (s *scanner[P, A, PA]) emit(acc A) bool {
	if s.failed() {
		return false
	}
	return s.yield(acc)
}

func (s *scanner[P, A, PA]) failed() bool {
	if s.reporter == nil || s.err != nil {
		return s.err != nil
	}
	s.err = s.reporter.Err()
	return s.err != nil
}

func (s *scanner[P, A, PA]) stop() error {
	if s.err != nil {
		return fmt.Errorf("lutz: scan aborted at row %d: %w", s.y, s.err)
	}
	return nil
}

func (s *scanner[P, A, PA]) top() *object[A] {
	if len(s.objects) == 0 {
		panic("lutz: object stack underflow")
	}
	return &s.objects[len(s.objects)-1]
}

func (s *scanner[P, A, PA]) popObject() object[A] {
	obj := *s.top()
	s.objects[len(s.objects)-1] = object[A]{}
	s.objects = s.objects[:len(s.objects)-1]
	return obj
}

func (s *scanner[P, A, PA]) pushPS(ps prevState) {
	s.psStack = append(s.psStack, ps)
}

func (s *scanner[P, A, PA]) popPS() prevState {
	if len(s.psStack) == 0 {
		panic("lutz: state stack underflow")
	}
	ps := s.psStack[len(s.psStack)-1]
	s.psStack = s.psStack[:len(s.psStack)-1]
	return ps
}
