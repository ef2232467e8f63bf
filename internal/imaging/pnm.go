package imaging

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrRowOrder is reported when a PNMStream is asked for a row it has
// already discarded.
var ErrRowOrder = errors.New("pnm: rows must be read in order")

// PNMStream is a raster over a binary PBM (P4) or PGM (P5) stream that keeps
// only the current row in memory. Rows must be requested in increasing
// order, which is how the labeler reads them, so arbitrarily tall images can
// be labeled with memory proportional to their width.
//
// For PBM, set bits (black) are foreground. For PGM, a sample scaled to
// 0..255 is foreground when it is at least the level. Invert flips both.
//
// Read failures are not returned from Foreground. The affected rows read as
// background and the first failure is reported by Err.
type PNMStream struct {
	r      *bufio.Reader
	kind   byte // '4' or '5'
	w, h   int
	maxval int
	level  int
	invert bool

	raw  []byte
	row  []bool
	rowY int
	err  error
}

// NewPNMStream reads the header from r.
func NewPNMStream(r io.Reader, level uint8, invert bool) (*PNMStream, error) {
	s := &PNMStream{
		r:      bufio.NewReader(r),
		level:  int(level),
		invert: invert,
		rowY:   -1,
	}
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	rowBytes := s.w
	switch {
	case s.kind == '4':
		rowBytes = (s.w + 7) / 8
	case s.maxval > 255:
		rowBytes = 2 * s.w
	}
	s.raw = make([]byte, rowBytes)
	s.row = make([]bool, s.w)
	return s, nil
}

func (s *PNMStream) Width() int  { return s.w }
func (s *PNMStream) Height() int { return s.h }
func (s *PNMStream) Err() error  { return s.err }

func (s *PNMStream) Foreground(x, y int) bool {
	if y != s.rowY {
		s.advance(y)
	}
	if s.err != nil {
		return false
	}
	return s.row[x]
}

func (s *PNMStream) advance(y int) {
	if s.err != nil {
		return
	}
	if y < s.rowY {
		s.err = fmt.Errorf("%w: row %d after row %d", ErrRowOrder, y, s.rowY)
		return
	}
	for s.rowY < y {
		if _, err := io.ReadFull(s.r, s.raw); err != nil {
			s.err = fmt.Errorf("pnm: reading row %d: %w", s.rowY+1, err)
			return
		}
		s.rowY++
	}
	s.decodeRow()
}

func (s *PNMStream) decodeRow() {
	for x := range s.row {
		var on bool
		switch {
		case s.kind == '4':
			on = s.raw[x/8]&(0x80>>(x%8)) != 0
		case s.maxval > 255:
			v := int(s.raw[2*x])<<8 | int(s.raw[2*x+1])
			on = v*255/s.maxval >= s.level
		default:
			on = int(s.raw[x])*255/s.maxval >= s.level
		}
		s.row[x] = on != s.invert
	}
}

func (s *PNMStream) readHeader() error {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(s.r, magic); err != nil {
		return fmt.Errorf("pnm: reading magic: %w", err)
	}
	if magic[0] != 'P' || (magic[1] != '4' && magic[1] != '5') {
		return fmt.Errorf("pnm: unsupported magic %q, want P4 or P5", magic)
	}
	s.kind = magic[1]

	fields := []*int{&s.w, &s.h}
	if s.kind == '5' {
		fields = append(fields, &s.maxval)
	}
	for _, f := range fields {
		v, err := s.readInt()
		if err != nil {
			return err
		}
		*f = v
	}
	if s.w <= 0 || s.h <= 0 {
		return fmt.Errorf("pnm: invalid size %dx%d", s.w, s.h)
	}
	if s.kind == '5' && (s.maxval <= 0 || s.maxval > 65535) {
		return fmt.Errorf("pnm: invalid maxval %d", s.maxval)
	}
	// Exactly one whitespace byte separates the header from the raster,
	// and readInt has already consumed it.
	return nil
}

// readInt skips whitespace and comments and parses a decimal integer,
// consuming the single delimiter that follows it.
func (s *PNMStream) readInt() (int, error) {
	var c byte
	var err error
	for {
		if c, err = s.r.ReadByte(); err != nil {
			return 0, fmt.Errorf("pnm: reading header: %w", err)
		}
		if c == '#' {
			if _, err = s.r.ReadString('\n'); err != nil {
				return 0, fmt.Errorf("pnm: reading header comment: %w", err)
			}
			continue
		}
		if !isSpace(c) {
			break
		}
	}
	v := 0
	for {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("pnm: unexpected byte %q in header", c)
		}
		v = v*10 + int(c-'0')
		if v > 1<<24 {
			return 0, fmt.Errorf("pnm: header value too large")
		}
		if c, err = s.r.ReadByte(); err != nil {
			return 0, fmt.Errorf("pnm: reading header: %w", err)
		}
		if isSpace(c) {
			return v, nil
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
