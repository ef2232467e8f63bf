package lutz

import "errors"

var (
	// ErrConnectivity indicates a Connectivity value other than Conn4 or Conn8.
	ErrConnectivity = errors.New("lutz: connectivity must be Conn4 or Conn8")
	// ErrDimensions indicates a source reporting a negative width or height.
	ErrDimensions = errors.New("lutz: raster dimensions must not be negative")
	// ErrNonRectangular indicates grid rows of differing lengths.
	ErrNonRectangular = errors.New("lutz: all grid rows must have the same length")
	// ErrGridCell indicates an unrecognised character in a text grid.
	ErrGridCell = errors.New("lutz: grid cell must be one of '.', ' ', '0', 'X', '#', '1'")
)
