// Package lutz labels the connected foreground regions ("blobs") of a binary
// raster in a single top-to-bottom pass.
//
// The scan follows R. K. Lutz, "An algorithm for the real time analysis of
// digitised images" (The Computer Journal, 1980). Instead of building a label
// image or a disjoint-set table, the scanner keeps one marker and one stash slot
// per column plus a small stack of regions that are still open. A region is
// handed to the caller as soon as no later row can extend it, so auxiliary
// memory stays O(width) no matter how tall the image is or how many regions
// it contains.
//
// # Inputs
//
// A raster is anything that can answer foreground queries:
//
//	type Raster interface {
//	    Width() int
//	    Height() int
//	    Foreground(x, y int) bool
//	}
//
// Sources that carry a payload per foreground cell implement Source[P]
// instead; PixelSource adapts a Raster into a Source[Pixel]. Cells are
// queried row-major, left to right, each exactly once per scan.
//
// # Outputs
//
// Every region is emitted exactly once, in the order regions are completed,
// which is neither raster order nor spatial order. Callers that need a stable
// order sort afterwards. What is emitted per region is decided by an
// Accumulator: List collects every payload, Count only counts cells and Bounds
// tracks a bounding box. Custom accumulators implement Push and Merge on a
// pointer receiver; the zero value is the empty accumulator.
//
// # Connectivity
//
// Conn8 (the zero value) joins diagonal neighbours, Conn4 only joins cells
// sharing an edge. Conn4 is scanned through the same state machine by
// interleaving a bridge column between every pair of source columns.
//
// # Errors
//
// Scanning itself cannot fail. A source that decodes lazily may implement
// ErrorReporter; its error aborts the scan and is returned wrapped. Internal
// inconsistencies (stack underflow, regions left open after the last row)
// are bugs and panic.
//
// # Example
//
//	grid, _ := lutz.ParseGrid(
//	    ".XXX.",
//	    ".X.X.",
//	    "...X.",
//	)
//	blobs, err := lutz.Collect(grid, lutz.Conn8)
package lutz
