// Package detection finds blobs and rectangles in images.
//
// Both detectors label connected pixels with the single-pass lutz scanner,
// so memory beyond the decoded image grows with the image width rather than
// with the number or size of the regions.
//
// # Blobs
//
// DetectBlobs binarizes an image by luminance threshold or by color key and
// reports every connected foreground region with its bounds, centroid, area,
// fill ratio and mean color, largest first.
//
// # Rectangles
//
// DetectRectangles marks gray-level steps as edge pixels, labels the edge
// contours and keeps those whose pixel count matches the perimeter of their
// bounding box. It works best on clean diagrams with solid fills.
//
// # Coordinate System
//
// Results use image coordinates with the origin at the top-left. Bounds are
// inclusive on both corners.
package detection
