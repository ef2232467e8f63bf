// Package imaging loads images and turns them into rasters the lutz labeler
// can scan, and renders labeling results back onto images.
//
// # Coordinate System
//
// Rasters and sources use 0-based coordinates relative to the image's bounds
// minimum: X grows rightward and Y grows downward. Rectangles are half-open,
// (Min inclusive, Max exclusive), like image.Rectangle.
//
// # Rasters
//
//   - ThresholdRaster: luminance threshold, optionally blurred or inverted
//   - ColorKeyRaster: CIE Lab distance to a key color
//   - PNMStream: binary PBM/PGM read one row at a time
//
// ColorSource wraps any of them so that every labeled pixel carries its color.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Rasters are not; a PNMStream in
// particular consumes its reader as rows are requested.
package imaging
