// Package server implements the MCP (Model Context Protocol) server for the
// blob labeling tools.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line:
//   - initialize: Protocol handshake
//   - notifications/initialized: Client acknowledgment, no response
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Blob Labeling:
//   - image_detect_blobs: Connected regions with bounds, centroid, area and color
//   - image_blob_overlay: Image with numbered blob bounding boxes
//   - image_crop_blob: Zoom into one blob by id
//
// Shape Detection:
//   - image_detect_rectangles: Rectangular outlines from labeled edge contours
//
// The blob tools share their foreground arguments (threshold, invert,
// blur_radius, key_color, tolerance, connectivity) and filters (min_area,
// max_area, max_results). Blob ids are stable for identical arguments, so an
// id from image_detect_blobs can be passed to image_crop_blob.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server process.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000 and the Go
// error string as data. Malformed tool parameters yield -32602 and unknown
// methods -32601.
package server
