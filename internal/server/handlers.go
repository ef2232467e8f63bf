package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/blob-tools-mcp/internal/detection"
	"github.com/ironsheep/blob-tools-mcp/internal/imaging"
	"github.com/ironsheep/blob-tools-mcp/lutz"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_detect_blobs").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Blob Labeling
	case "image_detect_blobs":
		return s.handleImageDetectBlobs(args)
	case "image_blob_overlay":
		return s.handleImageBlobOverlay(args)
	case "image_crop_blob":
		return s.handleImageCropBlob(args)

	// Shape Detection
	case "image_detect_rectangles":
		return s.handleImageDetectRectangles(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Blob Labeling Handlers ===

type blobArgs struct {
	Path         string  `json:"path"`
	Threshold    int     `json:"threshold"`
	Invert       bool    `json:"invert"`
	BlurRadius   float64 `json:"blur_radius"`
	KeyColor     string  `json:"key_color"`
	Tolerance    float64 `json:"tolerance"`
	Connectivity int     `json:"connectivity"`
	MinArea      int     `json:"min_area"`
	MaxArea      int     `json:"max_area"`
	MaxResults   int     `json:"max_results"`
}

// options applies the documented defaults and validates the arguments.
func (a blobArgs) options() (detection.BlobOptions, error) {
	if a.Threshold == 0 {
		a.Threshold = 128
	}
	if a.Threshold < 1 || a.Threshold > 255 {
		return detection.BlobOptions{}, fmt.Errorf("threshold must be between 1 and 255, got %d", a.Threshold)
	}
	if a.KeyColor != "" && a.Tolerance == 0 {
		a.Tolerance = 0.1
	}
	if a.MinArea == 0 {
		a.MinArea = 1
	}

	var conn lutz.Connectivity
	switch a.Connectivity {
	case 0, 8:
		conn = lutz.Conn8
	case 4:
		conn = lutz.Conn4
	default:
		return detection.BlobOptions{}, fmt.Errorf("connectivity must be 4 or 8, got %d", a.Connectivity)
	}

	return detection.BlobOptions{
		Threshold:    uint8(a.Threshold),
		Invert:       a.Invert,
		BlurRadius:   a.BlurRadius,
		KeyColor:     a.KeyColor,
		Tolerance:    a.Tolerance,
		Connectivity: conn,
		MinArea:      a.MinArea,
		MaxArea:      a.MaxArea,
		MaxResults:   a.MaxResults,
	}, nil
}

// detectBlobs loads the image named by a and labels it.
func (s *Server) detectBlobs(a blobArgs) (image.Image, *detection.BlobsResult, error) {
	opts, err := a.options()
	if err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, err
	}
	result, err := detection.DetectBlobs(img, opts)
	if err != nil {
		return nil, nil, err
	}
	return img, result, nil
}

func (s *Server) handleImageDetectBlobs(args json.RawMessage) (interface{}, error) {
	var a blobArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, result, err := s.detectBlobs(a)
	return result, err
}

type imageBlobOverlayArgs struct {
	blobArgs
	Color   string `json:"color"`
	ShowIDs *bool  `json:"show_ids"`
}

// BlobOverlayResult is the annotated image together with the blobs drawn.
type BlobOverlayResult struct {
	*imaging.OverlayResult
	Blobs []detection.Blob `json:"blobs"`
}

func (s *Server) handleImageBlobOverlay(args json.RawMessage) (interface{}, error) {
	var a imageBlobOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = imaging.DefaultBoxColor
	}
	showIDs := a.ShowIDs == nil || *a.ShowIDs

	img, result, err := s.detectBlobs(a.blobArgs)
	if err != nil {
		return nil, err
	}

	boxes := make([]imaging.Box, len(result.Blobs))
	for i, b := range result.Blobs {
		boxes[i] = imaging.Box{Rect: b.Bounds.Rect(), ID: b.ID}
	}
	overlay, err := imaging.BoxOverlay(img, boxes, a.Color, showIDs)
	if err != nil {
		return nil, err
	}
	return &BlobOverlayResult{OverlayResult: overlay, Blobs: result.Blobs}, nil
}

type imageCropBlobArgs struct {
	blobArgs
	ID      *int    `json:"id"`
	Padding int     `json:"padding"`
	Scale   float64 `json:"scale"`
}

// CropBlobResult is the crop around one blob together with that blob.
type CropBlobResult struct {
	*imaging.CropResult
	Blob detection.Blob `json:"blob"`
}

func (s *Server) handleImageCropBlob(args json.RawMessage) (interface{}, error) {
	var a imageCropBlobArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ID == nil {
		return nil, fmt.Errorf("id is required")
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	img, result, err := s.detectBlobs(a.blobArgs)
	if err != nil {
		return nil, err
	}
	if *a.ID < 0 || *a.ID >= len(result.Blobs) {
		return nil, fmt.Errorf("blob id %d out of range, %d blobs detected", *a.ID, len(result.Blobs))
	}
	blob := result.Blobs[*a.ID]

	crop, err := imaging.CropRegion(img, blob.Bounds.Rect(), a.Padding, a.Scale)
	if err != nil {
		return nil, err
	}
	return &CropBlobResult{CropResult: crop, Blob: blob}, nil
}

// === Shape Detection Handlers ===

type imageDetectRectanglesArgs struct {
	Path      string  `json:"path"`
	MinArea   int     `json:"min_area"`
	Tolerance float64 `json:"tolerance"`
}

func (s *Server) handleImageDetectRectangles(args json.RawMessage) (interface{}, error) {
	var a imageDetectRectanglesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MinArea == 0 {
		a.MinArea = 100
	}
	if a.Tolerance == 0 {
		a.Tolerance = 0.8
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return detection.DetectRectangles(img, a.MinArea, a.Tolerance)
}
