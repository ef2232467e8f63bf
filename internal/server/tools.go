package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// blobProperties are the foreground and filter arguments shared by every
// blob tool.
func blobProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Luminance level (1-255) at or above which a pixel is foreground. Default 128",
			"default":     128,
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat dark pixels as foreground (dark objects on a light background)",
			"default":     false,
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius applied before thresholding, to merge noisy speckles. Default 0 (off)",
			"default":     0,
		},
		"key_color": map[string]interface{}{
			"type":        "string",
			"description": "Hex color (#RRGGBB). When set, pixels close to this color are foreground instead of thresholding",
		},
		"tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Maximum CIE Lab distance to key_color (about 0-1). Default 0.1",
			"default":     0.1,
		},
		"connectivity": map[string]interface{}{
			"type":        "integer",
			"description": "4 (edge neighbors only) or 8 (diagonals too). Default 8",
			"enum":        []int{4, 8},
			"default":     8,
		},
		"min_area": map[string]interface{}{
			"type":        "integer",
			"description": "Smallest blob to report, in pixels. Default 1",
			"default":     1,
		},
		"max_area": map[string]interface{}{
			"type":        "integer",
			"description": "Largest blob to report, in pixels. Default 0 (unlimited)",
			"default":     0,
		},
		"max_results": map[string]interface{}{
			"type":        "integer",
			"description": "Return at most this many blobs, largest first. Default 0 (all)",
			"default":     0,
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Blob Labeling
		{
			Name:        "image_detect_blobs",
			Description: "Find connected regions of foreground pixels (blobs) in a single pass. Returns each blob's bounding box, centroid, pixel area, fill ratio and mean color, largest first, plus area statistics.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": blobProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_blob_overlay",
			Description: "Detect blobs and return the image with each blob's bounding box outlined and numbered by blob id, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(blobProperties(), map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color in hex (#RRGGBB). Default #FF0000",
						"default":     "#FF0000",
					},
					"show_ids": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each box with its blob id. Default true",
						"default":     true,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_crop_blob",
			Description: "Detect blobs and return the region around one blob, selected by id, as base64-encoded PNG. Use this to zoom into a blob.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(blobProperties(), map[string]interface{}{
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Blob id as reported by image_detect_blobs with the same arguments",
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Extra pixels around the bounding box. Default 0",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path", "id"},
			},
		},

		// Shape Detection
		{
			Name:        "image_detect_rectangles",
			Description: "Find axis-aligned rectangles by labeling connected edge pixels and scoring how well each contour matches its bounding box perimeter.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"min_area": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum bounding box area in square pixels. Default 100",
						"default":     100,
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Minimum rectangularity score (0-1). Default 0.8",
						"default":     0.8,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
