package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Ingestion
		{
			Name:        "photo_load",
			Description: "Load a photo (JPEG, PNG, TIFF, WEBP, BMP, GIF or a camera RAW file) and report its dimensions, format and whether an embedded preview or placeholder was used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_extract_preview",
			Description: "Find the largest embedded JPEG preview inside a RAW container. Optionally writes it to disk and returns it as base64. A missing preview is reported as found=false, not as an error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the RAW file"),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the extracted JPEG to",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the preview bytes as base64 JPEG. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Analysis
		{
			Name:        "photo_analyze",
			Description: "Compute photometric telemetry for a photo: decimated RGB histogram, tonal zones, noise and dynamic-range proxies, clipping flags, waveform, ordered editing suggestions, a suggested 5-point tone curve and a 0-100 grading score. The result is recorded in the analysis history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"label": map[string]interface{}{
						"type":        "string",
						"description": "History label, e.g. original or processed. Default revision-N",
					},
					"buckets": map[string]interface{}{
						"type":        "integer",
						"description": "Number of display histogram buckets (1-256). Default from configuration",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_compare",
			Description: "Analyze an original and a processed rendition concurrently. Returns both telemetry records, a pixel diff (MSE, differing pixels), the grading score delta and which findings were resolved or introduced.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"original":  pathProperty("Absolute path to the original image"),
					"processed": pathProperty("Absolute path to the processed image"),
				},
				"required": []string{"original", "processed"},
			},
		},
		{
			Name:        "photo_clipping_map",
			Description: "Render a transparent overlay marking blown highlights in magenta and crushed shadows in blue. Returns a base64 PNG with clipped pixel counts.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Channel level (1-255) at or above which a pixel counts as blown. Default 253",
						"default":     253,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_camera_info",
			Description: "Read capture settings from EXIF metadata: make, model, lens, aperture, shutter speed, ISO, focal length, flash, white balance and capture time. Missing metadata yields empty fields.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_sample_color",
			Description: "Get the exact color at a pixel coordinate as hex, RGB and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// History
		{
			Name:        "photo_history",
			Description: "List recorded analyses in order, optionally filtered by label. With an id, returns that entry's full telemetry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"label": map[string]interface{}{
						"type":        "string",
						"description": "Only list entries with this label",
					},
					"id": map[string]interface{}{
						"type":        "string",
						"description": "Return the single entry with this id",
					},
				},
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
