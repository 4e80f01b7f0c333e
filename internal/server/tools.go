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
		"description": "Absolute path to the photo of the sampling card",
	}
}

func backendProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Window extraction backend: native (default) or opencv (requires a build with -tags opencv)",
		"enum":        []string{"native", "opencv"},
	}
}

func interpolationProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Kernel used to rescale the particle mask to the canonical grid. Default bicubic",
		"enum":        []string{"nearest", "bilinear", "bicubic", "lanczos"},
	}
}

func previewSideProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Longest side in pixels of the returned PNG. Default 1024",
		"default":     defaultPreviewSide,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Card Inspection
		{
			Name:        "card_load",
			Description: "Load a sampling-card photo and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_locate",
			Description: "Find the sampling window on a card photo. Returns whether it was found, its four labelled corners, the number of quadrilateral candidates, and the photo with the window outlined as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":         pathProperty(),
					"backend":      backendProperty(),
					"preview_side": previewSideProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_rectify",
			Description: "Locate the sampling window, refine its corners to sub-pixel accuracy and warp it into an axis-aligned image. Returns the refined corners, the homography and the rectified window as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":         pathProperty(),
					"backend":      backendProperty(),
					"preview_side": previewSideProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "card_read_label",
			Description: "Read the printed or handwritten label of a card with OCR. Without a region, the band above the sampling window is read. Date-like tokens are extracted separately.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default eng",
					},
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Optional label region left edge",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Optional label region top edge",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Optional label region right edge (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Optional label region bottom edge (exclusive)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Particle Analysis
		{
			Name:        "particle_segment",
			Description: "Rectify the sampling window and segment deposited particles into a binary mask on the canonical grid. Returns the mask size, scale factor, foreground pixel count and a PNG preview.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty(),
					"backend":       backendProperty(),
					"interpolation": interpolationProperty(),
					"preview_side":  previewSideProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "particle_analyze",
			Description: "Run the full pipeline on a card photo: locate and rectify the window, segment particles, count them per size bin (<=1um, 1-2.5um, 2.5-10um, >10um) and derive the pollution level. Reports 'no region of interest detected' when the window cannot be found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty(),
					"backend":       backendProperty(),
					"interpolation": interpolationProperty(),
					"include_particles": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return every measured particle. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "particle_analyze_batch",
			Description: "Analyze several card photos in parallel. Results are returned in the order of the given paths; a photo that fails does not stop the others.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the card photos",
					},
					"backend":       backendProperty(),
					"interpolation": interpolationProperty(),
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum photos analyzed at once. Default from configuration",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "pollution_levels",
			Description: "Return the reference table of pollution levels with the dot density band and visual description of each.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
