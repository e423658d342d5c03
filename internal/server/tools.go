package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties describes the input selection shared by every
// image-producing tool.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"region": map[string]interface{}{
			"type":        "string",
			"description": "Optional named region to work on",
			"enum": []string{
				"top-left", "top-right", "bottom-left", "bottom-right",
				"top-half", "bottom-half", "left-half", "right-half", "center",
			},
		},
		"crop": map[string]interface{}{
			"type":        "object",
			"description": "Optional rectangle to work on; x2 and y2 are exclusive. Cannot be combined with region.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"max_width": map[string]interface{}{
			"type":        "integer",
			"description": "Optional width limit; the image is scaled down to fit, keeping aspect ratio",
		},
		"max_height": map[string]interface{}{
			"type":        "integer",
			"description": "Optional height limit; the image is scaled down to fit, keeping aspect ratio",
		},
		"output_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional path to also save the result (.png, .jpg or .bmp)",
		},
	}
}

// quantiseProperties describes the quantiser choice. At most one of
// threshold, levels and palette may be given.
func quantiseProperties() map[string]interface{} {
	return map[string]interface{}{
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "1-bit threshold on the red component (0-1). Default 0.5",
			"default":     0.5,
		},
		"levels": map[string]interface{}{
			"type":        "integer",
			"description": "Quantise each color component to this many evenly spaced levels (>= 2)",
		},
		"palette": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Quantise to the nearest of these hex colors, e.g. [\"#000000\", \"#ff0000\"]",
		},
		"greyscale": map[string]interface{}{
			"type":        "boolean",
			"description": "Convert to Rec. 709 luminance before quantising",
		},
	}
}

func kernelProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Diffusion kernel name (see image_kernels). Default floyd-steinberg",
		"default":     "floyd-steinberg",
	}
}

// merge combines property maps; later maps win.
func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, channel count and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_kernels",
			Description: "List the error diffusion kernels with their divisors and taps.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		{
			Name:        "image_sample_colors",
			Description: "Read pixel colors at one or more points, as hex, 8-bit bytes, normalized values and HSL. Crop and fit options apply before sampling.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), map[string]interface{}{
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Points to sample, each {x, y, label?}",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
				}),
				"required": []string{"path", "points"},
			},
		},

		// Dithering
		{
			Name:        "image_dither",
			Description: "Dither an image with error diffusion and return it as base64-encoded PNG, along with the error that fell off the image edges.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), quantiseProperties(), map[string]interface{}{
					"kernel": kernelProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_quantise",
			Description: "Quantise every pixel independently without diffusing any error. Useful to compare against image_dither.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": merge(sourceProperties(), quantiseProperties()),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_raw",
			Description: "Return the image as raw single-channel 8-bit samples in raster order (red component, no header), optionally dithered first and zstd-compressed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), quantiseProperties(), map[string]interface{}{
					"dither": map[string]interface{}{
						"type":        "boolean",
						"description": "Dither before emitting samples",
					},
					"kernel": kernelProperty(),
					"compression": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"none", "zstd"},
						"description": "Stream compression. Default none",
						"default":     "none",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also write the raw stream to",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Buffer Operations
		{
			Name:        "image_greyscale",
			Description: "Convert an image to Rec. 709 luminance, keeping its channel layout and alpha.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sourceProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_flip",
			Description: "Mirror an image vertically, horizontally or both.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), map[string]interface{}{
					"direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"vertical", "horizontal", "both"},
						"description": "Flip direction. Default vertical",
						"default":     "vertical",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_normalize",
			Description: "Scale all samples so the largest becomes 1. Fails on an all-black image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sourceProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_box_blur",
			Description: "Average each pixel with its square neighbourhood. Pixels outside the image count as black.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), map[string]interface{}{
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Neighbourhood radius in pixels. Default 1",
						"default":     1,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_draw",
			Description: "Draw filled triangles and then one pixel wide lines onto an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(sourceProperties(), map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for all shapes. Default #ffffff",
						"default":     "#ffffff",
					},
					"lines": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"from": pointSchema(),
								"to":   pointSchema(),
							},
							"required": []string{"from", "to"},
						},
					},
					"triangles": map[string]interface{}{
						"type":        "array",
						"description": "Each triangle is an array of three points",
						"items": map[string]interface{}{
							"type":     "array",
							"items":    pointSchema(),
							"minItems": 3,
							"maxItems": 3,
						},
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

func pointSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "integer"},
			"y": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x", "y"},
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
