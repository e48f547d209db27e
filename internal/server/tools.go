package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema shared by every tool's image path argument.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
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

// quadProperty describes a four-corner digit outline.
func quadProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Digit outline as four corners in image pixels. Output size is top_right.x - top_left.x by bottom_right.y - top_right.y.",
		"properties": map[string]interface{}{
			"top_left":     pointSchema(),
			"top_right":    pointSchema(),
			"bottom_right": pointSchema(),
			"bottom_left":  pointSchema(),
		},
		"required": []string{"top_left", "top_right", "bottom_right", "bottom_left"},
	}
}

// regionProperty describes an axis-aligned rectangle.
func regionProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func layoutPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional path to a YAML layout file. Defaults to the server's configured layout.",
	}
}

// digitSchema is shared by the tools that classify a single digit.
func digitSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path":   pathProperty(),
			"quad":   quadProperty(),
			"region": regionProperty("Axis-aligned digit rectangle, used when quad is absent"),
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for subsequent calls.",
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

		// Digit Extraction
		{
			Name:        "image_trim",
			Description: "Cut a quadrilateral out of an image, correct its perspective and return it as base64-encoded PNG. Use this to check what a digit slot actually contains.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"quad": quadProperty(),
				},
				"required": []string{"path", "quad"},
			},
		},
		{
			Name:        "line_detect",
			Description: "Binarize a region (invert, grayscale, threshold, dilate) and list the columns (vertical) or rows (horizontal) holding an unbroken line at least half the region's length.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"region": regionProperty("Region to scan. Defaults to the whole image."),
					"orientation": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"vertical", "horizontal"},
						"description": "Scan direction",
					},
				},
				"required": []string{"path", "orientation"},
			},
		},

		// Digit Classification
		{
			Name:        "digit_classify",
			Description: "Classify one seven-segment digit. Returns the digit 0-9, or an error listing the segments that were seen when they match no digit.",
			InputSchema: digitSchema(),
		},
		{
			Name:        "digit_features",
			Description: "Show how a digit is seen: the seven segment flags, each zone's rectangle and the lines found in it.",
			InputSchema: digitSchema(),
		},

		// Meter Reading
		{
			Name:        "meter_read",
			Description: "Read the whole display: trim every slot of the layout, classify each digit and format the number.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"layout_path": layoutPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "layout_preview",
			Description: "Draw the layout's slot outlines on the image, labelled with the digit read from each slot or '?' when it cannot be read. Returns base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"layout_path": layoutPathProperty(),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #rrggbb. Default #ff0000",
						"default":     "#ff0000",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
