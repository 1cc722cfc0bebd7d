package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var namedRegions = []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file (PNG, JPEG, GIF or plain PPM)",
	}
}

// detectionProperties returns the schema shared by every tool that runs the
// marker detector: path, detector settings and an optional crop.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"radius": map[string]interface{}{
			"type":        "number",
			"minimum":     0,
			"description": "Marker radius in pixels. Defaults to the server setting (8 unless configured)",
		},
		"cutoff": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"maximum":     255,
			"description": "Luminance threshold; brighter pixels are background. Default 150",
		},
		"peak_ratio": map[string]interface{}{
			"type":        "number",
			"minimum":     0,
			"description": "Fraction of the strongest vote a centre must exceed. Default 0.8; above 1 finds nothing",
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional crop applied before detection, in pixels; x2/y2 exclusive",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"named_region": map[string]interface{}{
			"type":        "string",
			"enum":        namedRegions,
			"description": "Optional named crop, used when region is not given",
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Optional rescale factor applied after cropping. Default 1.0",
			"default":     1.0,
		},
	}
}

// axesProperties adds the plot-space bounds to props.
func axesProperties(props map[string]interface{}) map[string]interface{} {
	for name, desc := range map[string]string{
		"x_low":  "Plot value at the image's left edge. Default 0",
		"x_high": "Plot value at the image's right edge. Default 1",
		"y_low":  "Plot value at the image's bottom edge. Default 0",
		"y_high": "Plot value at the image's top edge. Default 1",
	} {
		props[name] = map[string]interface{}{
			"type":        "number",
			"description": desc,
		}
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	extractProps := axesProperties(detectionProperties())
	extractProps["include_votes"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Also return the vote accumulator and peak mask as base64 PNG",
		"default":     false,
	}

	batchProps := axesProperties(detectionProperties())
	delete(batchProps, "path")
	batchProps["paths"] = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Absolute paths of the scans to process",
	}

	overlayProps := detectionProperties()
	overlayProps["color"] = map[string]interface{}{
		"type":        "string",
		"description": "Mark colour in hex (e.g. '#FF0000'). Default red",
		"default":     "#FF0000",
	}
	overlayProps["numbered"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Label each mark with its index in the centre list",
		"default":     true,
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for the following tool calls.",
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
		{
			Name:        "image_unload",
			Description: "Drop an image from the cache, e.g. after the file changed on disk. Omit path to clear the whole cache.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
			},
		},

		// Marker Extraction
		{
			Name:        "plot_extract_markers",
			Description: "Find the circular data markers of a scanned scatter or line plot and return their pixel centres and plot-space coordinates. Centres are listed in row-major order (top to bottom, left to right). With two or more distinct x values a least-squares line through the points is included as fit.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": extractProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "plot_extract_batch",
			Description: "Run plot_extract_markers with the same settings over several scans. Per-scan failures are reported in the result instead of failing the call.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": batchProps,
				"required":   []string{"paths"},
			},
		},

		// Pipeline Stages
		{
			Name:        "plot_segment",
			Description: "Show the binary segmentation the detector works on: dark ink becomes white, background becomes black. Use it to tune cutoff; markers and max_vote report what detection finds with the same settings.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "plot_edge_detect",
			Description: "Show the edge map the detector votes from. Blue marks falling edges, green rising edges. Also reports markers and max_vote for the same settings.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "plot_marker_overlay",
			Description: "Return the scan with every detected marker circled, to verify the extraction visually.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": overlayProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "plot_render",
			Description: "Re-plot the extracted points as a scatter chart with the given axis bounds, for side-by-side comparison with the scan.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": axesProperties(detectionProperties()),
				"required":   []string{"path"},
			},
		},
	}
}
