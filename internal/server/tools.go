package server

import (
	"github.com/ironsheep/game-vision/internal/facts"
	"github.com/ironsheep/game-vision/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the captured game frame",
}

var rectSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"x":      map[string]interface{}{"type": "integer"},
		"y":      map[string]interface{}{"type": "integer"},
		"width":  map[string]interface{}{"type": "integer"},
		"height": map[string]interface{}{"type": "integer"},
	},
	"required": []string{"x", "y", "width", "height"},
}

// minimapProperties are accepted by every tool that works inside the
// minimap.
func minimapProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty,
		"minimap": withDescription(rectSchema,
			"Minimap rectangle from vision_detect_minimap. Located first when omitted"),
		"border_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Per-channel value a minimap border pixel reaches (0-255). Default from config, usually 170",
		},
	}
}

func withDescription(schema map[string]interface{}, description string) map[string]interface{} {
	out := make(map[string]interface{}, len(schema)+1)
	for k, v := range schema {
		out[k] = v
	}
	out["description"] = description
	return out
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func buffKindNames() []string {
	names := make([]string, len(facts.BuffKinds))
	for i, k := range facts.BuffKinds {
		names[i] = k.String()
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	mobs := minimapProperties()
	mobs["bound"] = withDescription(rectSchema,
		"Playable area in minimap coordinates, edges inclusive. Default: the whole minimap")
	mobs["player"] = map[string]interface{}{
		"type":        "object",
		"description": "Player position in minimap coordinates with y growing upwards. Detected when omitted",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "integer"},
			"y": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x", "y"},
	}

	return []Tool{
		// Minimap
		{
			Name:        "vision_detect_minimap",
			Description: "Locate the inner minimap rectangle (inside its white border) in a game frame.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":             pathProperty,
				"border_threshold": minimapProperties()["border_threshold"],
			}, "path"),
		},
		{
			Name:        "vision_detect_player",
			Description: "Find the player marker on the minimap. The box is relative to the minimap.",
			InputSchema: objectSchema(minimapProperties(), "path"),
		},
		{
			Name:        "vision_detect_portals",
			Description: "Find portal icons on the minimap. Boxes are relative to the minimap and may overlap.",
			InputSchema: objectSchema(minimapProperties(), "path"),
		},
		{
			Name:        "vision_detect_rune",
			Description: "Find the rune icon on the minimap. The box is relative to the minimap.",
			InputSchema: objectSchema(minimapProperties(), "path"),
		},
		{
			Name:        "vision_detect_mobs",
			Description: "Detect mobs on screen and project them onto the minimap relative to the player. Mobs outside the bound are dropped.",
			InputSchema: objectSchema(mobs, "path"),
		},

		// Status
		{
			Name:        "vision_detect_health",
			Description: "Locate the health bar, split it into current and max number boxes and read both numbers.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty,
				"skip_read": map[string]interface{}{
					"type":        "boolean",
					"description": "Only locate the number boxes, do not run text recognition",
				},
			}, "path"),
		},
		{
			Name:        "vision_detect_buffs",
			Description: "Report which buffs are shown in the top-right buff tray.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty,
				"kinds": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string", "enum": buffKindNames()},
					"description": "Buffs to check. Default: all",
				},
			}, "path"),
		},
		{
			Name:        "vision_detect_overlays",
			Description: "Report the ESC menu, elite boss bar, death dialog, cash shop and the Erda Shower skill icon.",
			InputSchema: objectSchema(map[string]interface{}{"path": pathProperty}, "path"),
		},
		{
			Name:        "vision_detect_rune_arrows",
			Description: "Solve the rune puzzle: four arrows read left to right.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty,
				"include_predictions": map[string]interface{}{
					"type":        "boolean",
					"description": "Also return the raw model rows and the ratios mapping them to the frame",
				},
			}, "path"),
		},

		// Frame inspection
		{
			Name:        "vision_annotate",
			Description: "Draw labelled boxes over a frame and return it as base64-encoded PNG.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty,
				"boxes": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"label": map[string]interface{}{"type": "string"},
							"rect":  rectSchema,
						},
						"required": []string{"rect"},
					},
					"description": "Boxes in frame coordinates. Boxes sharing a label share a color",
				},
			}, "path", "boxes"),
		},
		{
			Name:        "vision_crop",
			Description: "Crop a rectangle or a named screen region and return it as base64-encoded PNG.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty,
				"rect": withDescription(rectSchema, "Rectangle to crop; takes precedence over region"),
				"region": map[string]interface{}{
					"type":        "string",
					"enum":        imaging.RegionNames,
					"description": "Named region to extract",
				},
				"scale": map[string]interface{}{
					"type":        "number",
					"description": "Optional scale factor. Default 1.0",
					"default":     1.0,
				},
			}, "path"),
		},
		{
			Name:        "vision_sample_color",
			Description: "Get the exact color value at a pixel of a frame.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty,
				"x":    map[string]interface{}{"type": "integer", "description": "X coordinate (0-based, from left)"},
				"y":    map[string]interface{}{"type": "integer", "description": "Y coordinate (0-based, from top)"},
			}, "path", "x", "y"),
		},

		// History
		{
			Name:        "vision_history",
			Description: "List the most recent tool calls, oldest first, with their detection results.",
			InputSchema: objectSchema(map[string]interface{}{
				"clear": map[string]interface{}{
					"type":        "boolean",
					"description": "Empty the history after listing it",
				},
			}),
		},
		{
			Name:        "vision_cache_clear",
			Description: "Drop decoded captures from the frame cache. Rewritten files are reloaded on their own; this frees memory.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": withDescription(pathProperty, "Only drop this capture. Default: all"),
			}),
		},
	}
}
