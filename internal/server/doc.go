// Package server exposes the game-screen detectors as an MCP (Model Context
// Protocol) server.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Every detection and inspection tool takes the path of a captured frame.
//
// Minimap:
//   - vision_detect_minimap: Inner minimap rectangle
//   - vision_detect_player: Player marker, relative to the minimap
//   - vision_detect_portals: Portal icons, relative to the minimap
//   - vision_detect_rune: Rune icon, relative to the minimap
//   - vision_detect_mobs: On-screen mobs projected onto the minimap
//
// Status:
//   - vision_detect_health: Health bar boxes and the numbers inside them
//   - vision_detect_buffs: Buffs shown in the buff tray
//   - vision_detect_overlays: ESC menu, boss bar, death, cash shop, Erda Shower
//   - vision_detect_rune_arrows: The four rune puzzle arrows
//
// Frame inspection:
//   - vision_annotate: Draw labelled boxes over the frame
//   - vision_crop: Extract a rectangle or named region
//   - vision_sample_color: Color at one pixel
//
// History and cache:
//   - vision_history: Most recent calls and their detection results
//   - vision_cache_clear: Drop decoded captures from memory
//
// # Frames and Detectors
//
// Decoded captures are cached by path and reused while the file's size and
// modification time are unchanged, so a capture rewritten in place is read
// again. vision_cache_clear releases them. Each call converts the capture to
// a fresh BGRA frame and binds a cached detector to it, so intermediate
// grayscale images are shared between the facts one tool reports. Both are
// released when the call returns.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for unusable arguments, -32000 for any other failure
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	reg := facts.NewRegistry(os.DirFS("assets"), facts.Options{})
//	defer reg.Close()
//
//	srv := server.New(reg, server.Options{Version: "1.0.0"})
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server")
//	}
package server
