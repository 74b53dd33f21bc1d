package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ironsheep/game-vision/internal/facts"
	"github.com/ironsheep/game-vision/internal/imaging"
	"github.com/ironsheep/game-vision/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "vision_detect_minimap").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errToolArgs marks a tool call whose arguments are unusable.
var errToolArgs = errors.New("invalid arguments")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
// Every call except vision_history is recorded in the history; only
// detection results are kept with their entry.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := codec.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	started := time.Now()
	result, path, err := s.executeTool(params.Name, params.Arguments)
	logger := serverLog().With().Str("tool", params.Name).Dur("elapsed", time.Since(started)).Logger()

	if params.Name != "vision_history" {
		entry := HistoryEntry{Tool: params.Name, Path: path, At: started}
		if strings.HasPrefix(params.Name, "vision_detect_") {
			entry.Result = result
		}
		if err != nil {
			entry.Error = err.Error()
		}
		s.record(entry)
	}

	if err != nil {
		logger.Debug().Err(err).Msg("tool failed")
		code := -32000
		if errors.Is(err, errToolArgs) {
			code = -32602
		}
		return s.errorResponse(req.ID, code, "Tool execution failed", err.Error())
	}
	logger.Debug().Msg("tool done")

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

// executeTool dispatches tool execution to the appropriate handler function
// and reports the capture path the tool read, if any.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, string, error) {
	switch name {
	case "vision_history":
		var a historyArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, "", err
		}
		return s.historyItems(a.Clear), "", nil
	case "vision_cache_clear":
		var a cacheClearArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, "", err
		}
		if a.Path != "" {
			return map[string]interface{}{"evicted": boolToInt(s.cache.Evict(a.Path))}, a.Path, nil
		}
		return map[string]interface{}{"evicted": s.cache.Clear()}, "", nil
	}

	var base frameArgs
	if err := decodeArgs(args, &base); err != nil {
		return nil, "", err
	}
	if base.Path == "" {
		return nil, "", fmt.Errorf("%w: path is required", errToolArgs)
	}

	var handler func(facts.Detector, json.RawMessage) (interface{}, error)
	switch name {
	case "vision_detect_minimap":
		handler = s.handleDetectMinimap
	case "vision_detect_player":
		handler = s.handleDetectPlayer
	case "vision_detect_portals":
		handler = s.handleDetectPortals
	case "vision_detect_rune":
		handler = s.handleDetectRune
	case "vision_detect_mobs":
		handler = s.handleDetectMobs
	case "vision_detect_health":
		handler = s.handleDetectHealth
	case "vision_detect_buffs":
		handler = s.handleDetectBuffs
	case "vision_detect_overlays":
		handler = s.handleDetectOverlays
	case "vision_detect_rune_arrows":
		handler = s.handleDetectRuneArrows
	case "vision_annotate":
		result, err := s.handleAnnotate(base.Path, args)
		return result, base.Path, err
	case "vision_crop":
		result, err := s.handleCrop(base.Path, args)
		return result, base.Path, err
	case "vision_sample_color":
		result, err := s.handleSampleColor(base.Path, args)
		return result, base.Path, err
	default:
		return nil, "", fmt.Errorf("unknown tool: %s", name)
	}

	result, err := s.withDetector(base.Path, func(d facts.Detector) (interface{}, error) {
		return handler(d, args)
	})
	return result, base.Path, err
}

// withDetector loads path as a frame, binds a detector to it and releases
// both when fn returns.
func (s *Server) withDetector(path string, fn func(facts.Detector) (interface{}, error)) (interface{}, error) {
	frame, err := s.cache.LoadFrame(path)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	d := s.newDetector(frame)
	defer d.Close()
	return fn(d)
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := codec.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := codec.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errToolArgs, err)
	}
	return nil
}

// checkRect rejects a client rectangle that is empty or not inside within.
func checkRect(name string, r, within imaging.Rect) error {
	if r.Empty() {
		return fmt.Errorf("%w: %s %v is empty", errToolArgs, name, r)
	}
	if !within.Contains(r) {
		return fmt.Errorf("%w: %s %v is outside %v", errToolArgs, name, r, within)
	}
	return nil
}

type frameArgs struct {
	Path string `json:"path"`
}

type historyArgs struct {
	Clear bool `json:"clear"`
}

type cacheClearArgs struct {
	// Path limits the eviction to one capture.
	Path string `json:"path"`
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// minimapArgs is shared by every tool that works inside the minimap. When
// Minimap is nil the minimap is located first.
type minimapArgs struct {
	Minimap         *imaging.Rect `json:"minimap,omitempty"`
	BorderThreshold *uint8        `json:"border_threshold,omitempty"`
}

func (s *Server) minimap(d facts.Detector, a minimapArgs) (imaging.Rect, error) {
	if a.Minimap != nil {
		if err := checkRect("minimap", *a.Minimap, d.Frame().Bounds()); err != nil {
			return imaging.Rect{}, err
		}
		return *a.Minimap, nil
	}
	threshold := s.borderThreshold
	if a.BorderThreshold != nil {
		threshold = *a.BorderThreshold
	}
	return d.Minimap(threshold)
}

// === Minimap Handlers ===

func (s *Server) handleDetectMinimap(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a minimapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	a.Minimap = nil
	minimap, err := s.minimap(d, a)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"minimap": minimap}, nil
}

func (s *Server) handleDetectPlayer(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a minimapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	minimap, err := s.minimap(d, a)
	if err != nil {
		return nil, err
	}
	player, err := d.Player(minimap)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"minimap": minimap, "player": player}, nil
}

func (s *Server) handleDetectPortals(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a minimapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	minimap, err := s.minimap(d, a)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"minimap": minimap, "portals": d.MinimapPortals(minimap)}, nil
}

func (s *Server) handleDetectRune(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a minimapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	minimap, err := s.minimap(d, a)
	if err != nil {
		return nil, err
	}
	runeBox, err := d.MinimapRune(minimap)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"minimap": minimap, "rune": runeBox}, nil
}

type detectMobsArgs struct {
	minimapArgs
	// Bound defaults to the whole minimap.
	Bound *imaging.Rect `json:"bound,omitempty"`
	// Player defaults to the center of the detected player marker.
	Player *imaging.Point `json:"player,omitempty"`
}

func (s *Server) handleDetectMobs(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a detectMobsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	minimap, err := s.minimap(d, a.minimapArgs)
	if err != nil {
		return nil, err
	}

	bound := imaging.NewRect(0, 0, minimap.Width, minimap.Height)
	if a.Bound != nil {
		if err := checkRect("bound", *a.Bound, bound); err != nil {
			return nil, err
		}
		bound = *a.Bound
	}

	var player imaging.Point
	if a.Player != nil {
		player = *a.Player
	} else {
		marker, err := d.Player(minimap)
		if err != nil {
			return nil, fmt.Errorf("player: %w", err)
		}
		// Minimap y grows upwards in mob coordinates.
		player = imaging.Pt(marker.X+marker.Width/2, minimap.Height-(marker.Y+marker.Height))
	}

	mobs, err := d.Mobs(minimap, bound, player)
	if err != nil {
		return nil, err
	}
	if mobs == nil {
		mobs = []imaging.Point{}
	}
	return map[string]interface{}{
		"minimap": minimap,
		"bound":   bound,
		"player":  player,
		"mobs":    mobs,
	}, nil
}

// === Health Handler ===

type healthResult struct {
	HealthBar imaging.Rect `json:"health_bar"`
	Current   imaging.Rect `json:"current_bar"`
	Max       imaging.Rect `json:"max_bar"`
	Health    *ocr.Health  `json:"health,omitempty"`
	Error     string       `json:"read_error,omitempty"`
}

type detectHealthArgs struct {
	// SkipRead stops after locating the number boxes.
	SkipRead bool `json:"skip_read"`
}

func (s *Server) handleDetectHealth(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a detectHealthArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bar, err := d.HealthBar()
	if err != nil {
		return nil, err
	}
	currentBar, maxBar, err := d.CurrentMaxHealthBars(bar)
	if err != nil {
		return nil, err
	}
	result := &healthResult{HealthBar: bar, Current: currentBar, Max: maxBar}
	if a.SkipRead {
		return result, nil
	}
	health, err := d.Health(currentBar, maxBar)
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}
	result.Health = &health
	return result, nil
}

// === Buff Handler ===

type detectBuffsArgs struct {
	// Kinds defaults to every kind.
	Kinds []facts.BuffKind `json:"kinds"`
}

func (s *Server) handleDetectBuffs(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a detectBuffsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Kinds) == 0 {
		a.Kinds = facts.BuffKinds
	}
	buffs := make(map[string]bool, len(a.Kinds))
	for _, k := range a.Kinds {
		buffs[k.String()] = d.Buff(k)
	}
	return map[string]interface{}{"buffs": buffs}, nil
}

// === Overlay Handler ===

type overlaysResult struct {
	EscSettings      bool          `json:"esc_settings"`
	EliteBossBar     bool          `json:"elite_boss_bar"`
	PlayerIsDead     bool          `json:"player_is_dead"`
	PlayerInCashShop bool          `json:"player_in_cash_shop"`
	ErdaShower       *imaging.Rect `json:"erda_shower,omitempty"`
}

func (s *Server) handleDetectOverlays(d facts.Detector, _ json.RawMessage) (interface{}, error) {
	result := &overlaysResult{
		EscSettings:      d.EscSettings(),
		EliteBossBar:     d.EliteBossBar(),
		PlayerIsDead:     d.PlayerIsDead(),
		PlayerInCashShop: d.PlayerInCashShop(),
	}
	if erda, err := d.ErdaShower(); err == nil {
		result.ErdaShower = &erda
	}
	return result, nil
}

// === Rune Arrow Handler ===

type detectRuneArrowsArgs struct {
	IncludePredictions bool `json:"include_predictions"`
}

func (s *Server) handleDetectRuneArrows(d facts.Detector, args json.RawMessage) (interface{}, error) {
	var a detectRuneArrowsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	var preds *facts.RuneArrowPredictions
	if a.IncludePredictions {
		preds = &facts.RuneArrowPredictions{}
	}
	arrows, err := d.RuneArrows(preds)
	if err != nil {
		return nil, err
	}
	result := map[string]interface{}{"arrows": arrows}
	if preds != nil {
		result["predictions"] = preds
	}
	return result, nil
}

// === Image Handlers ===

type annotateArgs struct {
	Boxes []imaging.Annotation `json:"boxes"`
}

func (s *Server) handleAnnotate(path string, args json.RawMessage) (interface{}, error) {
	var a annotateArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	return imaging.AnnotateToPNG(img, a.Boxes)
}

type cropArgs struct {
	Region string        `json:"region"`
	Rect   *imaging.Rect `json:"rect,omitempty"`
	Scale  float64       `json:"scale"`
}

func (s *Server) handleCrop(path string, args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if a.Rect != nil {
		return imaging.Crop(img, *a.Rect, a.Scale)
	}
	if a.Region == "" {
		return nil, fmt.Errorf("%w: region or rect is required", errToolArgs)
	}
	return imaging.CropNamed(img, a.Region, a.Scale)
}

type sampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleSampleColor(path string, args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	frame, err := s.cache.LoadFrame(path)
	if err != nil {
		return nil, err
	}
	defer frame.Close()
	return imaging.SampleColor(frame.Mat(), a.X, a.Y)
}
