package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/game-vision/internal/detection"
	"github.com/ironsheep/game-vision/internal/facts"
	"github.com/ironsheep/game-vision/internal/history"
	"github.com/ironsheep/game-vision/internal/imaging"
)

func serverLog() *zerolog.Logger {
	l := log.With().Str("module", "server").Logger()
	return &l
}

// codec is the JSON codec of the protocol, compatible with encoding/json.
var codec = sonic.ConfigStd

// DetectorFactory binds a frame to a detector. The server closes the
// detector and then the frame after each call.
type DetectorFactory func(frame *imaging.Frame) facts.Detector

// Options configures a Server.
type Options struct {
	// Name and Version are reported by initialize.
	Name    string
	Version string
	// HistoryCapacity bounds vision_history. Zero means 32.
	HistoryCapacity int
	// BorderThreshold is used when a call does not name one. Zero means
	// the locator default.
	BorderThreshold uint8
	// NewDetector replaces the cached detector over the registry.
	NewDetector DetectorFactory
}

// HistoryEntry records one tool call.
type HistoryEntry struct {
	Tool   string      `json:"tool"`
	Path   string      `json:"path,omitempty"`
	At     time.Time   `json:"at"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Server handles MCP protocol communication
type Server struct {
	cache       *imaging.ImageCache
	newDetector DetectorFactory
	name        string
	version     string

	borderThreshold uint8

	mu      sync.Mutex
	history *history.Bounded[HistoryEntry]
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server answering detection tools over reg.
func New(reg *facts.Registry, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "game-vision"
	}
	if opts.Version == "" {
		opts.Version = "0.1.0"
	}
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = 32
	}
	if opts.BorderThreshold == 0 {
		opts.BorderThreshold = detection.DefaultMinimapParams().BorderThreshold
	}
	if opts.NewDetector == nil {
		opts.NewDetector = func(frame *imaging.Frame) facts.Detector {
			return facts.NewCachedDetector(reg, frame)
		}
	}
	return &Server{
		cache:           imaging.NewImageCache(),
		newDetector:     opts.NewDetector,
		name:            opts.Name,
		version:         opts.Version,
		borderThreshold: opts.BorderThreshold,
		history:         history.NewBounded[HistoryEntry](opts.HistoryCapacity),
	}
}

// Run serves stdin and writes to stdout until stdin closes.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses
// to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := codec.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := codec.Unmarshal(line, &req); err != nil {
			serverLog().Warn().Err(err).Msg("failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				serverLog().Error().Err(err).Str("method", req.Method).Msg("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    s.name,
				"version": s.version,
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

// record appends an entry, dropping the oldest when the history is full.
func (s *Server) record(e HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history.Full() {
		if _, err := s.history.Remove(0); err != nil {
			serverLog().Debug().Err(err).Msg("failed to drop oldest history entry")
		}
	}
	if err := s.history.Push(e); err != nil {
		serverLog().Debug().Err(err).Str("tool", e.Tool).Msg("failed to record history entry")
	}
}

func (s *Server) historyItems(reset bool) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.history.Items()
	if reset {
		s.history.Clear()
	}
	return items
}
