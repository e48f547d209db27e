package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/segment-reader/internal/classifier"
	"github.com/ironsheep/segment-reader/internal/detection"
	"github.com/ironsheep/segment-reader/internal/imaging"
	"github.com/ironsheep/segment-reader/internal/logger"
	"github.com/ironsheep/segment-reader/internal/reader"
)

// Version is reported in the initialize handshake.
var Version = "0.1.0"

// Server answers MCP tool calls against one digit model. The default layout
// is used by meter_read and layout_preview unless a call names its own
// layout file.
type Server struct {
	cache  *imaging.ImageCache
	model  *classifier.AlgorithmModel
	layout reader.Layout
	log    *logrus.Entry
}

// MCPRequest is one line of client input. ID is nil for notifications.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse carries either Result or Error, never both.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError uses the JSON-RPC codes: -32601 unknown method, -32602 bad
// tools/call params and -32000 for a tool that ran and failed.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server. opts configures the line detector behind every
// digit tool and layout is used by meter_read when the call names no layout
// file.
func New(opts detection.Options, layout reader.Layout) *Server {
	return &Server{
		cache:  imaging.NewImageCache(),
		model:  classifier.NewAlgorithmModel(opts),
		layout: layout,
		log:    logger.WithField("component", "server"),
	}
}

// Run serves stdin to stdout until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes responses
// to w until r is exhausted or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	// One request per line, at most 1 MiB.
	in := bufio.NewScanner(r)
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := json.NewEncoder(w)

	for in.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp := s.serveLine(ctx, in.Bytes())
		if resp == nil {
			continue
		}
		if err := out.Encode(resp); err != nil {
			s.log.WithError(err).Error("failed to encode response")
		}
	}
	if err := in.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

// serveLine skips blank and malformed lines.
func (s *Server) serveLine(ctx context.Context, line []byte) *MCPResponse {
	if len(line) == 0 {
		return nil
	}
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.WithError(err).Warn("dropping malformed request")
		return nil
	}
	return s.handleRequest(ctx, &req)
}

// handleRequest returns nil for notifications, which get no reply.
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("request")

	switch req.Method {
	case "initialize":
		return reply(req.ID, map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo":      map[string]interface{}{"name": "segment-reader", "version": Version},
		})
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return reply(req.ID, map[string]interface{}{})
	default:
		return fail(req.ID, -32601, "Method not found: "+req.Method, "")
	}
}

func reply(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func fail(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}
