package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/plot-digitizer/internal/imaging"
	"github.com/ironsheep/plot-digitizer/internal/logger"
)

// Server name and version reported by initialize.
const (
	Name    = "plot-digitizer"
	Version = "0.1.0"
)

// Server handles MCP protocol communication
type Server struct {
	cache  *imaging.ImageCache
	config Config
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

const jsonrpcVersion = "2.0"

// JSON-RPC error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a server whose detection tools fall back to cfg's defaults.
func New(cfg Config) *Server {
	return &Server{
		cache:  imaging.NewImageCache(),
		config: cfg,
	}
}

// Run reads one JSON-RPC request per line from in and writes responses to
// out until in is exhausted or ctx is cancelled. Logging goes to the entry
// carried in ctx.
//
// Lines are read on a separate goroutine so that cancellation is noticed
// while waiting for input. After cancellation that goroutine stays blocked
// in its read until in is closed or delivers more data.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	log := logger.Entry(ctx)
	encoder := json.NewEncoder(out)

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go readLines(ctx, in, lines, readErr)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-readErr
			}
			line = l
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.WithError(err).Warn("failed to parse request")
			// The id is unknown, so JSON-RPC answers with a null one.
			resp = errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			reqLog := log.WithFields(logrus.Fields{"id": req.ID, "method": req.Method})
			resp = s.handleRequest(logger.WithLogEntry(ctx, reqLog), &req)
			if resp != nil && resp.Error != nil {
				reqLog.WithField("code", resp.Error.Code).Debug(resp.Error.Message)
			}
		}
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			return errors.Wrap(err, "encode response")
		}
	}
}

// readLines sends each non-empty line of in on lines and closes it at end of
// input. The scanner's final error goes to errc first; a cancelled ctx stops
// the sending early and leaves errc empty.
func readLines(ctx context.Context, in io.Reader, lines chan<- []byte, errc chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(in)
	// Requests are small, but a long path list can exceed the default.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		line := append([]byte(nil), scanner.Bytes()...)
		select {
		case lines <- line:
		case <-ctx.Done():
			return
		}
	}
	errc <- errors.Wrap(scanner.Err(), "read requests")
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return result(req.ID, map[string]interface{}{})
	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return result(req.ID, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
		"serverInfo":      map[string]interface{}{"name": Name, "version": Version},
	})
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return result(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}

func result(id, v interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: jsonrpcVersion, ID: id, Result: v}
}

// errorResponse builds a JSON-RPC error. An empty data is omitted.
func errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: jsonrpcVersion, ID: id, Error: e}
}
