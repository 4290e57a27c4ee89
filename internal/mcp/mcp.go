// Package mcp implements the JSON-RPC 2.0 core of the Model Context Protocol
// server: initialize, ping, tools/list, and tools/call dispatch shared by the
// stdio and HTTP transports.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"nih-reporter-mcp/internal/tools"
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "nih-reporter-mcp"
	ServerVersion   = "0.2.0"
)

// Request is an inbound JSON-RPC message. A nil ID marks a notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is an outbound JSON-RPC message.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC error codes used by the dispatcher.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
)

// Tool is the tools/list wire representation of a tool definition.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ContentBlock is one piece of tool output.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the tools/call result. Handler failures are reported through
// IsError rather than a JSON-RPC error, so callers see the message inline.
type CallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// Server dispatches JSON-RPC requests to the registered tools.
type Server struct {
	defs   []tools.Definition
	byName map[string]tools.Definition
	log    zerolog.Logger
}

// NewServer builds a dispatcher over the given tool definitions.
func NewServer(defs []tools.Definition, logger zerolog.Logger) *Server {
	byName := make(map[string]tools.Definition, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}
	return &Server{defs: defs, byName: byName, log: logger}
}

// Tools returns the wire representation of every registered tool.
func (s *Server) Tools() []Tool {
	out := make([]Tool, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, Tool{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema})
	}
	return out
}

// Dispatch routes one request to its handler and returns the response.
func (s *Server) Dispatch(ctx context.Context, req Request) *Response {
	if req.JSONRPC != "2.0" {
		return errResponse(req.ID, CodeInvalidRequest, "jsonrpc must be 2.0")
	}
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": s.Tools()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return errResponse(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

// HandleNotification accepts notifications; none require action.
func (s *Server) HandleNotification(req Request) {
	s.log.Debug().Str("method", req.Method).Msg("notification")
}

func (s *Server) handleInitialize(req Request) *Response {
	return resultResponse(req.ID, map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    ServerName,
			"version": ServerVersion,
		},
	})
}

// CallParams is the tools/call parameter block.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) *Response {
	var params CallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "invalid params: "+err.Error())
	}

	def, ok := s.byName[params.Name]
	if !ok {
		return errResponse(req.ID, CodeInvalidParams, "unknown tool: "+params.Name)
	}

	text, err := def.Handler(ctx, params.Arguments)
	if err != nil {
		s.log.Error().Err(err).Str("tool", params.Name).Msg("tool call failed")
		return resultResponse(req.ID, CallResult{
			Content: []ContentBlock{{Type: "text", Text: "Error: " + err.Error()}},
			IsError: true,
		})
	}

	s.log.Info().Str("tool", params.Name).Msg("tool call")
	return resultResponse(req.ID, CallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	})
}

// Call invokes a tool directly, bypassing JSON-RPC framing. Used by the HTTP
// transport's plain call endpoint.
func (s *Server) Call(ctx context.Context, name string, args json.RawMessage) (CallResult, bool) {
	def, ok := s.byName[name]
	if !ok {
		return CallResult{}, false
	}
	text, err := def.Handler(ctx, args)
	if err != nil {
		s.log.Error().Err(err).Str("tool", name).Msg("tool call failed")
		return CallResult{
			Content: []ContentBlock{{Type: "text", Text: "Error: " + err.Error()}},
			IsError: true,
		}, true
	}
	s.log.Info().Str("tool", name).Msg("tool call")
	return CallResult{Content: []ContentBlock{{Type: "text", Text: text}}}, true
}

func resultResponse(id, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errResponse(id any, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}
