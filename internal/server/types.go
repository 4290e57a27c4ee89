package server

import "encoding/json"

// CallRequest is the plain tool-call body accepted on /mcp/call, a shorthand
// for clients that do not speak full JSON-RPC.
type CallRequest struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"arguments"`
}
