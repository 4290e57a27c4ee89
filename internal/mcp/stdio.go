package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// stdio messages are newline-delimited JSON; allow large tool results.
const maxLineBytes = 4 * 1024 * 1024

// ServeStdio reads newline-delimited JSON-RPC messages from r one at a time,
// dispatches each, and writes the response to w. It returns when r is
// exhausted, which a client signals by closing the server's stdin.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.Encode(errResponse(nil, CodeParseError, "parse error: "+err.Error())); err != nil {
				return err
			}
			continue
		}

		if req.ID == nil {
			s.HandleNotification(req)
			continue
		}

		if err := enc.Encode(s.Dispatch(ctx, req)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
