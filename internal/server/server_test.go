package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"nih-reporter-mcp/internal/mcp"
	"nih-reporter-mcp/internal/tools"
)

// newTestServer wires only tools that never reach upstream.
func newTestServer(cfg Config) *Server {
	m := mcp.NewServer([]tools.Definition{tools.GetSpendingCategories()}, zerolog.Nop())
	return New(cfg, m, zerolog.Nop())
}

func TestHealth(t *testing.T) {
	s := newTestServer(Config{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestToolsAndCall(t *testing.T) {
	s := newTestServer(Config{Token: "x"})

	// Unauthorized
	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	// Authorized tools
	req = httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	req.Header.Set("Authorization", "Bearer x")
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var listed struct {
		Tools []mcp.Tool `json:"tools"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&listed); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(listed.Tools) != 1 || listed.Tools[0].Name != "get_spending_categories" {
		t.Fatalf("unexpected tool listing: %+v", listed.Tools)
	}

	// Call get_spending_categories
	body, _ := json.Marshal(map[string]any{"name": "get_spending_categories", "arguments": map[string]any{}})
	req = httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer x")
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var result mcp.CallResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if result.IsError || len(result.Content) == 0 {
		t.Fatalf("unexpected call result: %+v", result)
	}
}

func TestCallUnknownTool(t *testing.T) {
	s := newTestServer(Config{})
	body, _ := json.Marshal(map[string]any{"name": "nope"})
	req := httptest.NewRequest(http.MethodPost, "/mcp/call", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestRPCInitializeIssuesSession(t *testing.T) {
	s := newTestServer(Config{})

	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	sid := rr.Header().Get("Mcp-Session-Id")
	if sid == "" {
		t.Fatal("expected Mcp-Session-Id header")
	}

	// A valid session passes.
	body = []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	req = httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Mcp-Session-Id", sid)
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	var resp mcp.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	// A bogus session is rejected.
	body = []byte(`{"jsonrpc":"2.0","id":3,"method":"tools/list"}`)
	req = httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Mcp-Session-Id", "bogus")
	rr = httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != mcp.CodeInvalidRequest {
		t.Fatalf("expected invalid session error, got %+v", resp)
	}
}

func TestRPCNotificationAccepted(t *testing.T) {
	s := newTestServer(Config{})
	body := []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore()
	store.Add("live", sessionTTL)
	if !store.Valid("live") {
		t.Fatal("expected live session to be valid")
	}
	store.Add("dead", -1)
	if store.Valid("dead") {
		t.Fatal("expected expired session to be invalid")
	}
	if store.Valid("missing") {
		t.Fatal("expected unknown session to be invalid")
	}
}
