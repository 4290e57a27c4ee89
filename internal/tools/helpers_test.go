package tools

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"nih-reporter-mcp/internal/reporter"
)

// capture records the most recent payload the stub upstream received.
type capture struct {
	payload map[string]any
}

func (c *capture) criteria(t *testing.T) map[string]any {
	t.Helper()
	crit, ok := c.payload["criteria"].(map[string]any)
	if !ok {
		t.Fatalf("payload has no criteria object: %v", c.payload)
	}
	return crit
}

// stubClient starts an upstream stub that records request payloads and
// responds with the given body.
func stubClient(t *testing.T, respond string, cap *capture) *reporter.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		if cap != nil {
			cap.payload = map[string]any{}
			if err := json.Unmarshal(body, &cap.payload); err != nil {
				t.Errorf("request body is not json: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(respond))
	}))
	t.Cleanup(srv.Close)
	return reporter.New(srv.URL, srv.Client())
}

func rawArgs(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	return b
}
