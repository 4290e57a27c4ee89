package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"nih-reporter-mcp/internal/reporter"
)

// searchSummary builds the one-line header for a projects/search response.
// The body is otherwise passed through opaque; gjson pulls just the counters.
func searchSummary(body json.RawMessage, offset, limit int) string {
	total := gjson.GetBytes(body, "meta.total").Int()
	count := gjson.GetBytes(body, "results.#").Int()

	summary := fmt.Sprintf("Showing %d of %d matching projects", count, total)
	if offset > 0 {
		summary += fmt.Sprintf(" (offset %d)", offset)
	}
	if total > int64(offset)+count {
		summary += fmt.Sprintf("; %d more available", total-int64(offset)-count)
		if limit >= reporter.MaxLimit {
			summary += fmt.Sprintf(" (results are capped at %d per request)", reporter.MaxLimit)
		}
	}
	return summary + "."
}

// renderResult joins a summary line with the indented raw response body.
func renderResult(summary string, body json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return "", &reporter.FormatError{Detail: "response body is not valid JSON"}
	}
	if summary == "" {
		return buf.String(), nil
	}
	return summary + "\n\n" + buf.String(), nil
}
