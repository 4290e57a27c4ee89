// Package tools defines the callable tools the server advertises over MCP and
// their handlers against the NIH Reporter API.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Definition describes one tool: its name, description, JSON input schema,
// and the handler invoked with the raw arguments object.
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     func(ctx context.Context, args json.RawMessage) (string, error)
}

// schemaFor derives a JSON Schema object from a Go argument struct. Fields
// without omitempty become required; jsonschema_description tags supply the
// per-field descriptions.
func schemaFor[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(&v)

	b, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: reflect schema: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		panic(fmt.Sprintf("tools: decode schema: %v", err))
	}
	delete(m, "$schema")
	delete(m, "$id")
	return m
}

// ArgError reports an invalid argument supplied by the caller.
type ArgError struct {
	Msg string
}

func (e *ArgError) Error() string { return "invalid argument: " + e.Msg }

func argErrorf(format string, args ...any) error {
	return &ArgError{Msg: fmt.Sprintf(format, args...)}
}

// ErrNotFound reports an identifier lookup that matched no record.
var ErrNotFound = errors.New("not found: no project matched the given identifier")

// decodeArgs unmarshals a tools/call arguments object into the handler's
// argument struct, mapping malformed input to ArgError.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return argErrorf("malformed arguments: %v", err)
	}
	return nil
}
