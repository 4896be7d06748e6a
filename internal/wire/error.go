package wire

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// AllObjectKey is the field-error key the server uses for errors that
// apply to the whole object rather than a single field.
const AllObjectKey = "__all__"

// CallError is a structured error payload from a rejected method call.
// The server sends either a plain string or a JSON mapping of field name
// to one-or-more error strings, optionally keyed AllObjectKey for
// whole-object errors. Either way, the caller gets the payload unchanged:
// Message holds the raw text, Fields holds the decoded mapping when one
// was present.
type CallError struct {
	Message string
	Fields  map[string][]string
}

// Error implements the error interface. Field errors render as
// "field: msg" pairs in sorted field order so the text is stable.
func (e *CallError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], "; "))
	}
	return strings.Join(parts, ", ")
}

// FieldErrors returns the errors recorded against a single field.
func (e *CallError) FieldErrors(field string) []string {
	return e.Fields[field]
}

// AllObject returns whole-object errors, if any.
func (e *CallError) AllObject() []string {
	return e.Fields[AllObjectKey]
}

// AsCallError unwraps err to a *CallError when one is in the chain.
func AsCallError(err error) (*CallError, bool) {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ParseCallError decodes a response error payload. The payload may be a
// JSON object mapping field to error(s), a JSON string (which may itself
// contain an encoded mapping), or arbitrary text.
func ParseCallError(raw json.RawMessage) *CallError {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return &CallError{Message: "unknown server error"}
	}

	if fields, ok := decodeFieldMap([]byte(trimmed)); ok {
		return &CallError{Message: trimmed, Fields: fields}
	}

	// A JSON string: unwrap it, then retry in case it holds an encoded
	// mapping (the server serializes form errors into the error string).
	var text string
	if err := json.Unmarshal([]byte(trimmed), &text); err == nil {
		if fields, ok := decodeFieldMap([]byte(text)); ok {
			return &CallError{Message: text, Fields: fields}
		}
		return &CallError{Message: text}
	}

	return &CallError{Message: trimmed}
}

// decodeFieldMap attempts to decode data as a field-to-errors mapping.
// Values may be a single string or a list of strings.
func decodeFieldMap(data []byte) (map[string][]string, bool) {
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil || len(generic) == 0 {
		return nil, false
	}
	fields := make(map[string][]string, len(generic))
	for name, value := range generic {
		switch v := value.(type) {
		case string:
			fields[name] = []string{v}
		case []any:
			msgs := make([]string, 0, len(v))
			for _, entry := range v {
				s, ok := entry.(string)
				if !ok {
					return nil, false
				}
				msgs = append(msgs, s)
			}
			fields[name] = msgs
		default:
			return nil, false
		}
	}
	return fields, true
}
