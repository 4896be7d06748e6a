package wire

import (
	"encoding/json"
	"fmt"
)

// MsgType identifies the direction and kind of a frame.
type MsgType int

const (
	// MsgRequest is a client-originated method call.
	MsgRequest MsgType = 0
	// MsgResponse answers a request, matched by request id.
	MsgResponse MsgType = 1
	// MsgNotify is a server push about a changed object.
	MsgNotify MsgType = 2
)

// ResponseType distinguishes success responses from errors.
type ResponseType int

const (
	ResponseSuccess ResponseType = 0
	ResponseError   ResponseType = 1
)

// Message is a single frame on the duplex channel. Frames are
// newline-delimited JSON objects; which fields are populated depends on
// Type:
//
//   - MsgRequest:  RequestID, Method ("<objectType>.<verb>"), Params
//   - MsgResponse: RequestID, RType, then Result or Error
//   - MsgNotify:   Name (object type), Action, Data
type Message struct {
	Type      MsgType         `json:"type"`
	RequestID uint64          `json:"request_id,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    map[string]any  `json:"params,omitempty"`
	RType     ResponseType    `json:"rtype,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
	Name      string          `json:"name,omitempty"`
	Action    string          `json:"action,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Notify actions pushed by the server for each object type.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Validate checks that a decoded frame carries the fields its type
// requires. Malformed frames terminate the connection, so the message
// names what was missing.
func (m *Message) Validate() error {
	switch m.Type {
	case MsgRequest:
		if m.Method == "" {
			return fmt.Errorf("wire: request frame missing method")
		}
	case MsgResponse:
		if m.RequestID == 0 {
			return fmt.Errorf("wire: response frame missing request_id")
		}
	case MsgNotify:
		if m.Name == "" || m.Action == "" {
			return fmt.Errorf("wire: notify frame missing name or action")
		}
	default:
		return fmt.Errorf("wire: unknown frame type %d", m.Type)
	}
	return nil
}
