package transport

import "encoding/json"

// InboundEnvelope is the generic envelope for all client-to-server
// messages. Type routes to a handler; Raw holds the full JSON payload so
// the handler can re-unmarshal into its specific payload type. Adapted
// from the teacher's ws.InboundEnvelope raw-capture trick.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON captures Type for routing and keeps the full payload in Raw.
func (e *InboundEnvelope) UnmarshalJSON(data []byte) error {
	type typeOnly struct {
		Type string `json:"type"`
	}
	var t typeOnly
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	e.Type = t.Type
	e.Raw = json.RawMessage(data)
	return nil
}

// --- Client-to-server payloads ---

// FlipMsg requests flip(row, col), the operation that drives the turn
// protocol.
type FlipMsg struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// MapMsg requests an atomic relabel using a named built-in transform,
// since the transport has no way to ship an arbitrary caller-supplied
// function over the wire; see transport.LabelFuncByName.
type MapMsg struct {
	Type      string `json:"type"`
	Transform string `json:"transform"`
}

// --- Server-to-client payloads ---

// BoardMsg carries a rendered board string, the result of look/flip/map/watch.
type BoardMsg struct {
	Type  string `json:"type"`
	Board string `json:"board"`
}

// ErrorMsg reports a failed operation without closing the connection.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
