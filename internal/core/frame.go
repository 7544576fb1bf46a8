// Package core implements the client side of the host core's IPC
// protocol: JSON frames over a WebSocket connection carrying named calls,
// correlated responses, and fire-and-forget events.
package core

import "encoding/json"

// Frame is the universal wire format exchanged with the host core.
// Three types: "call" (request routed by action name), "response"
// (correlated by ID), and "event" (push, no response expected).
type Frame struct {
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	From   string          `json:"from,omitempty"`
	Action string          `json:"action,omitempty"`
	Event  string          `json:"event,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const (
	frameCall     = "call"
	frameResponse = "response"
	frameEvent    = "event"
)

func callFrame(id, from, action string, data any) (Frame, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: frameCall, ID: id, From: from, Action: action, Data: payload}, nil
}

func responseFrame(id, from string, data any, callErr error) Frame {
	frame := Frame{Type: frameResponse, ID: id, From: from}
	if callErr != nil {
		frame.Error = callErr.Error()
		return frame
	}
	payload, err := json.Marshal(data)
	if err != nil {
		frame.Error = err.Error()
		return frame
	}
	frame.Data = payload
	return frame
}

func eventFrame(from, event string, data any) (Frame, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: frameEvent, From: from, Event: event, Data: payload}, nil
}
