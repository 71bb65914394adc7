package server

import (
	"encoding/json"
)

// Message types exchanged over WebSocket.
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgOp       = "op"
	MsgAck      = "ack"
	MsgConflict = "conflict"
	MsgDoc      = "doc"
	MsgError    = "error"
)

// ClientMessage is a message from client to server. Operations travel in
// their portable encoded form and are decoded against the hub's registry.
type ClientMessage struct {
	Type         string         `json:"type"`
	DocID        string         `json:"docId,omitempty"`
	Name         string         `json:"name,omitempty"`
	Revision     int            `json:"revision"`
	Conflictless bool           `json:"conflictless,omitempty"`
	Op           map[string]any `json:"op,omitempty"`
}

// ServerMessage is a message from server to client.
type ServerMessage struct {
	Type     string           `json:"type"`
	DocID    string           `json:"docId,omitempty"`
	Revision int              `json:"revision"`
	Op       map[string]any   `json:"op,omitempty"`
	History  []map[string]any `json:"history,omitempty"`
	ClientID string           `json:"clientId,omitempty"`
	Name     string           `json:"name,omitempty"`
	Message  string           `json:"message,omitempty"`
	Clients  []ClientInfo     `json:"clients,omitempty"`
}

// ClientInfo describes a connected collaborator.
type ClientInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Encode serializes a ServerMessage to JSON bytes.
func (m ServerMessage) Encode() []byte {
	b, _ := json.Marshal(m)
	return b
}
