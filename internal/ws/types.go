package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// Client to server.
	MessageTypeMove       MessageType = "move"
	MessageTypeLegalMoves MessageType = "legalMoves"

	// Server to client. A legalMoves reply reuses the request type.
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LegalMovesRequest asks for the destinations of the piece on Square.
type LegalMovesRequest struct {
	Square string `json:"square"`
}

type LegalMovesReply struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

type ErrorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewMessage marshals payload into a Message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
