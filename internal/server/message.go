package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies a WebSocket message
type MessageType string

const (
	// Client to server intents
	MessageTypeJoin   MessageType = "join"
	MessageTypeLeave  MessageType = "leave"
	MessageTypeReady  MessageType = "ready"
	MessageTypeStart  MessageType = "start"
	MessageTypeBuyin  MessageType = "buyin"
	MessageTypeAction MessageType = "action"
	MessageTypeChat   MessageType = "chat"

	// Server to client messages
	MessageTypeHello        MessageType = "hello"
	MessageTypeRoomState    MessageType = "room_state"
	MessageTypePrivateState MessageType = "private_state"
	MessageTypeError        MessageType = "error"
)

// Message is the envelope for every WebSocket frame
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads. Every intent names its room.

type JoinData struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

type RoomData struct {
	Room string `json:"room"`
}

type BuyinData struct {
	Room   string `json:"room"`
	Amount int    `json:"amount"`
}

type ActionData struct {
	Room   string `json:"room"`
	Kind   string `json:"type"`
	Amount int    `json:"amount,omitempty"`
}

type ChatData struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// Server → client payloads.

type HelloData struct {
	OK       bool   `json:"ok"`
	ClientID string `json:"clientId"`
}

type ErrorData struct {
	Message string `json:"message"`
}
