package server

import (
	"encoding/json"
	"time"

	"github.com/lox/partycards/internal/game"
	"github.com/lox/partycards/internal/packs"
)

// MessageType identifies the payload carried by a Message
type MessageType string

const (
	// Client → Server
	MessageTypeSubmit  MessageType = "submit"
	MessageTypeAdvance MessageType = "advance"
	MessageTypeState   MessageType = "state"

	// Server → Client
	MessageTypeWelcome       MessageType = "welcome"
	MessageTypeSnapshot      MessageType = "snapshot"
	MessageTypePromptChanged MessageType = "prompt_changed"
	MessageTypeHandChanged   MessageType = "hand_changed"
	MessageTypeError         MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
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

// Client → Server Messages

type SubmitData struct {
	Indices []int `json:"indices"`
}

// Server → Client Messages

type WelcomeData struct {
	ConnectionID string       `json:"connectionId"`
	State        SnapshotData `json:"state"`
}

// SnapshotData is the full state of one player's session
type SnapshotData struct {
	Seed            string          `json:"seed"`
	Players         int             `json:"players"`
	Index           int             `json:"index"`
	CardsPerPlayer  int             `json:"cardsPerPlayer"`
	Packs           []string        `json:"packs"`
	Prompt          packs.BlackCard `json:"prompt"`
	Hand            []string        `json:"hand"`
	RemainingBlacks int             `json:"remainingBlacks"`
	RemainingWhites int             `json:"remainingWhites"`
}

type PromptChangedData struct {
	Prompt packs.BlackCard `json:"prompt"`
	Drawn  int             `json:"drawn"`
}

type HandChangedData struct {
	Hand      []string `json:"hand"`
	Submitted []string `json:"submitted"`
	Dealt     []string `json:"dealt"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// eventMessage converts a session event to its wire form
func eventMessage(event game.GameEvent) (*Message, error) {
	var (
		msg *Message
		err error
	)
	switch e := event.(type) {
	case game.PromptChangedEvent:
		msg, err = NewMessage(MessageTypePromptChanged, PromptChangedData{Prompt: e.Prompt, Drawn: e.Drawn})
	case game.HandChangedEvent:
		msg, err = NewMessage(MessageTypeHandChanged, HandChangedData{
			Hand:      nonNil(e.Hand),
			Submitted: nonNil(e.Submitted),
			Dealt:     nonNil(e.Dealt),
		})
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	msg.Timestamp = event.Timestamp()
	return msg, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
