package models

import (
	"encoding/json"
	"time"
)

// MaxMessageBytes bounds one client message and one HTTP request body.
// A snapshot carries the whole form, so this is also the largest form a
// session accepts; a bigger message closes the connection.
const MaxMessageBytes = 1 << 20

// Message types for the live session
const (
	MessageTypeSnapshot   = "snapshot"   // Replace the whole form, at most MaxMessageBytes
	MessageTypeAddLeg     = "add_leg"    // Append an empty leg
	MessageTypeUpdateLeg  = "update_leg" // Payload: LegInput with id
	MessageTypeRemoveLeg  = "remove_leg" // Payload: LegRef
	MessageTypeClearLegs  = "clear_legs" // One empty leg, settings kept
	MessageTypeClearAll   = "clear_all"  // Back to the initial form
	MessageTypeSettings   = "settings"   // Partial EvaluateRequest without legs
	MessageTypeHeartbeat  = "heartbeat"
	MessageTypeEvaluation = "evaluation"
	MessageTypeError      = "error"
)

// Error codes sent in error messages
const (
	ErrorCodeUnknownType    = "unknown_message_type"
	ErrorCodeInvalidPayload = "invalid_payload"
	ErrorCodeLegNotFound    = "leg_not_found"
	ErrorCodeLastLeg        = "last_leg"
)

// ClientMessage is a message from the browser to the session
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is a message from the session to the browser
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// LegRef names a leg by id
type LegRef struct {
	ID string `json:"id"`
}

// Evaluation is the session state after a message was applied
type Evaluation struct {
	SessionID string           `json:"sessionId"`
	Request   EvaluateRequest  `json:"request"`
	Result    EvaluateResponse `json:"result"`
	Hints     []FieldHint      `json:"hints"`
	ShareURL  string           `json:"shareUrl,omitempty"`
}

// SessionStats represents session statistics
type SessionStats struct {
	SessionID        string    `json:"session_id"`
	ConnectedAt      time.Time `json:"connected_at"`
	MessagesSent     int64     `json:"messages_sent"`
	MessagesReceived int64     `json:"messages_received"`
	Evaluations      int64     `json:"evaluations"`
	LastMessageAt    time.Time `json:"last_message_at"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
