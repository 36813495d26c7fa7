package models

import (
	"time"
)

// FinalStats is sent once when a session expires
type FinalStats struct {
	SessionID string `json:"sessionId"`
	WPM       int    `json:"wpm"`
	Accuracy  int    `json:"accuracy"`
	Typed     int    `json:"typedCharacters"`
}

// TextResult is the outcome of a single content acquisition
type TextResult struct {
	Text    string `json:"text"`
	Source  string `json:"source"`
	Offline bool   `json:"offline"`
	Notice  string `json:"notice,omitempty"`
}

// Message defines the structure for WebSocket communication
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Data      interface{} `json:"data"`
	Time      time.Time   `json:"timestamp"`
}
