package models

// Snapshot is a copy of a session's state with metrics derived at capture time.
type Snapshot struct {
	SessionID        string `json:"sessionId"`
	Status           string `json:"status"`
	ReferenceText    string `json:"referenceText"`
	UserText         string `json:"userText"`
	SecondsRemaining int    `json:"secondsRemaining"`
	Running          bool   `json:"running"`
	Loading          bool   `json:"loading"`
	Notice           string `json:"notice,omitempty"`
	Source           string `json:"source,omitempty"`
	Theme            string `json:"theme"`
	WPM              int    `json:"wpm"`
	Accuracy         int    `json:"accuracy"`
}
