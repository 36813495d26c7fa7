package game

import (
	"math"
	"strings"

	"github.com/NuZard84/go-speedtype/internal/constants"
)

// Session is the state of one typing test. The zero value is not useful;
// use NewIdleSession or NewSession.
type Session struct {
	ReferenceText    string `json:"referenceText"`
	UserText         string `json:"userText"`
	SecondsRemaining int    `json:"secondsRemaining"`
	Running          bool   `json:"running"`
}

// NewIdleSession shows text without arming the countdown.
func NewIdleSession(text string) Session {
	return Session{
		ReferenceText:    text,
		SecondsRemaining: constants.TestDurationSeconds,
	}
}

// NewSession returns a running session with a full countdown and no input.
func NewSession(text string) Session {
	s := NewIdleSession(text)
	s.Running = true
	return s
}

func (s *Session) acceptsInput() bool {
	return s.Running && s.SecondsRemaining > 0
}

// Tick consumes one second. Reaching zero stops the session.
func (s *Session) Tick() bool {
	if !s.acceptsInput() {
		return false
	}
	s.SecondsRemaining--
	if s.SecondsRemaining == 0 {
		s.Running = false
	}
	return true
}

// Input replaces the typed text. It is ignored unless the session is running.
func (s *Session) Input(text string) bool {
	if !s.acceptsInput() {
		return false
	}
	s.UserText = text
	return true
}

func (s Session) Status() string {
	switch {
	case s.SecondsRemaining == 0:
		return constants.StatusExpired
	case s.Running:
		return constants.StatusRunning
	default:
		return constants.StatusIdle
	}
}

func (s Session) Elapsed() int {
	return constants.TestDurationSeconds - s.SecondsRemaining
}

func (s Session) Speed() int {
	return WordsPerMinute(s.UserText, s.Elapsed())
}

func (s Session) Accuracy() int {
	return Accuracy(s.ReferenceText, s.UserText)
}

// WordsPerMinute counts whitespace separated words typed in elapsed seconds.
func WordsPerMinute(typed string, elapsed int) int {
	if elapsed <= 0 {
		return 0
	}
	words := len(strings.Fields(typed))
	return int(math.Round(float64(words*60) / float64(elapsed)))
}

// Accuracy is the percentage of typed characters that match the reference
// at the same position. Nothing typed counts as 100.
func Accuracy(reference, typed string) int {
	user := []rune(typed)
	if len(user) == 0 {
		return 100
	}
	ref := []rune(reference)

	correct := 0
	for i, r := range user {
		if i < len(ref) && ref[i] == r {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(user)) * 100))
}
