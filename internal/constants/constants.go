package constants

import "time"

// Session states
const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusExpired = "expired"

	TestDurationSeconds = 60
	MinContentLength    = 50
	TickInterval        = time.Second
	WriteTimeout        = 5 * time.Second

	OfflineNotice = "Using offline content - API services unavailable"
)

// Message types exchanged over the session socket
const (
	MessageStart       = "start"
	MessageInput       = "input"
	MessageToggleTheme = "toggle_theme"
	MessagePing        = "ping"

	MessageSessionState = "session_state"
	MessageExpired      = "expired"
	MessagePong         = "pong"
	MessageError        = "error"
)

// Themes
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
