package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Tile colours for the time-left indicator
const (
	ColorGray   = "gray"
	ColorBlue   = "blue"
	ColorOrange = "orange"
	ColorRed    = "red"
)

type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}

type Button struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

type Summary struct {
	Title    string `json:"title"`
	Speed    string `json:"speed"`
	Accuracy string `json:"accuracy"`
}

// Panel is everything the page shows for one session.
type Panel struct {
	SessionID     string   `json:"sessionId"`
	Status        string   `json:"status"`
	Theme         string   `json:"theme"`
	ThemeTitle    string   `json:"themeTitle"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Notice        string   `json:"notice,omitempty"`
	Reference     string   `json:"reference"`
	Loading       bool     `json:"loading"`
	LoadingText   string   `json:"loadingText,omitempty"`
	UserText      string   `json:"userText"`
	InputDisabled bool     `json:"inputDisabled"`
	Placeholder   string   `json:"placeholder"`
	Tiles         []Tile   `json:"tiles"`
	Button        Button   `json:"button"`
	Summary       *Summary `json:"summary,omitempty"`
}

func NewPanel(snap models.Snapshot) Panel {
	p := Panel{
		SessionID:     snap.SessionID,
		Status:        snap.Status,
		Theme:         snap.Theme,
		ThemeTitle:    "Switch to Dark Mode",
		Title:         "Typing Speed Test",
		Subtitle:      "Test your typing speed and accuracy",
		Notice:        snap.Notice,
		Reference:     snap.ReferenceText,
		Loading:       snap.Loading,
		UserText:      snap.UserText,
		InputDisabled: !snap.Running || snap.SecondsRemaining == 0 || snap.Loading,
		Placeholder:   "Click 'Start Test' to begin typing...",
		Tiles: []Tile{
			{Label: "Time Left", Value: fmt.Sprintf("%ds", snap.SecondsRemaining), Color: TimeColor(snap)},
			{Label: "Speed (WPM)", Value: fmt.Sprintf("%d", snap.WPM)},
			{Label: "Accuracy", Value: fmt.Sprintf("%d%%", snap.Accuracy)},
		},
		Button: Button{Label: "Start Test", Disabled: snap.Loading},
	}

	if snap.Theme == constants.ThemeDark {
		p.ThemeTitle = "Switch to Light Mode"
	}
	if snap.Loading {
		p.LoadingText = "Loading new content..."
	}
	if snap.Running {
		p.Placeholder = "Type the text above..."
	}

	switch {
	case snap.Loading:
		p.Button.Label = "Loading..."
	case snap.Running:
		p.Button.Label = "Restart Test"
	}

	if snap.SecondsRemaining == 0 {
		p.Summary = &Summary{
			Title:    "Test Complete!",
			Speed:    fmt.Sprintf("%d WPM", snap.WPM),
			Accuracy: fmt.Sprintf("%d%%", snap.Accuracy),
		}
	}
	return p
}

// TimeColor picks the time-left colour: gray before the first start, then blue,
// orange for the last ten seconds and red once time is up.
func TimeColor(snap models.Snapshot) string {
	switch {
	case !snap.Running && snap.SecondsRemaining == constants.TestDurationSeconds:
		return ColorGray
	case snap.SecondsRemaining == 0:
		return ColorRed
	case snap.SecondsRemaining <= 10:
		return ColorOrange
	default:
		return ColorBlue
	}
}

// Render writes the full page for p.
func Render(w io.Writer, p Panel) error {
	return pageTemplate.Execute(w, p)
}
