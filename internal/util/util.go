package util

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"github.com/alvarorichard/bc95decrypt/internal/packet"
)

var (
	IsDebug bool

	// Error styling
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	debugErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4757")).
			Padding(1, 2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA726")).
			Bold(true)
)

// stageHints explains each failing stage to someone typing values by hand.
var stageHints = map[packet.Stage]string{
	packet.StageHex:     "the ciphertext must be an even number of hex digits and at least 21 bytes",
	packet.StageKey:     "the key must be 32, 48 or 64 hex digits (AES-128/192/256)",
	packet.StageDecrypt: "after the 5 byte prefix the message must hold one or two whole 16 byte blocks",
	packet.StageUnpack:  "the plaintext does not start with msgpack data, the key is probably wrong",
	packet.StageSeal:    "the value must be valid JSON and encode to at most 31 msgpack bytes",
}

// SetDebugMode sets the debug mode
func SetDebugMode(debug bool) {
	IsDebug = debug
}

// StageOf reports the pipeline stage err came from, if any.
func StageOf(err error) (packet.Stage, bool) {
	var se *packet.StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// ErrorHandler returns a stylized error message
func ErrorHandler(err error) string {
	if IsDebug {
		header := errorStyle.Render("DEBUG ERROR")
		full := debugErrorStyle.Render(fmt.Sprintf("%+v", err))
		return fmt.Sprintf("%s\n%s", header, full)
	}

	hint := "run the program with -debug to see details"
	if stage, ok := StageOf(err); ok {
		if h, found := stageHints[stage]; found {
			hint = h
		}
	}

	styledError := errorStyle.Render(fmt.Sprintf("error: %v", err))
	styledHint := warningStyle.Render(fmt.Sprintf("hint: %s", hint))
	return fmt.Sprintf("%s\n%s", styledError, styledHint)
}
