package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how the printer renders
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText for the output
	FormatAuto Format = iota
	// FormatTerminal renders colours, bold text and markdown
	FormatTerminal
	// FormatText renders plain lines, suitable for logs and pipes
	FormatText
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat reads a --format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	}
	return FormatAuto, fmt.Errorf("unknown format: %s (want auto, term or text)", s)
}

// DetectFormat resolves FormatAuto for out. Anything that is not a colour
// capable terminal gets FormatText, and so does NO_COLOR.
func DetectFormat(out io.Writer) Format {
	f, ok := out.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return FormatText
	}
	if termenv.NewOutput(f).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
