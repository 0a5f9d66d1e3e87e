package ui_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/5minds/create-processcube-app/pkg/types"
	"github.com/5minds/create-processcube-app/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   ui.Format
		expected string
	}{
		{ui.FormatAuto, "auto"},
		{ui.FormatTerminal, "term"},
		{ui.FormatText, "text"},
		{ui.Format(999), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.format.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{"", ui.FormatAuto, false},
		{"auto", ui.FormatAuto, false},
		{"TERM", ui.FormatTerminal, false},
		{"terminal", ui.FormatTerminal, false},
		{"plain", ui.FormatText, false},
		{"json", ui.FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ui.FormatText, ui.DetectFormat(&buf))
	assert.Equal(t, ui.FormatText, ui.NewPrinter(&buf, ui.FormatAuto).Format())

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, ui.FormatText, ui.DetectFormat(os.Stdout))
}

func TestLoadStyles(t *testing.T) {
	registry, err := ui.LoadStyles([]byte(`
colors:
  blue: {light: "#0000FF", dark: "#8888FF"}
styles:
  Info: {bold: true, foreground: blue}
`))
	require.NoError(t, err)
	assert.Contains(t, registry, "Info")

	_, err = ui.LoadStyles([]byte("styles:\n  X: {foreground: nope}\n"))
	assert.Error(t, err)

	for _, name := range []string{ui.StyleSuccess, ui.StyleError, ui.StyleWarning, ui.StyleHighlight, ui.StyleViolation} {
		assert.Contains(t, ui.StyleRegistry, name)
	}
}

func TestPrinterText(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatAuto)
	assert.Equal(t, ui.FormatText, p.Format())

	var deps types.DependencySet
	deps.Add("react", "next@13.4.0")

	p.UsingPackageManager(types.PackageManagerPNPM)
	p.Dependencies(deps)

	assert.Equal(t, "Using pnpm.\n\nInstalling dependencies:\n- react\n- next@13.4.0\n\n", buf.String())
}

func TestPrinterError(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf, ui.FormatText)

	p.Error(errors.New("target not empty"), map[string]interface{}{
		"conflicts": []string{"index.html", "src"},
	})

	assert.Equal(t, "Error: target not empty\n  index.html\n  src\n", buf.String())
}

func TestNextStepsMarkdown(t *testing.T) {
	md := ui.NextStepsMarkdown("my-app", types.PackageManagerNPM, false)
	assert.Contains(t, md, "`cd my-app`")
	assert.Contains(t, md, "`npm install`")
	assert.Contains(t, md, "`npm run dev`")

	md = ui.NextStepsMarkdown("my-app", types.PackageManagerYarn, true)
	assert.NotContains(t, md, "install")
	assert.Contains(t, md, "`yarn dev`")
}
