// Package output renders generated documents and human-facing status text
// for the CLI. A Renderer pairs a document writer with an error writer and
// adapts styling to whether the document writer is a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

// Mode selects how documents are rendered.
type Mode string

const (
	// ModeAuto picks ModePretty on a terminal and ModeCompact otherwise.
	ModeAuto Mode = "auto"
	// ModePretty renders two-space indented JSON.
	ModePretty Mode = "pretty"
	// ModeCompact renders single-line JSON.
	ModeCompact Mode = "compact"
)

// ParseMode validates a mode string. The empty string maps to ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModePretty, ModeCompact:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown output mode %q (want auto, pretty, or compact)", s)
}

// Renderer writes documents to out and status messages to errOut, so piped
// output stays clean JSON.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   Mode
	styles Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY setting.
// Tests use this to exercise both styled and plain output.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	profile := termenv.Ascii
	if isTTY {
		profile = termenv.ANSI
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
		mode:   mode,
		styles: newStyles(termenv.NewOutput(out, termenv.WithProfile(profile))),
	}
}

// IsTTY reports whether the document writer is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the document writer, for table renderers that mirror
// their own output.
func (r *Renderer) Writer() io.Writer { return r.out }

// Styles returns the style set matching the renderer's color profile.
func (r *Renderer) Styles() Styles { return r.styles }

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModePretty
	}
	return ModeCompact
}

// Document writes v as JSON followed by a newline, indented or compact
// per the effective mode.
func (r *Renderer) Document(v value.Value) error {
	var data []byte
	var err error
	if r.EffectiveMode() == ModePretty {
		data, err = value.EncodeJSONIndent(v)
	} else {
		data, err = value.EncodeJSON(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

// JSON writes v as indented JSON. Used for metadata output such as the
// builtin listing, not for generated documents.
func (r *Renderer) JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

// Println writes a line to the document writer.
func (r *Renderer) Println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

// Printf writes formatted text to the document writer.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// Header writes a styled section header, falling back to markdown-style
// hashes off-terminal.
func (r *Renderer) Header(level int, text string) {
	if r.isTTY {
		style := r.styles.Header2
		if level <= 1 {
			style = r.styles.Header1
		}
		r.Println(style.Render(text))
		return
	}
	r.Println(FormatHeader(level, text))
}

// StatusLine writes one per-item progress line: a glyph, the item name,
// and an optional muted detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	var mark string
	switch status {
	case "success":
		mark = r.styles.Success.Render("✓")
	case "failed":
		mark = r.styles.Error.Render("✗")
	case "skipped":
		mark = r.styles.Muted.Render("-")
	default:
		mark = status
	}
	if detail != "" {
		fmt.Fprintf(r.errOut, "  %s %s %s\n", mark, name, r.styles.Muted.Render(detail))
		return
	}
	fmt.Fprintf(r.errOut, "  %s %s\n", mark, name)
}

// Success writes a green confirmation line to the error writer.
func (r *Renderer) Success(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Success.Render("✓ "+msg))
}

// Warning writes a yellow warning line to the error writer.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Warning.Render("! "+msg))
}

// Error writes a red error line to the error writer.
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
}

// Muted writes a dimmed informational line to the error writer.
func (r *Renderer) Muted(msg string) {
	fmt.Fprintln(r.errOut, r.styles.Muted.Render(msg))
}
