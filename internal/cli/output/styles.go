package output

import "github.com/muesli/termenv"

// Style renders text with a fixed decoration. With an Ascii profile the
// decoration is a no-op and Render returns the text unchanged.
type Style struct {
	apply func(string) string
}

// Render applies the style to text.
func (s Style) Render(text string) string {
	if s.apply == nil {
		return text
	}
	return s.apply(text)
}

// Styles is the decoration set shared by all CLI text output.
type Styles struct {
	Header1 Style
	Header2 Style
	Bold    Style
	Muted   Style
	Key     Style
	Success Style
	Warning Style
	Error   Style
}

func newStyles(o *termenv.Output) Styles {
	styled := func(f func(termenv.Style) termenv.Style) Style {
		return Style{apply: func(text string) string {
			return f(o.String(text)).String()
		}}
	}
	return Styles{
		Header1: styled(func(s termenv.Style) termenv.Style { return s.Bold().Underline() }),
		Header2: styled(func(s termenv.Style) termenv.Style { return s.Bold() }),
		Bold:    styled(func(s termenv.Style) termenv.Style { return s.Bold() }),
		Muted:   styled(func(s termenv.Style) termenv.Style { return s.Faint() }),
		Key:     styled(func(s termenv.Style) termenv.Style { return s.Foreground(o.Color("6")) }),
		Success: styled(func(s termenv.Style) termenv.Style { return s.Foreground(o.Color("2")) }),
		Warning: styled(func(s termenv.Style) termenv.Style { return s.Foreground(o.Color("3")) }),
		Error:   styled(func(s termenv.Style) termenv.Style { return s.Foreground(o.Color("1")) }),
	}
}
