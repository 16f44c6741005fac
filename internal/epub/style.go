package epub

import (
	"strings"

	"github.com/fatih/color"
)

// Style is a set of terminal text attributes.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
	Reverse
)

// Plain is the empty style.
const Plain Style = 0

// Has reports whether every attribute of o is set in s.
func (s Style) Has(o Style) bool { return s&o == o }

func (s Style) String() string {
	if s == Plain {
		return "plain"
	}
	var parts []string
	for _, a := range []struct {
		s    Style
		name string
	}{{Bold, "bold"}, {Italic, "italic"}, {Underline, "underline"}, {Reverse, "reverse"}} {
		if s.Has(a.s) {
			parts = append(parts, a.name)
		}
	}
	return strings.Join(parts, "+")
}

// sgr returns a color printer for s. Color is forced on: whether the output
// is a terminal is the caller's decision.
func (s Style) sgr() *color.Color {
	var attrs []color.Attribute
	if s.Has(Bold) {
		attrs = append(attrs, color.Bold)
	}
	if s.Has(Italic) {
		attrs = append(attrs, color.Italic)
	}
	if s.Has(Underline) {
		attrs = append(attrs, color.Underline)
	}
	if s.Has(Reverse) {
		attrs = append(attrs, color.ReverseVideo)
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
}

// Line is one display line of a rendered chapter.
type Line []Span

// Text returns the line without styling.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// ANSI returns the line with SGR escape sequences for every styled span.
func (l Line) ANSI() string {
	var b strings.Builder
	for _, s := range l {
		if s.Style == Plain {
			b.WriteString(s.Text)
			continue
		}
		b.WriteString(s.Style.sgr().Sprint(s.Text))
	}
	return b.String()
}

// Chapter is a rendered chapter: display lines, block separated and trimmed,
// plus the images it references. The placeholder [IMG:n] in the text refers
// to Images[n].
type Chapter struct {
	Lines  []Line
	Images []string
}

// Text returns the chapter without styling, lines joined by newlines.
func (c *Chapter) Text() string {
	lines := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = l.Text()
	}
	return strings.Join(lines, "\n")
}

// ANSI returns the chapter with SGR styling, lines joined by newlines.
func (c *Chapter) ANSI() string {
	lines := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = l.ANSI()
	}
	return strings.Join(lines, "\n")
}
