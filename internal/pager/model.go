// Package pager displays rendered chapters in a terminal.
package pager

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yuanying/epsaku/internal/epub"
	"github.com/yuanying/epsaku/internal/history"
)

// Book is the publication a pager reads.
type Book interface {
	Len() int
	Render(index int) (*epub.Chapter, error)
}

// ImageOpener shows image ref of a chapter to the reader.
type ImageOpener func(chapter, ref int) error

// Options configures a Model.
type Options struct {
	// TextWidth caps the column count lines are wrapped to.
	TextWidth int
	Start     history.Position
	OpenImage ImageOpener
}

// Model is the pager state: which chapter is loaded, the first visible line
// and the screen geometry. It does no terminal I/O.
type Model struct {
	book      Book
	textWidth int
	openImage ImageOpener

	chapter int
	line    int
	cols    int
	rows    int

	source []epub.Line
	text   []epub.Line // source wrapped to the current width

	count    int
	hasCount bool
	status   string
	quit     bool
}

// New returns a Model positioned at opts.Start, clamped to the publication.
func New(book Book, cols, rows int, opts Options) (*Model, error) {
	if book.Len() == 0 {
		return nil, errors.New("publication has no chapters")
	}
	if opts.TextWidth <= 0 {
		opts.TextWidth = 80
	}

	m := &Model{
		book:      book,
		textWidth: opts.TextWidth,
		openImage: opts.OpenImage,
		cols:      max(cols, 1),
		rows:      max(rows, 1),
	}

	chapter := min(max(opts.Start.Chapter, 0), book.Len()-1)
	if err := m.load(chapter); err != nil {
		return nil, err
	}
	m.line = min(max(opts.Start.Line, 0), m.lastLine())
	return m, nil
}

// Position returns the current reading position.
func (m *Model) Position() history.Position {
	return history.Position{Chapter: m.chapter, Line: m.line}
}

// Done reports whether the reader asked to quit.
func (m *Model) Done() bool { return m.quit }

// Status returns the message shown on the last row, if any.
func (m *Model) Status() string { return m.status }

// Resize updates the screen geometry and rewraps the chapter. It reports
// whether anything changed.
func (m *Model) Resize(cols, rows int) bool {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == m.cols && rows == m.rows {
		return false
	}
	m.cols, m.rows = cols, rows
	m.rewrap()
	m.line = min(m.line, m.lastLine())
	return true
}

func (m *Model) width() int {
	return min(m.cols, m.textWidth)
}

func (m *Model) indent() int {
	if m.cols > m.textWidth {
		return (m.cols - m.textWidth) / 2
	}
	return 0
}

func (m *Model) load(chapter int) error {
	ch, err := m.book.Render(chapter)
	if err != nil {
		return err
	}
	m.chapter = chapter
	m.source = ch.Lines
	m.rewrap()
	return nil
}

func (m *Model) rewrap() {
	m.text = m.text[:0]
	for _, l := range m.source {
		m.text = append(m.text, wrap(l, m.width())...)
	}
}

func (m *Model) lastLine() int {
	return max(len(m.text)-1, 0)
}

// lastPage returns the first line of the last page.
func (m *Model) lastPage() int {
	return (m.lastLine() / m.rows) * m.rows
}

// HandleKey applies a key press. Errors rendering a chapter are returned,
// except lookup failures, which reject the key and set the status line like
// a failure to show an image does.
func (m *Model) HandleKey(k Key) error {
	m.status = ""

	if k.Code == KeyRune && k.Rune >= '0' && k.Rune <= '9' {
		m.count = m.count*10 + int(k.Rune-'0')
		m.hasCount = true
		return nil
	}
	count, hasCount := m.count, m.hasCount
	m.count, m.hasCount = 0, false

	switch {
	case k.Code == KeyEsc, k.Code == KeyInterrupt, k == Rune('q'):
		m.quit = true

	case k.Code == KeyPageDown, k == Rune(' '):
		if len(m.text)-m.line > m.rows {
			m.line += m.rows
		} else if m.chapter < m.book.Len()-1 {
			return m.turn(m.chapter+1, false)
		}

	case k.Code == KeyPageUp:
		if m.line >= m.rows {
			m.line -= m.rows
		} else if m.line == 0 && m.chapter > 0 {
			return m.turn(m.chapter-1, true)
		} else {
			m.line = 0
		}

	case k.Code == KeyDown, k == Rune('j'):
		if m.line < m.lastLine() {
			m.line++
		}

	case k.Code == KeyUp, k == Rune('k'):
		if m.line > 0 {
			m.line--
		}

	case k.Code == KeyRight, k == Rune('l'):
		if m.chapter < m.book.Len()-1 {
			return m.turn(m.chapter+1, false)
		}

	case k.Code == KeyLeft, k == Rune('h'):
		if m.chapter > 0 {
			return m.turn(m.chapter-1, false)
		}

	case k == Rune('g'):
		m.line = 0

	case k == Rune('G'):
		m.line = m.lastPage()

	case k == Rune('v'):
		ref := 0
		if hasCount {
			ref = count
		}
		m.showImage(ref)
	}
	return nil
}

// turn moves to chapter, at its last page when atEnd is set.
func (m *Model) turn(chapter int, atEnd bool) error {
	if err := m.load(chapter); err != nil {
		var lookup *epub.LookupError
		if errors.As(err, &lookup) {
			m.status = err.Error()
			return nil
		}
		return err
	}
	m.line = 0
	if atEnd {
		m.line = m.lastPage()
	}
	return nil
}

func (m *Model) showImage(ref int) {
	if m.openImage == nil {
		m.status = "no image viewer"
		return
	}
	if err := m.openImage(m.chapter, ref); err != nil {
		var lookup *epub.LookupError
		if errors.As(err, &lookup) {
			m.status = fmt.Sprintf("no image %d in this chapter", ref)
			return
		}
		m.status = err.Error()
	}
}

// View returns the screen rows, indented. The status message, when set,
// replaces the last row.
func (m *Model) View() []epub.Line {
	var pad epub.Line
	if n := m.indent(); n > 0 {
		pad = epub.Line{{Text: strings.Repeat(" ", n)}}
	}
	rows := make([]epub.Line, m.rows)
	for i := range rows {
		if n := m.line + i; n < len(m.text) {
			rows[i] = append(slices.Clip(pad), m.text[n]...)
		}
	}
	if m.status != "" {
		rows[len(rows)-1] = append(slices.Clip(pad), epub.Span{Text: m.status, Style: epub.Reverse})
	}
	return rows
}
