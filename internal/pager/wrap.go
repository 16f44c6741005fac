package pager

import (
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/yuanying/epsaku/internal/epub"
)

type cell struct {
	r     rune
	style epub.Style
}

// wrap breaks a line into lines of at most width display columns, at the
// last space when there is one. Styles are kept per span.
func wrap(line epub.Line, width int) []epub.Line {
	if width <= 0 || runewidth.StringWidth(line.Text()) <= width {
		return []epub.Line{line}
	}

	var cells []cell
	for _, sp := range line {
		for _, r := range sp.Text {
			if r == '\t' || r == '\r' {
				r = ' '
			}
			cells = append(cells, cell{r: r, style: sp.Style})
		}
	}

	var out []epub.Line
	for len(cells) > 0 {
		w, cut, lastSpace := 0, 0, -1
		for cut < len(cells) {
			rw := runewidth.RuneWidth(cells[cut].r)
			if w+rw > width {
				break
			}
			if unicode.IsSpace(cells[cut].r) {
				lastSpace = cut
			}
			w += rw
			cut++
		}

		if cut == len(cells) {
			out = append(out, join(cells))
			break
		}

		if unicode.IsSpace(cells[cut].r) {
			lastSpace = cut
		}
		next := cut
		if lastSpace > 0 {
			cut, next = lastSpace, lastSpace+1
		}
		if cut == 0 {
			// a single rune wider than the line
			cut, next = 1, 1
		}
		out = append(out, join(cells[:cut]))

		cells = cells[next:]
		for len(cells) > 0 && cells[0].r == ' ' {
			cells = cells[1:]
		}
	}
	return out
}

func join(cells []cell) epub.Line {
	var line epub.Line
	for _, c := range cells {
		if n := len(line); n > 0 && line[n-1].Style == c.style {
			line[n-1].Text += string(c.r)
			continue
		}
		line = append(line, epub.Span{Text: string(c.r), Style: c.style})
	}
	return line
}
