package epub

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/beevik/etree"
)

// styleState is the formatting context inherited by a node from its
// ancestors. It is passed by value: a child never changes what its parent or
// siblings see.
type styleState struct {
	body      bool
	paragraph bool
	link      bool
	bold      bool
	italic    bool
	underline bool
	noDisplay bool
	heading   bool
}

func (st styleState) visible() bool {
	return st.body && !st.noDisplay && (st.paragraph || st.heading)
}

func (st styleState) style() Style {
	s := Plain
	if st.heading {
		s |= Bold | Reverse
	}
	if st.italic {
		s |= Italic
	}
	if st.bold {
		s |= Bold
	}
	if st.underline || st.link {
		s |= Underline
	}
	return s
}

// segments is renderer output before it is split into lines. Line breaks are
// carried inside Text as '\n'.
type segments []Span

func (s *segments) add(text string, style Style) {
	if text == "" {
		return
	}
	if n := len(*s); n > 0 && (*s)[n-1].Style == style {
		(*s)[n-1].Text += text
		return
	}
	*s = append(*s, Span{Text: text, Style: style})
}

func (s *segments) addAll(o segments) {
	for _, sp := range o {
		s.add(sp.Text, sp.Style)
	}
}

// trim removes leading and trailing whitespace across span boundaries,
// dropping spans left empty.
func (s segments) trim() segments {
	for len(s) > 0 {
		t := strings.TrimLeftFunc(s[0].Text, unicode.IsSpace)
		if t != "" {
			s = append(segments{{Text: t, Style: s[0].Style}}, s[1:]...)
			break
		}
		s = s[1:]
	}
	for len(s) > 0 {
		last := len(s) - 1
		t := strings.TrimRightFunc(s[last].Text, unicode.IsSpace)
		if t != "" {
			s = append(s[:last:last], Span{Text: t, Style: s[last].Style})
			break
		}
		s = s[:last]
	}
	return s
}

// lines splits the output on '\n'.
func (s segments) lines() []Line {
	lines := []Line{nil}
	for _, sp := range s {
		parts := strings.Split(sp.Text, "\n")
		for i, p := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if p != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], Span{Text: p, Style: sp.Style})
			}
		}
	}
	return lines
}

type renderer struct {
	doc    string
	images []string
}

// RenderChapter renders chapter XHTML into display lines. A chapter that does
// not parse fails as a whole.
func RenderChapter(docName, content string) (*Chapter, error) {
	doc, err := parseXML(docName, content)
	if err != nil {
		return nil, err
	}

	r := &renderer{doc: docName}
	out, err := r.renderChildren(&doc.Element, styleState{})
	if err != nil {
		return nil, err
	}

	ch := &Chapter{Images: r.images}
	if out = out.trim(); len(out) > 0 {
		ch.Lines = out.lines()
	}
	return ch, nil
}

func (r *renderer) renderChildren(el *etree.Element, st styleState) (segments, error) {
	var out segments
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			child, err := r.renderElement(t, st)
			if err != nil {
				return nil, err
			}
			out.addAll(child)
		case *etree.CharData:
			if st.visible() {
				out.add(t.Data, st.style())
			}
		}
	}
	return out, nil
}

func (r *renderer) renderElement(el *etree.Element, st styleState) (segments, error) {
	var (
		out   segments
		block bool
	)

	switch el.Tag {
	case "body":
		st.body = true
	case "p":
		block = !st.paragraph
		st.paragraph = true
	case "div":
		block = !st.paragraph
	case "h1", "h2", "h3", "h4", "h5", "h6":
		block = !st.paragraph
		st.heading = true
	case "a":
		st.link = true
	case "b", "strong":
		st.bold = true
	case "i", "em":
		st.italic = true
	case "u":
		st.underline = true
	case "script", "style":
		st.noDisplay = true
	case "br":
		out.add("\n", Plain)
	case "img":
		src := el.SelectAttr("src")
		if src == nil {
			return nil, missingAttribute(r.doc, "img", "src")
		}
		out.add(fmt.Sprintf("[IMG:%d]", len(r.images)), Reverse)
		r.images = append(r.images, src.Value)
	}

	children, err := r.renderChildren(el, st)
	if err != nil {
		return nil, err
	}

	if !block {
		out.addAll(children)
		return out, nil
	}

	if children = children.trim(); len(children) > 0 {
		out.addAll(children)
		out.add("\n\n", Plain)
	}
	return out, nil
}
