package pager

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/yuanying/epsaku/internal/epub"
)

// Terminal drives a Model on an interactive terminal.
type Terminal struct {
	Log *zap.Logger
}

// Run takes over the terminal and processes keys until the reader quits,
// ctx is done, or rendering fails. The terminal is restored on return.
func (t *Terminal) Run(ctx context.Context, m *Model) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unable to open terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("unable to initialize terminal: %w", err)
	}
	defer s.Fini()
	return t.loop(ctx, s, m)
}

// loop runs m on an initialized screen.
func (t *Terminal) loop(ctx context.Context, s tcell.Screen, m *Model) error {
	log := t.Log
	if log == nil {
		log = zap.NewNop()
	}

	stop := context.AfterFunc(ctx, func() {
		if err := s.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
			log.Debug("Unable to post interrupt", zap.Error(err))
		}
	})
	defer stop()

	s.HideCursor()
	m.Resize(s.Size())
	draw(s, m)

	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventError:
			return ev
		case *tcell.EventResize:
			m.Resize(s.Size())
			s.Sync()
		case *tcell.EventKey:
			k, ok := keyFromEvent(ev)
			if !ok {
				continue
			}
			if err := m.HandleKey(k); err != nil {
				return err
			}
			if m.Done() {
				return nil
			}
		}
		draw(s, m)
	}
}

func draw(s tcell.Screen, m *Model) {
	s.Clear()
	for y, row := range m.View() {
		x := 0
		for _, sp := range row {
			st := cellStyle(sp.Style)
			for _, r := range sp.Text {
				w := runewidth.RuneWidth(r)
				if w == 0 {
					continue
				}
				s.SetContent(x, y, r, nil, st)
				x += w
			}
		}
	}
	s.Show()
}

func cellStyle(style epub.Style) tcell.Style {
	return tcell.StyleDefault.
		Bold(style.Has(epub.Bold)).
		Italic(style.Has(epub.Italic)).
		Underline(style.Has(epub.Underline)).
		Reverse(style.Has(epub.Reverse))
}
