package pager

import "github.com/gdamore/tcell/v2"

// KeyCode identifies a key the pager reacts to.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyEsc
	KeyInterrupt
)

// Key is a decoded key press. Rune is set for KeyRune only.
type Key struct {
	Code KeyCode
	Rune rune
}

// Rune returns the key press of a printable character.
func Rune(r rune) Key { return Key{Code: KeyRune, Rune: r} }

var tcellKeys = map[tcell.Key]KeyCode{
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyEscape: KeyEsc,
	tcell.KeyCtrlC:  KeyInterrupt,
}

// keyFromEvent maps a terminal key event to a pager key. Alt combinations
// and control keys other than Ctrl-C are ignored.
func keyFromEvent(ev *tcell.EventKey) (Key, bool) {
	if ev.Key() == tcell.KeyRune {
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return Key{}, false
		}
		return Rune(ev.Rune()), true
	}
	code, ok := tcellKeys[ev.Key()]
	if !ok || ev.Modifiers()&(tcell.ModAlt|tcell.ModShift) != 0 && code != KeyInterrupt {
		return Key{}, false
	}
	return Key{Code: code}, true
}
