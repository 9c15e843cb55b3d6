//go:build !windows

package main

import (
	"bufio"

	"github.com/komashell/koma/shellstate"
)

// readKey decodes one logical key event from a raw-mode terminal byte
// stream (spec.md §6 "Interactive input"): this is the minimal amount of
// "terminal collaborator" decoding kept in-scope, since the state
// machine describing what each key does (shellstate.LineEditor) is
// explicitly in-scope while full ANSI rendering is not.
func readKey(r *bufio.Reader) (shellstate.Event, error) {
	b, err := r.ReadByte()
	if err != nil {
		return shellstate.Event{}, err
	}
	switch b {
	case '\r', '\n':
		return shellstate.Event{Key: shellstate.KeyEnter}, nil
	case 0x7f, 0x08:
		return shellstate.Event{Key: shellstate.KeyBackspace}, nil
	case 0x03:
		return shellstate.Event{Key: shellstate.KeyCtrlC}, nil
	case 0x0c:
		return shellstate.Event{Key: shellstate.KeyCtrlL}, nil
	case '\t':
		return shellstate.Event{Key: shellstate.KeyTab}, nil
	case 0x1b:
		return readEscape(r)
	default:
		return shellstate.Event{Key: shellstate.KeyRune, Rune: rune(b)}, nil
	}
}

func readEscape(r *bufio.Reader) (shellstate.Event, error) {
	b1, err := r.ReadByte()
	if err != nil {
		return shellstate.Event{}, err
	}
	if b1 != '[' && b1 != 'O' {
		return shellstate.Event{Key: shellstate.KeyRune, Rune: rune(b1)}, nil
	}
	b2, err := r.ReadByte()
	if err != nil {
		return shellstate.Event{}, err
	}
	switch b2 {
	case 'A':
		return shellstate.Event{Key: shellstate.KeyUp}, nil
	case 'B':
		return shellstate.Event{Key: shellstate.KeyDown}, nil
	case 'C':
		return shellstate.Event{Key: shellstate.KeyRight}, nil
	case 'D':
		return shellstate.Event{Key: shellstate.KeyLeft}, nil
	case 'H':
		return shellstate.Event{Key: shellstate.KeyHome}, nil
	case 'F':
		return shellstate.Event{Key: shellstate.KeyEnd}, nil
	case '1', '7':
		r.ReadByte() // trailing '~'
		return shellstate.Event{Key: shellstate.KeyHome}, nil
	case '4', '8':
		r.ReadByte() // trailing '~'
		return shellstate.Event{Key: shellstate.KeyEnd}, nil
	default:
		return shellstate.Event{Key: shellstate.KeyRune, Rune: rune(b2)}, nil
	}
}
