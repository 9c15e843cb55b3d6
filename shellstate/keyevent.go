package shellstate

// Key identifies a logical key event forwarded by the terminal
// collaborator (spec.md §6): raw key decoding is that peripheral's job
// (out of scope, spec.md §1); this package only specifies what each
// logical key does once decoded.
type Key int

const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyTab
	KeyBackspace
	KeyEnter
	KeyCtrlC
	KeyCtrlL
)

// Event is one decoded key press.
type Event struct {
	Key  Key
	Rune rune // only meaningful when Key == KeyRune
}

// LineEditor holds the state of the line currently being edited,
// independent of which InputMode it is feeding.
type LineEditor struct {
	Buf    []rune
	Cursor int

	histIdx int // -1 means "not browsing history"
}

// NewLineEditor creates an empty, cursor-at-zero editor.
func NewLineEditor() *LineEditor {
	return &LineEditor{histIdx: -1}
}

// Reset clears the buffer and cursor, e.g. after Enter or Ctrl+C.
func (e *LineEditor) Reset() {
	e.Buf = e.Buf[:0]
	e.Cursor = 0
	e.histIdx = -1
}

func (e *LineEditor) String() string { return string(e.Buf) }

// Apply feeds one decoded key event into the editor. It returns
// (line, submitted, cancelled): submitted is true once the line is ready
// to submit (Enter), cancelled is true once it has been cancelled
// (Ctrl+C, in which case line is "" and the caller should treat it per
// ErrCancelled semantics upstream).
// History lets Up/Down browse previously submitted lines, most recent
// last, as kept by Shell.History.
func (e *LineEditor) Apply(ev Event, history []string) (line string, submitted, cancelled bool) {
	switch ev.Key {
	case KeyRune:
		e.insert(ev.Rune)
	case KeyBackspace:
		e.backspace()
	case KeyLeft:
		if e.Cursor > 0 {
			e.Cursor--
		}
	case KeyRight:
		if e.Cursor < len(e.Buf) {
			e.Cursor++
		}
	case KeyHome:
		e.Cursor = 0
	case KeyEnd:
		e.Cursor = len(e.Buf)
	case KeyUp:
		e.browseHistory(history, -1)
	case KeyDown:
		e.browseHistory(history, 1)
	case KeyEnter:
		line = e.String()
		e.Reset()
		return line, true, false
	case KeyCtrlC:
		e.Reset()
		return "", false, true
	case KeyCtrlL, KeyTab:
		// Screen clearing and completion are rendering/registry-lookup
		// concerns respectively, handled by the caller; the editor's
		// buffer is untouched by either.
	}
	return "", false, false
}

func (e *LineEditor) insert(r rune) {
	e.Buf = append(e.Buf, 0)
	copy(e.Buf[e.Cursor+1:], e.Buf[e.Cursor:])
	e.Buf[e.Cursor] = r
	e.Cursor++
}

func (e *LineEditor) backspace() {
	if e.Cursor == 0 {
		return
	}
	copy(e.Buf[e.Cursor-1:], e.Buf[e.Cursor:])
	e.Buf = e.Buf[:len(e.Buf)-1]
	e.Cursor--
}

func (e *LineEditor) browseHistory(history []string, dir int) {
	if len(history) == 0 {
		return
	}
	if e.histIdx == -1 {
		if dir < 0 {
			e.histIdx = len(history) - 1
		} else {
			return
		}
	} else {
		e.histIdx += dir
		if e.histIdx < 0 {
			e.histIdx = 0
		}
		if e.histIdx >= len(history) {
			e.histIdx = len(history) - 1
		}
	}
	e.Buf = []rune(history[e.histIdx])
	e.Cursor = len(e.Buf)
}
