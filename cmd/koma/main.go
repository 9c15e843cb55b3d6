// koma is the shell engine's process entry point: a Lexer→Parser→
// Executor pipeline over a virtual filesystem, with an interactive
// raw-mode line editor when attached to a real terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"sort"
	"strings"
	"syscall"

	"golang.org/x/term"
	"golang.org/x/xerrors"

	"github.com/komashell/koma/builtins"
	"github.com/komashell/koma/cmdctx"
	"github.com/komashell/koma/interp"
	"github.com/komashell/koma/registry"
	"github.com/komashell/koma/shellstate"
	"github.com/komashell/koma/syntax"
	"github.com/komashell/koma/vfs"
)

var (
	command = flag.String("c", "", "command to be executed")
	store   = flag.String("store", "", "path to a persisted VFS snapshot (empty: in-memory only)")
)

func main() {
	flag.Parse()
	code, err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run() (int, error) {
	fs, err := vfs.Open(*store)
	if err != nil {
		return 0, xerrors.Errorf("opening vfs store: %w", describeVFSOpenError(err))
	}

	sh := shellstate.New(envMap())
	reg := builtins.NewRegistry()

	if *command != "" {
		return runScript(reg, sh, fs, *command), nil
	}
	if flag.NArg() > 0 {
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			return 0, xerrors.Errorf("reading script %s: %w", flag.Arg(0), err)
		}
		return runScript(reg, sh, fs, string(data)), nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runInteractive(reg, sh, fs)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return 0, xerrors.Errorf("reading stdin: %w", err)
	}
	return runScript(reg, sh, fs, string(data)), nil
}

// describeVFSOpenError unwraps a *vfs.Error to give a friendlier message
// for a corrupt or unreadable snapshot file, mirroring the teacher's own
// errors.As(err, &es) dispatch in cmd/gosh/main.go, ported to xerrors.As
// since that is the error-wrapping library carried from the teacher's
// go.mod.
func describeVFSOpenError(err error) error {
	var verr *vfs.Error
	if xerrors.As(err, &verr) {
		return xerrors.Errorf("snapshot at %q is unreadable (%s): %w", verr.Path, verr.Kind, err)
	}
	return err
}

func envMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok {
			env[name] = value
		}
	}
	return env
}

func runScript(reg *registry.Registry, sh *shellstate.Shell, fs *vfs.Store, src string) int {
	node, err := syntax.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "koma: %v\n", err)
		return interp.ExitTestSyntaxError
	}
	r := interp.New(reg, sh, fs,
		func(s string) { fmt.Fprint(os.Stdout, s) },
		func(s string) { fmt.Fprint(os.Stderr, s) },
		nil)
	return r.Run(node)
}

func runInteractive(reg *registry.Registry, sh *shellstate.Shell, fs *vfs.Store) (int, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return 0, xerrors.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	in := bufio.NewReader(os.Stdin)
	editor := shellstate.NewLineEditor()

	stdout := func(s string) { fmt.Fprint(os.Stdout, strings.ReplaceAll(s, "\n", "\r\n")) }
	stderr := func(s string) { fmt.Fprint(os.Stderr, strings.ReplaceAll(s, "\n", "\r\n")) }
	reader := func(prompt string) (string, error) {
		return readLine(in, editor, sh, reg, fs, stdout, prompt)
	}

	r := interp.New(reg, sh, fs, stdout, stderr, reader)
	r.Interrupted = func() bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}

	for {
		prompt := sh.Cwd + " $ "
		line, err := readLine(in, editor, sh, reg, fs, stdout, prompt)
		if err == cmdctx.ErrCancelled {
			continue
		}
		if err != nil {
			return sh.LastExitCode, nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		sh.PushHistory(line)
		node, perr := syntax.Parse(line)
		if perr != nil {
			stderr(fmt.Sprintf("koma: %v\n", perr))
			sh.LastExitCode = interp.ExitTestSyntaxError
			continue
		}
		r.Run(node)
		if sh.Exiting {
			return sh.LastExitCode, nil
		}
	}
}

// readLine drives the raw-mode key-event loop for one line of input,
// redrawing the prompt and buffer after every key (spec.md §6 "Normal
// mode"). It also backs CommandRead-mode readline() calls from Schist,
// which is why it takes a prompt parameter and is reused as the
// Context's Reader.
func readLine(in *bufio.Reader, editor *shellstate.LineEditor, sh *shellstate.Shell, reg *registry.Registry, fs *vfs.Store, stdout func(string), prompt string) (string, error) {
	editor.Reset()
	redraw(stdout, prompt, editor)
	for {
		ev, err := readKey(in)
		if err != nil {
			return "", err
		}
		if ev.Key == shellstate.KeyTab {
			complete(editor, sh, reg, fs, stdout)
			redraw(stdout, prompt, editor)
			continue
		}
		if ev.Key == shellstate.KeyCtrlL {
			stdout("\x1b[2J\x1b[H")
			redraw(stdout, prompt, editor)
			continue
		}
		line, submitted, cancelled := editor.Apply(ev, sh.History)
		if cancelled {
			stdout("\r\n")
			return "", cmdctx.ErrCancelled
		}
		if submitted {
			stdout("\r\n")
			return line, nil
		}
		redraw(stdout, prompt, editor)
	}
}

func redraw(stdout func(string), prompt string, editor *shellstate.LineEditor) {
	stdout("\r\x1b[K" + prompt + editor.String())
}

// complete implements spec.md §6 "Tab completion": command names when
// the cursor is in the first word, otherwise VFS entries under the
// prefix's directory. A single match is inserted; multiple matches are
// listed in columns below the current line (spec.md §6: "multiple →
// list columns"), after which the caller redraws the prompt and buffer.
func complete(editor *shellstate.LineEditor, sh *shellstate.Shell, reg *registry.Registry, fs *vfs.Store, stdout func(string)) {
	line := string(editor.Buf[:editor.Cursor])
	fields := strings.Fields(line)
	inFirstWord := len(fields) <= 1 && !strings.HasSuffix(line, " ")

	var candidates []string
	var prefix string
	if inFirstWord {
		prefix = line
		for _, name := range reg.Names() {
			if strings.HasPrefix(name, prefix) {
				candidates = append(candidates, name)
			}
		}
	} else {
		word := ""
		if len(fields) > 0 && !strings.HasSuffix(line, " ") {
			word = fields[len(fields)-1]
		}
		dir, base := path.Split(word)
		lookupDir := sh.Cwd
		if dir != "" {
			lookupDir = resolveForCompletion(sh, dir)
		}
		entries, err := fs.Readdir(lookupDir)
		if err != nil {
			return
		}
		prefix = word
		for _, e := range entries {
			if strings.HasPrefix(e.Name, base) {
				candidates = append(candidates, dir+e.Name)
			}
		}
	}

	sort.Strings(candidates)
	switch len(candidates) {
	case 0:
		return
	case 1:
		insertCompletion(editor, prefix, candidates[0])
	default:
		stdout("\r\n" + columns(candidates, 80) + "\r\n")
	}
}

// columns lays candidates out in fixed-width columns fitting within
// width, left-aligned and padded to the widest entry plus two spaces of
// gutter — the same kind of fixed-width row formatting `ls -l` uses
// (builtins/fs.go), applied to a grid instead of one name per line.
func columns(candidates []string, width int) string {
	colWidth := 0
	for _, c := range candidates {
		if len(c) > colWidth {
			colWidth = len(c)
		}
	}
	colWidth += 2
	perRow := width / colWidth
	if perRow < 1 {
		perRow = 1
	}
	var b strings.Builder
	for i, c := range candidates {
		b.WriteString(c)
		if (i+1)%perRow == 0 || i == len(candidates)-1 {
			b.WriteString("\r\n")
		} else {
			b.WriteString(strings.Repeat(" ", colWidth-len(c)))
		}
	}
	return strings.TrimSuffix(b.String(), "\r\n")
}

func resolveForCompletion(sh *shellstate.Shell, p string) string {
	if strings.HasPrefix(p, "/") {
		return path.Clean(p)
	}
	return path.Clean(sh.Cwd + "/" + p)
}

func insertCompletion(editor *shellstate.LineEditor, prefix, match string) {
	suffix := strings.TrimPrefix(match, prefix)
	for _, r := range suffix {
		editor.Buf = append(editor.Buf[:editor.Cursor], append([]rune{r}, editor.Buf[editor.Cursor:]...)...)
		editor.Cursor++
	}
}
