// Package keyboard turns terminal input into single-key commands.
package keyboard

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/x/term"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04
)

// Keyboard reads commands from a file, in raw mode when it is a terminal.
type Keyboard struct {
	fd    uintptr
	state *term.State
	keys  chan rune
	done  chan struct{}
	once  sync.Once
}

// Open starts reading f. Interrupt keys are reported as quit so raw mode
// keeps a way out.
func Open(f *os.File, quit rune) (*Keyboard, error) {
	k := &Keyboard{
		fd:   f.Fd(),
		keys: make(chan rune),
		done: make(chan struct{}),
	}

	if term.IsTerminal(k.fd) {
		state, err := term.MakeRaw(k.fd)
		if err != nil {
			return nil, err
		}
		k.state = state
	}

	go Scan(f, k.Raw(), quit, k.keys, k.done)

	return k, nil
}

func (k *Keyboard) Keys() <-chan rune { return k.keys }

// Raw reports whether the terminal is in raw mode. Output written while raw
// needs CRLF line endings.
func (k *Keyboard) Raw() bool { return k.state != nil }

// Close restores the terminal.
func (k *Keyboard) Close() error {
	var err error
	k.once.Do(func() {
		close(k.done)
		if k.state != nil {
			err = term.Restore(k.fd, k.state)
		}
	})

	return err
}

// Scan reads r until EOF or done and sends commands on keys, closing it on
// return. In raw mode every rune is a command; otherwise the first non-blank
// rune of each line is.
func Scan(r io.Reader, raw bool, quit rune, keys chan<- rune, done <-chan struct{}) {
	defer close(keys)

	emit := func(c rune) bool {
		if c == ctrlC || c == ctrlD {
			c = quit
		}
		select {
		case keys <- unicode.ToLower(c):
			return true
		case <-done:
			return false
		}
	}

	br := bufio.NewReader(r)
	if raw {
		for {
			c, _, err := br.ReadRune()
			if err != nil {
				return
			}
			if unicode.IsSpace(c) {
				continue
			}
			if !emit(c) {
				return
			}
		}
	}

	for {
		line, err := br.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			if !emit([]rune(trimmed)[0]) {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

type crlfWriter struct{ w io.Writer }

// CRLF returns a writer that expands "\n" to "\r\n" for raw terminals.
func CRLF(w io.Writer) io.Writer { return crlfWriter{w: w} }

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}

	return len(p), nil
}
