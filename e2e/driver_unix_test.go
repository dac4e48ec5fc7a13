//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// maxOutput bounds the captured terminal output; older bytes are dropped
const maxOutput = 1 << 20

var binPath = "searchbar_e2e"

// Keys as a terminal sends them
const (
	KeyEnter     = "\r"
	KeyCtrlC     = "\x03"
	KeyCtrlS     = "\x13"
	KeyBackspace = "\x7f"
)

// ansiRe strips CSI, OSC, charset and keypad sequences and carriage returns
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` +
		`(?:\x1b\][^\x07]*\x07)|` +
		`(?:\x1b[\(\)][A-Za-z])|` +
		`(?:\x1b=|\x1b>)|` +
		`\r`,
)

// Terminal runs searchbar in a PTY and records everything it draws
type Terminal struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string

	mu  sync.Mutex
	out []byte
}

// NewTerminal creates a terminal that is torn down when the test ends
func NewTerminal(t *testing.T) *Terminal {
	term := &Terminal{t: t}
	t.Cleanup(term.Close)
	return term
}

// Start launches searchbar with args in a 120x40 PTY. It runs in a fresh
// workspace, so the user's config, env file and log are never touched.
func (term *Terminal) Start(args ...string) error {
	workspace, err := os.MkdirTemp("", "searchbar-e2e-*")
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	term.workspace = workspace

	term.cmd = exec.Command(binPath, args...)
	term.cmd.Dir = workspace
	term.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+workspace,
		"XDG_CONFIG_HOME="+workspace,
		"SEARCHBAR_E2E_TEST=1",
	)

	ptmx, err := pty.StartWithSize(term.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("failed to start searchbar: %w", err)
	}
	term.pty = ptmx

	go term.capture()
	return nil
}

func (term *Terminal) capture() {
	buf := make([]byte, 8192)
	for {
		n, err := term.pty.Read(buf)
		if n > 0 {
			term.mu.Lock()
			term.out = append(term.out, buf[:n]...)
			if len(term.out) > maxOutput {
				term.out = term.out[len(term.out)-maxOutput:]
			}
			term.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// Send writes raw bytes to the terminal
func (term *Terminal) Send(keys string) error {
	_, err := term.pty.Write([]byte(keys))
	return err
}

// Type sends text one key at a time
func (term *Terminal) Type(text string) error {
	for _, r := range text {
		if err := term.Send(string(r)); err != nil {
			return err
		}
		time.Sleep(20 * time.Millisecond)
	}
	return nil
}

// Enter presses Enter
func (term *Terminal) Enter() error { return term.Send(KeyEnter) }

// Submit presses the key bound to the search button
func (term *Terminal) Submit() error { return term.Send(KeyCtrlS) }

// Quit presses Ctrl+C
func (term *Terminal) Quit() error { return term.Send(KeyCtrlC) }

// Ready waits for the ready marker of the first frame
func (term *Terminal) Ready() bool {
	term.t.Helper()
	return term.waitFor(func(s string) bool { return strings.Contains(s, "__READY__") }, 5*time.Second)
}

// See waits for text to appear on screen, ignoring escape sequences
func (term *Terminal) See(text string) bool {
	term.t.Helper()
	ok := term.waitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}, 3*time.Second)
	if !ok {
		term.t.Logf("%q not on screen, last output:\n%s", text, term.tail(2048))
	}
	return ok
}

// Exited waits for searchbar to exit
func (term *Terminal) Exited(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		_ = term.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
		term.cmd = nil
		return true
	case <-time.After(timeout):
		return false
	}
}

func (term *Terminal) waitFor(pred func(string) bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if pred(term.output()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func (term *Terminal) output() string {
	term.mu.Lock()
	defer term.mu.Unlock()
	return string(term.out)
}

func (term *Terminal) tail(n int) string {
	s := ansiRe.ReplaceAllString(term.output(), "")
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

// Close hangs up the PTY, kills searchbar and removes the workspace
func (term *Terminal) Close() {
	if term.pty != nil {
		_ = term.pty.Close()
		term.pty = nil
	}
	if term.cmd != nil && term.cmd.Process != nil {
		_ = term.cmd.Process.Kill()
		_ = term.cmd.Wait()
		term.cmd = nil
	}
	if term.workspace != "" {
		_ = os.RemoveAll(term.workspace)
		term.workspace = ""
	}
}
