package dialog

import (
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminal implements Dialog with one bubbletea program per prompt.
type Terminal struct {
	backtitle string
	in        io.Reader
	out       io.Writer
	extra     []tea.ProgramOption

	mu          sync.Mutex
	onInterrupt func()
}

// NewTerminal returns a Dialog drawing on stdout and reading keys from stdin.
// backtitle is shown above every prompt.
func NewTerminal(backtitle string) *Terminal {
	return &Terminal{
		backtitle: backtitle,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// OnInterrupt registers fn to be called when the user presses Ctrl+C in any
// prompt. While a prompt is open the terminal is in raw mode and the key does
// not raise SIGINT.
func (t *Terminal) OnInterrupt(fn func()) {
	t.mu.Lock()
	t.onInterrupt = fn
	t.mu.Unlock()
}

func (t *Terminal) interrupt() {
	t.mu.Lock()
	fn := t.onInterrupt
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (t *Terminal) program(m tea.Model) *tea.Program {
	opts := append([]tea.ProgramOption{tea.WithInput(t.in), tea.WithOutput(t.out)}, t.extra...)
	return tea.NewProgram(m, opts...)
}

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	final, err := t.program(m).Run()
	if err != nil {
		return nil, fmt.Errorf("dialog failed: %w", err)
	}
	return final, nil
}

func (t *Terminal) Menu(title string, choices []string, cancelLabel string) (string, bool, error) {
	final, err := t.run(newMenuModel(t.backtitle, title, choices, cancelLabel))
	if err != nil {
		return "", false, err
	}
	m := final.(menuModel)
	if m.outcome == interrupted {
		t.interrupt()
		return "", false, ErrInterrupted
	}
	choice, ok := m.selected()
	return choice, ok, nil
}

func (t *Terminal) MultiSelect(title string, items []Item) ([]string, bool, error) {
	final, err := t.run(newChecklistModel(t.backtitle, title, items))
	if err != nil {
		return nil, false, err
	}
	m := final.(checklistModel)
	switch m.outcome {
	case interrupted:
		t.interrupt()
		return nil, false, ErrInterrupted
	case accepted:
		return m.selected(), true, nil
	}
	return nil, false, nil
}

func (t *Terminal) Confirm(prompt, yesLabel, noLabel string) (bool, error) {
	final, err := t.run(newConfirmModel(t.backtitle, prompt, yesLabel, noLabel))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.outcome == interrupted {
		t.interrupt()
		return false, ErrInterrupted
	}
	return m.answer(), nil
}

func (t *Terminal) Message(text string) error {
	final, err := t.run(messageModel{backtitle: t.backtitle, text: text})
	if err != nil {
		return err
	}
	if final.(messageModel).outcome == interrupted {
		t.interrupt()
		return ErrInterrupted
	}
	return nil
}

func (t *Terminal) Info(text string) {
	fmt.Fprint(t.out, frame(t.backtitle, text))
}

// Gauge starts a progress program in the background. Ctrl+C closes it and
// triggers the interrupt callback so the running transfer can be cancelled.
func (t *Terminal) Gauge(title string) Gauge {
	p := t.program(newGaugeModel(t.backtitle, title, t.interrupt))
	exited := make(chan struct{})
	g := newTerminalGauge(p.Send, exited)
	go func() {
		defer close(exited)
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "progress display failed: %v\n", err)
		}
	}()
	return g
}

var _ Dialog = (*Terminal)(nil)
