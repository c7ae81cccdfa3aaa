// Package dialog provides the modal terminal prompts used to drive zinc:
// menus, checklists, yes/no questions, message boxes and a progress gauge.
package dialog

import "errors"

// ErrInterrupted is returned by a prompt dismissed with Ctrl+C.
var ErrInterrupted = errors.New("interrupted")

// Item is one row of a checklist. Tag identifies the row in the result.
type Item struct {
	Tag    string
	Label  string
	Detail string
}

// Dialog is the set of prompts the application needs. Every prompt blocks
// until the user answers, except Info and Gauge.
type Dialog interface {
	// Menu returns the chosen entry, or ok=false when the user cancelled.
	Menu(title string, choices []string, cancelLabel string) (choice string, ok bool, err error)
	// MultiSelect returns the tags of the checked items in display order.
	MultiSelect(title string, items []Item) (tags []string, ok bool, err error)
	Confirm(prompt, yesLabel, noLabel string) (bool, error)
	Message(text string) error
	// Info shows text without waiting for input.
	Info(text string)
	// Gauge opens a progress display that stays up until Done is called.
	Gauge(title string) Gauge
}

// Gauge shows progress of a single long operation.
type Gauge interface {
	// Update sets the completion percentage. A negative value means the
	// total is unknown.
	Update(percent int)
	Done()
}
