package suggest

import "sync"

// EscapeResult tells the host what Escape did.
type EscapeResult int

const (
	// EscapeClearInput means the input should be cleared and quick prompts
	// shown again.
	EscapeClearInput EscapeResult = iota
	// EscapeHide means the list was hidden.
	EscapeHide
)

// Navigator is the selection state over the shown list. Index -1 means
// nothing is selected and the raw input text is authoritative.
type Navigator struct {
	mu     sync.Mutex
	items  []Suggestion
	index  int
	edited bool
}

// NewNavigator returns a navigator with nothing shown.
func NewNavigator() *Navigator {
	return &Navigator{index: -1}
}

// Show replaces the list and clears the selection. edited records whether
// the user typed since quick prompts were shown.
func (n *Navigator) Show(items []Suggestion, edited bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append([]Suggestion(nil), items...)
	n.index = -1
	n.edited = edited
}

// MarkEdited records a manual edit.
func (n *Navigator) MarkEdited() {
	n.mu.Lock()
	n.edited = true
	n.mu.Unlock()
}

// Down moves the selection one row down, stopping at the last row.
func (n *Navigator) Down() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index < len(n.items)-1 {
		n.index++
	}
	return n.index
}

// Up moves the selection one row up, stopping at -1.
func (n *Navigator) Up() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index > -1 {
		n.index--
	}
	return n.index
}

// Hover selects row i. Out-of-range rows are ignored.
func (n *Navigator) Hover(i int) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i >= 0 && i < len(n.items) {
		n.index = i
	}
	return n.index
}

// MouseLeave resets the selection when the pointer leaves the list, unless
// the user has typed since quick prompts were shown.
func (n *Navigator) MouseLeave() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.edited {
		n.index = -1
	}
	return n.index
}

// Escape clears non-empty input, or hides the list when the input is
// already empty.
func (n *Navigator) Escape(inputEmpty bool) EscapeResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.index = -1
	if !inputEmpty {
		return EscapeClearInput
	}
	n.items = nil
	return EscapeHide
}

// Selected returns the selected row, if any.
func (n *Navigator) Selected() (Suggestion, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index < 0 || n.index >= len(n.items) {
		return Suggestion{}, false
	}
	return n.items[n.index], true
}

func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// Items returns a copy of the shown list.
func (n *Navigator) Items() []Suggestion {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Suggestion(nil), n.items...)
}

// Visible reports whether any rows are shown.
func (n *Navigator) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items) > 0
}
