// file: internal/menu/menu.go
// version: 1.1.0
// guid: 9ae99100-dcfc-4b82-9e26-6903e84abb18

// Package menu models the category mega-menu hover behavior. The header
// panel and the category strip share one machine, parameterized by the
// category under the pointer. Mouse-leave is authoritative for closing;
// the machine never depends on focus.
package menu

import "sync"

// Machine is the hover state machine: closed, or open with an optional
// highlighted category.
type Machine struct {
	mu         sync.Mutex
	open       bool
	categoryID string
}

// NewMachine returns a machine in the closed state.
func NewMachine() *Machine {
	return &Machine{}
}

// Enter handles mouse-enter on the categories trigger: the panel opens
// with no highlighted category.
func (m *Machine) Enter() {
	m.mu.Lock()
	m.open = true
	m.categoryID = ""
	m.mu.Unlock()
}

// EnterCategory handles mouse-enter on a category row inside the panel.
func (m *Machine) EnterCategory(id string) {
	m.mu.Lock()
	m.open = true
	m.categoryID = id
	m.mu.Unlock()
}

// Leave handles mouse-leave from the panel: the menu closes regardless
// of any highlighted row.
func (m *Machine) Leave() {
	m.close()
}

// Escape closes the menu on the Escape key.
func (m *Machine) Escape() {
	m.close()
}

// Select handles a click on a category: the menu closes and the
// navigation target value (slug or name) is returned for the caller to
// route.
func (m *Machine) Select(link string) string {
	m.close()
	return link
}

func (m *Machine) close() {
	m.mu.Lock()
	m.open = false
	m.categoryID = ""
	m.mu.Unlock()
}

// State reports whether the panel is open and which category is
// highlighted, empty when none.
func (m *Machine) State() (open bool, categoryID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open, m.categoryID
}
