package web

import (
	"sync"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/navigation"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// Window is an open utility window
type Window struct {
	id        id.WindowID
	title     string
	resizable bool
	style     string
	rendered  types.Rendered
	presenter *Presenter
}

// WindowSnapshot describes an open window
type WindowSnapshot struct {
	ID        id.WindowID    `json:"id"`
	Title     string         `json:"title"`
	Resizable bool           `json:"resizable"`
	Style     string         `json:"style"`
	Content   types.Rendered `json:"content"`
}

// ID returns the window identifier
func (w *Window) ID() id.WindowID {
	return w.id
}

// Close removes the window from the presenter. Closing twice is a no-op.
func (w *Window) Close() error {
	w.presenter.removeWindow(w.id)
	return nil
}

func (w *Window) snapshot() WindowSnapshot {
	return WindowSnapshot{
		ID:        w.id,
		Title:     w.title,
		Resizable: w.resizable,
		Style:     w.style,
		Content:   w.rendered,
	}
}

// ItemList is a container accepting subviews
type ItemList struct {
	id    string
	mu    sync.Mutex
	items []navigation.Item
}

var _ navigation.ItemList = (*ItemList)(nil)

// ID returns the list name
func (l *ItemList) ID() string {
	return l.id
}

// AppendItem adds item at the end of the list
func (l *ItemList) AppendItem(item navigation.Item) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
	return nil
}

// Items returns a copy of the list contents
func (l *ItemList) Items() []navigation.Item {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]navigation.Item, len(l.items))
	copy(out, l.items)
	return out
}

// Pane is a plain container; it does not accept subviews
type Pane struct {
	id string
}

// ID returns the pane name
func (p *Pane) ID() string {
	return p.id
}
