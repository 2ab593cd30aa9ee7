package theme

import "sync"

// Handler is called with the new theme after a change.
type Handler func(Theme)

// Notifier holds the current theme and tells subscribers when it changes.
// It is safe for concurrent use; handlers run on the goroutine that calls Set.
type Notifier struct {
	mu       sync.Mutex
	current  Theme
	handlers map[int]Handler
	order    []int
	next     int
}

// NewNotifier starts at initial, or Default when initial is not valid.
func NewNotifier(initial Theme) *Notifier {
	if !initial.Valid() {
		initial = Default
	}
	return &Notifier{current: initial, handlers: make(map[int]Handler)}
}

// Current returns the current theme.
func (n *Notifier) Current() Theme {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// OnThemeChanged registers h and returns a function that removes it.
// Handlers are called in registration order.
func (n *Notifier) OnThemeChanged(h Handler) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.handlers[id] = h
	n.order = append(n.order, id)

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.handlers, id)
		for i, o := range n.order {
			if o == id {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
}

// Set switches to t. Handlers run only when the value actually changes; the
// return value reports whether it did. Invalid themes are ignored.
func (n *Notifier) Set(t Theme) bool {
	n.mu.Lock()
	if !t.Valid() || t == n.current {
		n.mu.Unlock()
		return false
	}
	n.current = t
	hs := make([]Handler, 0, len(n.order))
	for _, id := range n.order {
		hs = append(hs, n.handlers[id])
	}
	n.mu.Unlock()

	for _, h := range hs {
		h(t)
	}
	return true
}

// Toggle flips the theme and returns the new value.
func (n *Notifier) Toggle() Theme {
	t := n.Current().Toggle()
	n.Set(t)
	return t
}
