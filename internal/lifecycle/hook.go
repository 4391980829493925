package lifecycle

import "sync"

// Hook runs a shutdown action at most once, however many times Run is
// called and from however many goroutines.
type Hook struct {
	once sync.Once
	fn   func()
}

// NewHook wraps fn.
func NewHook(fn func()) *Hook {
	return &Hook{fn: fn}
}

// Run executes the action on the first call. Concurrent callers block until
// that first execution has finished.
func (h *Hook) Run() {
	h.once.Do(h.fn)
}
