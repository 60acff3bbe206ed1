package api

import "sync/atomic"

// CancelToken is a per-session cooperative cancellation signal. The client
// polls it once per incoming chunk; a chunk already read off the wire before
// the flag is observed is still delivered. Best effort, by contract.
type CancelToken struct {
	fired atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the flag. Safe to call from any goroutine, any number of times.
func (t *CancelToken) Cancel() {
	t.fired.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.fired.Load()
}
