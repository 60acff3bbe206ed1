package hotkey

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Callback runs when a registered combination is pressed. It is invoked on
// the binder's own thread; callbacks must marshal work back themselves.
type Callback func()

// Binder is the OS-level global hotkey backend, treated as an external
// collaborator.
type Binder interface {
	Bind(combo string, cb Callback) error
	Unbind(combo string) error
}

// NopBinder accepts every binding without registering anything with the OS.
// Used for debug mode and for platforms without a global hotkey backend.
type NopBinder struct{}

func (NopBinder) Bind(string, Callback) error { return nil }
func (NopBinder) Unbind(string) error         { return nil }

// Manager registers global key combinations. A failed registration is logged
// and the application continues without that binding.
type Manager struct {
	binder Binder
	log    *zap.SugaredLogger

	mu    sync.Mutex
	bound map[string]Callback
}

// NewManager wires the manager to a binder. debug keeps bindings local,
// mirroring the DEBUG_HOTKEYS escape hatch of the desktop original.
func NewManager(binder Binder, debug bool, log *zap.SugaredLogger) *Manager {
	if debug {
		binder = NopBinder{}
		log.Infow("hotkey manager running in debug mode, bindings are not registered")
	} else {
		log.Infow("hotkey manager initialized")
	}
	return &Manager{
		binder: binder,
		log:    log,
		bound:  make(map[string]Callback),
	}
}

// Register binds a combination to a callback and reports success.
func (m *Manager) Register(combo string, cb Callback) bool {
	if err := m.binder.Bind(combo, cb); err != nil {
		m.log.Errorw("hotkey registration failed", "combo", combo, "err", err)
		return false
	}

	m.mu.Lock()
	m.bound[combo] = cb
	m.mu.Unlock()

	m.log.Infow("hotkey registered", "combo", combo)
	return true
}

// Unregister removes one binding.
func (m *Manager) Unregister(combo string) bool {
	m.mu.Lock()
	_, ok := m.bound[combo]
	delete(m.bound, combo)
	m.mu.Unlock()
	if !ok {
		return false
	}

	if err := m.binder.Unbind(combo); err != nil {
		m.log.Errorw("hotkey unregistration failed", "combo", combo, "err", err)
		return false
	}
	return true
}

// Registered lists the bound combinations, sorted.
func (m *Manager) Registered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	combos := make([]string, 0, len(m.bound))
	for combo := range m.bound {
		combos = append(combos, combo)
	}
	sort.Strings(combos)
	return combos
}

// Close unbinds everything. Part of graceful shutdown.
func (m *Manager) Close() {
	for _, combo := range m.Registered() {
		m.Unregister(combo)
	}
	m.log.Infow("hotkey manager stopped")
}
