package tiles

import (
	"errors"
	"sync"
)

type memoEntry struct {
	tc  TileConfig
	err error
}

// Memo caches Policy.Select per KernelShapeConfig. Dispatch sites see the same
// few shapes repeatedly; since the policy is pure, budget failures are cached
// as well. Configs that fail validation are never cached. Safe for concurrent use.
type Memo struct {
	policy     Policy
	maxEntries int // 0 = unbounded

	mu      sync.RWMutex
	entries map[KernelShapeConfig]memoEntry
}

// NewMemo returns an unbounded cache in front of policy.
func NewMemo(policy Policy) *Memo {
	return NewBoundedMemo(policy, 0)
}

// NewBoundedMemo returns a cache holding at most maxEntries configurations.
// Once full, further configurations are computed on every call.
func NewBoundedMemo(policy Policy, maxEntries int) *Memo {
	return &Memo{
		policy:     policy,
		maxEntries: maxEntries,
		entries:    make(map[KernelShapeConfig]memoEntry),
	}
}

// Select returns the cached selection for cfg, computing it on first use.
func (m *Memo) Select(cfg KernelShapeConfig) (TileConfig, error) {
	m.mu.RLock()
	e, ok := m.entries[cfg]
	m.mu.RUnlock()
	if ok {
		return e.tc, e.err
	}

	tc, err := m.policy.Select(cfg)
	if errors.Is(err, ErrInvalidConfiguration) {
		return tc, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxEntries <= 0 || len(m.entries) < m.maxEntries {
		m.entries[cfg] = memoEntry{tc: tc, err: err}
	}
	return tc, err
}

// Len returns the number of cached configurations.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
