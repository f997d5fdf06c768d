// Package keymutex serialises operations per resource key. Keys are held for
// the lifetime of the returned context: calls made with that context (or a
// child of it) on the same key do not block and see the state committed so
// far. Waiting for a key is bounded by the mutex wait and by the caller's
// context.
package keymutex

import (
	"sync"
	"time"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/base/log"
	"github.com/x-xyz/marketplace/domain"
	"golang.org/x/xerrors"
)

const defaultWait = time.Second

type entry struct {
	// holding a slot in token is holding the key
	token chan struct{}
	ref   int
}

type KeyMutex struct {
	name  string
	wait  time.Duration
	mu    sync.Mutex
	locks map[string]*entry
}

type heldKey struct {
	m   *KeyMutex
	key string
}

type Option func(*KeyMutex)

// WithWait bounds how long Lock waits for a busy key.
func WithWait(d time.Duration) Option {
	return func(m *KeyMutex) {
		if d > 0 {
			m.wait = d
		}
	}
}

func New(name string, opts ...Option) *KeyMutex {
	m := &KeyMutex{
		name:  name,
		wait:  defaultWait,
		locks: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Held reports whether c already holds key.
func (m *KeyMutex) Held(c ctx.Ctx, key string) bool {
	if c.Context == nil {
		return false
	}
	held, _ := c.Value(heldKey{m, key}).(bool)
	return held
}

// Lock acquires key and returns the context carrying it along with the
// release func. A reentrant Lock returns c unchanged and a no-op release.
// A key still busy after the wait fails with domain.ErrEntityNotActive; a
// cancelled c fails with its error.
func (m *KeyMutex) Lock(c ctx.Ctx, key string) (ctx.Ctx, func(), error) {
	if m.Held(c, key) {
		c.WithFields(log.Fields{"mutex": m.name, "key": key}).Debug("reentrant lock")
		return c, func() {}, nil
	}

	m.mu.Lock()
	e, ok := m.locks[key]
	if !ok {
		e = &entry{token: make(chan struct{}, 1)}
		m.locks[key] = e
	}
	e.ref++
	m.mu.Unlock()

	var done <-chan struct{}
	if c.Context != nil {
		done = c.Done()
	}
	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	select {
	case e.token <- struct{}{}:
	case <-done:
		m.release(key, e)
		return c, nil, c.Err()
	case <-timer.C:
		m.release(key, e)
		c.WithFields(log.Fields{"mutex": m.name, "key": key, "wait": m.wait}).Warn("lock wait expired")
		return c, nil, xerrors.Errorf("%w: %s %s busy", domain.ErrEntityNotActive, m.name, key)
	}

	return ctx.WithMarker(c, heldKey{m, key}, true), func() {
		<-e.token
		m.release(key, e)
	}, nil
}

func (m *KeyMutex) release(key string, e *entry) {
	m.mu.Lock()
	e.ref--
	if e.ref == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()
}

// Size returns the number of keys currently locked or waited on.
func (m *KeyMutex) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
