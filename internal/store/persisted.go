package store

import (
	"context"
	"encoding/json"
	"fmt"

	"tiles-cli/internal/reactive"
)

// Persisted mirrors a reactive value into a single named slot of a Backend.
//
// The slot is read once when the Persisted is created; every Set/Update writes the whole value
// back before subscribers are notified.
type Persisted[T any] struct {
	key     string
	backend Backend
	initial T
	valid   func(T) bool

	w      *reactive.Writable[T]
	stored bool
	// raw is the last JSON seen in (or written to) the backend. Guarded by w's lock.
	raw string
}

type PersistedOption[T any] func(*Persisted[T])

// WithValidator treats stored values rejected by valid as absent.
func WithValidator[T any](valid func(T) bool) PersistedOption[T] {
	return func(p *Persisted[T]) { p.valid = valid }
}

func NewPersisted[T any](backend Backend, key string, initial T, opts ...PersistedOption[T]) (*Persisted[T], error) {
	p := &Persisted[T]{key: key, backend: backend, initial: initial}
	for _, opt := range opts {
		opt(p)
	}

	raw, ok, err := backend.GetItem(context.Background(), key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	v := initial
	if ok {
		if decoded, good := p.decode(raw); good {
			v = decoded
			p.stored = true
			p.raw = raw
		}
	}
	p.w = reactive.NewWritable(v)
	return p, nil
}

// decode is best effort: invalid JSON or a rejected value means "not stored".
func (p *Persisted[T]) decode(raw string) (T, bool) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return p.initial, false
	}
	if p.valid != nil && !p.valid(v) {
		return p.initial, false
	}
	return v, true
}

func (p *Persisted[T]) Key() string { return p.key }

// Stored reports whether the initial value was restored from the backend.
func (p *Persisted[T]) Stored() bool { return p.stored }

func (p *Persisted[T]) Get() T { return p.w.Get() }

func (p *Persisted[T]) Subscribe(fn func(T)) func() { return p.w.Subscribe(fn) }

func (p *Persisted[T]) Set(v T) error {
	return p.Update(func(T) T { return v })
}

// Update applies fn, writes the result, then notifies subscribers.
// The in-memory value changes even when the write fails; the write error is returned.
func (p *Persisted[T]) Update(fn func(T) T) error {
	var werr error
	p.w.Update(func(cur T) T {
		next := fn(cur)
		werr = p.writeLocked(next)
		return next
	})
	return werr
}

func (p *Persisted[T]) writeLocked(v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p.key, err)
	}
	if err := p.backend.SetItem(context.Background(), p.key, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", p.key, err)
	}
	p.raw = string(b)
	return nil
}

// Reload re-reads the slot and publishes the value when another process changed it.
// A missing or undecodable slot is left alone.
func (p *Persisted[T]) Reload() (bool, error) {
	return p.ReloadFunc(nil)
}

// ReloadFunc is Reload with a hook that receives a changed value before subscribers do.
func (p *Persisted[T]) ReloadFunc(before func(T)) (bool, error) {
	raw, ok, err := p.backend.GetItem(context.Background(), p.key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p.key, err)
	}
	if !ok {
		return false, nil
	}
	_, changed := p.w.Mutate(func(cur T) (T, bool) {
		if raw == p.raw {
			return cur, false
		}
		v, good := p.decode(raw)
		if !good {
			return cur, false
		}
		p.raw = raw
		if before != nil {
			before(v)
		}
		return v, true
	})
	return changed, nil
}
