// Package instances holds the persisted, ordered list of dashboard shortcuts.
package instances

import (
	"tiles-cli/internal/model"
	"tiles-cli/internal/store"
)

// Registry is an ordered collection of instances mirrored into local storage under "instances".
//
// Ids are assigned by callers and are never checked for uniqueness.
type Registry struct {
	p *store.Persisted[[]model.Instance]
}

func Open(backend store.Backend) (*Registry, error) {
	p, err := store.NewPersisted(backend, store.KeyInstances, []model.Instance{},
		store.WithValidator(func(list []model.Instance) bool { return list != nil }))
	if err != nil {
		return nil, err
	}
	return &Registry{p: p}, nil
}

// Add appends inst to the end of the list.
func (r *Registry) Add(inst model.Instance) error {
	return r.p.Update(func(cur []model.Instance) []model.Instance {
		out := make([]model.Instance, 0, len(cur)+1)
		out = append(out, cur...)
		return append(out, inst)
	})
}

// Update replaces every instance with the given id by updated, keeping id even when updated.ID differs.
// Nothing happens to the list when no instance matches.
func (r *Registry) Update(id string, updated model.Instance) error {
	return r.p.Update(func(cur []model.Instance) []model.Instance {
		out := make([]model.Instance, len(cur))
		for i, inst := range cur {
			if inst.ID == id {
				inst = updated
				inst.ID = id
			}
			out[i] = inst
		}
		return out
	})
}

// Remove drops every instance with the given id.
func (r *Registry) Remove(id string) error {
	return r.p.Update(func(cur []model.Instance) []model.Instance {
		out := make([]model.Instance, 0, len(cur))
		for _, inst := range cur {
			if inst.ID != id {
				out = append(out, inst)
			}
		}
		return out
	})
}

// List returns a copy of the current list.
func (r *Registry) List() []model.Instance {
	cur := r.p.Get()
	out := make([]model.Instance, len(cur))
	copy(out, cur)
	return out
}

// Find returns the first instance with the given id.
func (r *Registry) Find(id string) (model.Instance, bool) {
	for _, inst := range r.p.Get() {
		if inst.ID == id {
			return inst, true
		}
	}
	return model.Instance{}, false
}

// Subscribe calls fn with the current list and again after every change.
// fn must not modify the slice it receives.
func (r *Registry) Subscribe(fn func([]model.Instance)) func() {
	return r.p.Subscribe(fn)
}

// Reload picks up changes written by another process.
func (r *Registry) Reload() (bool, error) {
	return r.p.Reload()
}
