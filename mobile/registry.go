package mobile

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ScoopDroid/signalbar/flow"
)

// Entry pairs a facade with the signal sources it reads. The sources
// are handed to the upstream providers; the facade to the observers.
type Entry struct {
	VM      *IconViewModel
	Sources *Sources
}

// Registry owns one facade per tracked identity. Each identity gets its
// own System, so facades for different identities evaluate concurrently
// with no shared mutable state.
type Registry struct {
	mu        sync.Mutex
	log       zerolog.Logger
	cfg       Config
	recorder  Recorder
	resources ResourceMapper
	entries   map[Identity]*Entry
}

type RegistryOption func(*Registry)

func WithLogger(log zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

func WithRegistryRecorder(rec Recorder) RegistryOption {
	return func(r *Registry) {
		r.recorder = rec
	}
}

func WithRegistryResources(rm ResourceMapper) RegistryOption {
	return func(r *Registry) {
		r.resources = rm
	}
}

func NewRegistry(cfg Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		log:     zerolog.Nop(),
		cfg:     cfg,
		entries: map[Identity]*Entry{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Track returns the entry for id, creating the facade on first use.
func (r *Registry) Track(id Identity) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		return e
	}

	sys := flow.NewSystem()
	src := NewSources(sys)

	var opts []Option
	if r.recorder != nil {
		opts = append(opts, WithRecorder(r.recorder))
	}
	if r.resources != nil {
		opts = append(opts, WithResources(r.resources))
	}

	e := &Entry{
		VM:      NewIconViewModel(id, sys, src, r.cfg, opts...),
		Sources: src,
	}
	r.entries[id] = e
	r.log.Info().Int("identity", int(id)).Msg("tracking subscription")
	return e
}

// Forget tears down the facade for id, if any.
func (r *Registry) Forget(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.VM.Teardown()
	delete(r.entries, id)
	r.log.Info().Int("identity", int(id)).Msg("forgetting subscription")
}

func (r *Registry) Get(id Identity) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *Registry) Identities() []Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]Identity, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
