package session

import "sync"

// Registry keeps one Orchestrator per user.
type Registry struct {
	build func(user string) *Orchestrator

	mu    sync.Mutex
	users map[string]*Orchestrator
}

// NewRegistry creates a Registry that calls build for unseen users.
func NewRegistry(build func(user string) *Orchestrator) *Registry {
	return &Registry{build: build, users: make(map[string]*Orchestrator)}
}

// Get returns the orchestrator of user, creating it on first use.
func (r *Registry) Get(user string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.users[user]
	if !ok {
		o = r.build(user)
		r.users[user] = o
	}
	return o
}

// Drop forgets the orchestrator of user, e.g. after its data is cleared.
func (r *Registry) Drop(user string) {
	r.mu.Lock()
	delete(r.users, user)
	r.mu.Unlock()
}
