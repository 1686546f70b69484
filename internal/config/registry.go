package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/provider/shelf"
)

// ErrCollaboratorNotRegistered is returned by Create* methods when no factory
// has been registered under the requested name.
var ErrCollaboratorNotRegistered = errors.New("config: collaborator not registered")

// Registry maps collaborator names to their constructor functions. It is safe
// for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	classify map[string]func(CollaboratorEntry) (classify.Provider, error)
	shelf    map[string]func(ShelfEntry) (shelf.Advisor, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		classify: make(map[string]func(CollaboratorEntry) (classify.Provider, error)),
		shelf:    make(map[string]func(ShelfEntry) (shelf.Advisor, error)),
	}
}

// RegisterClassify registers a classification collaborator factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterClassify(name string, factory func(CollaboratorEntry) (classify.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classify[name] = factory
}

// RegisterShelf registers a shelf advisor factory under name.
func (r *Registry) RegisterShelf(name string, factory func(ShelfEntry) (shelf.Advisor, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shelf[name] = factory
}

// CreateClassify instantiates a classification collaborator using the factory
// registered under entry.Name. Returns [ErrCollaboratorNotRegistered] if no
// factory has been registered for that name.
func (r *Registry) CreateClassify(entry CollaboratorEntry) (classify.Provider, error) {
	r.mu.RLock()
	factory, ok := r.classify[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: classify/%q", ErrCollaboratorNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateShelf instantiates a shelf advisor using the factory registered under
// entry.Name.
func (r *Registry) CreateShelf(entry ShelfEntry) (shelf.Advisor, error) {
	r.mu.RLock()
	factory, ok := r.shelf[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: shelf/%q", ErrCollaboratorNotRegistered, entry.Name)
	}
	return factory(entry)
}
