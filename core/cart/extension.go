package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrDuplicateExtension is returned when registering two extensions with the same name.
var ErrDuplicateExtension = errors.New("cart: extension already registered")

// ItemExtension decorates cart lines with opaque payloads at a defined
// extension point, replacing ad hoc property merging. Apply receives the
// item after it is added to a cart and may set Extensions[Name()].
type ItemExtension interface {
	Name() string
	Apply(ctx context.Context, item *Item) error
}

// ExtensionRegistry holds a named, ordered set of item extensions.
// Extensions run in registration order, which makes decoration deterministic.
type ExtensionRegistry struct {
	mu   sync.RWMutex
	exts []ItemExtension
}

// NewExtensionRegistry creates an empty registry.
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{}
}

// Register adds an extension. Names must be unique.
func (r *ExtensionRegistry) Register(ext ItemExtension) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.exts {
		if existing.Name() == ext.Name() {
			return errors.Join(ErrDuplicateExtension, errors.New(ext.Name()))
		}
	}
	r.exts = append(r.exts, ext)
	return nil
}

// Apply runs all registered extensions against the item in registration
// order. The first extension error aborts the chain.
func (r *ExtensionRegistry) Apply(ctx context.Context, item *Item) error {
	r.mu.RLock()
	exts := r.exts
	r.mu.RUnlock()

	for _, ext := range exts {
		if err := ext.Apply(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
