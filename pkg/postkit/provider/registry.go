package provider

import (
	"fmt"
	"strings"
	"sync"

	"github.com/postforge/postforge/pkg/postkit/config"
	pkerrors "github.com/postforge/postforge/pkg/postkit/errors"
)

// Registry manages the available provider factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// globalRegistry holds the factories registered by this package
var globalRegistry = NewRegistry()

func init() {
	// Built-in providers. Registration cannot collide at init time.
	globalRegistry.MustRegister(&OpenAIFactory{})
	globalRegistry.MustRegister(&GeminiFactory{})
	globalRegistry.MustRegister(&AnthropicFactory{})
}

// NewRegistry creates an empty provider registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a provider factory to the registry under its name and aliases
func (r *Registry) Register(factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := factory.Name()
	if name == "" {
		return pkerrors.New("registry", "register",
			fmt.Errorf("provider factory name cannot be empty"))
	}

	ids := append([]string{name}, factory.Aliases()...)
	for _, id := range ids {
		if _, exists := r.factories[id]; exists {
			return pkerrors.New("registry", "register",
				fmt.Errorf("provider factory %q already registered", id))
		}
	}

	for _, id := range ids {
		r.factories[id] = factory
	}

	return nil
}

// MustRegister registers a factory and panics on conflict
func (r *Registry) MustRegister(factory Factory) {
	if err := r.Register(factory); err != nil {
		panic(err)
	}
}

// Lookup returns a provider factory by id. Unknown ids are a
// configuration error, surfaced before any request is processed.
func (r *Registry) Lookup(id string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[strings.ToLower(strings.TrimSpace(id))]
	if !exists {
		return nil, pkerrors.New("registry", "lookup",
			fmt.Errorf("%w: %q (available: %s)", pkerrors.ErrUnknownProvider, id,
				strings.Join(r.idsLocked(), ", ")))
	}

	return factory, nil
}

// Available returns the sorted-insensitive list of registered provider ids
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idsLocked()
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	return ids
}

// Lookup returns a factory from the global registry
func Lookup(id string) (Factory, error) {
	return globalRegistry.Lookup(id)
}

// Available returns provider ids from the global registry
func Available() []string {
	return globalRegistry.Available()
}

// IsAvailable checks whether a provider id is registered
func IsAvailable(id string) bool {
	_, err := globalRegistry.Lookup(id)
	return err == nil
}

// Create resolves a factory by id and builds a provider from cfg
func Create(id string, cfg config.Config) (Provider, error) {
	factory, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return factory.Create(cfg)
}
