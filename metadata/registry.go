package metadata

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the metadata variants a map builder understands: the kind
// table mapping "__class__" discriminators to prototype records, and the
// factory table mapping the same discriminators to their default factories.
//
// A registry is explicit process state. Construct one at startup, register
// any custom variants, and pass it to the builders that need it; there is
// no ambient global registry.
type Registry struct {
	mu        sync.RWMutex
	kinds     map[string]interface{}
	factories map[string]Factory
}

// NewRegistry returns a registry pre-populated with the four built-in
// variants and their factories.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()

	r.RegisterType(TypeURLBasedResource, &URLBasedResourceMetadata{})
	r.RegisterType(TypeURLBasedCollection, &URLBasedCollectionMetadata{})
	r.RegisterType(TypeRouteBasedResource, &RouteBasedResourceMetadata{})
	r.RegisterType(TypeRouteBasedCollection, &RouteBasedCollectionMetadata{})

	r.RegisterFactory(TypeURLBasedResource, FactoryFunc(CreateURLBasedResourceMetadata))
	r.RegisterFactory(TypeURLBasedCollection, FactoryFunc(CreateURLBasedCollectionMetadata))
	r.RegisterFactory(TypeRouteBasedResource, FactoryFunc(CreateRouteBasedResourceMetadata))
	r.RegisterFactory(TypeRouteBasedCollection, FactoryFunc(CreateRouteBasedCollectionMetadata))

	return r
}

// NewEmptyRegistry returns a registry with no variants registered, for
// consumers that replace the built-in set entirely.
func NewEmptyRegistry() *Registry {
	return &Registry{
		kinds:     make(map[string]interface{}),
		factories: make(map[string]Factory),
	}
}

// RegisterType admits a variant name into the kind table. The prototype is
// the value the builder checks against the Metadata interface before
// compiling entries of this kind; registering a prototype that does not
// implement Metadata makes every configuration entry of that kind fail
// with a build error rather than at first use.
//
// Registering a name twice replaces the earlier prototype.
func (r *Registry) RegisterType(name string, prototype interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[name] = prototype
}

// RegisterFactory sets the default factory for a variant name, replacing
// any earlier registration. Panics if factory is nil.
func (r *Registry) RegisterFactory(name string, factory Factory) {
	if factory == nil {
		panic("metadata: nil factory registered for " + name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// HasType reports whether a variant name is registered in the kind table.
func (r *Registry) HasType(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.kinds[name]
	return ok
}

// Types returns the registered variant names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// prototype returns the kind table entry for a variant name.
func (r *Registry) prototype(name string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	proto, ok := r.kinds[name]
	return proto, ok
}

// factory returns the default factory for a variant name.
func (r *Registry) factory(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// ResolveFactory returns the factory to use for a variant name. The
// configured overrides win over the registry's default table: an override
// may be a Factory value, a plain function with the FactoryFunc signature,
// or a string naming a container service that resolves to either. A name
// with no override and no default registration is a configuration error.
func (r *Registry) ResolveFactory(ctn Container, name string, overrides map[string]interface{}) (Factory, error) {
	if raw, ok := overrides[name]; ok {
		return resolveFactoryOverride(ctn, raw)
	}
	if f, ok := r.factory(name); ok {
		return f, nil
	}
	return nil, invalidConfigf("no factory configured for metadata of type %q; please provide a factory in your configuration", name)
}

// resolveFactoryOverride coerces a configured factory override into a
// Factory, consulting the container when the override is a service id.
func resolveFactoryOverride(ctn Container, raw interface{}) (Factory, error) {
	if f, ok := coerceFactory(raw); ok {
		return f, nil
	}
	id, ok := raw.(string)
	if !ok {
		return nil, invalidConfigf("%q is not a valid metadata factory class; does not implement Factory", fmt.Sprintf("%T", raw))
	}
	if ctn == nil || !ctn.Has(id) {
		return nil, invalidConfigf("%q is not a valid metadata factory class; does not implement Factory", id)
	}
	service, err := ctn.Get(id)
	if err != nil {
		return nil, invalidConfigf("%q is not a valid metadata factory class; does not implement Factory", id)
	}
	f, ok := coerceFactory(service)
	if !ok {
		return nil, invalidConfigf("%q is not a valid metadata factory class; does not implement Factory", id)
	}
	return f, nil
}

// coerceFactory accepts the shapes a factory may take in configuration: a
// Factory implementation or a plain function with the FactoryFunc
// signature. A plain function's dynamic type never asserts to the named
// FactoryFunc type, so both shapes are checked.
func coerceFactory(v interface{}) (Factory, bool) {
	switch f := v.(type) {
	case Factory:
		return f, true
	case func(Container, string, map[string]interface{}) (Metadata, error):
		return FactoryFunc(f), true
	}
	return nil, false
}
