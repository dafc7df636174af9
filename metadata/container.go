package metadata

import (
	"fmt"
	"sync"
)

// ConfigService is the container id the map builder reads the application
// configuration from.
const ConfigService = "config"

// Container is the boundary between the map builder and the hosting
// application's service wiring. Any dependency injection container can be
// adapted to it; the builder only ever pulls services, never registers them.
type Container interface {
	// Has reports whether a service is registered under the given id.
	Has(id string) bool

	// Get returns the service registered under the given id.
	Get(id string) (interface{}, error)
}

// ServiceContainer is a minimal map-backed Container for applications that
// do not carry a dependency injection framework. It is safe for concurrent
// use.
type ServiceContainer struct {
	mu       sync.RWMutex
	services map[string]interface{}
}

// NewServiceContainer returns an empty service container.
func NewServiceContainer() *ServiceContainer {
	return &ServiceContainer{
		services: make(map[string]interface{}),
	}
}

// Set registers a service under the given id, replacing any existing entry.
func (c *ServiceContainer) Set(id string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[id] = service
}

// Has reports whether a service is registered under the given id.
func (c *ServiceContainer) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.services[id]
	return ok
}

// Get returns the service registered under the given id.
func (c *ServiceContainer) Get(id string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	service, ok := c.services[id]
	if !ok {
		return nil, fmt.Errorf("service %q not found in container", id)
	}
	return service, nil
}
