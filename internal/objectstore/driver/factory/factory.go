// Package factory mirrors the teacher's registry/storage/driver/factory:
// a name-keyed registry of storage driver constructors, populated by each
// backend's init() via a blank import, so a driver can be constructed from
// a name string without a compile-time dependency on any concrete backend.
// scope.json has no driver setting: engine opens every scope with the
// filesystem driver directly.
package factory

import (
	"fmt"
	"sync"

	"github.com/scopeengine/core/internal/objectstore/driver"
)

// Constructor builds a driver.StorageDriver from a backend-specific
// parameter bag. Parameter keys and meaning vary by driver.
type Constructor func(parameters map[string]any) (driver.StorageDriver, error)

var (
	mu           sync.RWMutex
	constructors = map[string]Constructor{}
)

// Register makes a storage driver available by name. Panics on a duplicate
// registration or a nil constructor — both are programmer errors caught at
// init time, never at runtime with live data.
func Register(name string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if ctor == nil {
		panic("factory: nil constructor for " + name)
	}
	if _, exists := constructors[name]; exists {
		panic("factory: driver already registered: " + name)
	}
	constructors[name] = ctor
}

// Create builds the named driver with the given parameters.
func Create(name string, parameters map[string]any) (driver.StorageDriver, error) {
	mu.RLock()
	ctor, ok := constructors[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("factory: no storage driver registered for %q", name)
	}
	return ctor(parameters)
}
