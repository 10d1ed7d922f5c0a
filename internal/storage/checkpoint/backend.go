// Package checkpoint persists full ledger state snapshots at close
// boundaries so a node can resume from its last close instead of
// replaying history.
package checkpoint

import (
	"errors"
	"fmt"
	"sync"
)

// Backend is the key-value storage a Store writes snapshots through.
type Backend interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Close() error
}

var (
	// ErrNotFound is returned when a key or snapshot does not exist.
	ErrNotFound = errors.New("checkpoint: not found")

	// ErrClosed is returned when using a backend after Close.
	ErrClosed = errors.New("checkpoint: backend closed")
)

// Config carries backend settings.
type Config struct {
	Path string
}

// BackendFactory creates a backend instance.
type BackendFactory func(cfg *Config) (Backend, error)

var (
	backendMu        sync.RWMutex
	backendFactories = make(map[string]BackendFactory)
)

// RegisterBackend registers a backend factory under a name.
func RegisterBackend(name string, factory BackendFactory) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backendFactories[name] = factory
}

// CreateBackend instantiates the named backend.
func CreateBackend(name string, cfg *Config) (Backend, error) {
	backendMu.RLock()
	factory, ok := backendFactories[name]
	backendMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("checkpoint: unknown backend %q", name)
	}
	return factory(cfg)
}

// AvailableBackends returns the registered backend names.
func AvailableBackends() []string {
	backendMu.RLock()
	defer backendMu.RUnlock()

	names := make([]string, 0, len(backendFactories))
	for name := range backendFactories {
		names = append(names, name)
	}
	return names
}

func init() {
	RegisterBackend("pebble", newPebbleBackend)
	RegisterBackend("leveldb", newLevelDBBackend)
}
