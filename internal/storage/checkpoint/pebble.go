package checkpoint

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
)

// pebbleBackend stores snapshots in a PebbleDB directory.
type pebbleBackend struct {
	db   *pebble.DB
	open int64
}

func newPebbleBackend(cfg *Config) (Backend, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("checkpoint: pebble backend needs a path")
	}
	db, err := pebble.Open(cfg.Path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open pebble at %s: %w", cfg.Path, err)
	}
	return &pebbleBackend{db: db, open: 1}, nil
}

func (p *pebbleBackend) Get(key []byte) ([]byte, error) {
	if atomic.LoadInt64(&p.open) == 0 {
		return nil, ErrClosed
	}
	value, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := make([]byte, len(value))
	copy(out, value)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *pebbleBackend) Put(key, value []byte) error {
	if atomic.LoadInt64(&p.open) == 0 {
		return ErrClosed
	}
	return p.db.Set(key, value, pebble.Sync)
}

func (p *pebbleBackend) Delete(key []byte) error {
	if atomic.LoadInt64(&p.open) == 0 {
		return ErrClosed
	}
	return p.db.Delete(key, pebble.Sync)
}

func (p *pebbleBackend) Close() error {
	if !atomic.CompareAndSwapInt64(&p.open, 1, 0) {
		return nil
	}
	return p.db.Close()
}
