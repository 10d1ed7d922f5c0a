package checkpoint

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
)

// levelBackend stores snapshots in a goleveldb directory. Lighter on
// file descriptors than pebble; the default for single-node setups.
type levelBackend struct {
	db   *leveldb.DB
	open int64
}

func newLevelDBBackend(cfg *Config) (Backend, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("checkpoint: leveldb backend needs a path")
	}
	db, err := leveldb.OpenFile(cfg.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open leveldb at %s: %w", cfg.Path, err)
	}
	return &levelBackend{db: db, open: 1}, nil
}

func (l *levelBackend) Get(key []byte) ([]byte, error) {
	if atomic.LoadInt64(&l.open) == 0 {
		return nil, ErrClosed
	}
	value, err := l.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (l *levelBackend) Put(key, value []byte) error {
	if atomic.LoadInt64(&l.open) == 0 {
		return ErrClosed
	}
	return l.db.Put(key, value, nil)
}

func (l *levelBackend) Delete(key []byte) error {
	if atomic.LoadInt64(&l.open) == 0 {
		return ErrClosed
	}
	return l.db.Delete(key, nil)
}

func (l *levelBackend) Close() error {
	if !atomic.CompareAndSwapInt64(&l.open, 1, 0) {
		return nil
	}
	return l.db.Close()
}
