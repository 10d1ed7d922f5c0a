package checkpoint

import (
	"encoding/binary"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lumenforge/lumend/internal/core/ledger"
)

const defaultCacheSize = 8

var latestKey = []byte("close/latest")

// Store persists one snapshot per ledger close and remembers which
// close is the latest. Recently touched snapshots are kept decoded in
// an LRU cache so a restart followed by queries over recent closes
// does not hit the backend every time.
type Store struct {
	backend Backend
	cache   *lru.Cache[uint32, *ledger.State]
}

// Open creates a Store over the named backend.
func Open(backendName, path string) (*Store, error) {
	backend, err := CreateBackend(backendName, &Config{Path: path})
	if err != nil {
		return nil, err
	}
	return NewStore(backend)
}

// NewStore wraps an already-open backend.
func NewStore(backend Backend) (*Store, error) {
	cache, err := lru.New[uint32, *ledger.State](defaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{backend: backend, cache: cache}, nil
}

func closeKey(seq uint32) []byte {
	key := make([]byte, 6+4)
	copy(key, "close/")
	binary.BigEndian.PutUint32(key[6:], seq)
	return key
}

// Save writes the snapshot for a close and advances the latest marker.
// The state is deep-copied before caching, so the caller keeps
// ownership of what it passed in.
func (s *Store) Save(seq uint32, st *ledger.State) error {
	data, err := encodeSnapshot(snapshotFromState(seq, st))
	if err != nil {
		return err
	}
	if err := s.backend.Put(closeKey(seq), data); err != nil {
		return fmt.Errorf("checkpoint: save close %d: %w", seq, err)
	}

	latest := make([]byte, 4)
	binary.BigEndian.PutUint32(latest, seq)
	if err := s.backend.Put(latestKey, latest); err != nil {
		return fmt.Errorf("checkpoint: advance latest to %d: %w", seq, err)
	}

	s.cache.Add(seq, st.Clone())
	return nil
}

// Load returns the state at a close. The result is the caller's to
// mutate.
func (s *Store) Load(seq uint32) (*ledger.State, error) {
	if st, ok := s.cache.Get(seq); ok {
		return st.Clone(), nil
	}

	data, err := s.backend.Get(closeKey(seq))
	if err != nil {
		return nil, err
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	st, err := snap.restore()
	if err != nil {
		return nil, err
	}

	s.cache.Add(seq, st.Clone())
	return st, nil
}

// Latest returns the sequence of the most recent saved close. ok is
// false for an empty store.
func (s *Store) Latest() (seq uint32, ok bool, err error) {
	data, err := s.backend.Get(latestKey)
	if err != nil {
		if err == ErrNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	if len(data) != 4 {
		return 0, false, fmt.Errorf("checkpoint: corrupt latest marker (%d bytes)", len(data))
	}
	return binary.BigEndian.Uint32(data), true, nil
}

// LoadLatest restores the most recent close, or (nil, 0, nil) when the
// store is empty.
func (s *Store) LoadLatest() (*ledger.State, uint32, error) {
	seq, ok, err := s.Latest()
	if err != nil || !ok {
		return nil, 0, err
	}
	st, err := s.Load(seq)
	if err != nil {
		return nil, 0, err
	}
	return st, seq, nil
}

// Delete drops one close's snapshot.
func (s *Store) Delete(seq uint32) error {
	s.cache.Remove(seq)
	return s.backend.Delete(closeKey(seq))
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
