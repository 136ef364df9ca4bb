package params

import "sync/atomic"

// Store owns the authoritative snapshot. A reload builds a fully validated
// replacement value and swaps the handle atomically, so a consumer that
// grabbed a snapshot never observes a mix of fields from two documents.
// Published snapshots are read-only.
//
// The store itself does no concurrent work; Reload is expected to be called
// from a single control thread while any number of workers call Snapshot.
type Store struct {
	cur atomic.Pointer[Params]
}

// NewStore returns a store seeded with the compiled-in defaults.
func NewStore() *Store {
	s := &Store{}
	p := Default()
	s.cur.Store(&p)
	return s
}

// Snapshot returns the currently published snapshot. Callers must treat the
// pointed-to value as immutable; a later Reload replaces the handle, never
// the value behind it.
func (s *Store) Snapshot() *Params {
	return s.cur.Load()
}

// Reload parses data, hands the outgoing snapshot to the normalization hook,
// and publishes the result. On failure the previously published snapshot
// stays in effect and the error is returned to the caller; falling back to
// defaults on a malformed document is the embedding process's decision, not
// the store's.
func (s *Store) Reload(data []byte) (*Params, error) {
	p, err := load(data, s.cur.Load())
	if err != nil {
		return nil, err
	}
	s.cur.Store(&p)
	return &p, nil
}
