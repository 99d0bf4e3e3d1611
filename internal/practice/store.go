// Package practice owns the four practice collections. Every mutation loads
// the whole collection, applies one change and writes the whole collection
// back while holding that collection's lock.
package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/logger"
	"github.com/julianstephens/sadhana/internal/storage"
)

var (
	ErrUnknownKey      = errors.New("unknown collection key")
	ErrInvalidDocument = errors.New("invalid export document")
)

// Store is the practice store. Create one per backend and share it.
type Store struct {
	backend storage.Provider
	locks   map[string]*sync.Mutex
}

func New(backend storage.Provider) *Store {
	locks := make(map[string]*sync.Mutex, len(constants.AllKeys))
	for _, key := range constants.AllKeys {
		locks[key] = &sync.Mutex{}
	}
	return &Store{backend: backend, locks: locks}
}

// Backend returns the provider the store writes through.
func (s *Store) Backend() storage.Provider {
	return s.backend
}

func (s *Store) lock(key string) (func(), error) {
	mu, ok := s.locks[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	mu.Lock()
	return mu.Unlock, nil
}

// lockAll takes every collection lock in AllKeys order.
func (s *Store) lockAll() func() {
	for _, key := range constants.AllKeys {
		s.locks[key].Lock()
	}
	return func() {
		for i := len(constants.AllKeys) - 1; i >= 0; i-- {
			s.locks[constants.AllKeys[i]].Unlock()
		}
	}
}

// element is one stored record. Elements that were read from the backend keep
// their bytes and are written back unchanged unless a field is set; ok is
// false when the bytes do not decode into T.
type element[T any] struct {
	raw json.RawMessage
	rec T
	ok  bool
	set map[string]any
}

func newElement[T any](rec T) element[T] {
	return element[T]{rec: rec, ok: true}
}

// setField overrides one top-level field when the element is written.
// Fields the record type does not know about are kept.
func (e *element[T]) setField(name string, value any) {
	if e.set == nil {
		e.set = map[string]any{}
	}
	e.set[name] = value
}

func (e element[T]) encode() (json.RawMessage, error) {
	if e.raw == nil {
		return json.Marshal(e.rec)
	}
	if len(e.set) == 0 {
		return e.raw, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	for name, value := range e.set {
		b, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[name] = b
	}
	return json.Marshal(fields)
}

// load reads the raw elements of a collection. Missing and corrupt payloads
// are empty; only a backend failure is returned.
func (s *Store) load(ctx context.Context, key string) ([]json.RawMessage, error) {
	data, err := s.backend.Read(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		if err != nil {
			logger.Warn("collection payload is corrupt, treating as empty", "key", key, "error", err)
		}
		return []json.RawMessage{}, nil
	}
	return raw, nil
}

// elements decodes every raw element, keeping the ones that do not fit T.
func elements[T any](key string, raw []json.RawMessage) []element[T] {
	out := make([]element[T], 0, len(raw))
	for i, elem := range raw {
		e := element[T]{raw: elem}
		if err := json.Unmarshal(elem, &e.rec); err != nil {
			logger.Warn("malformed record", "key", key, "index", i, "error", err)
		} else {
			e.ok = true
		}
		out = append(out, e)
	}
	return out
}

// getAll is the accessor behaviour: any failure is logged and yields an
// empty collection. Elements that do not fit T are left out of the result
// but stay in storage.
func getAll[T any](ctx context.Context, s *Store, key string) []T {
	unlock, err := s.lock(key)
	if err != nil {
		logger.Error("read of unknown collection", "key", key)
		return []T{}
	}
	defer unlock()

	raw, err := s.load(ctx, key)
	if err != nil {
		logger.Error("failed to read collection", "key", key, "error", err)
		return []T{}
	}
	records := make([]T, 0, len(raw))
	for _, e := range elements[T](key, raw) {
		if e.ok {
			records = append(records, e.rec)
		}
	}
	return records
}

func write[T any](ctx context.Context, s *Store, key string, elems []element[T]) error {
	raw := make([]json.RawMessage, 0, len(elems))
	for _, e := range elems {
		b, err := e.encode()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		raw = append(raw, b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.backend.Write(ctx, key, data); err != nil {
		logger.Error("failed to write collection", "key", key, "error", err)
		return err
	}
	return nil
}

// mutate runs one read-modify-write cycle under the key's lock. fn reports
// whether it changed anything; unchanged collections are not rewritten.
// Elements fn does not touch are written back byte for byte, including
// ones that do not decode.
//
// A backend read failure aborts the mutation rather than overwriting the
// stored collection with an empty one.
func mutate[T any](ctx context.Context, s *Store, key string, fn func([]element[T]) ([]element[T], bool)) error {
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	raw, err := s.load(ctx, key)
	if err != nil {
		logger.Error("failed to read collection before update", "key", key, "error", err)
		return fmt.Errorf("failed to read %s: %w", key, err)
	}

	updated, changed := fn(elements[T](key, raw))
	if !changed {
		return nil
	}
	if err := write(ctx, s, key, updated); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func prepend[T any](elems []element[T], rec T) []element[T] {
	return append([]element[T]{newElement(rec)}, elems...)
}

// removeWhere drops every decodable record matching match, keeping relative
// order. Malformed elements never match.
func removeWhere[T any](elems []element[T], match func(T) bool) ([]element[T], bool) {
	kept := elems[:0:0]
	for _, e := range elems {
		if !e.ok || !match(e.rec) {
			kept = append(kept, e)
		}
	}
	return kept, len(kept) != len(elems)
}
