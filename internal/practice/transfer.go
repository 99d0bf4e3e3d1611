package practice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/logger"
)

// Document is the export/backup format: one JSON object whose keys are the
// collection keys and whose values are the full record arrays.
type Document map[string]json.RawMessage

// ParseDocument decodes a backup file. Anything but a JSON object is rejected.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is null", ErrInvalidDocument)
	}
	return doc, nil
}

// MarshalIndent renders the document the way backup files are written.
func (d Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Counts returns the number of array elements under each known key. Keys that
// are missing or not arrays map to -1.
func (d Document) Counts() map[string]int {
	counts := make(map[string]int, len(constants.AllKeys))
	for _, key := range constants.AllKeys {
		var arr []json.RawMessage
		raw, ok := d[key]
		if !ok || !isArray(raw) || json.Unmarshal(raw, &arr) != nil {
			counts[key] = -1
			continue
		}
		counts[key] = len(arr)
	}
	return counts
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}

// exportKey returns a collection as stored, compacted. Elements are not
// decoded, so fields and records the store does not understand survive a
// backup.
func (s *Store) exportKey(ctx context.Context, key string) (json.RawMessage, error) {
	raw, err := s.load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return json.Marshal(raw)
}

// ExportAll snapshots all four collections. Every collection lock is held for
// the duration, so no save can land between the reads.
func (s *Store) ExportAll(ctx context.Context) (Document, error) {
	unlock := s.lockAll()
	defer unlock()

	doc := make(Document, len(constants.AllKeys))
	for _, key := range constants.AllKeys {
		data, err := s.exportKey(ctx, key)
		if err != nil {
			return nil, err
		}
		doc[key] = data
	}
	return doc, nil
}

// SkippedKey records why a collection was left untouched by an import.
type SkippedKey struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// ImportReport describes what ImportAll did with each key.
type ImportReport struct {
	Imported []string     `json:"imported"`
	Skipped  []SkippedKey `json:"skipped"`
	// Ignored lists top-level keys that are not collection keys.
	Ignored []string `json:"ignored"`
}

// ImportAll replaces each collection whose key holds a JSON array in doc.
// Missing or non-array keys are skipped and reported, never fatal. Records
// inside an array are stored as given, without validation. Write failures
// for individual keys are joined into the returned error; the remaining keys
// are still processed.
func (s *Store) ImportAll(ctx context.Context, doc Document) (ImportReport, error) {
	report := ImportReport{Imported: []string{}, Skipped: []SkippedKey{}, Ignored: []string{}}
	var errs []error

	for _, key := range constants.AllKeys {
		raw, ok := doc[key]
		if !ok {
			logger.Warn("skipping import for missing key", "key", key)
			report.Skipped = append(report.Skipped, SkippedKey{Key: key, Reason: "missing"})
			continue
		}
		if !isArray(raw) {
			logger.Warn("skipping import for key without an array value", "key", key)
			report.Skipped = append(report.Skipped, SkippedKey{Key: key, Reason: "not an array"})
			continue
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			report.Skipped = append(report.Skipped, SkippedKey{Key: key, Reason: "not an array"})
			continue
		}

		if err := s.replace(ctx, key, compact.Bytes()); err != nil {
			errs = append(errs, fmt.Errorf("failed to import %s: %w", key, err))
			continue
		}
		report.Imported = append(report.Imported, key)
	}

	for key := range doc {
		if !constants.IsKnownKey(key) {
			report.Ignored = append(report.Ignored, key)
		}
	}
	slices.Sort(report.Ignored)

	return report, errors.Join(errs...)
}

func (s *Store) replace(ctx context.Context, key string, data []byte) error {
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()
	return s.backend.Write(ctx, key, data)
}

// WipeAll removes all four collections from the backend.
func (s *Store) WipeAll(ctx context.Context) error {
	unlock := s.lockAll()
	defer unlock()

	var errs []error
	for _, key := range constants.AllKeys {
		if err := s.backend.Remove(ctx, key); err != nil {
			logger.Error("failed to remove collection", "key", key, "error", err)
			errs = append(errs, fmt.Errorf("failed to wipe %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
