package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/models"
	"github.com/julianstephens/sadhana/internal/storage"
)

// KeyStatus is a health report for one stored collection.
type KeyStatus struct {
	Key     string
	Present bool
	Bytes   int
	// Records is the number of elements that decode into the record type.
	Records int
	// Malformed counts array elements that do not decode.
	Malformed int
	// Corrupt is set when the payload is not a JSON array at all.
	Corrupt bool
	Err     error
}

// Healthy reports whether the collection reads back exactly as stored.
func (k KeyStatus) Healthy() bool {
	return k.Err == nil && !k.Corrupt && k.Malformed == 0
}

// Inspect reports on every collection without modifying anything.
func (s *Store) Inspect(ctx context.Context) []KeyStatus {
	out := make([]KeyStatus, 0, len(constants.AllKeys))
	for _, key := range constants.AllKeys {
		st, _ := s.InspectKey(ctx, key)
		out = append(out, st)
	}
	return out
}

// InspectKey reports on one collection. It fails only for unknown keys.
func (s *Store) InspectKey(ctx context.Context, key string) (KeyStatus, error) {
	unlock, err := s.lock(key)
	if err != nil {
		return KeyStatus{Key: key}, err
	}
	defer unlock()

	st := KeyStatus{Key: key}
	data, err := s.backend.Read(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return st, nil
	}
	if err != nil {
		st.Err = err
		return st, nil
	}
	st.Present = true
	st.Bytes = len(data)

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		st.Corrupt = true
		return st, nil
	}
	for _, elem := range raw {
		if decodes(key, elem) {
			st.Records++
		} else {
			st.Malformed++
		}
	}
	return st, nil
}

func decodes(key string, elem json.RawMessage) bool {
	var err error
	switch key {
	case constants.KeyJapaHistory:
		err = json.Unmarshal(elem, new(models.JapaSession))
	case constants.KeyRecitationLog:
		err = json.Unmarshal(elem, new(models.RecitationLog))
	case constants.KeyGratitudeNotes:
		err = json.Unmarshal(elem, new(models.GratitudeNote))
	case constants.KeyGoalsList:
		err = json.Unmarshal(elem, new(models.Goal))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return err == nil
}
