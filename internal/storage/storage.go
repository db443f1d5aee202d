// Package storage persists calculation history and per-calculator default preferences.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPersistence is matched by every PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence failure")

	// ErrNotFound is returned when no preferences are saved for a calculator type.
	ErrNotFound = errors.New("record not found")

	// ErrMalformedRecord is returned when a record cannot be encoded for storage or decoded from it.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNoRepository is returned by persistence calls when no backend is configured.
	ErrNoRepository = &PersistenceError{Op: "storage", Err: errors.New("no repository configured")}
)

// PersistenceError reports a failed storage operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// wrap turns a backend error into a PersistenceError. Not-found and malformed-record
// errors pass through unchanged so callers can tell them apart.
func wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformedRecord) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}

// HistoryRecord is one saved calculation. Records are never changed after they are created.
type HistoryRecord struct {
	ID        string         `json:"id" yaml:"id"`
	Type      string         `json:"type" yaml:"type"`
	Input     map[string]any `json:"input" yaml:"input"`
	Result    map[string]any `json:"result" yaml:"result"`
	CreatedAt time.Time      `json:"createdAt" yaml:"createdAt"`
}

// PreferencesRecord holds the saved default inputs of one calculator type.
type PreferencesRecord struct {
	CalculatorType string         `json:"calculatorType" yaml:"calculatorType"`
	DefaultValues  map[string]any `json:"defaultValues" yaml:"defaultValues"`
	UpdatedAt      time.Time      `json:"updatedAt" yaml:"updatedAt"`
}

// Repository is implemented by every storage backend.
type Repository interface {
	// SaveCalculation stores a new history record.
	SaveCalculation(ctx context.Context, calculatorType string, input, result map[string]any) (*HistoryRecord, error)

	// History returns every record of calculatorType, oldest first.
	History(ctx context.Context, calculatorType string) ([]HistoryRecord, error)

	// SavePreferences creates or replaces the preferences of calculatorType.
	SavePreferences(ctx context.Context, calculatorType string, defaults map[string]any) (*PreferencesRecord, error)

	// Preferences returns the preferences of calculatorType, or ErrNotFound.
	Preferences(ctx context.Context, calculatorType string) (*PreferencesRecord, error)

	Close() error
}

// newHistoryRecord assigns an ID and creation time.
func newHistoryRecord(calculatorType string, input, result map[string]any, now time.Time) *HistoryRecord {
	return &HistoryRecord{
		ID:        uuid.NewString(),
		Type:      calculatorType,
		Input:     input,
		Result:    result,
		CreatedAt: now.UTC(),
	}
}

// encodeMap serializes a record payload. NaN and infinities cannot be stored.
func encodeMap(field string, m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, malformed("encoding %s: %v", field, err)
	}
	return data, nil
}

func decodeMap(field string, data []byte) (map[string]any, error) {
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, malformed("decoding %s: %v", field, err)
	}
	return m, nil
}

// plain copies m through its JSON form, so every backend returns the same value types.
func plain(field string, m map[string]any) (map[string]any, error) {
	data, err := encodeMap(field, m)
	if err != nil {
		return nil, err
	}
	return decodeMap(field, data)
}
