package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// memoryRecord keeps payloads encoded so callers never share maps with the store.
type memoryRecord struct {
	id        string
	input     []byte
	result    []byte
	createdAt time.Time
}

type memoryPreferences struct {
	values    []byte
	updatedAt time.Time
}

// MemoryStore keeps records in process memory. It is the default backend and is
// lost on exit.
type MemoryStore struct {
	mu          sync.RWMutex
	history     map[string][]memoryRecord
	preferences map[string]memoryPreferences
	now         func() time.Time
	logger      *zap.Logger
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		history:     map[string][]memoryRecord{},
		preferences: map[string]memoryPreferences{},
		now:         time.Now,
		logger:      logger,
	}
}

// SaveCalculation implements Repository.
func (s *MemoryStore) SaveCalculation(ctx context.Context, calculatorType string, input, result map[string]any) (*HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("save calculation", err)
	}
	inputJSON, err := encodeMap("input", input)
	if err != nil {
		return nil, err
	}
	resultJSON, err := encodeMap("result", result)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	record := newHistoryRecord(calculatorType, nil, nil, s.now())
	s.history[calculatorType] = append(s.history[calculatorType], memoryRecord{
		id:        record.ID,
		input:     inputJSON,
		result:    resultJSON,
		createdAt: record.CreatedAt,
	})
	s.mu.Unlock()

	if record.Input, err = decodeMap("input", inputJSON); err != nil {
		return nil, err
	}
	if record.Result, err = decodeMap("result", resultJSON); err != nil {
		return nil, err
	}
	s.logger.Debug("saved calculation",
		zap.String("op", "storage.MemoryStore.SaveCalculation"),
		zap.String("type", calculatorType),
		zap.String("id", record.ID))
	return record, nil
}

// History implements Repository. Records are kept in insertion order, which is
// creation order.
func (s *MemoryStore) History(ctx context.Context, calculatorType string) ([]HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("history", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.history[calculatorType]
	records := make([]HistoryRecord, 0, len(stored))
	for _, r := range stored {
		input, err := decodeMap("input", r.input)
		if err != nil {
			return nil, err
		}
		result, err := decodeMap("result", r.result)
		if err != nil {
			return nil, err
		}
		records = append(records, HistoryRecord{
			ID:        r.id,
			Type:      calculatorType,
			Input:     input,
			Result:    result,
			CreatedAt: r.createdAt,
		})
	}
	return records, nil
}

// SavePreferences implements Repository.
func (s *MemoryStore) SavePreferences(ctx context.Context, calculatorType string, defaults map[string]any) (*PreferencesRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("save preferences", err)
	}
	valuesJSON, err := encodeMap("defaultValues", defaults)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	updated := s.now().UTC()
	s.preferences[calculatorType] = memoryPreferences{values: valuesJSON, updatedAt: updated}
	s.mu.Unlock()

	values, err := decodeMap("defaultValues", valuesJSON)
	if err != nil {
		return nil, err
	}
	return &PreferencesRecord{CalculatorType: calculatorType, DefaultValues: values, UpdatedAt: updated}, nil
}

// Preferences implements Repository.
func (s *MemoryStore) Preferences(ctx context.Context, calculatorType string) (*PreferencesRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("preferences", err)
	}
	s.mu.RLock()
	stored, ok := s.preferences[calculatorType]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	values, err := decodeMap("defaultValues", stored.values)
	if err != nil {
		return nil, err
	}
	return &PreferencesRecord{CalculatorType: calculatorType, DefaultValues: values, UpdatedAt: stored.updatedAt}, nil
}

// Close implements Repository.
func (s *MemoryStore) Close() error { return nil }
