package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore persists records in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	now    func() time.Time
	logger *zap.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, wrap("open sqlite", fmt.Errorf("failed to create directory: %w", err))
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, wrap("open sqlite", fmt.Errorf("failed to open database: %w", err))
	}

	store := &SQLiteStore{db: db, now: time.Now, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, wrap("open sqlite", fmt.Errorf("failed to initialize schema: %w", err))
	}

	logger.Info("opened sqlite store",
		zap.String("op", "storage.NewSQLiteStore"),
		zap.String("path", path))
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS calculator_history (
		id TEXT PRIMARY KEY,
		calculator_type TEXT NOT NULL,
		input TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_preferences (
		calculator_type TEXT PRIMARY KEY,
		default_values TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_calculator_history_type_created ON calculator_history(calculator_type, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveCalculation implements Repository.
func (s *SQLiteStore) SaveCalculation(ctx context.Context, calculatorType string, input, result map[string]any) (*HistoryRecord, error) {
	inputJSON, err := encodeMap("input", input)
	if err != nil {
		return nil, err
	}
	resultJSON, err := encodeMap("result", result)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := newHistoryRecord(calculatorType, nil, nil, s.now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculator_history (id, calculator_type, input, result, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, record.ID, calculatorType, string(inputJSON), string(resultJSON), record.CreatedAt)
	if err != nil {
		return nil, wrap("save calculation", fmt.Errorf("failed to insert calculation: %w", err))
	}

	if record.Input, err = decodeMap("input", inputJSON); err != nil {
		return nil, err
	}
	if record.Result, err = decodeMap("result", resultJSON); err != nil {
		return nil, err
	}
	s.logger.Debug("saved calculation",
		zap.String("op", "storage.SQLiteStore.SaveCalculation"),
		zap.String("type", calculatorType),
		zap.String("id", record.ID))
	return record, nil
}

// History implements Repository.
func (s *SQLiteStore) History(ctx context.Context, calculatorType string) ([]HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, calculator_type, input, result, created_at
		FROM calculator_history WHERE calculator_type = ?
		ORDER BY rowid ASC
	`, calculatorType)
	if err != nil {
		return nil, wrap("history", fmt.Errorf("failed to query calculations: %w", err))
	}
	defer rows.Close()

	records := []HistoryRecord{}
	for rows.Next() {
		var record HistoryRecord
		var inputJSON, resultJSON string
		if err := rows.Scan(&record.ID, &record.Type, &inputJSON, &resultJSON, &record.CreatedAt); err != nil {
			return nil, wrap("history", fmt.Errorf("failed to scan calculation: %w", err))
		}
		if record.Input, err = decodeMap("input", []byte(inputJSON)); err != nil {
			return nil, err
		}
		if record.Result, err = decodeMap("result", []byte(resultJSON)); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("history", err)
	}
	return records, nil
}

// SavePreferences implements Repository.
func (s *SQLiteStore) SavePreferences(ctx context.Context, calculatorType string, defaults map[string]any) (*PreferencesRecord, error) {
	valuesJSON, err := encodeMap("defaultValues", defaults)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (calculator_type, default_values, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(calculator_type) DO UPDATE SET
			default_values = excluded.default_values,
			updated_at = excluded.updated_at
	`, calculatorType, string(valuesJSON), updated)
	if err != nil {
		return nil, wrap("save preferences", fmt.Errorf("failed to upsert preferences: %w", err))
	}

	values, err := decodeMap("defaultValues", valuesJSON)
	if err != nil {
		return nil, err
	}
	return &PreferencesRecord{CalculatorType: calculatorType, DefaultValues: values, UpdatedAt: updated}, nil
}

// Preferences implements Repository.
func (s *SQLiteStore) Preferences(ctx context.Context, calculatorType string) (*PreferencesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT calculator_type, default_values, updated_at
		FROM user_preferences WHERE calculator_type = ?
	`, calculatorType)

	var record PreferencesRecord
	var valuesJSON string
	if err := row.Scan(&record.CalculatorType, &valuesJSON, &record.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrap("preferences", fmt.Errorf("failed to get preferences: %w", err))
	}

	values, err := decodeMap("defaultValues", []byte(valuesJSON))
	if err != nil {
		return nil, err
	}
	record.DefaultValues = values
	return &record, nil
}

// Close implements Repository.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
