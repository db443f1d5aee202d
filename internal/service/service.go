// Package service combines the calculator registry with an optional repository.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"go.uber.org/zap"
)

// Service runs calculations and manages their history and saved defaults.
type Service struct {
	repo   storage.Repository
	logger *zap.Logger
}

// New returns a Service over repo. A nil repo disables persistence: the
// persistence methods then fail with storage.ErrNoRepository.
func New(repo storage.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Persistent reports whether a repository is configured.
func (s *Service) Persistent() bool {
	return s.repo != nil
}

type calculateOptions struct {
	withPreferences bool
}

// CalculateOption adjusts a single calculation.
type CalculateOption func(*calculateOptions)

// WithPreferences merges input over the saved preferences of the calculator, so
// keys the caller leaves out take their saved values. Without saved preferences
// (or without a repository) the registry defaults apply as usual.
func WithPreferences() CalculateOption {
	return func(o *calculateOptions) { o.withPreferences = true }
}

// Catalog lists every calculator ordered by category, then type.
func (s *Service) Catalog() []calculator.Definition {
	return calculator.Definitions()
}

// Definition returns the calculator registered under calculatorType with its
// defaults replaced by saved preferences, if there are any.
func (s *Service) Definition(ctx context.Context, calculatorType string) (calculator.Definition, error) {
	def, err := calculator.Lookup(calculatorType)
	if err != nil {
		return calculator.Definition{}, err
	}
	prefs, err := s.savedDefaults(ctx, calculatorType)
	if err != nil {
		return calculator.Definition{}, err
	}
	if prefs != nil {
		def.Defaults = prefs
	}
	return def, nil
}

// Calculate runs the calculator without persisting anything.
func (s *Service) Calculate(ctx context.Context, calculatorType string, input map[string]any, opts ...CalculateOption) (*calculator.Output, error) {
	var o calculateOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.withPreferences {
		prefs, err := s.savedDefaults(ctx, calculatorType)
		if err != nil {
			return nil, err
		}
		input = merge(prefs, input)
	}

	out, err := calculator.Calculate(calculatorType, input)
	if err != nil {
		s.logger.Debug("calculation rejected",
			zap.String("op", "service.Calculate"),
			zap.String("type", calculatorType),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

// CalculateAndSave runs the calculator and stores the effective input with the
// full-precision result. Nothing is stored when the calculation fails.
func (s *Service) CalculateAndSave(ctx context.Context, calculatorType string, input map[string]any, opts ...CalculateOption) (*calculator.Output, *storage.HistoryRecord, error) {
	if _, err := calculator.Lookup(calculatorType); err != nil {
		return nil, nil, err
	}
	if s.repo == nil {
		return nil, nil, storage.ErrNoRepository
	}
	out, err := s.Calculate(ctx, calculatorType, input, opts...)
	if err != nil {
		return nil, nil, err
	}

	result, err := out.Raw()
	if err != nil {
		return nil, nil, err
	}
	record, err := s.repo.SaveCalculation(ctx, calculatorType, out.Input, result)
	if err != nil {
		s.logger.Error("failed to save calculation",
			zap.String("op", "service.CalculateAndSave"),
			zap.String("type", calculatorType),
			zap.Error(err))
		return nil, nil, err
	}
	s.logger.Info("saved calculation",
		zap.String("op", "service.CalculateAndSave"),
		zap.String("type", calculatorType),
		zap.String("id", record.ID))
	return out, record, nil
}

// History returns the saved calculations of calculatorType, oldest first.
func (s *Service) History(ctx context.Context, calculatorType string) ([]storage.HistoryRecord, error) {
	if _, err := calculator.Lookup(calculatorType); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, storage.ErrNoRepository
	}
	return s.repo.History(ctx, calculatorType)
}

// SavePreferences validates defaults against the calculator's inputs and stores
// them with every other input filled in from the registry defaults.
func (s *Service) SavePreferences(ctx context.Context, calculatorType string, defaults map[string]any) (*storage.PreferencesRecord, error) {
	normalized, err := calculator.Normalize(calculatorType, defaults)
	if err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, storage.ErrNoRepository
	}

	record, err := s.repo.SavePreferences(ctx, calculatorType, normalized)
	if err != nil {
		s.logger.Error("failed to save preferences",
			zap.String("op", "service.SavePreferences"),
			zap.String("type", calculatorType),
			zap.Error(err))
		return nil, err
	}
	return record, nil
}

// Preferences returns the saved defaults of calculatorType, or
// storage.ErrNotFound.
func (s *Service) Preferences(ctx context.Context, calculatorType string) (*storage.PreferencesRecord, error) {
	if _, err := calculator.Lookup(calculatorType); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, storage.ErrNoRepository
	}
	return s.repo.Preferences(ctx, calculatorType)
}

// Close closes the repository, if any.
func (s *Service) Close() error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Close(); err != nil {
		return fmt.Errorf("closing repository: %w", err)
	}
	return nil
}

// savedDefaults returns nil when nothing is saved or persistence is off.
func (s *Service) savedDefaults(ctx context.Context, calculatorType string) (map[string]any, error) {
	if s.repo == nil {
		return nil, nil
	}
	prefs, err := s.repo.Preferences(ctx, calculatorType)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return prefs.DefaultValues, nil
}

func merge(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
