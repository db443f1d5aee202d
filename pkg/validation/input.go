package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names a single input field and the constraint it violated.
type InvalidInputError struct {
	Field      string `json:"field" yaml:"field"`
	Constraint string `json:"constraint" yaml:"constraint"`
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Constraint)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInput builds an InvalidInputError.
func NewInvalidInput(field, constraint string) error {
	return &InvalidInputError{Field: field, Constraint: constraint}
}

// Violations flattens an error returned by Collector.Err into its individual
// InvalidInputErrors. Other errors are skipped.
func Violations(err error) []*InvalidInputError {
	var violations []*InvalidInputError
	for _, e := range multierr.Errors(err) {
		var invalid *InvalidInputError
		if errors.As(e, &invalid) {
			violations = append(violations, invalid)
		}
	}
	return violations
}

// Collector accumulates input violations so a caller sees all of them at once.
// The zero value is ready to use.
type Collector struct {
	err error
}

// Err returns the combined violations, or nil when every check passed.
func (c *Collector) Err() error {
	return c.err
}

// Fail records a violation unconditionally.
func (c *Collector) Fail(field, constraint string) {
	c.err = multierr.Append(c.err, NewInvalidInput(field, constraint))
}

// Check records a violation when ok is false.
func (c *Collector) Check(ok bool, field, constraint string) {
	if !ok {
		c.Fail(field, constraint)
	}
}

// Positive requires value > 0.
func (c *Collector) Positive(field string, value float64) {
	c.Check(finite(value) && value > 0, field, "must be positive")
}

// NonNegative requires value >= 0.
func (c *Collector) NonNegative(field string, value float64) {
	c.Check(finite(value) && value >= 0, field, "cannot be negative")
}

// AtLeast requires value >= min.
func (c *Collector) AtLeast(field string, value, min float64) {
	c.Check(finite(value) && value >= min, field, fmt.Sprintf("must be at least %s", trim(min)))
}

// AtMost requires value <= max.
func (c *Collector) AtMost(field string, value, max float64) {
	c.Check(finite(value) && value <= max, field, fmt.Sprintf("cannot exceed %s", trim(max)))
}

// Range requires min <= value <= max.
func (c *Collector) Range(field string, value, min, max float64) {
	c.Check(finite(value) && value >= min && value <= max, field,
		fmt.Sprintf("must be between %s and %s", trim(min), trim(max)))
}

// Integer requires a whole number.
func (c *Collector) Integer(field string, value float64) {
	c.Check(finite(value) && value == math.Trunc(value), field, "must be a whole number")
}

// OneOf requires value to be one of allowed.
func (c *Collector) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.Fail(field, fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), value))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func trim(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
