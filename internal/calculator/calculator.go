// Package calculator holds one pure formula function per financial product and
// a closed registry that dispatches generic input maps to them.
package calculator

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/iwvelando/finance-calculators/pkg/finance"
)

var (
	// ErrUnknownCalculator is returned for a calculator type that is not registered.
	ErrUnknownCalculator = errors.New("unknown calculator")

	// ErrUndefinedResult is returned when a formula produces NaN or an infinity.
	ErrUndefinedResult = errors.New("undefined result")
)

// Category groups calculators in listings.
type Category string

const (
	CategoryInvestment Category = "investment"
	CategoryLoan       Category = "loan"
	CategoryInterest   Category = "interest"
	CategoryScheme     Category = "government-scheme"
	CategoryTax        Category = "tax"
	CategoryPlanning   Category = "planning"
	CategoryTrading    Category = "trading"
)

// Output is a computed result together with the effective input (defaults applied) and the
// chart series, if the calculator has one.
type Output struct {
	Type   string                `json:"type" yaml:"type"`
	Input  map[string]any        `json:"input" yaml:"input"`
	Result any                   `json:"result" yaml:"result"`
	Series []finance.SeriesPoint `json:"series,omitempty" yaml:"series,omitempty"`
}

// Definition describes a registered calculator.
type Definition struct {
	Type        string         `json:"type" yaml:"type"`
	Name        string         `json:"name" yaml:"name"`
	Category    Category       `json:"category" yaml:"category"`
	Description string         `json:"description" yaml:"description"`
	Defaults    map[string]any `json:"defaults" yaml:"defaults"`

	precision precision
	run       func(map[string]any) (*Output, error)
	decode    func(map[string]any) (map[string]any, error)
}

// seriesResult is implemented by results that carry a chart series.
type seriesResult interface {
	Series() []finance.SeriesPoint
}

// define builds a Definition from a typed formula function. Input maps are
// decoded over a copy of defaults, so unset keys keep their default values.
func define[I any, R any](def Definition, defaults I, p precision, calc func(I) (*R, error)) Definition {
	def.precision = p
	def.Defaults = mustEncode(defaults)

	def.decode = func(input map[string]any) (map[string]any, error) {
		in := defaults
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return mustEncode(in), nil
	}

	def.run = func(input map[string]any) (*Output, error) {
		in := defaults
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		result, err := calc(in)
		if err != nil {
			return nil, err
		}
		out := &Output{Type: def.Type, Input: mustEncode(in), Result: result}
		if s, ok := any(result).(seriesResult); ok {
			out.Series = s.Series()
		}
		for i, point := range out.Series {
			if math.IsNaN(point.Value) || math.IsInf(point.Value, 0) {
				return nil, fmt.Errorf("%w: series[%d]", ErrUndefinedResult, i)
			}
		}
		return out, nil
	}
	return def
}

// Lookup returns the definition registered under calculatorType.
func Lookup(calculatorType string) (Definition, error) {
	def, ok := registry[calculatorType]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownCalculator, calculatorType)
	}
	return def, nil
}

// Types lists every registered calculator type in alphabetical order.
func Types() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Definitions lists every registered calculator ordered by category, then type.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Category != defs[j].Category {
			return defs[i].Category < defs[j].Category
		}
		return defs[i].Type < defs[j].Type
	})
	return defs
}

// Calculate decodes input for calculatorType and runs its formula.
func Calculate(calculatorType string, input map[string]any) (*Output, error) {
	def, err := Lookup(calculatorType)
	if err != nil {
		return nil, err
	}
	return def.run(input)
}

// Normalize decodes input for calculatorType and returns it with defaults applied,
// without running the formula. It rejects the same malformed input Calculate does.
func Normalize(calculatorType string, input map[string]any) (map[string]any, error) {
	def, err := Lookup(calculatorType)
	if err != nil {
		return nil, err
	}
	return def.decode(input)
}

// checkFinite returns result unless one of its float fields, at any depth, is
// NaN or infinite.
func checkFinite[R any](result *R) (*R, error) {
	if field := nonFinite(reflect.ValueOf(result).Elem(), ""); field != "" {
		return nil, fmt.Errorf("%w: %s", ErrUndefinedResult, field)
	}
	return result, nil
}

func nonFinite(v reflect.Value, path string) string {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			if path == "" {
				return "value"
			}
			return path
		}
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			return nonFinite(v.Elem(), path)
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			if bad := nonFinite(v.Field(i), join(path, field.Name)); bad != "" {
				return bad
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if bad := nonFinite(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); bad != "" {
				return bad
			}
		}
	}
	return ""
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
