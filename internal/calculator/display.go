package calculator

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// precision controls how a result is rounded for display. Fields are matched by
// their JSON key at any depth; unlisted fields use the default place count.
type precision struct {
	places int32
	fields map[string]int32
}

// currency rounds everything to whole units except the named percentage fields.
func currency(percentFields ...string) precision {
	p := precision{places: constants.CurrencyPlaces, fields: map[string]int32{}}
	for _, f := range percentFields {
		p.fields[f] = constants.PercentPlaces
	}
	return p
}

// paise rounds every field to two decimals.
func paise() precision {
	return precision{places: constants.PercentPlaces}
}

func (p precision) placesFor(key string) int32 {
	if places, ok := p.fields[key]; ok {
		return places
	}
	return p.places
}

// Display returns the result as a map with currency rounded to whole units and
// percentages (and paise-level charges) rounded to two decimals.
func (o *Output) Display() (map[string]any, error) {
	def, err := Lookup(o.Type)
	if err != nil {
		return nil, err
	}
	return def.precision.apply(o.Result)
}

// Raw returns the result as a map at full precision.
func (o *Output) Raw() (map[string]any, error) {
	return toMap(o.Result)
}

func (p precision) apply(result any) (map[string]any, error) {
	m, err := toMap(result)
	if err != nil {
		return nil, err
	}
	for key, value := range m {
		m[key] = p.round(key, value)
	}
	return m, nil
}

func (p precision) round(key string, value any) any {
	switch v := value.(type) {
	case float64:
		return mathutil.RoundPlaces(v, p.placesFor(key))
	case map[string]any:
		for k, nested := range v {
			v[k] = p.round(k, nested)
		}
		return v
	case []any:
		for i, nested := range v {
			v[i] = p.round(key, nested)
		}
		return v
	default:
		return value
	}
}

func toMap(result any) (map[string]any, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return m, nil
}
