package calculator

import (
	"errors"
	"sort"

	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/mitchellh/mapstructure"
)

// decodeInput decodes a loosely typed input map into out. Numeric strings are
// accepted; keys out does not declare are rejected.
func decodeInput(input map[string]any, out any) error {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           out,
	})
	if err != nil {
		return err
	}

	var c validation.Collector
	if err := decoder.Decode(input); err != nil {
		var decodeErr *mapstructure.Error
		if !errors.As(err, &decodeErr) {
			return err
		}
		for _, msg := range decodeErr.Errors {
			c.Fail("input", msg)
		}
	}

	sort.Strings(md.Unused)
	for _, key := range md.Unused {
		c.Fail(key, "is not a recognised input")
	}
	return c.Err()
}

// mustEncode flattens a typed input struct back into a map keyed by its
// mapstructure tags. Input structs only hold plain fields, so this cannot fail.
func mustEncode(in any) map[string]any {
	out := map[string]any{}
	if err := mapstructure.Decode(in, &out); err != nil {
		panic(err)
	}
	return out
}
