package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/iwvelando/finance-calculators/pkg/output"
)

// Document prepares out for rendering. Results are display-rounded unless raw
// is set.
func Document(out *calculator.Output, raw bool) (output.Document, error) {
	def, err := calculator.Lookup(out.Type)
	if err != nil {
		return output.Document{}, err
	}

	var result map[string]any
	if raw {
		result, err = out.Raw()
	} else {
		result, err = out.Display()
	}
	if err != nil {
		return output.Document{}, err
	}

	input, err := jsonMap(out.Input)
	if err != nil {
		return output.Document{}, err
	}
	return output.Document{
		Title:  def.Name,
		Type:   out.Type,
		Input:  input,
		Result: result,
		Series: out.Series,
	}, nil
}

// HistoryDocuments prepares saved calculations for rendering, titled by their
// creation time.
func HistoryDocuments(records []storage.HistoryRecord) []output.Document {
	docs := make([]output.Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, output.Document{
			Title:  fmt.Sprintf("%s %s", record.CreatedAt.UTC().Format(time.RFC3339), record.ID),
			Type:   record.Type,
			Input:  record.Input,
			Result: record.Result,
		})
	}
	return docs
}

// jsonMap gives m the value types it has after a JSON round trip.
func jsonMap(m map[string]any) (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding input: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	return out, nil
}
