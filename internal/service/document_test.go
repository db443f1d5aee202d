package service

import (
	"testing"
	"time"

	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	out, err := calculator.Calculate(calculator.TypeEMI, map[string]any{})
	require.NoError(t, err)

	display, err := Document(out, false)
	require.NoError(t, err)
	assert.Equal(t, "EMI Calculator", display.Title)
	assert.Equal(t, calculator.TypeEMI, display.Type)
	assert.Equal(t, 4339.0, display.Result["emi"])
	assert.Equal(t, 500000.0, display.Input["principal"])
	assert.Equal(t, out.Series, display.Series)

	raw, err := Document(out, true)
	require.NoError(t, err)
	assert.InDelta(t, 4339.12, raw.Result["emi"], 0.01)
}

func TestHistoryDocuments(t *testing.T) {
	created := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
	docs := HistoryDocuments([]storage.HistoryRecord{{
		ID:        "abc",
		Type:      calculator.TypeGST,
		Input:     map[string]any{"amount": 1000.0},
		Result:    map[string]any{"gstAmount": 180.0},
		CreatedAt: created,
	}})

	require.Len(t, docs, 1)
	assert.Equal(t, "2024-04-01T09:30:00Z abc", docs[0].Title)
	assert.Equal(t, calculator.TypeGST, docs[0].Type)
	assert.Equal(t, 180.0, docs[0].Result["gstAmount"])
	assert.NotNil(t, HistoryDocuments(nil))
}
