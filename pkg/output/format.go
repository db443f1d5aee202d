// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Document is one calculation prepared for rendering: the effective input, the
// result as a map and the optional chart series.
type Document struct {
	Title  string                `json:"title,omitempty" yaml:"title,omitempty"`
	Type   string                `json:"type" yaml:"type"`
	Input  map[string]any        `json:"input" yaml:"input"`
	Result map[string]any        `json:"result" yaml:"result"`
	Series []finance.SeriesPoint `json:"series,omitempty" yaml:"series,omitempty"`
}

func (d Document) heading() string {
	if d.Title == "" {
		return d.Type
	}
	return fmt.Sprintf("%s (%s)", d.Title, d.Type)
}

// Write renders one document in the named format.
func Write(w io.Writer, outputFormat string, doc Document) error {
	return write(w, outputFormat, []Document{doc}, doc)
}

// WriteAll renders several documents in the named format. JSON and YAML emit a
// list even when docs holds a single document.
func WriteAll(w io.Writer, outputFormat string, docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	return write(w, outputFormat, docs, docs)
}

func write(w io.Writer, outputFormat string, docs []Document, value any) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, docs)
	case constants.OutputFormatCSV:
		return CsvFormat(w, docs)
	case constants.OutputFormatJSON:
		return JSONFormat(w, value)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, value)
	default:
		return PDFFormat(w, docs)
	}
}

// field is one flattened key/value pair. Nested keys are joined with "." and
// list elements are indexed, e.g. "slabs[0].tax".
type field struct {
	Key   string
	Value string
}

func flatten(prefix string, value any, out []field) []field {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			out = flatten(key, v[k], out)
		}
	case []any:
		for i, item := range v {
			out = flatten(fmt.Sprintf("%s[%d]", prefix, i), item, out)
		}
	default:
		out = append(out, field{Key: prefix, Value: formatValue(v)})
	}
	return out
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		return format.Number(v)
	case int:
		return format.Number(float64(v))
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func seriesFields(series []finance.SeriesPoint) []field {
	fields := make([]field, 0, len(series))
	for _, point := range series {
		fields = append(fields, field{Key: point.Label, Value: format.Number(point.Value)})
	}
	return fields
}

// section is a titled block of fields, rendered as a table in every format.
type section struct {
	Name   string
	Fields []field
}

func sections(doc Document) []section {
	out := []section{
		{Name: "input", Fields: flatten("", doc.Input, nil)},
		{Name: "result", Fields: flatten("", doc.Result, nil)},
	}
	if len(doc.Series) > 0 {
		out = append(out, section{Name: "series", Fields: seriesFields(doc.Series)})
	}
	return out
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, docs []Document) error {
	p := message.NewPrinter(language.English)
	for i, doc := range docs {
		if i > 0 {
			if _, err := p.Fprintf(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := p.Fprintf(w, "--- %s ---\n", doc.heading()); err != nil {
			return err
		}
		for _, s := range sections(doc) {
			width := 0
			for _, f := range s.Fields {
				width = max(width, utf8.RuneCountInString(f.Key))
			}
			if _, err := p.Fprintf(w, "%s\n", strings.ToUpper(s.Name[:1])+s.Name[1:]); err != nil {
				return err
			}
			for _, f := range s.Fields {
				pad := strings.Repeat(" ", width-utf8.RuneCountInString(f.Key))
				if _, err := p.Fprintf(w, "  %s%s  %s\n", f.Key, pad, f.Value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format, one row per field.
func CsvFormat(w io.Writer, docs []Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"calculator", "section", "field", "value"}); err != nil {
		return err
	}
	for _, doc := range docs {
		for _, s := range sections(doc) {
			for _, f := range s.Fields {
				if err := cw.Write([]string{doc.Type, s.Name, f.Key, f.Value}); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
