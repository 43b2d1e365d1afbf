package faes

import (
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pestdocs/pestdocs/internal/printable"
)

// FieldType is the closed set of field kinds a schema may declare.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldCheckbox    FieldType = "checkbox"
	FieldFile        FieldType = "file"
	FieldRepeater    FieldType = "repeater"
)

// Value is the printable form of one data-bag entry.
type Value struct {
	Text  string
	Items []string
	// Rows holds repeater rows, each aligned with the repeater's child fields.
	Rows [][]Value
}

// Empty reports whether nothing would be printed.
func (v Value) Empty() bool {
	return v.Text == "" && len(v.Items) == 0 && len(v.Rows) == 0
}

type formatter func(f Field, raw any) Value

var formatters map[FieldType]formatter

func init() {
	formatters = map[FieldType]formatter{
		FieldText:        formatText,
		FieldNumber:      formatNumber,
		FieldDate:        formatDate,
		FieldSelect:      formatSelect,
		FieldMultiSelect: formatMultiSelect,
		FieldCheckbox:    formatCheckbox,
		FieldFile:        formatFile,
		FieldRepeater:    formatRepeater,
	}
}

// Valid reports whether t belongs to the closed set.
func (t FieldType) Valid() bool {
	_, ok := formatters[t]
	return ok
}

// Format maps a raw data-bag value to its printable form using the formatter of the
// field's type. Unknown types fall back to plain text.
func Format(f Field, raw any) Value {
	if raw == nil {
		return Value{}
	}
	if fn, ok := formatters[f.Type]; ok {
		return fn(f, raw)
	}
	return formatText(f, raw)
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

func formatText(_ Field, raw any) Value {
	return Value{Text: scalarText(raw)}
}

func formatNumber(f Field, raw any) Value {
	n, ok := toFloat(raw)
	if !ok {
		return Value{Text: scalarText(raw)}
	}
	text := ptBR.Sprint(number.Decimal(n, number.MaxFractionDigits(2)))
	if f.Unit != "" {
		text += " " + f.Unit
	}
	return Value{Text: text}
}

func formatDate(_ Field, raw any) Value {
	s := scalarText(raw)
	if t := printable.ParseTime(s); t != nil {
		return Value{Text: t.Format("02/01/2006")}
	}
	return Value{Text: s}
}

func formatSelect(f Field, raw any) Value {
	s := scalarText(raw)
	if s == "" {
		return Value{}
	}
	return Value{Text: f.OptionLabel(s)}
}

func formatMultiSelect(f Field, raw any) Value {
	items, ok := raw.([]any)
	if !ok {
		return formatSelect(f, raw)
	}
	labels := make([]string, 0, len(items))
	for _, it := range items {
		if s := scalarText(it); s != "" {
			labels = append(labels, f.OptionLabel(s))
		}
	}
	return Value{Text: strings.Join(labels, ", "), Items: labels}
}

func formatCheckbox(_ Field, raw any) Value {
	switch v := raw.(type) {
	case bool:
		return Value{Text: yesNo(v)}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "sim", "yes", "1", "on":
			return Value{Text: yesNo(true)}
		case "false", "nao", "não", "no", "0", "off":
			return Value{Text: yesNo(false)}
		}
		return Value{Text: strings.TrimSpace(v)}
	case float64:
		return Value{Text: yesNo(v != 0)}
	}
	return Value{}
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

// formatFile prints the file name of each stored URL.
func formatFile(_ Field, raw any) Value {
	var names []string
	var collect func(v any)
	collect = func(v any) {
		switch x := v.(type) {
		case string:
			if s := strings.TrimSpace(x); s != "" {
				names = append(names, fileName(s))
			}
		case map[string]any:
			if n := scalarText(x["name"]); n != "" {
				names = append(names, n)
			} else if u := scalarText(x["url"]); u != "" {
				names = append(names, fileName(u))
			}
		case []any:
			for _, it := range x {
				collect(it)
			}
		}
	}
	collect(raw)
	return Value{Text: strings.Join(names, ", "), Items: names}
}

func fileName(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if base := path.Base(ref); base != "." && base != "/" {
		return base
	}
	return ref
}

func formatRepeater(f Field, raw any) Value {
	rows := asRows(raw)
	out := make([][]Value, 0, len(rows))
	for _, row := range rows {
		cells := make([]Value, len(f.Fields))
		for i, child := range f.Fields {
			cells[i] = Format(child, row[child.ID])
		}
		out = append(out, cells)
	}
	return Value{Rows: out}
}

func asRows(raw any) []map[string]any {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	rows := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			rows = append(rows, m)
		}
	}
	return rows
}

func scalarText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return yesNo(v)
	default:
		return ""
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}
		n, err := strconv.ParseFloat(s, 64)
		return n, err == nil
	}
	return 0, false
}
