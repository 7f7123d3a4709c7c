package core

import (
	"strings"

	"github.com/JonMunkholm/PasteImport/internal/tabular"
)

// MapRow fills len(fields) slots from row in order, trimming each value.
// Missing values leave their slot empty. When the row carries more values
// than there are fields, its last value is split on whitespace into tags.
func MapRow(row tabular.Row, fieldCount int) (values []string, tags []string) {
	values = make([]string, fieldCount)
	for i := 0; i < fieldCount && i < len(row); i++ {
		values[i] = strings.TrimSpace(row[i])
	}
	if len(row) > fieldCount {
		tags = strings.Fields(row[len(row)-1])
	}
	return values, tags
}

// MappedRow is one previewed row laid out against a record type. Row is
// the 1-based position among the parsed data rows.
type MappedRow struct {
	Row    int               `json:"row"`
	Values map[string]string `json:"values"`
	Tags   []string          `json:"tags,omitempty"`
	Empty  bool              `json:"empty,omitempty"`
}

func mapPreviewRow(index int, row tabular.Row, fields []string) MappedRow {
	if row.IsEmpty() {
		return MappedRow{Row: index, Empty: true}
	}
	values, tags := MapRow(row, len(fields))
	m := make(map[string]string, len(fields))
	for i, name := range fields {
		m[name] = values[i]
	}
	return MappedRow{Row: index, Values: m, Tags: tags}
}
