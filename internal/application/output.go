package application

import (
	"encoding/csv"
	"io"

	"github.com/JonMunkholm/PasteImport/internal/tabular"
)

// WriteRows writes rows as tab-separated lines. Fields holding tabs, quotes
// or newlines are quoted so the output parses back to the same rows.
func WriteRows(w io.Writer, rows []tabular.Row) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
