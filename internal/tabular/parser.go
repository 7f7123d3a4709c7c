package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedQuoting reports an unbalanced or misplaced double quote.
var ErrMalformedQuoting = errors.New("malformed quoting")

// ParseError locates a quoting failure in the parsed text.
type ParseError struct {
	StartLine int    // line where the record starts
	Line      int    // line where the error occurred
	Column    int    // 1-based rune column
	Detail    string // reader message
	Err       error
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("line %d, column %d: %v (%s)", e.Line, e.Column, e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Row is an ordered sequence of field values.
type Row []string

// IsEmpty reports whether the row has no fields or only blank ones.
// Callers use it to skip and tally empty rows.
func (r Row) IsEmpty() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// CountEmpty returns how many rows satisfy IsEmpty.
func CountEmpty(rows []Row) int {
	n := 0
	for _, r := range rows {
		if r.IsEmpty() {
			n++
		}
	}
	return n
}

// Parse splits text into rows using delim and standard double-quote rules:
// quoted fields may hold the delimiter or newlines, and "" stands for one
// literal quote. A quote inside an unquoted field is kept as a literal.
// Rows may differ in length and are never truncated.
//
// A blank line outside a quoted field is returned as a row with no fields.
// With hasHeader the first row is dropped, but only when another row
// follows it. Empty rows are returned as is.
//
// A quoted field that is still open at the end of text fails with a
// *ParseError wrapping ErrMalformedQuoting.
func Parse(text string, delim Delimiter, hasHeader bool) ([]Row, error) {
	if err := checkQuotes(text, delim); err != nil {
		return nil, err
	}

	var rows []Row
	err := eachRow(newReader(text, delim), text, func(row Row) {
		rows = append(rows, row)
	})
	if err != nil {
		return nil, wrapReadError(err)
	}

	if hasHeader && len(rows) > 1 {
		rows = rows[1:]
	}
	return rows, nil
}

// eachRow hands every record of r to fn. encoding/csv skips blank lines, so
// the line numbers of consecutive records are compared and a zero-field row
// is emitted for each line skipped in between, and for trailing blank lines.
func eachRow(r *csv.Reader, text string, fn func(Row)) error {
	nextLine, end := 1, 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line, _ := r.FieldPos(0)
		for i := nextLine; i < line; i++ {
			fn(Row{})
		}
		fn(Row(rec))

		prev := end
		end = int(r.InputOffset())
		nextLine += strings.Count(text[prev:end], "\n")
	}

	for i := strings.Count(text[end:], "\n"); i > 0; i-- {
		fn(Row{})
	}
	return nil
}

// checkQuotes finds a quoted field left open at the end of text. It follows
// the lenient quote handling of the reader: a quote that does not open a
// field is literal, and a closing quote followed by anything other than the
// delimiter or a line end is literal too.
func checkQuotes(text string, delim Delimiter) error {
	comma := delim.Rune()
	fieldStart, inQuote := true, false
	line, col := 1, 0
	openLine, openCol := 0, 0

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		col++

		if inQuote {
			switch c {
			case '"':
				next := rune(0)
				if i+1 < len(runes) {
					next = runes[i+1]
				}
				switch {
				case next == '"':
					i++
					col++
				case next == comma:
					inQuote, fieldStart = false, true
					i++
					col++
				case next == 0, next == '\n':
					inQuote = false
				case next == '\r' && (i+2 >= len(runes) || runes[i+2] == '\n'):
					inQuote = false
				}
			case '\n':
				line, col = line+1, 0
			}
			continue
		}

		switch {
		case c == '\n':
			line, col = line+1, 0
			fieldStart = true
		case c == comma:
			fieldStart = true
		case c == '"' && fieldStart:
			inQuote, fieldStart = true, false
			openLine, openCol = line, col
		default:
			fieldStart = false
		}
	}

	if inQuote {
		return &ParseError{
			StartLine: openLine,
			Line:      line,
			Column:    openCol,
			Detail:    "quoted field is never closed",
			Err:       ErrMalformedQuoting,
		}
	}
	return nil
}
func wrapReadError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) && (errors.Is(pe.Err, csv.ErrQuote) || errors.Is(pe.Err, csv.ErrBareQuote)) {
		return &ParseError{
			StartLine: pe.StartLine,
			Line:      pe.Line,
			Column:    pe.Column,
			Detail:    pe.Err.Error(),
			Err:       ErrMalformedQuoting,
		}
	}
	return fmt.Errorf("parse rows: %w", err)
}
