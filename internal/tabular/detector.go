package tabular

import (
	"encoding/csv"
	"strings"
)

// Result is the outcome of a detection call.
type Result struct {
	Delimiter Delimiter `json:"delimiter"`
	RowCount  int       `json:"rowCount"`
}

// Detector runs its heuristics in order; the first to decide wins.
// A Detector holds no mutable state and may be shared between goroutines.
type Detector struct {
	heuristics []Heuristic
}

// NewDetector builds a detector from an ordered list of heuristics.
func NewDetector(heuristics ...Heuristic) *Detector {
	hs := make([]Heuristic, 0, len(heuristics))
	for _, h := range heuristics {
		if h != nil {
			hs = append(hs, h)
		}
	}
	return &Detector{heuristics: hs}
}

var defaultDetector = NewDetector(Sniffer{}, Frequency{})

// DefaultDetector returns the Sniffer-then-Frequency detector.
func DefaultDetector() *Detector {
	return defaultDetector
}

// Detect returns the best-guess delimiter for text. Only the leading
// SampleSize characters are inspected. Comma is returned when no heuristic
// decides.
func (d *Detector) Detect(text string) Delimiter {
	return d.DetectSample(NewSample(text))
}

// DetectSample is Detect for an already built sample.
func (d *Detector) DetectSample(s Sample) Delimiter {
	for _, h := range d.heuristics {
		if delim, ok := h.Guess(s); ok && delim.Valid() {
			return delim
		}
	}
	return Comma
}

// DetectWithCount detects the delimiter on the sample of text and then counts
// the rows of the whole text split with it. The count includes any header row.
func (d *Detector) DetectWithCount(text string) Result {
	delim := d.Detect(text)
	return Result{Delimiter: delim, RowCount: CountRows(text, delim)}
}

// Detect uses the default detector.
func Detect(text string) Delimiter {
	return defaultDetector.Detect(text)
}

// DetectWithCount uses the default detector.
func DetectWithCount(text string) Result {
	return defaultDetector.DetectWithCount(text)
}

// CountRows counts the rows of text split by delim, blank lines included,
// the way Parse would return them. A quoted field left open runs to the end
// of text instead of failing, so counting never fails.
func CountRows(text string, delim Delimiter) int {
	r := newReader(text, delim)
	r.ReuseRecord = true

	n := 0
	_ = eachRow(r, text, func(Row) { n++ })
	return n
}

// newReader reads quotes leniently: a quote inside an unquoted field is a
// literal. Parse checks separately for quoted fields that never close.
func newReader(text string, delim Delimiter) *csv.Reader {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim.Rune()
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}
