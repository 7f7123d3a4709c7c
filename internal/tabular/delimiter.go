package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedDelimiter is returned by ParseDelimiter for choices outside
// the four supported delimiters.
var ErrUnsupportedDelimiter = errors.New("unsupported delimiter")

// Delimiter is one of the four supported field separators.
// The declaration order is also the tie-break order used by detection.
type Delimiter int

const (
	Comma Delimiter = iota
	Tab
	Semicolon
	Pipe
)

var candidates = [...]Delimiter{Comma, Tab, Semicolon, Pipe}

// Candidates returns every supported delimiter in declaration order.
func Candidates() []Delimiter {
	out := make([]Delimiter, len(candidates))
	copy(out, candidates[:])
	return out
}

// Rune returns the literal separator character.
func (d Delimiter) Rune() rune {
	switch d {
	case Tab:
		return '\t'
	case Semicolon:
		return ';'
	case Pipe:
		return '|'
	default:
		return ','
	}
}

// Name returns the label shown to users, e.g. "Comma (,)".
func (d Delimiter) Name() string {
	switch d {
	case Tab:
		return "Tab"
	case Semicolon:
		return "Semicolon (;)"
	case Pipe:
		return "Pipe (|)"
	default:
		return "Comma (,)"
	}
}

// String returns the lowercase key used in forms and JSON.
func (d Delimiter) String() string {
	switch d {
	case Tab:
		return "tab"
	case Semicolon:
		return "semicolon"
	case Pipe:
		return "pipe"
	default:
		return "comma"
	}
}

// Valid reports whether d is one of the declared delimiters.
func (d Delimiter) Valid() bool {
	return d >= Comma && d <= Pipe
}

// MarshalText encodes the delimiter as its lowercase key.
func (d Delimiter) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDelimiter accepts except "auto".
func (d *Delimiter) UnmarshalText(b []byte) error {
	parsed, ok, err := ParseDelimiter(string(b))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delimiter %q is not a concrete delimiter", string(b))
	}
	*d = parsed
	return nil
}

// ParseDelimiter interprets a user supplied delimiter choice.
// "" and "auto" return ok=false, meaning the caller should auto-detect.
// Names ("comma", "tab", ...), display labels and the literal characters
// are accepted case-insensitively.
func ParseDelimiter(s string) (d Delimiter, ok bool, err error) {
	switch s {
	case ",":
		return Comma, true, nil
	case "\t":
		return Tab, true, nil
	case ";":
		return Semicolon, true, nil
	case "|":
		return Pipe, true, nil
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "auto-detect":
		return Comma, false, nil
	case "comma", "comma (,)":
		return Comma, true, nil
	case "tab", `\t`:
		return Tab, true, nil
	case "semicolon", "semicolon (;)":
		return Semicolon, true, nil
	case "pipe", "pipe (|)":
		return Pipe, true, nil
	}
	return Comma, false, fmt.Errorf("%w %q", ErrUnsupportedDelimiter, s)
}

// delimiterFor maps a rune back to its Delimiter.
func delimiterFor(r rune) (Delimiter, bool) {
	for _, d := range candidates {
		if d.Rune() == r {
			return d, true
		}
	}
	return Comma, false
}
