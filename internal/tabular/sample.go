package tabular

import "strings"

// SampleSize is the number of leading characters inspected by detection.
const SampleSize = 2048

// Sample is the bounded leading portion of a text used only for detection.
type Sample struct {
	text      string
	truncated bool
}

// NewSample keeps at most SampleSize runes of text.
func NewSample(text string) Sample {
	n := 0
	for i := range text {
		if n == SampleSize {
			return Sample{text: text[:i], truncated: true}
		}
		n++
	}
	return Sample{text: text}
}

// Text returns the sampled text.
func (s Sample) Text() string { return s.text }

// Truncated reports whether the source text was longer than the sample.
func (s Sample) Truncated() bool { return s.truncated }

// lines splits the sample on '\n'. A trailing empty piece produced by a final
// newline is dropped.
func (s Sample) lines() []string {
	if s.text == "" {
		return nil
	}
	parts := strings.Split(s.text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// completeLines returns the non-blank lines of the sample, leaving out a
// final unterminated line when at least two terminated lines precede it.
// Text that is still being typed therefore does not sway the result.
func (s Sample) completeLines() []string {
	parts := s.lines()
	if len(parts) > 2 && !strings.HasSuffix(s.text, "\n") {
		parts = parts[:len(parts)-1]
	}

	out := parts[:0:0]
	for _, line := range parts {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
