package tabular

import "strings"

// Sniffer infers the delimiter from the layout of the sample.
//
// It first looks at quoted fields: a candidate that repeatedly sits right
// outside a pair of double quotes is taken when it is the unique leader.
// Otherwise it builds, per candidate, the distribution of per-line counts and
// accepts candidates whose most common non-zero count covers at least
// MinConsistency of the lines. The required share starts at 100% and is
// lowered one point at a time; the first level with any passing candidate
// decides, earlier declared candidates winning ties.
type Sniffer struct {
	// MinConsistency is the lowest share of lines, in percent, that must
	// agree on a count. Zero means 90.
	MinConsistency int
}

// Guess implements Heuristic.
func (sn Sniffer) Guess(s Sample) (Delimiter, bool) {
	lines := s.completeLines()
	if len(lines) == 0 {
		return Comma, false
	}

	if d, ok := quoteAdjacent(lines); ok {
		return d, true
	}
	return sn.consistentMode(lines)
}

// quoteAdjacent counts candidates found directly before an opening quote or
// directly after a closing quote.
func quoteAdjacent(lines []string) (Delimiter, bool) {
	var hits [len(candidates)]int
	found := false

	for _, line := range lines {
		if !strings.ContainsRune(line, '"') {
			continue
		}
		found = true

		runes := []rune(line)
		inQuote := false
		for i := 0; i < len(runes); i++ {
			if runes[i] != '"' {
				continue
			}
			if !inQuote {
				inQuote = true
				if i > 0 {
					if d, ok := delimiterFor(runes[i-1]); ok {
						hits[d]++
					}
				}
				continue
			}
			// "" inside a quoted field is an escaped quote
			if i+1 < len(runes) && runes[i+1] == '"' {
				i++
				continue
			}
			inQuote = false
			if i+1 < len(runes) {
				if d, ok := delimiterFor(runes[i+1]); ok {
					hits[d]++
				}
			}
		}
	}
	if !found {
		return Comma, false
	}

	best, bestHits, unique := Comma, 0, false
	for _, d := range candidates {
		switch {
		case hits[d] > bestHits:
			best, bestHits, unique = d, hits[d], true
		case hits[d] == bestHits && bestHits > 0:
			unique = false
		}
	}
	return best, unique
}

// consistentMode applies the per-line count consistency test.
func (sn Sniffer) consistentMode(lines []string) (Delimiter, bool) {
	floor := sn.MinConsistency
	if floor <= 0 || floor > 100 {
		floor = 90
	}

	type mode struct {
		count int // most common per-line count
		lines int // lines having that count
	}
	var modes [len(candidates)]mode

	for _, d := range candidates {
		freq := make(map[int]int)
		for _, line := range lines {
			freq[strings.Count(line, string(d.Rune()))]++
		}
		var m mode
		for count, n := range freq {
			if n > m.lines || (n == m.lines && count > m.count) {
				m = mode{count: count, lines: n}
			}
		}
		modes[d] = m
	}

	total := len(lines)
	for pct := 100; pct >= floor; pct-- {
		for _, d := range candidates {
			m := modes[d]
			if m.count > 0 && m.lines*100 >= total*pct {
				return d, true
			}
		}
	}
	return Comma, false
}
