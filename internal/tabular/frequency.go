package tabular

import "strings"

// FrequencyLines is the number of leading sample lines Frequency inspects.
const FrequencyLines = 5

// Frequency is the deterministic counting heuristic used when structural
// sniffing cannot decide.
//
// Over the first FrequencyLines lines of the sample it counts each candidate
// on every non-blank line. A candidate is consistent when all those counts
// are equal and positive. Candidates with a zero mean are dropped; the rest
// rank by consistency first and mean count second. Equal ranks resolve in
// declaration order.
type Frequency struct{}

// FrequencyScore is the per-candidate statistic Frequency ranks by.
type FrequencyScore struct {
	Delimiter  Delimiter
	Mean       float64
	Consistent bool
}

// Guess implements Heuristic.
func (Frequency) Guess(s Sample) (Delimiter, bool) {
	scores := FrequencyScores(s)
	if len(scores) == 0 {
		return Comma, false
	}
	best := scores[0]
	for _, sc := range scores[1:] {
		if sc.outranks(best) {
			best = sc
		}
	}
	return best.Delimiter, true
}

// outranks is a strict comparison so earlier candidates keep ties.
func (a FrequencyScore) outranks(b FrequencyScore) bool {
	if a.Consistent != b.Consistent {
		return a.Consistent
	}
	return a.Mean > b.Mean
}

// FrequencyScores returns the surviving candidates in declaration order.
func FrequencyScores(s Sample) []FrequencyScore {
	lines := strings.Split(s.Text(), "\n")
	if len(lines) > FrequencyLines {
		lines = lines[:FrequencyLines]
	}

	var scores []FrequencyScore
	for _, d := range candidates {
		sep := string(d.Rune())

		var counts []int
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			counts = append(counts, strings.Count(line, sep))
		}
		if len(counts) == 0 {
			continue
		}

		sum := 0
		consistent := counts[0] > 0
		for _, c := range counts {
			sum += c
			if c != counts[0] {
				consistent = false
			}
		}
		if sum == 0 {
			continue
		}

		scores = append(scores, FrequencyScore{
			Delimiter:  d,
			Mean:       float64(sum) / float64(len(counts)),
			Consistent: consistent,
		})
	}
	return scores
}
