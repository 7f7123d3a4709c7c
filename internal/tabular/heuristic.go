package tabular

// Heuristic guesses the delimiter of a sample. It returns false when it
// cannot decide; the next heuristic in the chain is tried then.
type Heuristic interface {
	Guess(s Sample) (Delimiter, bool)
}

// HeuristicFunc adapts a plain function to the Heuristic interface.
type HeuristicFunc func(s Sample) (Delimiter, bool)

// Guess calls f(s).
func (f HeuristicFunc) Guess(s Sample) (Delimiter, bool) {
	return f(s)
}
