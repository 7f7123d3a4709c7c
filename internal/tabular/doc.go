// Package tabular detects the delimiter of pasted tabular text and splits it
// into rows.
//
// Detection works on a bounded leading [Sample] of the text and runs an
// ordered chain of [Heuristic] implementations; the first one that decides
// wins. The default chain is a structural [Sniffer] followed by the
// deterministic [Frequency] count. When neither decides the result is
// [Comma]. Detection never returns an error.
//
//	res := tabular.DetectWithCount(text)
//	rows, err := tabular.Parse(text, res.Delimiter, hasHeader)
//
// Parsing is strict about quoting: an unbalanced quote yields a *ParseError
// wrapping [ErrMalformedQuoting], since it usually means the delimiter or
// quoting assumption was wrong.
//
// Everything in this package is pure and safe for concurrent use.
package tabular
