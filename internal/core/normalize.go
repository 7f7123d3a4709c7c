package core

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const byteOrderMark = "\uFEFF"

// NormalizeText prepares pasted text for detection and parsing.
//
// It removes a leading byte order mark, replaces invalid UTF-8 with U+FFFD,
// composes the text to NFC and trims surrounding whitespace. Pastes from
// spreadsheets on some platforms arrive decomposed, which would otherwise
// make visually equal fields compare unequal.
func NormalizeText(text string) string {
	text = strings.TrimPrefix(text, byteOrderMark)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	if !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
	}
	return strings.TrimSpace(text)
}
