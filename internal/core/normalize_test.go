package core

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text unchanged", input: "a,b\nc,d", want: "a,b\nc,d"},
		{name: "surrounding whitespace trimmed", input: "\n  a,b\n\n", want: "a,b"},
		{name: "byte order mark removed", input: "\uFEFFa;b", want: "a;b"},
		{name: "invalid utf8 replaced", input: "a,\xffb", want: "a,\uFFFDb"},
		{name: "decomposed text composed", input: "cafe\u0301,x", want: "caf\u00e9,x"},
		{name: "whitespace only becomes empty", input: " \t\r\n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
