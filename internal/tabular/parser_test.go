package tabular

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		delim     Delimiter
		hasHeader bool
		want      []Row
	}{
		{
			name:  "quoted field keeps delimiter",
			text:  "\"a,b\",c\n",
			delim: Comma,
			want:  []Row{{"a,b", "c"}},
		},
		{
			name:  "doubled quote is a literal quote",
			text:  "\"say \"\"hi\"\"\";x\n",
			delim: Semicolon,
			want:  []Row{{`say "hi"`, "x"}},
		},
		{
			name:  "embedded newline",
			text:  "q\t\"line one\nline two\"\n",
			delim: Tab,
			want:  []Row{{"q", "line one\nline two"}},
		},
		{
			name:      "header dropped",
			text:      "Front|Back\na|b\nc|d\n",
			delim:     Pipe,
			hasHeader: true,
			want:      []Row{{"a", "b"}, {"c", "d"}},
		},
		{
			name:      "single row kept despite header flag",
			text:      "a,b\n",
			delim:     Comma,
			hasHeader: true,
			want:      []Row{{"a", "b"}},
		},
		{
			name:  "ragged rows are not truncated",
			text:  "a,b,c,tag1 tag2\nd\n",
			delim: Comma,
			want:  []Row{{"a", "b", "c", "tag1 tag2"}, {"d"}},
		},
		{
			name:  "blank-field rows are returned",
			text:  "a,b\n , \nc,d",
			delim: Comma,
			want:  []Row{{"a", "b"}, {" ", " "}, {"c", "d"}},
		},
		{
			name:  "blank line is a row with no fields",
			text:  "a,b\n\nc,d",
			delim: Comma,
			want:  []Row{{"a", "b"}, {}, {"c", "d"}},
		},
		{
			name:  "blank lines between and after rows",
			text:  "a,b\n\n\nc,d\n,\n\n",
			delim: Comma,
			want:  []Row{{"a", "b"}, {}, {}, {"c", "d"}, {"", ""}, {}},
		},
		{
			name:  "crlf blank line",
			text:  "a;b\r\n\r\nc;d\r\n",
			delim: Semicolon,
			want:  []Row{{"a", "b"}, {}, {"c", "d"}},
		},
		{
			name:  "blank line inside quoted field is not a row",
			text:  "\"one\n\ntwo\",x\n\ny,z",
			delim: Comma,
			want:  []Row{{"one\n\ntwo", "x"}, {}, {"y", "z"}},
		},
		{
			name:  "bare quote in unquoted field is literal",
			text:  "name,size\nTV,55\" screen\n",
			delim: Comma,
			want:  []Row{{"name", "size"}, {"TV", `55" screen`}},
		},
		{
			name:  "quoted nickname mid-field",
			text:  "Robert \"Bob\" Smith|x",
			delim: Pipe,
			want:  []Row{{`Robert "Bob" Smith`, "x"}},
		},
		{
			name:  "empty text",
			text:  "",
			delim: Comma,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text, tt.delim, tt.hasHeader)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_HeaderStripping(t *testing.T) {
	rows, err := Parse("h1,h2\na,b\nc,d\n", Comma, true)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("len(rows) = %d, want 2", len(rows))
	}

	rows, err = Parse("h1,h2\na,b\nc,d\n", Comma, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("len(rows) = %d, want 3", len(rows))
	}
}

func TestParse_MalformedQuoting(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "unterminated quoted field", text: "a,\"b\nc,d"},
		{name: "unterminated quote in last field", text: "a,b\nc,\"d"},
		{name: "text after closing quote runs to the end", text: "\"a\"b,c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Parse(tt.text, Comma, false)
			if err == nil {
				t.Fatalf("Parse() = %q, want error", rows)
			}
			if !errors.Is(err, ErrMalformedQuoting) {
				t.Errorf("error %v does not wrap ErrMalformedQuoting", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Line < 1 || pe.Column < 1 {
				t.Errorf("ParseError position = %d:%d, want positive", pe.Line, pe.Column)
			}
		})
	}
}

func TestParse_BlankLinesCountAsEmptyRows(t *testing.T) {
	text := "a,b\n\nc,d"
	rows, err := Parse(text, Comma, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if !rows[1].IsEmpty() || len(rows[1]) != 0 {
		t.Errorf("rows[1] = %q, want zero-field empty row", rows[1])
	}
	if got := CountEmpty(rows); got != 1 {
		t.Errorf("CountEmpty() = %d, want 1", got)
	}
	if got := CountRows(text, Comma); got != len(rows) {
		t.Errorf("CountRows() = %d, want %d", got, len(rows))
	}
}

func TestParse_CountMatchesParse(t *testing.T) {
	texts := []string{
		"name,size\nTV,55\" screen\n",
		"a|b\n\n\nc|d\n\n",
		"\"x\ny\",z\n\nq,r",
		"\n",
	}
	for _, text := range texts {
		rows, err := Parse(text, Detect(text), false)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", text, err)
		}
		if got := CountRows(text, Detect(text)); got != len(rows) {
			t.Errorf("CountRows(%q) = %d, Parse returned %d rows", text, got, len(rows))
		}
	}
}

func TestRow_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want bool
	}{
		{name: "no fields", row: Row{}, want: true},
		{name: "nil row", row: nil, want: true},
		{name: "blank fields", row: Row{"", "  ", ""}, want: true},
		{name: "tabs and newlines", row: Row{"\t", "\n"}, want: true},
		{name: "one value", row: Row{"", "x"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty(%q) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}

func TestCountEmpty(t *testing.T) {
	rows := []Row{{"a"}, {"", " "}, {}, {"b", ""}}
	if got := CountEmpty(rows); got != 2 {
		t.Errorf("CountEmpty() = %d, want 2", got)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    Delimiter
		wantOK  bool
		wantErr bool
	}{
		{in: "", wantOK: false},
		{in: "auto", wantOK: false},
		{in: "Auto-detect", wantOK: false},
		{in: ",", want: Comma, wantOK: true},
		{in: "\t", want: Tab, wantOK: true},
		{in: "tab", want: Tab, wantOK: true},
		{in: "Semicolon (;)", want: Semicolon, wantOK: true},
		{in: "PIPE", want: Pipe, wantOK: true},
		{in: "|", want: Pipe, wantOK: true},
		{in: ":", wantErr: true},
		{in: "comma;", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok, err := ParseDelimiter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDelimiter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedDelimiter) {
				t.Errorf("ParseDelimiter(%q) error = %v, want ErrUnsupportedDelimiter", tt.in, err)
			}
			if ok != tt.wantOK {
				t.Errorf("ParseDelimiter(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseDelimiter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDelimiter_Names(t *testing.T) {
	want := map[Delimiter][3]string{
		Comma:     {",", "Comma (,)", "comma"},
		Tab:       {"\t", "Tab", "tab"},
		Semicolon: {";", "Semicolon (;)", "semicolon"},
		Pipe:      {"|", "Pipe (|)", "pipe"},
	}
	for _, d := range Candidates() {
		w := want[d]
		if string(d.Rune()) != w[0] || d.Name() != w[1] || d.String() != w[2] {
			t.Errorf("%d: got (%q, %q, %q), want %q", int(d), string(d.Rune()), d.Name(), d.String(), w)
		}
	}
}
