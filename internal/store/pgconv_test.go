package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

func TestToPgText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  pgtype.Text
	}{
		{name: "empty string", input: "", want: pgtype.Text{Valid: false}},
		{name: "whitespace only", input: "   ", want: pgtype.Text{Valid: false}},
		{name: "trimmed value", input: "  curl/8.0 ", want: pgtype.Text{String: "curl/8.0", Valid: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toPgText(tt.input); got != tt.want {
				t.Errorf("toPgText(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPgUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	if got := fromPgUUID(toPgUUID(id)); got != id {
		t.Errorf("round trip = %s, want %s", got, id)
	}
	if toPgUUID(uuid.Nil).Valid {
		t.Error("toPgUUID(uuid.Nil) should be NULL")
	}
	if fromPgUUID(pgtype.UUID{}) != uuid.Nil {
		t.Error("fromPgUUID(NULL) should be uuid.Nil")
	}
}
