package synth

import (
	"errors"
	"testing"
)

func TestExtractSQL(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "plain fence",
			response: "```sql\nSELECT t1.region FROM sales_table t1;\n```",
			want:     "SELECT t1.region FROM sales_table t1;",
		},
		{
			name:     "prose around fence",
			response: "Here is the query you asked for:\n```sql\nSELECT 1\n```\nLet me know if it works.",
			want:     "SELECT 1",
		},
		{
			name:     "uppercase fence tag",
			response: "```SQL\nSELECT 2\n```",
			want:     "SELECT 2",
		},
		{
			name:     "only first fence used",
			response: "```sql\nSELECT 3\n```\n```sql\nSELECT 4\n```",
			want:     "SELECT 3",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractSQL(tc.response)
			if err != nil {
				t.Fatalf("ExtractSQL() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("ExtractSQL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractSQLMalformed(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{name: "no fence at all", response: "SELECT region FROM sales_table"},
		{name: "bare fence without sql tag", response: "```\nSELECT 1\n```"},
		{name: "unclosed fence", response: "```sql\nSELECT 1"},
		{name: "empty fence", response: "```sql\n\n```"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractSQL(tc.response)
			if err == nil {
				t.Fatal("expected error")
			}
			var malformed *MalformedGenerationError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %T, want *MalformedGenerationError", err)
			}
		})
	}
}
