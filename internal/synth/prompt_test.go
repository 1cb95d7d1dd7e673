package synth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuildPromptEmbedsFactsVerbatim(t *testing.T) {
	facts := []string{
		"Table 'sales_table' contains: [transaction_id, date, amt, status_id, region].",
		"The 'status_id' column is a BIGINT. Mapping: 'active'=1, 'churned'=4.",
	}
	prompt := BuildPrompt("Show active revenue by region", facts, "")

	for _, fact := range facts {
		if !strings.Contains(prompt, fact) {
			t.Fatalf("prompt missing fact %q", fact)
		}
	}
	if !strings.Contains(prompt, "Question: Show active revenue by region") {
		t.Fatal("prompt missing question")
	}
	if !strings.Contains(prompt, "```sql") {
		t.Fatal("prompt missing fenced output instruction")
	}
	if strings.Contains(prompt, "previous query failed") {
		t.Fatal("first attempt must not carry error feedback")
	}
}

func TestBuildPromptInjectsPriorError(t *testing.T) {
	priorError := `ERROR: column "statuz_id" does not exist (SQLSTATE 42703)`
	prompt := BuildPrompt("Show churned users", []string{"fact"}, priorError)

	if !strings.Contains(prompt, priorError) {
		t.Fatal("prompt must carry the prior error verbatim")
	}
	if !strings.Contains(prompt, "Fix this exact error") {
		t.Fatal("prompt must instruct the model to fix the failure")
	}
}

type scriptedGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *scriptedGenerator) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func TestSynthesizeExtractsFencedSQL(t *testing.T) {
	gen := &scriptedGenerator{response: "```sql\nSELECT t1.region, SUM(t1.amt) FROM sales_table t1 GROUP BY t1.region\n```"}
	s := &Synthesizer{Generator: gen}

	sql, err := s.Synthesize(context.Background(), "revenue by region", []string{"fact"}, "")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !strings.HasPrefix(sql, "SELECT t1.region") {
		t.Fatalf("sql = %q", sql)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times, want exactly one round-trip", len(gen.prompts))
	}
}

func TestSynthesizeSurfacesMalformedGeneration(t *testing.T) {
	s := &Synthesizer{Generator: &scriptedGenerator{response: "I could not produce SQL for that."}}

	_, err := s.Synthesize(context.Background(), "q", nil, "")
	var malformed *MalformedGenerationError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *MalformedGenerationError", err)
	}
}

func TestSynthesizeWrapsGeneratorFailure(t *testing.T) {
	s := &Synthesizer{Generator: &scriptedGenerator{err: errors.New("status=429")}}

	_, err := s.Synthesize(context.Background(), "q", nil, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "generate sql") {
		t.Fatalf("error = %v", err)
	}
}
