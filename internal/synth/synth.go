package synth

import (
	"context"
	"fmt"
)

// Generator is a single-turn prompt-completion boundary. One call, one free
// text response; no streaming, no structured output mode.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Synthesizer turns a question plus retrieved schema facts into candidate SQL.
// Output is not deterministic across calls; correctness is validated by
// executing the query, not by inspecting it.
type Synthesizer struct {
	Generator Generator
}

func (s *Synthesizer) Synthesize(ctx context.Context, question string, facts []string, priorError string) (string, error) {
	prompt := BuildPrompt(question, facts, priorError)

	response, err := s.Generator.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate sql: %w", err)
	}

	sql, err := ExtractSQL(response)
	if err != nil {
		return "", err
	}
	return sql, nil
}
