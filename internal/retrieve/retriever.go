package retrieve

import (
	"context"
	"fmt"

	"github.com/saketh648/talk2db/internal/embed"
	"github.com/saketh648/talk2db/internal/index"
)

// Plan decides how many schema facts to pull for a given attempt. Breadth
// escalation is the retrieval side of the self-correction strategy: a failure
// that came from missing context gets a wider net on the next attempt. With a
// multiplier of at least 2 the breadth strictly increases per attempt.
type Plan struct {
	Initial    int
	Multiplier int
}

func (p Plan) Breadth(attempt int) int {
	initial := p.Initial
	if initial < 1 {
		initial = 4
	}
	multiplier := p.Multiplier
	if multiplier < 2 {
		multiplier = 2
	}
	k := initial
	for i := 0; i < attempt; i++ {
		k *= multiplier
	}
	return k
}

// Retriever embeds a question and returns the k nearest schema facts, in the
// order the index returned them. No re-ranking happens here.
type Retriever struct {
	Embedder embed.Embedder
	Index    index.Index
}

func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("breadth must be positive, got %d", k)
	}

	vector, err := r.Embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	facts, err := r.Index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search schema facts: %w", err)
	}

	texts := make([]string, 0, len(facts))
	for _, fact := range facts {
		texts = append(texts, fact.Text)
	}
	return texts, nil
}
