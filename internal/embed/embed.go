package embed

import "context"

// Embedder turns text into the vector space the schema-fact index was built
// in. The same embedder must be used for seeding facts and for questions.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
