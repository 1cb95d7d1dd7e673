package index

import (
	"context"
	"fmt"
)

// SchemaFact is one natural-language statement about the relational schema:
// which table owns a column, how tables join, what a business term maps to.
// Facts are written once by the seeding tool and retrieved by similarity only.
type SchemaFact struct {
	Text  string
	Score float32
}

// Index is a read-only similarity search over embedded schema facts.
type Index interface {
	Search(ctx context.Context, vector []float32, k int) ([]SchemaFact, error)
}

// UnavailableError marks the schema index as unreachable. Unlike synthesis and
// execution failures it is not fed back into a retry: a broken index
// connection does not get better with a wider k, so the loop aborts.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("schema index unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
