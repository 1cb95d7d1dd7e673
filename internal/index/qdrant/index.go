package qdrant

import (
	"context"
	"fmt"
	"strings"
	"time"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/saketh648/talk2db/internal/index"
)

type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Timeout    time.Duration
}

// Index serves similarity search over the schema-fact collection via the
// Qdrant gRPC API. Fact text lives in the "content" payload field.
type Index struct {
	client     *pb.Client
	collection string
	timeout    time.Duration
}

func New(cfg Config) (*Index, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("index host is required")
	}
	if strings.TrimSpace(cfg.Collection) == "" {
		return nil, fmt.Errorf("index collection is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := pb.NewClient(&pb.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}
	return &Index{
		client:     client,
		collection: cfg.Collection,
		timeout:    timeout,
	}, nil
}

func (ix *Index) Search(ctx context.Context, vector []float32, k int) ([]index.SchemaFact, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("query vector is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, ix.timeout)
	defer cancel()

	limit := uint64(k)
	points, err := ix.client.Query(ctx, &pb.QueryPoints{
		CollectionName: ix.collection,
		Query:          pb.NewQuery(vector...),
		WithPayload:    pb.NewWithPayload(true),
		Limit:          &limit,
	})
	if err != nil {
		return nil, &index.UnavailableError{Err: err}
	}

	facts := make([]index.SchemaFact, 0, len(points))
	for _, point := range points {
		payload := point.GetPayload()
		if payload == nil {
			continue
		}
		content := payload["content"].GetStringValue()
		if content == "" {
			continue
		}
		facts = append(facts, index.SchemaFact{
			Text:  content,
			Score: point.GetScore(),
		})
	}
	return facts, nil
}

// EnsureCollection creates the schema-fact collection with cosine distance if
// it does not exist yet. Used by the seeding tool, not by the query path.
func (ix *Index) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	ctx, cancel := context.WithTimeout(ctx, ix.timeout)
	defer cancel()

	exists, err := ix.client.CollectionExists(ctx, ix.collection)
	if err != nil {
		return fmt.Errorf("check collection %q: %w", ix.collection, err)
	}
	if exists {
		return nil
	}

	err = ix.client.CreateCollection(ctx, &pb.CreateCollection{
		CollectionName: ix.collection,
		VectorsConfig: pb.NewVectorsConfig(&pb.VectorParams{
			Size:     vectorSize,
			Distance: pb.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", ix.collection, err)
	}
	return nil
}

// UpsertFact stores one embedded schema fact under the given point ID.
func (ix *Index) UpsertFact(ctx context.Context, id string, vector []float32, text string) error {
	ctx, cancel := context.WithTimeout(ctx, ix.timeout)
	defer cancel()

	_, err := ix.client.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: ix.collection,
		Wait:           pb.PtrOf(true),
		Points: []*pb.PointStruct{
			{
				Id:      pb.NewIDUUID(id),
				Vectors: pb.NewVectors(vector...),
				Payload: pb.NewValueMap(map[string]any{"content": text}),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("upsert fact %q: %w", id, err)
	}
	return nil
}

func (ix *Index) Close() error {
	return ix.client.Close()
}
