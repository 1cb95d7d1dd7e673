package agent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/saketh648/talk2db/internal/config"
	"github.com/saketh648/talk2db/internal/embed/gemini"
	qdrantindex "github.com/saketh648/talk2db/internal/index/qdrant"
	"github.com/saketh648/talk2db/internal/observability"
	"github.com/saketh648/talk2db/internal/retrieve"
	"github.com/saketh648/talk2db/internal/store"
	"github.com/saketh648/talk2db/internal/synth"
)

// Session owns the process-wide cached clients: the embedder, the schema
// index, the generator, and the relational store connection pool. They are
// built once and reused across questions until Reset tears them down. The
// session also serializes questions: one runs end-to-end before the next is
// accepted.
type Session struct {
	mu      sync.Mutex
	cfg     config.Config
	logger  *slog.Logger
	factory func(ctx context.Context) (*Loop, []func() error, error)

	loop    *Loop
	db      *sql.DB
	closers []func() error
}

func NewSession(cfg config.Config, logger *slog.Logger) *Session {
	s := &Session{cfg: cfg, logger: logger}
	s.factory = s.buildClients
	return s
}

// Init eagerly builds the cached clients so startup can fail fast on
// connectivity problems. Calling it on an initialized session is a no-op.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

// Ask answers one question through the correction loop, initializing the
// cached clients first if needed.
func (s *Session) Ask(ctx context.Context, question string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(ctx); err != nil {
		return Outcome{}, err
	}
	return s.loop.Ask(ctx, question)
}

// Reset tears down every cached client. The next question rebuilds them from
// scratch, which is the recovery path for a wedged external connection.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.closeLocked()
	observability.IncrementSessionReset()
	if s.logger != nil {
		s.logger.Info("session_reset")
	}
	return err
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

// HealthCheck pings the relational store when the session is initialized. An
// uninitialized session is healthy by definition: clients are built lazily.
func (s *Session) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()

	if db == nil {
		return nil
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping store db: %w", err)
	}
	return nil
}

func (s *Session) initLocked(ctx context.Context) error {
	if s.loop != nil {
		return nil
	}
	loop, closers, err := s.factory(ctx)
	if err != nil {
		return err
	}
	s.loop = loop
	s.closers = closers
	return nil
}

func (s *Session) closeLocked() error {
	var errs []error
	for _, close := range s.closers {
		if err := close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.loop = nil
	s.db = nil
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Session) buildClients(ctx context.Context) (*Loop, []func() error, error) {
	var closers []func() error
	cleanup := func() {
		for _, close := range closers {
			_ = close()
		}
	}

	embedder, err := gemini.New(ctx, gemini.Config{
		APIKey: s.cfg.Embedding.APIKey,
		Model:  s.cfg.Embedding.Model,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init embedder: %w", err)
	}
	closers = append(closers, embedder.Close)

	idx, err := qdrantindex.New(qdrantindex.Config{
		Host:       s.cfg.Index.Host,
		Port:       s.cfg.Index.Port,
		APIKey:     s.cfg.Index.APIKey,
		UseTLS:     s.cfg.Index.UseTLS,
		Collection: s.cfg.Index.Collection,
		Timeout:    s.cfg.Index.Timeout,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init schema index: %w", err)
	}
	closers = append(closers, idx.Close)

	generator, err := synth.NewOpenAIGenerator(synth.OpenAIConfig{
		BaseURL:     s.cfg.AI.BaseURL,
		APIKey:      s.cfg.AI.APIKey,
		Model:       s.cfg.AI.Model,
		Temperature: s.cfg.AI.Temperature,
		Timeout:     s.cfg.AI.Timeout,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init generator: %w", err)
	}

	db, err := store.Open(ctx, store.DBConfig{
		DSN:             s.cfg.Store.DSN,
		MaxOpenConns:    s.cfg.Store.MaxOpenConns,
		MaxIdleConns:    s.cfg.Store.MaxIdleConns,
		ConnMaxIdleTime: s.cfg.Store.ConnMaxIdleTime,
		ConnMaxLifetime: s.cfg.Store.ConnMaxLifetime,
		PingTimeout:     s.cfg.Store.PingTimeout,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	closers = append(closers, db.Close)
	s.db = db

	loop := &Loop{
		Retriever:   &retrieve.Retriever{Embedder: embedder, Index: idx},
		Synthesizer: &synth.Synthesizer{Generator: generator},
		Executor:    store.NewEngine(db),
		Breadth: retrieve.Plan{
			Initial:    s.cfg.Agent.InitialBreadth,
			Multiplier: s.cfg.Agent.BreadthMultiplier,
		},
		MaxAttempts: s.cfg.Agent.MaxAttempts,
		Logger:      s.logger,
	}
	return loop, closers, nil
}
