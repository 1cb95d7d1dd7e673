package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/saketh648/talk2db/internal/config"
)

func newTestSession(t *testing.T) (*Session, *int, *int) {
	t.Helper()
	builds := 0
	closes := 0
	s := NewSession(config.Config{}, nil)
	s.factory = func(context.Context) (*Loop, []func() error, error) {
		builds++
		loop := newLoop(
			&retrieverStub{facts: []string{"fact"}},
			&synthesizerStub{},
			&executorStub{},
		)
		closer := func() error {
			closes++
			return nil
		}
		return loop, []func() error{closer}, nil
	}
	return s, &builds, &closes
}

func TestSessionInitIsIdempotent(t *testing.T) {
	s, builds, _ := newTestSession(t)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if *builds != 1 {
		t.Fatalf("factory ran %d times, want 1", *builds)
	}
}

func TestSessionAskInitializesLazily(t *testing.T) {
	s, builds, _ := newTestSession(t)

	if *builds != 0 {
		t.Fatal("factory ran before first Ask")
	}
	outcome, err := s.Ask(context.Background(), "q")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !outcome.Success {
		t.Fatalf("Success = false, LastError = %q", outcome.LastError)
	}
	if _, err := s.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if *builds != 1 {
		t.Fatalf("factory ran %d times, want 1 (clients cached)", *builds)
	}
}

func TestSessionResetRebuildsClients(t *testing.T) {
	s, builds, closes := newTestSession(t)

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if *closes != 1 {
		t.Fatalf("closers ran %d times, want 1", *closes)
	}
	if _, err := s.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if *builds != 2 {
		t.Fatalf("factory ran %d times, want 2 after reset", *builds)
	}
}

func TestSessionResetOnFreshSessionIsSafe(t *testing.T) {
	s, _, closes := newTestSession(t)

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if *closes != 0 {
		t.Fatal("closers ran without any clients built")
	}
}

func TestSessionAskSurfacesFactoryFailure(t *testing.T) {
	wantErr := errors.New("index unreachable")
	s := NewSession(config.Config{}, nil)
	s.factory = func(context.Context) (*Loop, []func() error, error) {
		return nil, nil, wantErr
	}

	if _, err := s.Ask(context.Background(), "q"); !errors.Is(err, wantErr) {
		t.Fatalf("Ask() error = %v, want %v", err, wantErr)
	}
	// A failed init must not leave a half-built loop behind.
	if s.loop != nil {
		t.Fatal("loop cached after failed init")
	}
}

func TestSessionCloseJoinsCloserErrors(t *testing.T) {
	closeErr := errors.New("close failed")
	s := NewSession(config.Config{}, nil)
	s.factory = func(context.Context) (*Loop, []func() error, error) {
		loop := newLoop(&retrieverStub{}, &synthesizerStub{}, &executorStub{})
		return loop, []func() error{func() error { return closeErr }}, nil
	}

	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.Close(); !errors.Is(err, closeErr) {
		t.Fatalf("Close() error = %v, want %v", err, closeErr)
	}
}

func TestSessionHealthCheckOnUninitializedSession(t *testing.T) {
	s, _, _ := newTestSession(t)
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
}
