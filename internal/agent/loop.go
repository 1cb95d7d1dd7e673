package agent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/saketh648/talk2db/internal/observability"
	"github.com/saketh648/talk2db/internal/retrieve"
	"github.com/saketh648/talk2db/internal/store"
)

type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, question string, facts []string, priorError string) (string, error)
}

type Executor interface {
	Execute(ctx context.Context, sqlText string) (store.Result, error)
}

// Outcome is what one trip through the loop reports back to the caller. When
// Success is false, LastError holds the final attempt's raw failure text so a
// human can diagnose schema or index gaps; it is never a generic message.
type Outcome struct {
	Question  string
	Success   bool
	Attempts  int
	SQL       string
	Result    store.Result
	LastError string
}

// Loop drives retrieve → synthesize → execute across a bounded retry budget.
// Each retry widens retrieval per the breadth plan and feeds the previous
// attempt's raw error into the next synthesis prompt. Attempts are strictly
// sequential; a success ends the loop immediately regardless of remaining
// budget.
type Loop struct {
	Retriever   Retriever
	Synthesizer Synthesizer
	Executor    Executor
	Breadth     retrieve.Plan
	MaxAttempts int
	Logger      *slog.Logger
}

// Ask runs the self-correction loop for one question. The returned error is
// non-nil only when retrieval itself fails: a broken index connection aborts
// the question, since retrying cannot repair it. Every query-specific failure
// is reported through the Outcome instead.
func (l *Loop) Ask(ctx context.Context, question string) (Outcome, error) {
	logger := l.logger()
	maxAttempts := l.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 2
	}

	start := time.Now()
	outcome := Outcome{Question: question}
	var feedback string

	for attempt := 0; attempt < maxAttempts; attempt++ {
		outcome.Attempts = attempt + 1
		k := l.Breadth.Breadth(attempt)
		observability.ObserveRetrievalBreadth(k)
		logger.DebugContext(ctx, "attempt_started",
			slog.Int("attempt", attempt+1),
			slog.Int("breadth", k),
			slog.Bool("has_feedback", feedback != ""),
		)

		facts, err := l.Retriever.Retrieve(ctx, question, k)
		if err != nil {
			observability.ObserveAttemptStage("retrieval", "error")
			observability.ObserveQuestion("retrieval_failed", time.Since(start))
			return Outcome{}, fmt.Errorf("retrieve schema facts: %w", err)
		}
		observability.ObserveAttemptStage("retrieval", "ok")

		sqlText, err := l.Synthesizer.Synthesize(ctx, question, facts, feedback)
		if err != nil {
			observability.ObserveAttemptStage("synthesis", "error")
			feedback = err.Error()
			logger.WarnContext(ctx, "synthesis_failed",
				slog.Int("attempt", attempt+1),
				slog.String("error", feedback),
			)
			continue
		}
		observability.ObserveAttemptStage("synthesis", "ok")
		outcome.SQL = sqlText

		result, err := l.Executor.Execute(ctx, sqlText)
		if err != nil {
			observability.ObserveAttemptStage("execution", "error")
			feedback = err.Error()
			logger.WarnContext(ctx, "execution_failed",
				slog.Int("attempt", attempt+1),
				slog.String("sql", sqlText),
				slog.String("error", feedback),
			)
			continue
		}
		observability.ObserveAttemptStage("execution", "ok")

		outcome.Success = true
		outcome.Result = result
		observability.ObserveQuestion("success", time.Since(start))
		logger.InfoContext(ctx, "question_answered",
			slog.Int("attempts", outcome.Attempts),
			slog.Int("rows", len(result.Rows)),
			slog.String("duration", time.Since(start).String()),
		)
		return outcome, nil
	}

	outcome.LastError = feedback
	observability.ObserveQuestion("exhausted", time.Since(start))
	logger.WarnContext(ctx, "retry_budget_exhausted",
		slog.Int("attempts", outcome.Attempts),
		slog.String("last_error", feedback),
	)
	return outcome, nil
}

func (l *Loop) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
