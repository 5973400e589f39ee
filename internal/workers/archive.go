package workers

import (
	"context"
	"fmt"

	"github.com/hetulpatel/cv-evaluator/internal/queue"
	"github.com/hetulpatel/cv-evaluator/internal/storage/sqlite"
)

// EvaluationSink persists history rows.
type EvaluationSink interface {
	InsertEvaluation(ctx context.Context, rec sqlite.Record) error
}

// Archiver returns a handler that stores every event as a history row.
func Archiver(sink EvaluationSink) Handler {
	return func(ctx context.Context, env queue.Envelope) error {
		res, err := env.Result()
		if err != nil {
			return err
		}
		rec, err := sqlite.NewRecord(env.RunID, env.Candidate, env.SourceFile, env.PromptHash, env.Model, res, env.EvaluatedAt)
		if err != nil {
			return fmt.Errorf("build record: %w", err)
		}
		return sink.InsertEvaluation(ctx, rec)
	}
}
