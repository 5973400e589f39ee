package evaluator

import (
	"context"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
)

// Completer sends one system+user exchange to a language model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ResultCache stores judgments by request fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string) (*evaluation.Judgment, bool, error)
	Set(ctx context.Context, key string, value *evaluation.Judgment) error
}

// Config controls the evaluator behavior.
type Config struct {
	Completer    Completer
	Cache        ResultCache
	SystemPrompt string
	// Model and Temperature only feed the cache key.
	Model       string
	Temperature float32
}
