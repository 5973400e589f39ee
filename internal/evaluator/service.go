package evaluator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
	"github.com/hetulpatel/cv-evaluator/internal/logging"
)

const systemPrompt = "Tu esi HR analītiķis, kas vērtē CV atbilstību JD."

// Service turns a prompt into an evaluation result via the completion API.
type Service struct {
	completer    Completer
	cache        ResultCache
	systemPrompt string
	model        string
	temperature  float32
}

// NewService creates an evaluator.
func NewService(cfg Config) (*Service, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("evaluator: completer is required")
	}
	system := cfg.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = systemPrompt
	}
	return &Service{
		completer:    cfg.Completer,
		cache:        cfg.Cache,
		systemPrompt: system,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
	}, nil
}

// Evaluate runs the prompt and always returns a result: a *evaluation.Judgment
// on success, otherwise a *evaluation.Failure describing what went wrong.
func (s *Service) Evaluate(ctx context.Context, prompt string) evaluation.Result {
	if s == nil {
		return evaluation.ServiceFailure(fmt.Errorf("evaluator: service is nil"))
	}

	key := s.PromptHash(prompt)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logging.Warnf("[evaluator] cache get: %v", err)
		} else if ok {
			logging.Debugf("[evaluator] cache hit %s", key[:12])
			return cached
		}
	}

	raw, err := s.completer.Complete(ctx, s.systemPrompt, prompt)
	if err != nil {
		logging.Errorf("[evaluator] model call failed: %v", err)
		return evaluation.ServiceFailure(err)
	}

	judgment, err := evaluation.ParseJudgment(raw)
	if err != nil {
		logging.Warnf("[evaluator] model did not return valid JSON, keeping raw text: %v", err)
		return evaluation.Malformed(raw)
	}
	if judgment.Verdict != nil && !judgment.Verdict.Valid() {
		logging.Warnf("[evaluator] unexpected verdict label %q", *judgment.Verdict)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, judgment); err != nil {
			logging.Warnf("[evaluator] cache set: %v", err)
		}
	}
	return judgment
}

// Fingerprint hashes everything that determines a model reply.
func Fingerprint(model string, temperature float32, system, prompt string) string {
	h := sha256.New()
	for _, p := range []string{model, strconv.FormatFloat(float64(temperature), 'f', -1, 32), system, prompt} {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// PromptHash fingerprints prompt with this service's model settings.
func (s *Service) PromptHash(prompt string) string {
	return Fingerprint(s.model, s.temperature, s.systemPrompt, prompt)
}
