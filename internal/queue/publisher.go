package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Event announces one finished candidate evaluation.
type Event struct {
	RunID       string            `json:"run_id"`
	Candidate   string            `json:"candidate"`
	SourceFile  string            `json:"source_file"`
	PromptHash  string            `json:"prompt_hash"`
	Model       string            `json:"model"`
	Status      string            `json:"status"`
	Result      evaluation.Result `json:"result"`
	JSONReport  string            `json:"json_report"`
	MDReport    string            `json:"markdown_report"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
}

const (
	StatusEvaluated = "evaluated"
	StatusFailed    = "failed"
)

// StatusOf labels res for downstream consumers.
func StatusOf(res evaluation.Result) string {
	if _, ok := res.(*evaluation.Judgment); ok {
		return StatusEvaluated
	}
	return StatusFailed
}

// BuildMessage encodes ev keyed by run and candidate.
func BuildMessage(ev Event) (kafka.Message, error) {
	if ev.Status == "" {
		ev.Status = StatusOf(ev.Result)
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal evaluation %s: %w", ev.Candidate, err)
	}
	key := fmt.Sprintf("%s-%s", ev.RunID, ev.Candidate)
	return kafka.Message{Key: []byte(key), Value: payload, Time: ev.EvaluatedAt}, nil
}

// PublishEvaluation writes one event. A nil writer disables publishing.
func PublishEvaluation(ctx context.Context, writer MessageWriter, ev Event) error {
	if writer == nil {
		return nil
	}
	msg, err := BuildMessage(ev)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, msg)
}

// Envelope is an Event read back from the topic with its result still encoded.
type Envelope struct {
	RunID       string          `json:"run_id"`
	Candidate   string          `json:"candidate"`
	SourceFile  string          `json:"source_file"`
	PromptHash  string          `json:"prompt_hash"`
	Model       string          `json:"model"`
	Status      string          `json:"status"`
	RawResult   json.RawMessage `json:"result"`
	JSONReport  string          `json:"json_report"`
	MDReport    string          `json:"markdown_report"`
	EvaluatedAt time.Time       `json:"evaluated_at"`
}

// DecodeEvent parses a message value written by PublishEvaluation.
func DecodeEvent(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode evaluation event: %w", err)
	}
	if env.Candidate == "" {
		return Envelope{}, fmt.Errorf("decode evaluation event: missing candidate")
	}
	return env, nil
}

// Result rebuilds the typed result from the encoded payload.
func (e Envelope) Result() (evaluation.Result, error) {
	switch e.Status {
	case StatusEvaluated:
		j, err := evaluation.ParseJudgment(string(e.RawResult))
		if err != nil {
			return nil, fmt.Errorf("decode judgment for %s: %w", e.Candidate, err)
		}
		return j, nil
	case StatusFailed:
		var f evaluation.Failure
		if err := json.Unmarshal(e.RawResult, &f); err != nil {
			return nil, fmt.Errorf("decode failure for %s: %w", e.Candidate, err)
		}
		f.Kind = evaluation.FailureServiceCall
		if f.Error == evaluation.InvalidJSONMarker {
			f.Kind = evaluation.FailureMalformedResponse
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("unknown status %q for %s", e.Status, e.Candidate)
	}
}
