package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
	"github.com/hetulpatel/cv-evaluator/internal/report"
)

// Record is one stored candidate evaluation.
type Record struct {
	ID          int64
	RunID       string
	Candidate   string
	SourceFile  string
	PromptHash  string
	Model       string
	Score       *float64
	Verdict     string
	Error       string
	ResultJSON  string
	EvaluatedAt time.Time
}

// NewRecord flattens res into a row.
func NewRecord(runID, candidate, sourceFile, promptHash, model string, res evaluation.Result, at time.Time) (Record, error) {
	data, err := report.MarshalResult(res)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		RunID:       runID,
		Candidate:   candidate,
		SourceFile:  sourceFile,
		PromptHash:  promptHash,
		Model:       model,
		ResultJSON:  string(data),
		EvaluatedAt: at.UTC(),
	}
	switch r := res.(type) {
	case *evaluation.Judgment:
		rec.Score = r.Score
		if r.Verdict != nil {
			rec.Verdict = string(*r.Verdict)
		}
	case *evaluation.Failure:
		rec.Error = r.Error
	}
	return rec, nil
}

// InsertEvaluation stores the outcome of one candidate evaluation.
func (s *Store) InsertEvaluation(ctx context.Context, rec Record) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialized")
	}
	query := `
INSERT INTO evaluations (
	run_id, candidate, source_file, prompt_hash, model,
	match_score, verdict, error, result_json, evaluated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	var score sql.NullFloat64
	if rec.Score != nil {
		score = sql.NullFloat64{Float64: *rec.Score, Valid: true}
	}
	_, err := s.db.ExecContext(
		ctx,
		query,
		rec.RunID,
		rec.Candidate,
		rec.SourceFile,
		rec.PromptHash,
		rec.Model,
		score,
		nullString(rec.Verdict),
		nullString(rec.Error),
		rec.ResultJSON,
		rec.EvaluatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListEvaluations returns the most recent evaluations, newest first.
func (s *Store) ListEvaluations(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, run_id, candidate, source_file, prompt_hash, model,
	match_score, verdict, error, result_json, evaluated_at
FROM evaluations
ORDER BY evaluated_at DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                   Record
			model, verdict, errTx sql.NullString
			score                 sql.NullFloat64
			evaluatedAt           string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Candidate, &rec.SourceFile, &rec.PromptHash, &model,
			&score, &verdict, &errTx, &rec.ResultJSON, &evaluatedAt); err != nil {
			return nil, err
		}
		rec.Model = model.String
		rec.Verdict = verdict.String
		rec.Error = errTx.String
		if score.Valid {
			v := score.Float64
			rec.Score = &v
		}
		if t, err := time.Parse(time.RFC3339Nano, evaluatedAt); err == nil {
			rec.EvaluatedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
