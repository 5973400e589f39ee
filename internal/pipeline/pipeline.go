package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
	"github.com/hetulpatel/cv-evaluator/internal/evaluator"
	"github.com/hetulpatel/cv-evaluator/internal/ingestion"
	"github.com/hetulpatel/cv-evaluator/internal/logging"
	"github.com/hetulpatel/cv-evaluator/internal/queue"
	"github.com/hetulpatel/cv-evaluator/internal/report"
	"github.com/hetulpatel/cv-evaluator/internal/storage/sqlite"
)

// HistoryStore records one row per evaluated candidate.
type HistoryStore interface {
	InsertEvaluation(ctx context.Context, rec sqlite.Record) error
}

// Config wires a Runner. Store, Publisher and SummaryPath are optional.
type Config struct {
	Loader    *ingestion.Loader
	Evaluator *evaluator.Service
	// JobDescPath defaults to jd.txt in the loader's input directory.
	JobDescPath string
	// PromptPath receives a copy of each prompt; empty disables it.
	PromptPath  string
	Model       string
	Store       HistoryStore
	Publisher   queue.MessageWriter
	SummaryPath string
	RunID       string
	Now         func() time.Time
}

// Summary counts what happened during one run.
type Summary struct {
	RunID         string
	Candidates    int
	Evaluated     int
	Failed        int
	Skipped       int
	WriteErrors   int
	HistoryErrors int
	PublishErrors int
}

// Runner evaluates every candidate of the input directory, one at a time.
type Runner struct {
	cfg Config
}

// NewRunner validates cfg and fills in defaults.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Loader == nil {
		return nil, errors.New("pipeline: loader is required")
	}
	if cfg.Evaluator == nil {
		return nil, errors.New("pipeline: evaluator is required")
	}
	if cfg.JobDescPath == "" {
		cfg.JobDescPath = filepath.Join(cfg.Loader.InputDir(), ingestion.JobDescFileName)
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Runner{cfg: cfg}, nil
}

// RunID identifies this run in history rows and events.
func (r *Runner) RunID() string { return r.cfg.RunID }

// Run processes the batch. A missing job description aborts before any
// output file is written; every other per-candidate problem is logged,
// counted and the loop moves on.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: r.cfg.RunID}

	if err := r.cfg.Loader.EnsureDirs(); err != nil {
		return sum, err
	}
	jobDesc, err := r.cfg.Loader.LoadJobDescription(r.cfg.JobDescPath)
	if err != nil {
		logging.Errorf("[pipeline] %v, no candidates evaluated", err)
		return sum, err
	}
	candidates, err := r.cfg.Loader.ListCandidates()
	if err != nil {
		return sum, err
	}
	sum.Candidates = len(candidates)
	if len(candidates) == 0 {
		logging.Warnf("[pipeline] no cv*.txt files in %s", r.cfg.Loader.InputDir())
	}

	rows := make([]report.SummaryRow, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			logging.Warnf("[pipeline] stopping before %s: %v", c.FileName, err)
			return sum, err
		}
		if row, ok := r.evaluateCandidate(ctx, jobDesc, c, &sum); ok {
			rows = append(rows, row)
		}
	}

	if r.cfg.SummaryPath != "" {
		if err := report.WriteSummary(r.cfg.SummaryPath, rows, r.cfg.Now()); err != nil {
			logging.Errorf("[pipeline] summary workbook: %v", err)
			sum.WriteErrors++
		} else {
			logging.Infof("[pipeline] summary workbook written to %s", r.cfg.SummaryPath)
		}
	}
	return sum, nil
}

func (r *Runner) evaluateCandidate(ctx context.Context, jobDesc string, c ingestion.Candidate, sum *Summary) (report.SummaryRow, bool) {
	cv := r.cfg.Loader.ReadText(c.Path)
	if cv == "" {
		logging.Warnf("[pipeline] %s is empty, skipping", c.FileName)
		sum.Skipped++
		return report.SummaryRow{}, false
	}

	logging.Infof("[pipeline] evaluating %s", c.FileName)
	prompt := evaluator.BuildPrompt(jobDesc, cv)
	if err := evaluator.SavePrompt(r.cfg.PromptPath, prompt); err != nil {
		logging.Warnf("[pipeline] %v", err)
	}

	res := r.cfg.Evaluator.Evaluate(ctx, prompt)
	evaluatedAt := r.cfg.Now()
	if _, ok := res.(*evaluation.Judgment); ok {
		sum.Evaluated++
	} else {
		sum.Failed++
	}

	outDir := r.cfg.Loader.OutputDir()
	jsonPath := report.JSONPath(outDir, c.Name)
	mdPath := report.MarkdownPath(outDir, c.Name)
	if err := report.WriteJSON(jsonPath, res); err != nil {
		logging.Errorf("[pipeline] %v", err)
		sum.WriteErrors++
	}
	if err := report.WriteMarkdown(mdPath, res, evaluatedAt); err != nil {
		logging.Errorf("[pipeline] %v", err)
		sum.WriteErrors++
	}
	logging.Infof("[pipeline] %s -> %s, %s", c.FileName, jsonPath, mdPath)

	promptHash := r.cfg.Evaluator.PromptHash(prompt)
	if r.cfg.Store != nil {
		if err := r.record(ctx, c, promptHash, res, evaluatedAt); err != nil {
			logging.Errorf("[pipeline] history %s: %v", c.Name, err)
			sum.HistoryErrors++
		}
	}
	if r.cfg.Publisher != nil {
		ev := queue.Event{
			RunID:       r.cfg.RunID,
			Candidate:   c.Name,
			SourceFile:  c.FileName,
			PromptHash:  promptHash,
			Model:       r.cfg.Model,
			Result:      res,
			JSONReport:  jsonPath,
			MDReport:    mdPath,
			EvaluatedAt: evaluatedAt.UTC(),
		}
		if err := queue.PublishEvaluation(ctx, r.cfg.Publisher, ev); err != nil {
			logging.Errorf("[pipeline] publish %s: %v", c.Name, err)
			sum.PublishErrors++
		}
	}

	return report.SummaryRow{
		Candidate:  c.Name,
		Result:     res,
		JSONFile:   filepath.Base(jsonPath),
		ReportFile: filepath.Base(mdPath),
	}, true
}

func (r *Runner) record(ctx context.Context, c ingestion.Candidate, promptHash string, res evaluation.Result, at time.Time) error {
	rec, err := sqlite.NewRecord(r.cfg.RunID, c.Name, c.FileName, promptHash, r.cfg.Model, res, at)
	if err != nil {
		return fmt.Errorf("build record: %w", err)
	}
	return r.cfg.Store.InsertEvaluation(ctx, rec)
}
