package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
)

const summarySheet = "Kandidāti"

// SummaryRow is one candidate line of the batch workbook.
type SummaryRow struct {
	Candidate  string
	Result     evaluation.Result
	JSONFile   string
	ReportFile string
}

var summaryHeaders = []string{"Vieta", "Kandidāts", "Punkti", "Spriedums", "Kopsavilkums", "Kļūda", "JSON", "Pārskats"}

// WriteSummary saves a workbook ranking every evaluated candidate by score.
// Failures and judgments without a score are listed last.
func WriteSummary(path string, rows []SummaryRow, generatedAt time.Time) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	ranked := make([]SummaryRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, oki := rowScore(ranked[i])
		sj, okj := rowScore(ranked[j])
		if oki != okj {
			return oki
		}
		return si > sj
	})

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("report: rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("report: header style: %w", err)
	}

	if err := f.SetCellValue(summarySheet, "A1", "Ģenerēts: "+generatedAt.Format(dateLayout)); err != nil {
		return fmt.Errorf("report: write title: %w", err)
	}
	if err := setRow(f, 3, toValues(summaryHeaders)); err != nil {
		return fmt.Errorf("report: write headers: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(summaryHeaders), 3)
	if err != nil {
		return fmt.Errorf("report: header range: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A3", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("report: style headers: %w", err)
	}
	for _, w := range summaryWidths {
		if err := f.SetColWidth(summarySheet, w.col, w.col, w.width); err != nil {
			return fmt.Errorf("report: column %s width: %w", w.col, err)
		}
	}

	for i, row := range ranked {
		if err := setRow(f, i+4, summaryValues(i+1, row)); err != nil {
			return fmt.Errorf("report: write %s: %w", row.Candidate, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: save summary %s: %w", path, err)
	}
	return nil
}

var summaryWidths = []struct {
	col   string
	width float64
}{
	{"B", 24},
	{"D", 18},
	{"E", 60},
	{"F", 30},
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toValues(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func rowScore(row SummaryRow) (float64, bool) {
	j, ok := row.Result.(*evaluation.Judgment)
	if !ok || j == nil || j.Score == nil {
		return 0, false
	}
	return *j.Score, true
}

func summaryValues(rank int, row SummaryRow) []interface{} {
	var score interface{} = placeholderScore
	verdict, summary, errText := "", "", ""
	switch r := row.Result.(type) {
	case *evaluation.Judgment:
		if r != nil {
			if r.Score != nil {
				score = *r.Score
			}
			if r.Verdict != nil {
				verdict = string(*r.Verdict)
			}
			if r.Summary != nil {
				summary = *r.Summary
			}
		}
	case *evaluation.Failure:
		if r != nil {
			errText = r.Error
		}
	}
	return []interface{}{rank, row.Candidate, score, verdict, summary, errText, row.JSONFile, row.ReportFile}
}
