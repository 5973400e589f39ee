package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
)

// JSONPath and MarkdownPath name a candidate's report pair.
func JSONPath(outputDir, name string) string {
	return filepath.Join(outputDir, name+".json")
}

func MarkdownPath(outputDir, name string) string {
	return filepath.Join(outputDir, name+"_report.md")
}

// MarshalResult encodes res with two-space indentation and without escaping
// non-ASCII or HTML characters.
func MarshalResult(res evaluation.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("report: result is nil")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return nil, fmt.Errorf("report: encode result: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON replaces path with the encoded result.
func WriteJSON(path string, res evaluation.Result) error {
	data, err := MarshalResult(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
