package ingestion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hetulpatel/cv-evaluator/internal/logging"
)

const (
	DefaultInputDir  = "sample_inputs"
	DefaultOutputDir = "outputs"
	JobDescFileName  = "jd.txt"

	candidatePrefix = "cv"
	candidateExt    = ".txt"
)

// ErrMissingJobDescription aborts a run before any candidate is processed.
var ErrMissingJobDescription = errors.New("job description not found")

// Candidate is one résumé file discovered in the input directory.
type Candidate struct {
	// Name is the file name without its extension; reports are keyed by it.
	Name     string
	FileName string
	Path     string
}

// Loader reads the job description and candidate files.
type Loader struct {
	inputDir  string
	outputDir string
}

// NewLoader creates a loader over inputDir, writing reports into outputDir.
func NewLoader(inputDir, outputDir string) *Loader {
	if inputDir == "" {
		inputDir = DefaultInputDir
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &Loader{inputDir: inputDir, outputDir: outputDir}
}

func (l *Loader) InputDir() string  { return l.inputDir }
func (l *Loader) OutputDir() string { return l.outputDir }

// EnsureDirs creates the output and input directories if they are missing.
func (l *Loader) EnsureDirs() error {
	for _, dir := range []string{l.outputDir, l.inputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ingestion: create %s: %w", dir, err)
		}
	}
	return nil
}

// ReadText returns the trimmed file content, or "" with a logged warning when
// the file is missing or unreadable.
func (l *Loader) ReadText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Warnf("[ingestion] file not found: %s", path)
		} else {
			logging.Warnf("[ingestion] cannot read %s: %v", path, err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// LoadJobDescription reads the job description at path.
func (l *Loader) LoadJobDescription(path string) (string, error) {
	text := l.ReadText(path)
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingJobDescription, path)
	}
	return text, nil
}

// ListCandidates returns the cv*.txt files of the input directory sorted by name.
func (l *Loader) ListCandidates() ([]Candidate, error) {
	entries, err := os.ReadDir(l.inputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Candidate{}, nil
		}
		return nil, fmt.Errorf("ingestion: read %s: %w", l.inputDir, err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !IsCandidateFile(name) {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:     strings.TrimSuffix(name, candidateExt),
			FileName: name,
			Path:     filepath.Join(l.inputDir, name),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].FileName < candidates[j].FileName
	})
	return candidates, nil
}

// IsCandidateFile reports whether name follows the cv*.txt convention. Both
// parts are case-sensitive, so two files never map to the same report name.
func IsCandidateFile(name string) bool {
	return strings.HasPrefix(name, candidatePrefix) &&
		strings.HasSuffix(name, candidateExt)
}
