package evaluator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPromptPath is where the most recent prompt is kept for debugging.
const DefaultPromptPath = "prompt.md"

const promptTemplate = `
Tu esi HR speciālists, kas vērtē kandidātu CV atbilstību darba aprakstam (JD).
Analizē abus tekstus un sniedz precīzu JSON atbildi ar šādu struktūru:
{
  "match_score": 0-100,
  "summary": "Īss apraksts, cik labi CV atbilst JD.",
  "strengths": ["Galvenās prasmes/pieredze no CV, kas atbilst JD"],
  "missing_requirements": ["Svarīgas JD prasības, kas CV nav redzamas"],
  "verdict": "strong match | possible match | not a match"
}

=== DARBA APRAKSTS ===
%s

=== KANDIDĀTA CV ===
%s
`

// BuildPrompt embeds the job description and CV verbatim into the scoring instruction.
func BuildPrompt(jobDescription, cv string) string {
	return strings.TrimSpace(fmt.Sprintf(promptTemplate, jobDescription, cv))
}

// SavePrompt overwrites path with prompt. Every candidate writes the same
// file, so only the last prompt of a run survives. An empty path is a no-op.
func SavePrompt(path, prompt string) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("evaluator: ensure prompt dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(prompt), 0o644); err != nil {
		return fmt.Errorf("evaluator: write prompt: %w", err)
	}
	return nil
}
