package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hetulpatel/cv-evaluator/internal/evaluation"
)

const (
	placeholderScore   = "N/A"
	placeholderSummary = "Nav kopsavilkuma."
	placeholderList    = "Nav norādīts."
	placeholderVerdict = "Nav sprieduma."

	dateLayout = "2006-01-02 15:04"
)

// RenderMarkdown formats res as the human-readable candidate report. Any
// missing field is replaced by a placeholder, so every result renders.
func RenderMarkdown(res evaluation.Result, now time.Time) string {
	score := placeholderScore
	summary := placeholderSummary
	verdict := placeholderVerdict
	var strengths, missing []string
	var failure *evaluation.Failure

	switch r := res.(type) {
	case *evaluation.Judgment:
		if r == nil {
			break
		}
		if r.Score != nil {
			score = FormatScore(*r.Score)
		}
		if r.Summary != nil && strings.TrimSpace(*r.Summary) != "" {
			summary = *r.Summary
		}
		if r.Verdict != nil && *r.Verdict != "" {
			verdict = string(*r.Verdict)
		}
		strengths = r.Strengths
		missing = r.MissingRequirements
	case *evaluation.Failure:
		failure = r
	}

	var b strings.Builder
	b.WriteString("# CV Atbilstības Pārskats\n\n")
	fmt.Fprintf(&b, "Datums: %s\n", now.Format(dateLayout))
	fmt.Fprintf(&b, "Atbilstības punktu skaits: %s\n\n", score)
	b.WriteString("---\n\n")
	b.WriteString("### 📝 Kopsavilkums\n")
	b.WriteString(summary + "\n\n")
	b.WriteString("---\n\n")
	b.WriteString("### ✅ Stiprās puses\n")
	b.WriteString(bulletList(strengths) + "\n\n")
	b.WriteString("---\n\n")
	b.WriteString("### ⚠️ Trūkstošās prasības\n")
	b.WriteString(bulletList(missing) + "\n\n")
	b.WriteString("---\n\n")
	b.WriteString("### 💡 Spriedums\n")
	fmt.Fprintf(&b, "**%s**\n", verdict)

	if failure != nil && failure.Error != "" {
		b.WriteString("\n---\n\n")
		b.WriteString("### ❌ Kļūda\n")
		b.WriteString(failure.Error + "\n")
		if failure.RawResponse != "" {
			fence := codeFence(failure.RawResponse)
			b.WriteString("\n#### Modeļa atbilde\n")
			fmt.Fprintf(&b, "%s\n%s\n%s\n", fence, failure.RawResponse, fence)
		}
	}
	return strings.TrimSpace(b.String()) + "\n"
}

// WriteMarkdown replaces path with the rendered report.
func WriteMarkdown(path string, res evaluation.Result, now time.Time) error {
	if err := os.WriteFile(path, []byte(RenderMarkdown(res, now)), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// FormatScore prints whole scores without a decimal part.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func bulletList(items []string) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	if len(lines) == 0 {
		return placeholderList
	}
	return strings.Join(lines, "\n")
}

// codeFence returns a backtick fence longer than any backtick run in text.
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		longest = 2
	}
	return strings.Repeat("`", longest+1)
}
