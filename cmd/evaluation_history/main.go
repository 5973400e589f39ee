package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/hetulpatel/cv-evaluator/internal/logging"
	"github.com/hetulpatel/cv-evaluator/internal/report"
	"github.com/hetulpatel/cv-evaluator/internal/storage/sqlite"
)

func main() {
	path := flag.String("sqlite", "", "evaluation history database (default data/evaluations.db)")
	limit := flag.Int("limit", 20, "number of rows to show")
	flag.Parse()

	store, err := sqlite.Open(*path)
	if err != nil {
		logging.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	rows, err := store.ListEvaluations(context.Background(), *limit)
	if err != nil {
		logging.Fatalf("list evaluations: %v", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVALUATED\tRUN\tCANDIDATE\tSCORE\tVERDICT\tERROR")
	for _, r := range rows {
		score := "-"
		if r.Score != nil {
			score = report.FormatScore(*r.Score)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.EvaluatedAt.Local().Format(time.DateTime), shortID(r.RunID), r.Candidate, score, dash(r.Verdict), dash(r.Error))
	}
	tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
