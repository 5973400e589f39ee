package main

import (
	"context"
	"flag"
	"log"

	"github.com/hetulpatel/cv-evaluator/internal/storage/sqlite"
)

func main() {
	path := flag.String("sqlite", "", "evaluation history database (default data/evaluations.db)")
	flag.Parse()

	store, err := sqlite.Open(*path)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.ClearTables(context.Background()); err != nil {
		log.Fatalf("clear tables: %v", err)
	}
	log.Printf("evaluations table cleared at %s", store.Path())
}
