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

	if err := store.DropTables(context.Background()); err != nil {
		log.Fatalf("drop tables: %v", err)
	}
	log.Printf("evaluations table dropped at %s", store.Path())
}
