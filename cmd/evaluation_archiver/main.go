package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/hetulpatel/cv-evaluator/internal/kafka"
	"github.com/hetulpatel/cv-evaluator/internal/logging"
	sqlstore "github.com/hetulpatel/cv-evaluator/internal/storage/sqlite"
	"github.com/hetulpatel/cv-evaluator/internal/workers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rawBrokers := flag.String("kafka-brokers", "localhost:9092", "comma-separated Kafka brokers")
	topic := flag.String("kafka-topic", kafka.DefaultEvaluationTopic, "topic with evaluation events")
	group := flag.String("group", "cv-evaluation-archiver", "consumer group")
	workerCount := flag.Int("workers", 1, "number of readers")
	sqlitePath := flag.String("sqlite", "", "evaluation history database (default data/evaluations.db)")
	logLevel := flag.String("log-level", "info", "debug|info|warn|error")
	flag.Parse()
	logging.SetLevel(logging.ParseLevel(*logLevel))

	brokers := kafka.ParseBrokers(*rawBrokers)
	waitCtx, cancel := context.WithTimeout(ctx, 45*time.Second)
	if err := kafka.WaitForBroker(waitCtx, brokers); err != nil {
		logging.Fatalf("[archiver] wait for broker: %v", err)
	}
	cancel()

	ensureCtx, cancelEnsure := context.WithTimeout(ctx, 30*time.Second)
	if err := kafka.EnsureTopic(ensureCtx, brokers, *topic); err != nil {
		logging.Errorf("[archiver] ensure topic warning: %v", err)
	}
	cancelEnsure()

	store, err := sqlstore.Open(*sqlitePath)
	if err != nil {
		logging.Fatalf("[archiver] open sqlite: %v", err)
	}
	defer store.Close()
	if err := store.CreateTables(ctx); err != nil {
		logging.Fatalf("[archiver] create tables: %v", err)
	}

	logging.Infof("[archiver] consuming %s with group %s (%d workers) into %s", *topic, *group, *workerCount, store.Path())
	workers.Run(ctx, brokers, *topic, *group, *workerCount, workers.Archiver(store))
}
