package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/hetulpatel/cv-evaluator/internal/cache"
	"github.com/hetulpatel/cv-evaluator/internal/config"
	"github.com/hetulpatel/cv-evaluator/internal/evaluator"
	"github.com/hetulpatel/cv-evaluator/internal/ingestion"
	"github.com/hetulpatel/cv-evaluator/internal/kafka"
	"github.com/hetulpatel/cv-evaluator/internal/llm"
	"github.com/hetulpatel/cv-evaluator/internal/logging"
	"github.com/hetulpatel/cv-evaluator/internal/pipeline"
	sqlstore "github.com/hetulpatel/cv-evaluator/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = godotenv.Load()
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		logging.Fatalf("[cv-evaluator] %v", err)
	}
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))

	evalCfg := evaluator.Config{
		Completer:   llm.New(cfg.LLM),
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisResultCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL, cache.DefaultPrefix)
		if err != nil {
			logging.Fatalf("[cv-evaluator] redis cache: %v", err)
		}
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := cache.Ping(pingCtx, rc); err != nil {
			logging.Warnf("[cv-evaluator] redis %s unreachable, continuing without cache: %v", cfg.RedisAddr, err)
		} else {
			evalCfg.Cache = rc
		}
		cancel()
	}
	svc, err := evaluator.NewService(evalCfg)
	if err != nil {
		logging.Fatalf("[cv-evaluator] %v", err)
	}

	runCfg := pipeline.Config{
		Loader:      ingestion.NewLoader(cfg.InputDir, cfg.OutputDir),
		Evaluator:   svc,
		JobDescPath: cfg.JobDescPath,
		PromptPath:  cfg.PromptPath,
		Model:       cfg.LLM.Model,
		SummaryPath: cfg.SummaryPath,
	}

	if cfg.SQLitePath != "" {
		store, err := sqlstore.Open(cfg.SQLitePath)
		if err != nil {
			logging.Fatalf("[cv-evaluator] open sqlite: %v", err)
		}
		defer store.Close()
		if err := store.CreateTables(ctx); err != nil {
			logging.Fatalf("[cv-evaluator] create tables: %v", err)
		}
		runCfg.Store = store
	}

	if brokers := kafka.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		if err := kafka.WaitForBroker(waitCtx, brokers); err != nil {
			logging.Fatalf("[cv-evaluator] wait for broker: %v", err)
		}
		if err := kafka.EnsureTopic(waitCtx, brokers, cfg.KafkaTopic); err != nil {
			logging.Errorf("[cv-evaluator] ensure topic warning: %v", err)
		}
		cancel()
		writer := kafka.NewWriter(brokers, cfg.KafkaTopic)
		defer writer.Close()
		runCfg.Publisher = writer
	}

	runner, err := pipeline.NewRunner(runCfg)
	if err != nil {
		logging.Fatalf("[cv-evaluator] %v", err)
	}

	logging.Infof("[cv-evaluator] run %s: model=%s inputs=%s outputs=%s", runner.RunID(), cfg.LLM.Model, cfg.InputDir, cfg.OutputDir)
	sum, err := runner.Run(ctx)
	if errors.Is(err, ingestion.ErrMissingJobDescription) {
		return
	}
	if err != nil {
		logging.Errorf("[cv-evaluator] run stopped: %v", err)
	}
	fmt.Printf("Done. %d candidates: %d evaluated, %d failed, %d skipped. Reports in %s\n",
		sum.Candidates, sum.Evaluated, sum.Failed, sum.Skipped, cfg.OutputDir)
}
