package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/hetulpatel/cv-evaluator/internal/cache"
	"github.com/hetulpatel/cv-evaluator/internal/evaluator"
	"github.com/hetulpatel/cv-evaluator/internal/ingestion"
	"github.com/hetulpatel/cv-evaluator/internal/kafka"
	"github.com/hetulpatel/cv-evaluator/internal/llm"
)

// APIKeyEnv is the only setting read from the environment.
const APIKeyEnv = "OPENAI_API_KEY"

// Config is built once at startup and handed to constructors.
type Config struct {
	JobDescPath string
	InputDir    string
	OutputDir   string
	PromptPath  string
	SummaryPath string
	LogLevel    string

	LLM llm.Config

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	KafkaBrokers string
	KafkaTopic   string
}

// Default returns the settings used when no flag is given.
func Default() *Config {
	return &Config{
		InputDir:    ingestion.DefaultInputDir,
		OutputDir:   ingestion.DefaultOutputDir,
		PromptPath:  evaluator.DefaultPromptPath,
		LogLevel:    "info",
		LLM: llm.Config{
			BaseURL:     llm.DefaultBaseURL,
			Model:       llm.DefaultModel,
			Temperature: llm.DefaultTemperature,
		},
		CacheTTL:   cache.DefaultTTL,
		KafkaTopic: kafka.DefaultEvaluationTopic,
	}
}

// RegisterFlags binds every tunable field to fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.JobDescPath, "jd", c.JobDescPath, "job description file (default jd.txt in -inputs)")
	fs.StringVar(&c.InputDir, "inputs", c.InputDir, "directory scanned for cv*.txt files")
	fs.StringVar(&c.OutputDir, "outputs", c.OutputDir, "directory for JSON and Markdown reports")
	fs.StringVar(&c.PromptPath, "prompt-file", c.PromptPath, "debug copy of the last prompt (empty disables)")
	fs.StringVar(&c.SummaryPath, "summary-xlsx", c.SummaryPath, "write a ranked workbook of the run to this path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug|info|warn|error")

	fs.StringVar(&c.LLM.BaseURL, "base-url", c.LLM.BaseURL, "OpenAI-compatible API base URL")
	fs.StringVar(&c.LLM.Model, "model", c.LLM.Model, "model identifier")
	fs.IntVar(&c.LLM.MaxTokens, "max-tokens", c.LLM.MaxTokens, "completion token limit (0 leaves it to the service)")
	fs.DurationVar(&c.LLM.Timeout, "timeout", c.LLM.Timeout, "per-call timeout (0 disables)")

	fs.StringVar(&c.SQLitePath, "sqlite", c.SQLitePath, "record evaluations in this SQLite database")

	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "cache judgments in this Redis server")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")
	fs.DurationVar(&c.CacheTTL, "cache-ttl", c.CacheTTL, "lifetime of cached judgments")

	fs.StringVar(&c.KafkaBrokers, "kafka-brokers", c.KafkaBrokers, "comma-separated brokers to publish evaluation events to")
	fs.StringVar(&c.KafkaTopic, "kafka-topic", c.KafkaTopic, "topic for evaluation events")
}

// Parse builds a Config from command-line args and the API key variable.
func Parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if getenv != nil {
		cfg.LLM.APIKey = strings.TrimSpace(getenv(APIKeyEnv))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return fmt.Errorf("config: -inputs is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("config: -outputs is required")
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("config: -max-tokens must not be negative")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("config: -timeout must not be negative")
	}
	if c.KafkaBrokers != "" && strings.TrimSpace(c.KafkaTopic) == "" {
		return fmt.Errorf("config: -kafka-topic is required with -kafka-brokers")
	}
	return nil
}
