package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	StockfishPath string

	PGNPath    string
	ResultPath string

	FeedWSURL string

	MaxGames       int
	OracleTimeMS   int
	OracleThreads  int
	OracleHashMB   int
	AnalyzeWorkers int

	RedisURL     string
	DatabaseURL  string
	WebhookURL   string
	ImageDir     string
	ResultTTLSec int

	SummaryOverrideDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ResultPath:     "analysis_results.json",
		MaxGames:       5,
		OracleTimeMS:   100,
		OracleThreads:  1,
		OracleHashMB:   64,
		AnalyzeWorkers: 1,
		ResultTTLSec:   86400,
	}

	cfg.StockfishPath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))
	cfg.PGNPath = strings.TrimSpace(os.Getenv("PGN_PATH"))
	cfg.FeedWSURL = strings.TrimSpace(os.Getenv("FEED_WS_URL"))

	if v := strings.TrimSpace(os.Getenv("RESULT_PATH")); v != "" {
		cfg.ResultPath = v
	}
	if v := strings.TrimSpace(os.Getenv("MAX_GAMES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxGames = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORACLE_MOVETIME_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OracleTimeMS = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORACLE_THREADS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OracleThreads = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ORACLE_HASH_MB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.OracleHashMB = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ANALYZE_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnalyzeWorkers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RESULT_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ResultTTLSec = n
		}
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.WebhookURL = strings.TrimSpace(os.Getenv("REPORT_WEBHOOK_URL"))
	cfg.ImageDir = strings.TrimSpace(os.Getenv("IMAGE_DIR"))
	cfg.SummaryOverrideDir = strings.TrimSpace(os.Getenv("SUMMARY_TEMPLATE_DIR"))

	if cfg.StockfishPath == "" {
		cfg.StockfishPath = "/usr/games/stockfish"
	}
	if cfg.PGNPath == "" && cfg.FeedWSURL == "" {
		return nil, errors.New("PGN_PATH or FEED_WS_URL is required")
	}

	return cfg, nil
}
