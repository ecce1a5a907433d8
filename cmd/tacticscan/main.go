package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jspark-dev/tacticscan/internal/analysis"
	appcfg "github.com/jspark-dev/tacticscan/internal/config"
	"github.com/jspark-dev/tacticscan/internal/feed"
	"github.com/jspark-dev/tacticscan/internal/obslog"
	"github.com/jspark-dev/tacticscan/internal/oracle"
	"github.com/jspark-dev/tacticscan/internal/pgnsrc"
	"github.com/jspark-dev/tacticscan/internal/render"
	"github.com/jspark-dev/tacticscan/internal/report"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.L().Sync()

	catalog, err := report.NewCatalog(cfg.SummaryOverrideDir)
	if err != nil {
		log.Fatalf("catalog init error: %v", err)
	}

	engine, err := oracle.NewEngine(oracle.EngineConfig{
		BinaryPath: cfg.StockfishPath,
		Threads:    cfg.OracleThreads,
		HashMB:     cfg.OracleHashMB,
		Sessions:   cfg.AnalyzeWorkers,
	})
	if err != nil {
		log.Fatalf("oracle init error: %v", err)
	}
	defer engine.Close()

	budget := time.Duration(cfg.OracleTimeMS) * time.Millisecond
	analyzer := analysis.NewGameAnalyzer(analysis.NewPositionAnalyzer(engine, budget))

	sinks, err := buildSinks(cfg)
	if err != nil {
		log.Fatalf("sink init error: %v", err)
	}
	defer sinks.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.PGNPath != "" {
		if err := runBatch(ctx, cfg, catalog, analyzer, sinks); err != nil {
			obslog.L().Error("batch_failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}
	if err := runFeed(ctx, cfg, catalog, analyzer, sinks); err != nil {
		obslog.L().Error("feed_failed", zap.Error(err))
		os.Exit(1)
	}
}

type resultSinks struct {
	store    *report.Store
	repo     *report.Repository
	webhook  *report.Webhook
	renderer render.BoardRenderer
	imageDir string
}

func buildSinks(cfg *appcfg.AppConfig) (*resultSinks, error) {
	s := &resultSinks{}
	if cfg.RedisURL != "" {
		store, err := report.NewStore(cfg.RedisURL, time.Duration(cfg.ResultTTLSec)*time.Second)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		s.store = store
	}
	if cfg.DatabaseURL != "" {
		repo, err := report.NewRepository(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres repository: %w", err)
		}
		s.repo = repo
	}
	if cfg.WebhookURL != "" {
		s.webhook = report.NewWebhook(cfg.WebhookURL)
	}
	if cfg.ImageDir != "" {
		s.renderer = render.NewSVGBoardRenderer()
		s.imageDir = cfg.ImageDir
	}
	return s, nil
}

func (s *resultSinks) close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.repo != nil {
		_ = s.repo.Close()
	}
}

// deliver pushes a finished batch to every configured sink. Sink
// failures are logged, not fatal: the JSON file already holds the
// results.
func (s *resultSinks) deliver(ctx context.Context, batch *report.Batch, games []pgnsrc.Game) {
	if s.store != nil {
		if err := s.store.SaveBatch(ctx, batch); err != nil {
			obslog.L().Warn("redis_save_failed", zap.Error(err))
		}
	}
	if s.repo != nil {
		if err := s.repo.SaveBatch(ctx, batch); err != nil {
			obslog.L().Warn("postgres_save_failed", zap.Error(err))
		}
	}
	if s.webhook != nil {
		if err := s.webhook.Notify(ctx, batch); err != nil {
			obslog.L().Warn("webhook_notify_failed", zap.Error(err))
		}
	}
	if s.renderer != nil {
		for _, g := range games {
			rep, ok := batch.Games[g.Key]
			if !ok {
				continue
			}
			if err := render.WriteGameDiagrams(ctx, s.renderer, g.Game, rep, s.imageDir); err != nil {
				obslog.L().Warn("diagram_render_failed", zap.String("key", g.Key), zap.Error(err))
			}
		}
	}
}

func runBatch(ctx context.Context, cfg *appcfg.AppConfig, catalog *report.Catalog, analyzer *analysis.GameAnalyzer, sinks *resultSinks) error {
	games, err := pgnsrc.ReadFile(cfg.PGNPath, cfg.MaxGames)
	if err != nil && len(games) == 0 {
		return fmt.Errorf("read pgn: %w", err)
	}
	if err != nil {
		obslog.L().Warn("pgn_partial_parse", zap.Error(err))
	}
	if len(games) == 0 {
		return fmt.Errorf("no games in %s", cfg.PGNPath)
	}

	batch := analyzeGames(ctx, cfg, catalog, analyzer, games)
	if err := report.WriteJSON(cfg.ResultPath, batch); err != nil {
		return err
	}
	printSummaryLine(catalog, "summary.saved", map[string]any{"Path": cfg.ResultPath})

	sinks.deliver(ctx, batch, games)
	return nil
}

func runFeed(ctx context.Context, cfg *appcfg.AppConfig, catalog *report.Catalog, analyzer *analysis.GameAnalyzer, sinks *resultSinks) error {
	relay := feed.NewRelay(cfg.FeedWSURL, 5)
	relay.OnStateChange(func(state feed.State) {
		obslog.L().Info("feed_state", zap.String("state", state.String()))
	})
	relay.OnPGN(func(pgn string) {
		games, err := pgnsrc.ParseString(pgn, cfg.MaxGames)
		if err != nil {
			obslog.L().Warn("feed_pgn_parse_failed", zap.Error(err))
		}
		if len(games) == 0 {
			return
		}
		batch := analyzeGames(ctx, cfg, catalog, analyzer, games)
		if err := report.WriteJSON(cfg.ResultPath, batch); err != nil {
			obslog.L().Warn("result_write_failed", zap.Error(err))
		}
		sinks.deliver(ctx, batch, games)
	})

	if err := relay.Connect(ctx); err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return relay.Close(closeCtx)
}

func analyzeGames(ctx context.Context, cfg *appcfg.AppConfig, catalog *report.Catalog, analyzer *analysis.GameAnalyzer, games []pgnsrc.Game) *report.Batch {
	started := time.Now()

	items := make([]analysis.BatchItem, 0, len(games))
	for _, g := range games {
		items = append(items, analysis.BatchItem{
			Key:   g.Key,
			White: g.White,
			Black: g.Black,
			Game:  g.Game,
		})
	}
	reports := analyzer.AnalyzeBatch(ctx, items, cfg.AnalyzeWorkers)
	batch := report.NewBatch(reports, started)

	for _, rep := range reports {
		e, m, a := rep.Counts()
		printSummaryLine(catalog, "summary.game", map[string]any{
			"Key":      rep.Key,
			"White":    rep.White,
			"Black":    rep.Black,
			"Executed": e,
			"Missed":   m,
			"Allowed":  a,
		})
	}
	e, m, a := batch.Totals()
	printSummaryLine(catalog, "summary.batch", map[string]any{
		"Games":    len(reports),
		"Executed": e,
		"Missed":   m,
		"Allowed":  a,
	})
	return batch
}

func printSummaryLine(catalog *report.Catalog, key string, data map[string]any) {
	line, err := catalog.Render(key, data)
	if err != nil {
		obslog.L().Warn("summary_render_failed", zap.String("key", key), zap.Error(err))
		return
	}
	fmt.Println(line)
}
