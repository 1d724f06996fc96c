package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitewise-app/bitewise/internal/api"
	"github.com/bitewise-app/bitewise/internal/app/achievement"
	"github.com/bitewise-app/bitewise/internal/app/events"
	"github.com/bitewise-app/bitewise/internal/app/nutrition"
	"github.com/bitewise-app/bitewise/internal/domain"
	"github.com/bitewise-app/bitewise/internal/health"
	"github.com/bitewise-app/bitewise/internal/infra/analyzer"
	_ "github.com/bitewise-app/bitewise/internal/infra/metrics" // Register Prometheus metrics
	"github.com/bitewise-app/bitewise/internal/infra/sqlite"
)

// Daemon is the core Bitewise runtime. It wires together all services.
type Daemon struct {
	Config    Config
	DB        *sqlite.DB
	Bus       *events.MemoryBus
	Evaluator *achievement.Evaluator
	Nutrition *nutrition.Service
	Server    *api.Server
	Health    *health.Checker
	cancel    context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	home := bitewiseHome()
	if err := os.MkdirAll(home, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sqlite.Open(home)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := achievement.SeedDefaults(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	// Nutrition oracle: real OpenAI backend when a key is configured,
	// deterministic mock otherwise.
	apiKey := cfg.Analyzer.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	var oracle domain.NutritionAnalyzer
	if apiKey != "" {
		oracle = analyzer.NewOpenAI(apiKey, cfg.Analyzer.Model, cfg.Analyzer.AnalyzerTimeout())
	} else {
		fmt.Fprintf(os.Stderr, "WARNING: no OpenAI API key configured, using mock nutrition estimates\n")
		fmt.Fprintf(os.Stderr, "  Set analyzer.api_key in config.toml or OPENAI_API_KEY for real estimates.\n")
		oracle = analyzer.NewMock()
	}

	// Achievement engine wired behind the event bus.
	bus := events.NewMemoryBus()
	evaluator := achievement.NewEvaluator(db, db)
	evaluator.SetNotifier(achievement.NewAwardNotifier(db, notificationPolicy(cfg)))
	achievement.RegisterHandlers(bus, evaluator)

	svc := nutrition.NewService(db, db, oracle, achievement.NewTriggers(bus))

	srv := api.NewServer(svc, db)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, home)
	srv.SetHealthChecker(checker)

	return &Daemon{
		Config:    cfg,
		DB:        db,
		Bus:       bus,
		Evaluator: evaluator,
		Nutrition: svc,
		Server:    srv,
		Health:    checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[daemon] shutdown: %v", err)
		}
		_ = d.DB.Close()
	}()

	fmt.Printf("Bitewise serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

func notificationPolicy(cfg Config) domain.NotificationPolicy {
	policy := domain.DefaultNotificationPolicy()
	if cfg.Notifications.MaxPerDay > 0 {
		policy.MaxPerDay = cfg.Notifications.MaxPerDay
	}
	if cfg.Notifications.QuietStart != "" {
		policy.QuietStart = cfg.Notifications.QuietStart
	}
	if cfg.Notifications.QuietEnd != "" {
		policy.QuietEnd = cfg.Notifications.QuietEnd
	}
	return policy
}
