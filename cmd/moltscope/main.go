// Command moltscope polls the Moltbook public API on a schedule, merges the
// harvested records into a local SQLite store and derives the windowed
// trend, sentiment and snapshot aggregates the dashboard reads.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"moltscope/internal/analyzer"
	"moltscope/internal/config"
	"moltscope/internal/ingest"
	"moltscope/internal/moltbook"
	"moltscope/internal/poller"
	"moltscope/internal/scheduler"
	"moltscope/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (TOML)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Info("store opened", "path", cfg.Store.Path)

	client := moltbook.NewClient(cfg.API.BaseURL, cfg.API.Key, cfg.API.Timeout())
	merger := ingest.New(st, logger)
	an := analyzer.New(st, analyzer.LexiconScorer{}, logger)
	p := poller.New(client, merger, an, st, logger)

	sched := scheduler.New(logger)
	jobs := []struct {
		name  string
		every time.Duration
		job   scheduler.Job
	}{
		{"poll-posts", cfg.Polling.PostsInterval(), p.PollPosts},
		{"poll-submolts", cfg.Polling.SubmoltsInterval(), p.PollSubmolts},
		{"poll-agents", cfg.Polling.AgentsInterval(), p.PollAgents},
		{"poll-comments", cfg.Polling.CommentsInterval(), p.PollComments},
		{"compute-trends", cfg.Polling.TrendsInterval(), p.ComputeTrends},
		{"take-snapshot", cfg.Polling.SnapshotInterval(), p.TakeSnapshot},
	}
	for _, j := range jobs {
		if err := sched.AddJob(j.name, j.every, j.job); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Polling.Disabled {
		logger.Warn("polling disabled by config")
	} else {
		p.RunInitial(ctx)
		sched.Start()
		logger.Info("scheduler started")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	<-sched.Stop().Done()
	return nil
}
