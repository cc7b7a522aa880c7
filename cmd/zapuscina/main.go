package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/zapuscina/internal/ai"
	"github.com/erazemk/zapuscina/internal/api"
	"github.com/erazemk/zapuscina/internal/config"
	"github.com/erazemk/zapuscina/internal/db"
	"github.com/erazemk/zapuscina/internal/liquidate"
	"github.com/erazemk/zapuscina/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Level
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string, verbose bool) (func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		level:  level,
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// selectProvider picks the remote generation backend from configuration. A nil
// provider disables remote generation entirely.
func selectProvider(ctx context.Context, cfg *config.Config) (ai.Provider, func(), error) {
	switch cfg.AIProvider {
	case "gemini":
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	case "gateway":
		if cfg.GatewayURL == "" {
			return nil, nil, fmt.Errorf("gateway provider selected but ZAPUSCINA_AI_GATEWAY_URL is not set")
		}
		return ai.NewGatewayClient(cfg.GatewayURL, cfg.GatewayTimeout), nil, nil
	case "off":
		return nil, nil, nil
	case "":
		// Infer from what is configured.
		if cfg.GeminiAPIKey != "" {
			client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return nil, nil, err
			}
			return client, func() { client.Close() }, nil
		}
		if cfg.GatewayURL != "" {
			return ai.NewGatewayClient(cfg.GatewayURL, cfg.GatewayTimeout), nil, nil
		}
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("zapuscina", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", cfg.DBPath, "")
	fs.StringVar(&dbPath, "d", cfg.DBPath, "")

	var addr string
	fs.StringVar(&addr, "addr", cfg.Addr, "")
	fs.StringVar(&addr, "a", cfg.Addr, "")

	var logPath string
	fs.StringVar(&logPath, "log", cfg.LogFile, "")
	fs.StringVar(&logPath, "l", cfg.LogFile, "")

	var verbose bool
	fs.BoolVar(&verbose, "verbose", cfg.Verbose, "")
	fs.BoolVar(&verbose, "v", cfg.Verbose, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: zapuscina [flags]

Flags:
  -d, -db <path>          SQLite database path (default: zapuscina.db)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -v, -verbose            verbose logging (default: off)
  -h, -help               show this help and exit

Environment:
  ZAPUSCINA_AI_PROVIDER   remote generation backend: gemini, gateway or off
  GEMINI_API_KEY          API key for the gemini backend
  ZAPUSCINA_GEMINI_MODEL  Gemini model name (default: gemini-2.0-flash-exp)
  ZAPUSCINA_AI_GATEWAY_URL  base URL for the gateway backend
  ZAPUSCINA_REMOTE_AI     startup default for the remote generation toggle
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(logPath, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	firstRun := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		firstRun = true
	}

	// Open database, creating it on first run.
	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Ensure schema and migrations are applied (idempotent).
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	if firstRun {
		slog.Info("database created", "path", dbPath)
	}
	slog.Info("database ready", "path", dbPath)

	// Pick the remote generation backend.
	provider, closeProvider, err := selectProvider(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to set up AI provider", "error", err)
		os.Exit(1)
	}
	if closeProvider != nil {
		defer closeProvider()
	}
	if provider != nil {
		slog.Info("remote generation available", "provider", provider.Name())
	} else {
		slog.Info("remote generation disabled, using local heuristics")
	}

	flags := &store.Flags{
		DB:              database,
		RemoteAIDefault: cfg.RemoteAI,
		VerboseDefault:  verbose,
	}
	service := liquidate.NewService(database, provider, flags, slog.Default())

	handler := api.LoggingMiddleware(api.NewRouter(database, service, flags))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}
