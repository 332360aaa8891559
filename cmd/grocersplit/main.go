package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/alejandrodnm/grocersplit/config"
	"github.com/alejandrodnm/grocersplit/internal/adapters/notify"
	"github.com/alejandrodnm/grocersplit/internal/adapters/printer"
	"github.com/alejandrodnm/grocersplit/internal/adapters/sainsburys"
	"github.com/alejandrodnm/grocersplit/internal/adapters/storage"
	"github.com/alejandrodnm/grocersplit/internal/adapters/terminal"
	"github.com/alejandrodnm/grocersplit/internal/allocator"
	"github.com/alejandrodnm/grocersplit/internal/decisions"
	"github.com/alejandrodnm/grocersplit/internal/domain"
	"github.com/alejandrodnm/grocersplit/internal/ports"
	"github.com/google/uuid"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	noPrint := flag.Bool("no-print", false, "skip the receipt printer even if enabled in config")
	cachePath := flag.String("cache", "", "decision cache path (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <order.json>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	orderPath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *cachePath != "" {
		cfg.Cache.Path = *cachePath
	}
	if *noPrint {
		cfg.Printer.Enabled = false
	}
	setupLogger(cfg.Log)
	slog.SetDefault(slog.Default().With("run_id", uuid.New().String()))

	// Sin NotifyContext: las lecturas del operador bloquean sin contexto y
	// Ctrl-C debe terminar el proceso. La caché se escribe de forma atómica.
	ctx := context.Background()

	if err := run(ctx, cfg, orderPath); err != nil {
		if errors.Is(err, terminal.ErrInterrupted) {
			slog.Info("interrupted by operator")
		} else {
			slog.Error("grocersplit failed", "err", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, orderPath string) error {
	fmt.Println("Sainsbury's order splitter")

	store, err := openStore(cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	cache, err := decisions.Load(ctx, store)
	if err != nil {
		return err
	}
	slog.Info("decision cache ready",
		"driver", cfg.Cache.Driver,
		"path", cfg.Cache.Path,
		"entries", cache.Len(),
	)

	order, err := sainsburys.NewFileSource().LoadOrder(ctx, orderPath)
	if err != nil {
		return err
	}
	fmt.Printf("Order number: %s\n", order.ID)

	alloc := allocator.New(terminal.New(os.Stdin, os.Stdout), cache, os.Stdout)
	st, err := alloc.Run(ctx, order)
	if err != nil {
		return err
	}

	renderers := []ports.Renderer{notify.NewConsole(cfg.Report.Currency)}
	if cfg.Printer.Enabled {
		dev, err := printer.Open(cfg.Printer.Device)
		if err != nil {
			return err
		}
		defer dev.Close()
		renderers = append(renderers, printer.NewReceipt(dev, printer.Config{
			Header:   cfg.Printer.Header,
			Currency: cfg.Report.Currency,
			CutDelay: cfg.CutDelay(),
		}))
	}

	return render(ctx, st, renderers)
}

// render entrega el Statement a cada renderer. Un fallo de impresión no
// impide que el resto se ejecute.
func render(ctx context.Context, st domain.Statement, renderers []ports.Renderer) error {
	var errs []error
	for _, r := range renderers {
		if err := r.Render(ctx, st); err != nil {
			slog.Warn("renderer error", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openStore(cfg config.CacheConfig) (ports.DecisionStore, error) {
	switch cfg.Driver {
	case config.DriverYAML:
		return storage.NewFileStore(cfg.Path), nil
	default:
		return storage.NewSQLiteStore(cfg.Path)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stderr: stdout es para el operador (prompts y tablas)
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
