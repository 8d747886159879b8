// cmd/subsift/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subsift/internal/adapters/output"
	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
	"subsift/internal/core/usecases"
	"subsift/internal/platform/config"
	"subsift/internal/platform/dnsx"
	"subsift/internal/platform/errors"
	"subsift/internal/platform/logx"
	"subsift/internal/platform/metrics"
	"subsift/internal/platform/registry"
	"subsift/internal/platform/resilience"
	"subsift/internal/platform/retry"
	"subsift/internal/platform/ui"

	// El paquete dataset registra los builtins en su init()
	"subsift/internal/sources/dataset"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Load centralized config (handles help/version internally)
	cfg, err := config.Load(version, commit, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	// Validate target
	if cfg.Core.Target == "" {
		fmt.Fprintln(os.Stderr, "Error: target domain is required")
		fmt.Fprintln(os.Stderr, "Usage: subsift -t <domain>")
		fmt.Fprintln(os.Stderr, "Try: subsift -h for help")
		os.Exit(2)
	}

	// 2. Shared logger. Con la UI activa el nivel por defecto sube a warn
	// para que los logs no pisen el spinner; --log-level lo anula.
	uiOn := !cfg.Output.UIDisabled && !cfg.Output.Stream
	logger := logx.NewWithLevel(logLevel(cfg.Core.LogLevel, uiOn))

	logger.Info("subsift starting",
		"version", version,
		"commit", commit,
		"date", date,
		"target", cfg.Core.Target,
		"full", cfg.Core.Full,
		"workers", cfg.Resolver.Workers,
	)

	// 3. Context and signals for clean shutdown
	ctx, cancel := rootContextWithSignals(cfg.Core.TimeoutS)
	defer cancel()

	// 4. Build target domain
	target := domain.NewTarget(cfg.Core.Target)
	if err := target.Validate(); err != nil {
		logger.Err(err, "phase", "validation")
		os.Exit(2)
	}

	// 5. Datasets adicionales del catálogo YAML
	if cfg.Source.CatalogFile != "" {
		if err := loadCatalog(&cfg, logger); err != nil {
			logger.Err(err, "phase", "catalog")
			os.Exit(2)
		}
	}

	// 6. Select and build sources from registry
	selected := registry.Global().Select(cfg.Source.Sources, cfg.Core.Full, cfg.Source.Only)
	if len(selected) == 0 {
		logger.Err(fmt.Errorf("no sources enabled"))
		os.Exit(2)
	}

	sources, err := registry.Global().Build(selected, logger)
	if err != nil {
		logger.Err(err, "phase", "source-build")
		os.Exit(2)
	}

	// Ensure source cleanup on exit
	defer func() {
		for _, src := range sources {
			if err := src.Close(); err != nil {
				logger.Warn("failed to close source",
					"source", src.Name(),
					"error", err.Error(),
				)
			}
		}
	}()

	// 7. Optional Prometheus endpoint
	if cfg.Metrics.Addr != "" {
		metricsSrv := metrics.NewServer(cfg.Metrics.Addr, metrics.Default(), logger)
		metricsSrv.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer shutdownCancel()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", "error", err.Error())
			}
		}()
	}

	// 8. Resolver, detector and pool
	resolver := dnsx.New(dnsx.Config{
		Servers: cfg.Resolver.Servers,
		Timeout: cfg.Resolver.Timeout(),
	}, logger)

	var breakers *resilience.BreakerSet
	if cfg.Resilience.CircuitBreakerEnabled {
		breakers = resilience.NewBreakerSet(
			cfg.Resilience.CircuitBreakerThreshold,
			cfg.Resilience.CircuitBreakerTimeout,
			cfg.Resilience.CircuitBreakerHalfOpenMax,
		)
	}

	aggregator := usecases.NewAggregator(usecases.AggregatorOptions{
		Sources:  sources,
		Breakers: breakers,
		Metrics:  metrics.Default(),
		Logger:   logger,
	})

	detector := usecases.NewWildcardDetector(resolver, cfg.Wildcard.Probes, metrics.Default(), logger)

	pool := usecases.NewResolverPool(usecases.ResolverPoolOptions{
		Resolver: resolver,
		Workers:  cfg.Resolver.Workers,
		Timeout:  cfg.Resolver.Timeout(),
		QPS:      cfg.Resolver.QPS,
		Policy: retry.Policy{
			MaxAttempts: cfg.Resolver.Retries + 1,
			BaseDelay:   cfg.Resilience.BackoffBase,
			MaxDelay:    cfg.Resilience.MaxBackoff,
			Multiplier:  cfg.Resilience.BackoffMultiplier,
		},
		Metrics: metrics.Default(),
		Logger:  logger,
	})

	// 9. Result sinks
	sink, err := output.Sinks(cfg.Output.Path, cfg.Output.Stream, logger)
	if err != nil {
		logger.Err(err, "phase", "output")
		os.Exit(2)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close sink", "error", err.Error())
		}
	}()

	// 10. Terminal presenter
	var present ui.Presenter = ui.NewNoopPresenter()
	if uiOn {
		present = ui.NewPTermPresenter()
	}
	defer present.Close()

	mode := domain.RunModeDefault
	if cfg.Core.Full {
		mode = domain.RunModeFull
	}

	sourceNames := make([]string, len(sources))
	for i, src := range sources {
		sourceNames[i] = src.Name()
	}

	outputDesc := cfg.Output.Path
	if outputDesc == "" {
		outputDesc = "stdout"
	}

	present.Start(ui.RunInfo{
		Target:         target.Root,
		Mode:           mode.String(),
		Sources:        sourceNames,
		Workers:        cfg.Resolver.Workers,
		Resolvers:      resolver.Servers(),
		TimeoutSeconds: cfg.Core.TimeoutS,
		Output:         outputDesc,
		Version:        version,
	})

	// OnResolution corre en la goroutine de Run, los contadores no
	// necesitan sincronización.
	var processed, resolved int
	onResolution := func(res domain.Resolution) {
		processed++
		if res.Resolved() {
			resolved++
		}
		present.Progress(processed, resolved)
	}

	pipe := usecases.NewPipeline(usecases.PipelineOptions{
		Aggregator:   aggregator,
		Detector:     detector,
		Pool:         pool,
		Sink:         notifyFlushSink{Sink: sink, before: present.EndProgress},
		Mode:         mode,
		SkipWildcard: cfg.Wildcard.Disabled,
		Version:      version,
		OnResolution: onResolution,
		Logger:       logger,
	})

	// 11. Execute the run
	start := time.Now()
	report, runErr := pipe.Run(ctx, *target)
	elapsed := time.Since(start)

	if runErr != nil {
		logger.Err(runErr, "phase", "run", "elapsed_ms", elapsed.Milliseconds())
	}

	// 12. Summary
	present.EndProgress()
	if report != nil {
		for _, w := range report.Warnings {
			present.Warning(fmt.Sprintf("%s: %s", w.Source, w.Message))
		}
		if runErr != nil {
			present.Error(runErr.Error())
		}
		present.Finish(runStats(report, runErr))

		logger.Info("subsift finished",
			"elapsed_ms", elapsed.Milliseconds(),
			"candidates", report.Metadata.TotalCandidates,
			"resolved", report.TotalResolved(),
			"warnings", len(report.Warnings),
			"errors", len(report.Errors),
		)
	} else if runErr != nil {
		present.Error(runErr.Error())
	}

	if runErr != nil {
		os.Exit(1)
	}
}

// notifyFlushSink invoca un callback justo antes del Flush final. Permite
// detener el spinner antes de que el reporte caiga en stdout.
type notifyFlushSink struct {
	ports.Sink
	before func()
}

func (s notifyFlushSink) Flush(report *domain.RunReport) error {
	s.before()
	return s.Sink.Flush(report)
}

// loadCatalog registra los datasets del YAML y les da una configuración por
// defecto si no tienen una explícita.
func loadCatalog(cfg *config.Config, logger logx.Logger) error {
	names, err := dataset.LoadCatalog(cfg.Source.CatalogFile, registry.Global(), logger)
	if err != nil {
		return err
	}

	for _, name := range names {
		if _, ok := cfg.Source.Sources[name]; ok {
			continue
		}
		sourceCfg := ports.DefaultSourceConfig()
		if meta, ok := registry.Global().GetMetadata(name); ok {
			sourceCfg.Priority = meta.Priority
		}
		cfg.Source.Sources[name] = sourceCfg
	}
	return nil
}

// runStats traduce el reporte a las estadísticas del presenter.
func runStats(report *domain.RunReport, runErr error) ui.RunStats {
	byStatus := report.Stats()

	return ui.RunStats{
		Duration:          report.Metadata.Duration,
		Candidates:        report.Metadata.TotalCandidates,
		Duplicates:        report.Metadata.Duplicates,
		Resolved:          byStatus[domain.ResolutionResolved],
		Unresolved:        byStatus[domain.ResolutionUnresolved],
		WildcardShadowed:  byStatus[domain.ResolutionWildcardShadowed],
		WildcardDetected:  report.Metadata.WildcardDetected,
		WildcardAddresses: report.Metadata.WildcardAddresses,
		PerSource:         report.Metadata.PerSource,
		FailedSources:     report.Metadata.FailedSources,
		Interrupted: errors.Is(runErr, context.Canceled) ||
			errors.Is(runErr, context.DeadlineExceeded),
	}
}

// logLevel decide el nivel efectivo: el configurado, o warn por defecto
// cuando la UI interactiva está activa.
func logLevel(configured string, uiOn bool) logx.Level {
	if configured != "" {
		return logx.ParseLevel(configured)
	}
	if uiOn {
		return logx.LevelWarn
	}
	return logx.LevelInfo
}

// rootContextWithSignals creates a root context with optional timeout and signal cancellation.
// Returns a context and cancel function that cleans up all resources (signals, goroutines).
func rootContextWithSignals(timeoutSeconds int) (context.Context, context.CancelFunc) {
	var base context.Context
	var baseCancel context.CancelFunc

	if timeoutSeconds > 0 {
		base, baseCancel = context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	} else {
		base, baseCancel = context.WithCancel(context.Background())
	}

	// System signal channel
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	// Goroutine waiting for signals OR context cancellation
	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	// Cleanup function that cleans up EVERYTHING
	cleanupCancel := func() {
		signal.Stop(ch) // Stop signal handler
		close(ch)       // Close channel
		baseCancel()    // Cancel base context
	}

	return base, cleanupCancel
}
