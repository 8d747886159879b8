// internal/core/usecases/pipeline.go
package usecases

import (
	"context"
	"fmt"
	"sort"

	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
	"subsift/internal/platform/logx"
)

// Pipeline encadena las etapas de una ejecución: agregación de fuentes,
// detección de comodín, resolución y salida. Los veredictos se consumen en
// una única goroutine, así que los sinks no necesitan sincronización.
type Pipeline struct {
	aggregator   *Aggregator
	detector     *WildcardDetector
	pool         *ResolverPool
	sink         ports.Sink
	mode         domain.RunMode
	skipWildcard bool
	version      string
	onResolution func(domain.Resolution)
	logger       logx.Logger
}

// PipelineOptions configura el pipeline.
type PipelineOptions struct {
	Aggregator *Aggregator
	Detector   *WildcardDetector
	Pool       *ResolverPool
	Sink       ports.Sink

	// Mode consta en el reporte; la selección de fuentes ya ocurrió al
	// construir el aggregator.
	Mode domain.RunMode

	// SkipWildcard omite el sondeo y deja la línea base vacía.
	SkipWildcard bool

	// Version consta en los metadatos del reporte.
	Version string

	// OnResolution se invoca por cada veredicto, útil para progreso en
	// vivo. Se llama desde la goroutine del pipeline.
	OnResolution func(domain.Resolution)

	Logger logx.Logger
}

// NewPipeline crea el pipeline.
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Mode == "" {
		opts.Mode = domain.RunModeDefault
	}
	return &Pipeline{
		aggregator:   opts.Aggregator,
		detector:     opts.Detector,
		pool:         opts.Pool,
		sink:         opts.Sink,
		mode:         opts.Mode,
		skipWildcard: opts.SkipWildcard,
		version:      opts.Version,
		onResolution: opts.OnResolution,
		logger:       opts.Logger.With("component", "pipeline"),
	}
}

// Run ejecuta el pipeline completo contra el target y retorna el reporte.
// El error es no-nil cuando la ejecución falló como conjunto: todas las
// fuentes cayeron sin aportar nada, se canceló el contexto o el sink no
// pudo persistir el reporte. Los fallos parciales solo generan warnings.
func (p *Pipeline) Run(ctx context.Context, target domain.Target) (*domain.RunReport, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	report := domain.NewRunReport(target, p.mode)
	report.Metadata.Version = p.version

	p.logger.Info("run started", "target", target.Root, "mode", p.mode.String())

	baseline := domain.NewWildcardBaseline()
	if p.skipWildcard {
		p.logger.Debug("wildcard detection disabled")
	} else {
		baseline = p.detector.Detect(ctx, target)
	}
	report.Metadata.WildcardDetected = baseline.Detected
	report.Metadata.WildcardAddresses = baseline.Snapshot()
	if baseline.Detected {
		report.AddWarning("wildcard", fmt.Sprintf(
			"zone has wildcard DNS answering with %v, shadowed names will be dropped",
			baseline.Snapshot(),
		))
	}

	candidates, aggDone := p.aggregator.Aggregate(ctx, target)
	resolutions := p.pool.Resolve(ctx, baseline, candidates)

	for res := range resolutions {
		report.AddResolution(res)
		if p.onResolution != nil {
			p.onResolution(res)
		}
		if !res.Resolved() {
			continue
		}
		if err := p.sink.Emit(res); err != nil {
			p.logger.Warn("emit failed", "name", res.Name, "error", err.Error())
		}
	}

	aggResult := <-aggDone
	p.fillAggregation(report, aggResult)

	var runErr error
	if aggResult.Err != nil {
		report.AddError("aggregator", aggResult.Err.Error(), true)
		runErr = aggResult.Err
	}
	if runErr == nil && ctx.Err() != nil {
		report.AddWarning("run", "interrupted before completion, results are partial")
		runErr = ctx.Err()
	}

	report.Finalize()

	if err := p.sink.Flush(report); err != nil {
		p.logger.Err(err, "stage", "flush")
		if runErr == nil {
			runErr = err
		}
	}

	p.logger.Info("run finished",
		"target", target.Root,
		"candidates", report.Metadata.TotalCandidates,
		"resolved", report.TotalResolved(),
		"duration_ms", report.Metadata.Duration.Milliseconds(),
	)
	return report, runErr
}

// fillAggregation vuelca el resumen del fan-out en el reporte.
func (p *Pipeline) fillAggregation(report *domain.RunReport, agg AggregateResult) {
	report.Metadata.TotalCandidates = agg.Unique
	report.Metadata.Duplicates = agg.Duplicates
	report.Metadata.PerSource = agg.PerSource

	used := make([]string, 0, len(agg.PerSource))
	for name, count := range agg.PerSource {
		if count > 0 {
			used = append(used, name)
		}
	}
	sort.Strings(used)
	report.Metadata.SourcesUsed = used

	failed := make([]string, 0, len(agg.Failures))
	for name := range agg.Failures {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	report.Metadata.FailedSources = failed
	for _, name := range failed {
		report.AddWarning(name, agg.Failures[name].Error())
	}
}
