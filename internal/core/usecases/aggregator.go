// internal/core/usecases/aggregator.go
package usecases

import (
	"context"
	"sync"

	"github.com/hashicorp/go-multierror"

	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
	"subsift/internal/platform/errors"
	"subsift/internal/platform/logx"
	"subsift/internal/platform/metrics"
	"subsift/internal/platform/resilience"
)

// Aggregator consulta todas las fuentes en paralelo y funde sus streams en
// uno solo, deduplicado. Una fuente que falla se registra y se descarta;
// la ejecución solo es fatal cuando todas fallan sin aportar nada.
type Aggregator struct {
	sources  []ports.Source
	breakers *resilience.BreakerSet
	metrics  *metrics.Metrics
	logger   logx.Logger
}

// AggregatorOptions configura el aggregator.
type AggregatorOptions struct {
	Sources  []ports.Source
	Breakers *resilience.BreakerSet
	Metrics  *metrics.Metrics
	Logger   logx.Logger
}

// AggregateResult resume el fan-out una vez cerrados los streams.
type AggregateResult struct {
	// Unique es el total de candidatos únicos emitidos
	Unique int

	// Duplicates es el total de repetidos descartados
	Duplicates int

	// PerSource cuenta los únicos aportados por cada fuente
	PerSource map[string]int

	// Failures recoge el error terminal de cada fuente que falló
	Failures map[string]error

	// Err es no-nil solo cuando todas las fuentes fallaron sin emitir
	// ningún candidato
	Err error
}

// NewAggregator crea el aggregator sobre un conjunto de fuentes ya
// construidas.
func NewAggregator(opts AggregatorOptions) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Default()
	}
	if opts.Breakers == nil {
		opts.Breakers = resilience.NewBreakerSet(0, 0, 0)
	}
	return &Aggregator{
		sources:  opts.Sources,
		breakers: opts.Breakers,
		metrics:  opts.Metrics,
		logger:   opts.Logger.With("component", "aggregator"),
	}
}

// Aggregate lanza una goroutine por fuente y funde los candidatos únicos en
// el canal retornado. El canal de resultado entrega el resumen una única
// vez, después de cerrarse el de candidatos.
func (a *Aggregator) Aggregate(ctx context.Context, target domain.Target) (<-chan domain.Candidate, <-chan AggregateResult) {
	out := make(chan domain.Candidate)
	done := make(chan AggregateResult, 1)

	index := NewDedupeIndex()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		duplicates int
		perSource  = make(map[string]int, len(a.sources))
		failures   = make(map[string]error, len(a.sources))
	)

	for _, source := range a.sources {
		wg.Add(1)
		go func(src ports.Source) {
			defer wg.Done()

			name := src.Name()
			breaker := a.breakers.For(name)
			if !breaker.Allow() {
				a.logger.Warn("circuit open, source skipped", "source", name)
				mu.Lock()
				failures[name] = errors.Errorf("source %s: circuit open", name)
				mu.Unlock()
				return
			}

			emitted, dupes, err := a.drainSource(ctx, src, target, index, out)

			mu.Lock()
			perSource[name] += emitted
			duplicates += dupes
			if err != nil {
				failures[name] = err
			}
			mu.Unlock()

			if err != nil {
				breaker.RecordFailure()
				a.metrics.SourceFailures.WithLabelValues(name).Inc()
				a.logger.Warn("source failed", "source", name, "emitted", emitted, "error", err.Error())
				return
			}
			breaker.RecordSuccess()
		}(source)
	}

	go func() {
		wg.Wait()
		close(out)

		result := AggregateResult{
			Unique:     index.Len(),
			Duplicates: duplicates,
			PerSource:  perSource,
			Failures:   failures,
		}
		if len(failures) == len(a.sources) && len(a.sources) > 0 && result.Unique == 0 {
			combined := multierror.Append(nil, errors.ErrAllSourcesFailed)
			for _, err := range failures {
				combined = multierror.Append(combined, err)
			}
			result.Err = combined
		}

		a.logger.Info("aggregation finished",
			"unique", result.Unique,
			"duplicates", result.Duplicates,
			"failed_sources", len(failures),
		)
		done <- result
	}()

	return out, done
}

// drainSource consume el stream de una fuente, filtra repetidos contra el
// índice compartido y reenvía los nuevos. Retorna únicos, repetidos y el
// error terminal de la fuente.
func (a *Aggregator) drainSource(
	ctx context.Context,
	src ports.Source,
	target domain.Target,
	index *DedupeIndex,
	out chan<- domain.Candidate,
) (int, int, error) {
	name := src.Name()
	candidates, errs := src.Stream(ctx, target)

	emitted := 0
	dupes := 0
	for candidate := range candidates {
		a.metrics.CandidatesTotal.WithLabelValues(name).Inc()

		if !index.Add(candidate.Key()) {
			dupes++
			a.metrics.DuplicatesTotal.Inc()
			continue
		}

		select {
		case out <- candidate:
			emitted++
		case <-ctx.Done():
			// Drena el resto para que la fuente pueda cerrar
			for range candidates {
			}
			<-errs
			return emitted, dupes, ctx.Err()
		}
	}

	return emitted, dupes, <-errs
}
