// internal/core/usecases/resolverpool.go
package usecases

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
	"subsift/internal/platform/errors"
	"subsift/internal/platform/logx"
	"subsift/internal/platform/metrics"
	"subsift/internal/platform/retry"
)

// defaultLookupTimeout acota cada consulta DNS individual.
const defaultLookupTimeout = 5 * time.Second

// ResolverPool verifica candidatos contra DNS con concurrencia acotada. Un
// número fijo de workers consume el stream de candidatos; un rate limiter
// opcional reparte el caudal de consultas entre todos ellos.
type ResolverPool struct {
	resolver ports.Resolver
	workers  int
	timeout  time.Duration
	policy   retry.Policy
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	logger   logx.Logger
}

// ResolverPoolOptions configura el pool.
type ResolverPoolOptions struct {
	Resolver ports.Resolver

	// Workers es el número de lookups simultáneos. <= 0 usa 8.
	Workers int

	// Timeout por lookup individual. <= 0 usa 5s.
	Timeout time.Duration

	// QPS limita las consultas por segundo entre todos los workers.
	// 0 desactiva el pacing.
	QPS float64

	// Policy gobierna los reintentos ante fallos transitorios. El valor
	// cero usa retry.DefaultPolicy.
	Policy retry.Policy

	Metrics *metrics.Metrics
	Logger  logx.Logger
}

// NewResolverPool crea el pool de resolución.
func NewResolverPool(opts ResolverPoolOptions) *ResolverPool {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultLookupTimeout
	}
	if opts.Policy.MaxAttempts == 0 && opts.Policy.BaseDelay == 0 {
		opts.Policy = retry.DefaultPolicy()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}

	var limiter *rate.Limiter
	if opts.QPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.QPS), 1)
	}

	return &ResolverPool{
		resolver: opts.Resolver,
		workers:  opts.Workers,
		timeout:  opts.Timeout,
		policy:   opts.Policy,
		limiter:  limiter,
		metrics:  opts.Metrics,
		logger:   opts.Logger.With("component", "resolver"),
	}
}

// Resolve consume candidatos y emite un veredicto por cada uno. El canal de
// salida se cierra cuando el de entrada se agota y todos los workers
// terminan. El orden de salida no guarda relación con el de entrada.
func (p *ResolverPool) Resolve(ctx context.Context, baseline *domain.WildcardBaseline, in <-chan domain.Candidate) <-chan domain.Resolution {
	out := make(chan domain.Resolution)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, baseline, in, out)
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func (p *ResolverPool) worker(ctx context.Context, baseline *domain.WildcardBaseline, in <-chan domain.Candidate, out chan<- domain.Resolution) {
	for candidate := range in {
		if ctx.Err() != nil {
			return
		}
		res, ok := p.resolveOne(ctx, baseline, candidate)
		if !ok {
			return
		}
		out <- res
	}
}

// resolveOne resuelve un candidato y lo clasifica contra la línea base.
// Retorna ok=false cuando la cancelación impide llegar a un veredicto.
func (p *ResolverPool) resolveOne(ctx context.Context, baseline *domain.WildcardBaseline, candidate domain.Candidate) (domain.Resolution, bool) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return domain.Resolution{}, false
		}
	}

	p.metrics.InFlightLookups.Inc()
	defer p.metrics.InFlightLookups.Dec()

	start := time.Now()
	attempts := 0
	var records domain.RRSet

	err := p.policy.Do(ctx, func(ctx context.Context) error {
		attempts++
		lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		var lerr error
		records, lerr = p.resolver.Lookup(lookupCtx, candidate.Name)
		return lerr
	})
	duration := time.Since(start)

	// Sin veredicto solo cuando la ejecución entera se está cancelando.
	// Un deadline del lookup individual con la ejecución viva es un fallo
	// normal y clasifica como Unresolved.
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return domain.Resolution{}, false
	}

	status := p.classify(baseline, records, err)
	if status == domain.ResolutionUnresolved {
		records = domain.RRSet{}
	}

	res := domain.NewResolution(candidate, status, records)
	res.Attempts = attempts
	res.Duration = duration

	retries := attempts - 1
	if retries < 0 {
		retries = 0
	}
	p.metrics.ObserveLookup(status.String(), duration, retries)

	if err != nil && !errors.IsNameNotFound(err) {
		p.logger.Debug("lookup gave up", "name", candidate.Name, "attempts", attempts, "error", err.Error())
	}
	return res, true
}

// classify aplica el orden de decisión del veredicto: NXDOMAIN y fallos
// agotados son Unresolved; una respuesta explicada por el comodín queda
// sombreada; el resto con direcciones es Resolved.
func (p *ResolverPool) classify(baseline *domain.WildcardBaseline, records domain.RRSet, err error) domain.ResolutionStatus {
	switch {
	case err != nil:
		return domain.ResolutionUnresolved
	case baseline.Covers(records):
		return domain.ResolutionWildcardShadowed
	case records.Empty():
		return domain.ResolutionUnresolved
	default:
		return domain.ResolutionResolved
	}
}
