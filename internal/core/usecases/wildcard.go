// internal/core/usecases/wildcard.go
package usecases

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
	"subsift/internal/platform/errors"
	"subsift/internal/platform/logx"
	"subsift/internal/platform/metrics"
	"subsift/internal/platform/retry"
)

const (
	// probeLabelLen es la longitud de la etiqueta aleatoria de cada sonda.
	// Con 16 caracteres alfanuméricos la colisión con un subdominio real
	// es despreciable.
	probeLabelLen = 16

	// probeTimeout acota cada lookup de sonda. La detección corre antes
	// del grueso de la resolución y no debe retrasarlo.
	probeTimeout = 5 * time.Second
)

const probeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// WildcardDetector sondea la zona con etiquetas aleatorias para medir a qué
// responde el comodín DNS, si lo hay. La línea base resultante filtra los
// candidatos que solo existen por el comodín.
type WildcardDetector struct {
	resolver ports.Resolver
	probes   int
	policy   retry.Policy
	metrics  *metrics.Metrics
	logger   logx.Logger
}

// NewWildcardDetector crea el detector. probes <= 0 usa 3 sondas.
func NewWildcardDetector(resolver ports.Resolver, probes int, m *metrics.Metrics, logger logx.Logger) *WildcardDetector {
	if probes <= 0 {
		probes = 3
	}
	if m == nil {
		m = metrics.Default()
	}
	if logger == nil {
		logger = logx.New()
	}
	return &WildcardDetector{
		resolver: resolver,
		probes:   probes,
		policy:   retry.ProbePolicy(),
		metrics:  m,
		logger:   logger.With("component", "wildcard"),
	}
}

// Detect resuelve las sondas y acumula sus respuestas en la línea base.
// Cualquier sonda que no resuelva (NXDOMAIN o fallo persistente) se trata
// como ausencia de comodín: ante la duda se prefiere sobre-reportar a
// descartar nombres reales.
func (d *WildcardDetector) Detect(ctx context.Context, target domain.Target) *domain.WildcardBaseline {
	baseline := domain.NewWildcardBaseline()

	for i := 0; i < d.probes; i++ {
		if ctx.Err() != nil {
			break
		}

		name := randomLabel() + "." + target.Root
		records, err := d.probe(ctx, name)
		if err != nil {
			if errors.IsNameNotFound(err) {
				d.logger.Debug("probe got NXDOMAIN", "probe", name)
			} else {
				d.logger.Warn("probe failed, assuming no wildcard", "probe", name, "error", err.Error())
			}
			continue
		}

		baseline.Absorb(records)
		d.logger.Debug("probe resolved", "probe", name, "addresses", records.Addresses())
	}

	if baseline.Detected {
		d.metrics.WildcardDetected.Set(1)
		d.logger.Warn("wildcard DNS detected",
			"target", target.Root,
			"addresses", baseline.Snapshot(),
		)
	} else {
		d.metrics.WildcardDetected.Set(0)
		d.logger.Debug("no wildcard detected", "target", target.Root)
	}
	return baseline
}

// probe resuelve una sonda con la política corta: un único reintento y
// backoff breve, independiente de la política del grueso.
func (d *WildcardDetector) probe(ctx context.Context, name string) (domain.RRSet, error) {
	var records domain.RRSet

	err := d.policy.Do(ctx, func(ctx context.Context) error {
		lookupCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()

		var err error
		records, err = d.resolver.Lookup(lookupCtx, name)
		return err
	})
	return records, err
}

// randomLabel genera una etiqueta alfanumérica que no debería existir en
// ninguna zona real.
func randomLabel() string {
	var b strings.Builder
	b.Grow(probeLabelLen)
	for i := 0; i < probeLabelLen; i++ {
		b.WriteByte(probeAlphabet[rand.Intn(len(probeAlphabet))])
	}
	return b.String()
}
