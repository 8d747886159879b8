// internal/adapters/output/multi.go
package output

import (
	"github.com/hashicorp/go-multierror"

	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
)

// MultiSink reparte cada operación entre varios sinks. Un sink que falla
// no corta a los demás; los errores se acumulan y se devuelven juntos.
type MultiSink struct {
	sinks []ports.Sink
}

// NewMultiSink agrupa varios sinks en uno.
func NewMultiSink(sinks ...ports.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Emit reenvía el veredicto a todos los sinks.
func (m *MultiSink) Emit(res domain.Resolution) error {
	var result *multierror.Error
	for _, sink := range m.sinks {
		result = multierror.Append(result, sink.Emit(res))
	}
	return result.ErrorOrNil()
}

// Flush reenvía el reporte a todos los sinks.
func (m *MultiSink) Flush(report *domain.RunReport) error {
	var result *multierror.Error
	for _, sink := range m.sinks {
		result = multierror.Append(result, sink.Flush(report))
	}
	return result.ErrorOrNil()
}

// Close cierra todos los sinks.
func (m *MultiSink) Close() error {
	var result *multierror.Error
	for _, sink := range m.sinks {
		result = multierror.Append(result, sink.Close())
	}
	return result.ErrorOrNil()
}
