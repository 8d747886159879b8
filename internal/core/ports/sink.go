// internal/core/ports/sink.go
package ports

import (
	"subsift/internal/core/domain"
)

// Sink es el port de salida de resultados. Los sinks en streaming emiten
// cada veredicto al llegar; los de reporte acumulan hasta Flush.
type Sink interface {
	// Emit recibe un veredicto verificado en cuanto el pipeline lo
	// clasifica. El pipeline serializa las llamadas en una sola goroutine.
	Emit(res domain.Resolution) error

	// Flush recibe el reporte final una única vez, al terminar la
	// ejecución.
	Flush(report *domain.RunReport) error

	// Close libera recursos (archivos, conexiones)
	Close() error
}
