// internal/platform/ui/presenter.go
package ui

import "time"

// Presenter abstrae la presentación de una ejecución en terminal.
// Las implementaciones deben ser seguras para uso concurrente: Progress
// se invoca desde la goroutine del pipeline mientras main puede emitir
// mensajes.
type Presenter interface {
	// Start pinta el banner y el panel de configuración de la ejecución
	Start(info RunInfo)

	// Progress actualiza el contador en vivo de candidatos procesados
	// y nombres verificados
	Progress(processed, resolved int)

	// EndProgress detiene el indicador de progreso. Debe llamarse antes
	// de volcar el reporte a stdout para no pisar el spinner.
	EndProgress()

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia no crítica
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish pinta el resumen final de la ejecución
	Finish(stats RunStats)

	// Close libera recursos de terminal
	Close() error
}

// RunInfo contiene la configuración visible de una ejecución.
type RunInfo struct {
	// Target dominio apex objetivo
	Target string

	// Mode conjunto de fuentes consultado (default|full)
	Mode string

	// Sources nombres de las fuentes seleccionadas, en orden de prioridad
	Sources []string

	// Workers resoluciones DNS concurrentes
	Workers int

	// Resolvers servidores DNS en uso
	Resolvers []string

	// TimeoutSeconds timeout global (0 = sin timeout)
	TimeoutSeconds int

	// Output destino de resultados ("stdout" o ruta de archivo)
	Output string

	// Version versión del binario
	Version string
}

// RunStats contiene las estadísticas finales de una ejecución.
type RunStats struct {
	// Duration duración total de la ejecución
	Duration time.Duration

	// Candidates candidatos únicos tras deduplicación
	Candidates int

	// Duplicates repetidos descartados durante la agregación
	Duplicates int

	// Resolved nombres verificados por DNS
	Resolved int

	// Unresolved candidatos sin registros DNS
	Unresolved int

	// WildcardShadowed candidatos descartados por el comodín
	WildcardShadowed int

	// WildcardDetected indica si la zona tiene comodín DNS
	WildcardDetected bool

	// WildcardAddresses direcciones del comodín, si lo hay
	WildcardAddresses []string

	// PerSource candidatos únicos aportados por cada fuente
	PerSource map[string]int

	// FailedSources fuentes que terminaron en error
	FailedSources []string

	// Interrupted indica si la ejecución se canceló antes de terminar
	Interrupted bool
}
