// internal/core/domain/report.go
package domain

import (
	"fmt"
	"sort"
	"time"
)

// RunReport representa el resultado completo de una ejecución.
type RunReport struct {
	// ID identificador único de la ejecución
	ID string

	// Target objetivo de la ejecución
	Target Target

	// Mode conjunto de fuentes consultado
	Mode RunMode

	// Resolutions veredictos DNS de todos los candidatos únicos
	Resolutions []Resolution

	// Metadata información sobre la ejecución
	Metadata RunMetadata

	// Warnings advertencias no críticas durante la ejecución
	Warnings []Warning

	// Errors errores ocurridos durante la ejecución
	Errors []Error
}

// RunMetadata contiene información sobre la ejecución.
type RunMetadata struct {
	// StartTime momento de inicio
	StartTime time.Time

	// EndTime momento de finalización
	EndTime time.Time

	// Duration duración total
	Duration time.Duration

	// SourcesUsed fuentes que aportaron candidatos
	SourcesUsed []string

	// PerSource candidatos únicos aportados por cada fuente
	PerSource map[string]int

	// FailedSources fuentes que terminaron en error
	FailedSources []string

	// TotalCandidates candidatos únicos tras deduplicación
	TotalCandidates int

	// Duplicates repetidos descartados durante la agregación
	Duplicates int

	// WildcardDetected indica si la zona tiene comodín DNS
	WildcardDetected bool

	// WildcardAddresses direcciones del comodín, si lo hay
	WildcardAddresses []string

	// Version versión de subsift utilizada
	Version string
}

// Warning representa una advertencia no crítica durante la ejecución.
type Warning struct {
	// Source fuente que generó la advertencia
	Source string

	// Message descripción de la advertencia
	Message string

	// Timestamp momento de la advertencia
	Timestamp time.Time
}

// Error representa un error ocurrido durante la ejecución.
type Error struct {
	// Source fuente que generó el error
	Source string

	// Message descripción del error
	Message string

	// Fatal indica si el error es fatal (detiene la ejecución)
	Fatal bool

	// Timestamp momento del error
	Timestamp time.Time
}

// NewRunReport crea un nuevo reporte de ejecución.
func NewRunReport(target Target, mode RunMode) *RunReport {
	return &RunReport{
		ID:          generateRunID(),
		Target:      target,
		Mode:        mode,
		Resolutions: []Resolution{},
		Metadata: RunMetadata{
			StartTime: time.Now(),
		},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// AddResolution añade un veredicto al reporte.
func (r *RunReport) AddResolution(res Resolution) {
	if res.Status.IsValid() {
		r.Resolutions = append(r.Resolutions, res)
	}
}

// AddWarning añade una advertencia al reporte.
func (r *RunReport) AddWarning(source, message string) {
	r.Warnings = append(r.Warnings, Warning{
		Source:    source,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// AddError añade un error al reporte.
func (r *RunReport) AddError(source, message string, fatal bool) {
	r.Errors = append(r.Errors, Error{
		Source:    source,
		Message:   message,
		Fatal:     fatal,
		Timestamp: time.Now(),
	})
}

// Finalize marca la ejecución como completada y calcula la duración.
func (r *RunReport) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// Resolved retorna solo los nombres verificados, ordenados alfabéticamente.
func (r *RunReport) Resolved() []Resolution {
	resolved := make([]Resolution, 0, len(r.Resolutions))
	for _, res := range r.Resolutions {
		if res.Resolved() {
			resolved = append(resolved, res)
		}
	}
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].Name < resolved[j].Name
	})
	return resolved
}

// Stats retorna el conteo de resoluciones agrupadas por estado.
func (r *RunReport) Stats() map[ResolutionStatus]int {
	stats := make(map[ResolutionStatus]int)
	for _, res := range r.Resolutions {
		stats[res.Status]++
	}
	return stats
}

// TotalResolved retorna el número de nombres verificados.
func (r *RunReport) TotalResolved() int {
	count := 0
	for _, res := range r.Resolutions {
		if res.Resolved() {
			count++
		}
	}
	return count
}

// HasErrors indica si hubo errores durante la ejecución.
func (r *RunReport) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasFatalErrors indica si hubo errores fatales durante la ejecución.
func (r *RunReport) HasFatalErrors() bool {
	for _, err := range r.Errors {
		if err.Fatal {
			return true
		}
	}
	return false
}

// Summary retorna un resumen legible del reporte.
func (r *RunReport) Summary() string {
	return fmt.Sprintf(
		"RunReport{target=%s, candidates=%d, resolved=%d, warnings=%d, errors=%d, duration=%s}",
		r.Target.Root,
		r.Metadata.TotalCandidates,
		r.TotalResolved(),
		len(r.Warnings),
		len(r.Errors),
		r.Metadata.Duration,
	)
}

// generateRunID genera un ID único basado en timestamp.
func generateRunID() string {
	return fmt.Sprintf("run-%d", time.Now().UnixNano())
}
