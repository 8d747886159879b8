// internal/core/ports/source.go
package ports

import (
	"context"
	"time"

	"subsift/internal/core/domain"
)

// Source es el port primario para los datasets de subdominios.
// Toda fuente emite candidatos en streaming a medida que pagina.
type Source interface {
	// Name retorna el nombre único de la fuente (ej: "thc", "crtsh")
	Name() string

	// Stream consulta la fuente contra el target y emite candidatos a
	// medida que llegan las páginas. Ambos canales se cierran al terminar;
	// un error en el canal de errores marca la fuente como fallida.
	Stream(ctx context.Context, target domain.Target) (<-chan domain.Candidate, <-chan error)

	// Close libera recursos utilizados por la fuente
	Close() error
}

// SourceConfig contiene la configuración específica de una fuente.
type SourceConfig struct {
	// Enabled indica si la fuente está habilitada
	Enabled bool

	// Timeout tiempo máximo por petición de página
	Timeout time.Duration

	// Retries número de reintentos por página en caso de fallo transitorio
	Retries int

	// RateLimit límite de peticiones por segundo (0 = sin límite)
	RateLimit float64

	// Delay pausa fija entre páginas consecutivas
	Delay time.Duration

	// Backoff base del backoff exponencial entre reintentos de página
	// (0 = default del cliente HTTP)
	Backoff time.Duration

	// Priority orden de arranque (mayor = antes)
	Priority int
}

// DefaultSourceConfig retorna una configuración por defecto.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Enabled:   true,
		Timeout:   30 * time.Second,
		Retries:   2,
		RateLimit: 0,
		Delay:     0,
		Priority:  0,
	}
}

// SourceMetadata contiene metadatos sobre una fuente.
type SourceMetadata struct {
	Name        string
	Description string

	// Default indica si la fuente se consulta en modo default.
	// Las demás solo participan en modo full.
	Default bool

	// Priority orden de arranque (mayor = antes)
	Priority int
}
