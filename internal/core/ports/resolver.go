// internal/core/ports/resolver.go
package ports

import (
	"context"

	"subsift/internal/core/domain"
)

// Resolver es el port hacia DNS. La implementación real rota entre
// servidores; los tests inyectan respuestas fijas.
type Resolver interface {
	// Lookup consulta los registros A y AAAA de un nombre. Un nombre
	// inexistente retorna un error de clase ErrNameNotFound; los fallos
	// transitorios (timeout, SERVFAIL) retornan errores retryables.
	Lookup(ctx context.Context, name string) (domain.RRSet, error)
}
