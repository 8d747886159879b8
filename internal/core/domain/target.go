// internal/core/domain/target.go
package domain

import (
	"fmt"
	"strings"

	"subsift/internal/platform/validator"
)

// Target representa el dominio objetivo del descubrimiento.
type Target struct {
	// Root es el dominio apex objetivo
	Root string

	// Registrable es el eTLD+1 del root según la Public Suffix List
	Registrable string

	// Exclusions lista de dominios a excluir de los resultados
	Exclusions []string
}

// NewTarget crea un nuevo target con valores por defecto.
func NewTarget(root string) *Target {
	return &Target{
		Root:       root,
		Exclusions: []string{},
	}
}

// Validate normaliza y verifica que el target sea válido.
func (t *Target) Validate() error {
	if validator.IsEmpty(t.Root) {
		return ErrEmptyTarget
	}

	// Normalizar usando validator centralizado
	t.Root = validator.NormalizeDomain(t.Root)

	if !validator.IsDomain(t.Root) {
		return fmt.Errorf("%w: %s", ErrInvalidDomain, t.Root)
	}

	// Un root que sea un sufijo público puro (p.ej. "co.uk") no es un
	// objetivo razonable.
	registrable, err := validator.RegistrableDomain(t.Root)
	if err != nil {
		return fmt.Errorf("%w: %s is a public suffix", ErrInvalidDomain, t.Root)
	}
	t.Registrable = registrable

	return nil
}

// Owns verifica si un nombre pertenece a la zona del target.
// El propio root cuenta como dentro de la zona.
func (t *Target) Owns(name string) bool {
	name = validator.NormalizeName(name)

	for _, excluded := range t.Exclusions {
		if name == excluded || strings.HasSuffix(name, "."+excluded) {
			return false
		}
	}

	return name == t.Root || strings.HasSuffix(name, "."+t.Root)
}

// Depth calcula la profundidad de un subdominio relativo al root.
// Ejemplo: para root="example.com"
//   - "example.com" = 0
//   - "api.example.com" = 1
//   - "dev.api.example.com" = 2
func (t *Target) Depth(name string) int {
	name = validator.NormalizeName(name)
	if name == t.Root {
		return 0
	}
	if !strings.HasSuffix(name, "."+t.Root) {
		return 0
	}

	sub := strings.TrimSuffix(name, "."+t.Root)
	return strings.Count(sub, ".") + 1
}

// AddExclusion añade un dominio a la lista de exclusión.
func (t *Target) AddExclusion(domain string) {
	domain = validator.NormalizeDomain(domain)
	for _, ex := range t.Exclusions {
		if ex == domain {
			return
		}
	}
	t.Exclusions = append(t.Exclusions, domain)
}

// String retorna una representación legible del target.
func (t *Target) String() string {
	return fmt.Sprintf("Target{root=%s, exclusions=%d}", t.Root, len(t.Exclusions))
}
