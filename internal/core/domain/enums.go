// internal/core/domain/enums.go
package domain

// RunMode define qué conjunto de fuentes se consulta.
type RunMode string

const (
	// RunModeDefault consulta solo las fuentes marcadas por defecto
	RunModeDefault RunMode = "default"

	// RunModeFull consulta todas las fuentes registradas
	RunModeFull RunMode = "full"
)

// IsValid verifica si el modo es válido.
func (m RunMode) IsValid() bool {
	switch m {
	case RunModeDefault, RunModeFull:
		return true
	default:
		return false
	}
}

// String retorna la representación string del modo.
func (m RunMode) String() string {
	return string(m)
}

// ResolutionStatus clasifica el resultado DNS de un candidato.
type ResolutionStatus string

const (
	// ResolutionResolved el nombre resolvió a al menos una dirección real
	ResolutionResolved ResolutionStatus = "resolved"

	// ResolutionUnresolved el nombre no existe o nunca respondió
	ResolutionUnresolved ResolutionStatus = "unresolved"

	// ResolutionWildcardShadowed el nombre solo resolvió a direcciones
	// del comodín DNS de la zona
	ResolutionWildcardShadowed ResolutionStatus = "wildcard_shadowed"
)

// IsValid verifica si el estado es válido.
func (s ResolutionStatus) IsValid() bool {
	switch s {
	case ResolutionResolved, ResolutionUnresolved, ResolutionWildcardShadowed:
		return true
	default:
		return false
	}
}

// String retorna la representación string del estado.
func (s ResolutionStatus) String() string {
	return string(s)
}
