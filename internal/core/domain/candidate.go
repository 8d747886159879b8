// internal/core/domain/candidate.go
package domain

import (
	"fmt"

	"subsift/internal/platform/validator"
)

// Candidate es un nombre de subdominio reportado por un dataset, aún sin
// verificar contra DNS.
type Candidate struct {
	// Name es el FQDN ya normalizado (minúsculas, sin punto final)
	Name string

	// Source identifica el dataset que lo reportó
	Source string
}

// NewCandidate normaliza el nombre y construye el candidato.
func NewCandidate(name, source string) Candidate {
	return Candidate{
		Name:   validator.NormalizeName(name),
		Source: source,
	}
}

// IsValid verifica que el nombre sea un dominio bien formado.
func (c Candidate) IsValid() bool {
	return validator.IsDomain(c.Name)
}

// Key retorna la clave de deduplicación del candidato. Dos variantes del
// mismo nombre con distintas mayúsculas comparten clave.
func (c Candidate) Key() string {
	return c.Name
}

// String retorna una representación legible del candidato.
func (c Candidate) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Source)
}
