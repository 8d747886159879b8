// internal/core/domain/resolution.go
package domain

import (
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// RRSet agrupa los registros DNS relevantes de un nombre.
type RRSet struct {
	A     []string
	AAAA  []string
	CNAME []string
}

// Empty indica si el RRSet no contiene ninguna dirección.
func (s RRSet) Empty() bool {
	return len(s.A) == 0 && len(s.AAAA) == 0
}

// Addresses retorna todas las direcciones (A y luego AAAA).
func (s RRSet) Addresses() []string {
	addrs := make([]string, 0, len(s.A)+len(s.AAAA))
	addrs = append(addrs, s.A...)
	addrs = append(addrs, s.AAAA...)
	return addrs
}

// Resolution es el veredicto DNS de un candidato.
type Resolution struct {
	// Name es el FQDN del candidato
	Name string

	// Source es el dataset que reportó el candidato
	Source string

	// Status clasifica el resultado
	Status ResolutionStatus

	// Records contiene las respuestas DNS (vacío si Unresolved)
	Records RRSet

	// Attempts cuenta los intentos de resolución realizados
	Attempts int

	// Duration es el tiempo total de resolución del candidato
	Duration time.Duration
}

// NewResolution construye una resolución para un candidato.
func NewResolution(c Candidate, status ResolutionStatus, records RRSet) Resolution {
	return Resolution{
		Name:    c.Name,
		Source:  c.Source,
		Status:  status,
		Records: records,
	}
}

// Resolved indica si el nombre existe de verdad.
func (r Resolution) Resolved() bool {
	return r.Status == ResolutionResolved
}

// String retorna una representación legible de la resolución.
func (r Resolution) String() string {
	if r.Records.Empty() {
		return fmt.Sprintf("%s [%s]", r.Name, r.Status)
	}
	return fmt.Sprintf("%s [%s] %v", r.Name, r.Status, r.Records.Addresses())
}

// WildcardBaseline es el conjunto de direcciones a las que responde el
// comodín DNS de la zona, construido con sondas de etiquetas aleatorias.
type WildcardBaseline struct {
	// Detected indica si alguna sonda resolvió
	Detected bool

	// Addresses es la unión de las direcciones devueltas por las sondas
	Addresses mapset.Set[string]
}

// NewWildcardBaseline crea una línea base vacía (sin comodín).
func NewWildcardBaseline() *WildcardBaseline {
	return &WildcardBaseline{
		Detected:  false,
		Addresses: mapset.NewSet[string](),
	}
}

// Absorb añade las direcciones de una sonda que resolvió.
func (b *WildcardBaseline) Absorb(records RRSet) {
	if records.Empty() {
		return
	}
	b.Detected = true
	for _, addr := range records.Addresses() {
		b.Addresses.Add(addr)
	}
}

// Covers indica si un RRSet queda completamente explicado por el comodín:
// respuestas no vacías cuyo conjunto de direcciones es subconjunto de la
// línea base no vacía.
func (b *WildcardBaseline) Covers(records RRSet) bool {
	if !b.Detected || b.Addresses.Cardinality() == 0 {
		return false
	}
	if records.Empty() {
		return false
	}
	answer := mapset.NewSet(records.Addresses()...)
	return answer.IsSubset(b.Addresses)
}

// Snapshot retorna las direcciones del comodín ordenadas de forma estable
// para reporting.
func (b *WildcardBaseline) Snapshot() []string {
	if b.Addresses == nil {
		return nil
	}
	addrs := b.Addresses.ToSlice()
	sort.Strings(addrs)
	return addrs
}
