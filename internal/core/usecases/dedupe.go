// internal/core/usecases/dedupe.go
package usecases

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/zeebo/xxh3"
)

// shardCount reparte la contención entre varios locks. Potencia de dos
// para que la selección sea una máscara.
const shardCount = 16

// DedupeIndex es el índice compartido de nombres ya vistos. Las fuentes
// corren en paralelo, así que el índice se consulta desde varias
// goroutines; el sharding por hash evita un lock global.
type DedupeIndex struct {
	shards [shardCount]dedupeShard
}

type dedupeShard struct {
	mu   sync.Mutex
	seen mapset.Set[string]
}

// NewDedupeIndex crea un índice vacío.
func NewDedupeIndex() *DedupeIndex {
	idx := &DedupeIndex{}
	for i := range idx.shards {
		idx.shards[i].seen = mapset.NewThreadUnsafeSet[string]()
	}
	return idx
}

// Add registra una clave y retorna true si es la primera vez que se ve.
// La clave debe llegar ya normalizada; dos variantes del mismo nombre con
// distintas mayúsculas tienen que compartir clave antes de llegar aquí.
func (idx *DedupeIndex) Add(key string) bool {
	shard := &idx.shards[xxh3.HashString(key)&(shardCount-1)]

	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.seen.Add(key)
}

// Contains indica si la clave ya fue registrada.
func (idx *DedupeIndex) Contains(key string) bool {
	shard := &idx.shards[xxh3.HashString(key)&(shardCount-1)]

	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.seen.Contains(key)
}

// Len retorna el total de claves únicas registradas.
func (idx *DedupeIndex) Len() int {
	total := 0
	for i := range idx.shards {
		idx.shards[i].mu.Lock()
		total += idx.shards[i].seen.Cardinality()
		idx.shards[i].mu.Unlock()
	}
	return total
}
