// internal/testutil/mocks.go
package testutil

import (
	"strings"
	"sync"
)

// Nota: los mocks específicos de ports viven junto a los tests que los usan.
// Este archivo contiene solo utilidades genéricas sin dependencias circulares.

// CollectWriter es un io.Writer thread-safe que acumula lo escrito, útil
// para verificar la salida de los sinks en streaming.
type CollectWriter struct {
	mu  sync.Mutex
	buf strings.Builder
}

// NewCollectWriter crea un CollectWriter vacío.
func NewCollectWriter() *CollectWriter {
	return &CollectWriter{}
}

// Write implementa io.Writer.
func (w *CollectWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// String retorna todo lo escrito hasta el momento.
func (w *CollectWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Lines retorna las líneas no vacías escritas hasta el momento.
func (w *CollectWriter) Lines() []string {
	raw := strings.Split(w.String(), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
