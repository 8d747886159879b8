// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"subsift/internal/core/domain"
)

// JSONSink escribe el reporte completo de la ejecución como un único
// documento JSON en Flush.
type JSONSink struct {
	w      io.Writer
	closer io.Closer
}

// NewJSONSink crea un sink JSON sobre un writer ya abierto.
func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

// NewJSONFileSink crea un sink JSON que escribe en un archivo.
func NewJSONFileSink(path string) (*JSONSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &JSONSink{w: f, closer: f}, nil
}

// Emit no hace nada: el documento se escribe completo en Flush.
func (s *JSONSink) Emit(res domain.Resolution) error {
	return nil
}

// Flush codifica el reporte con indentación.
func (s *JSONSink) Flush(report *domain.RunReport) error {
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// Close cierra el writer subyacente si es cerrable.
func (s *JSONSink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
