// internal/adapters/output/text.go
package output

import (
	"fmt"
	"io"
	"os"

	"subsift/internal/core/domain"
)

// TextSink escribe el listado final ordenado, un nombre por línea. No
// emite nada hasta Flush: el orden alfabético requiere el conjunto
// completo.
type TextSink struct {
	w      io.Writer
	closer io.Closer
}

// NewTextSink crea un sink de texto sobre un writer ya abierto.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// NewTextFileSink crea un sink de texto que escribe en un archivo.
func NewTextFileSink(path string) (*TextSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &TextSink{w: f, closer: f}, nil
}

// Emit no hace nada: el sink escribe todo al final.
func (s *TextSink) Emit(res domain.Resolution) error {
	return nil
}

// Flush escribe los nombres verificados en orden alfabético.
func (s *TextSink) Flush(report *domain.RunReport) error {
	for _, res := range report.Resolved() {
		if _, err := fmt.Fprintln(s.w, res.Name); err != nil {
			return fmt.Errorf("failed to write report line: %w", err)
		}
	}
	return nil
}

// Close cierra el writer subyacente si es cerrable.
func (s *TextSink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
