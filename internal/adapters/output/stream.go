// internal/adapters/output/stream.go
package output

import (
	"fmt"
	"io"

	"subsift/internal/core/domain"
)

// StreamSink escribe cada nombre verificado en cuanto llega, uno por
// línea. Es la salida pensada para tuberías: grep, anew, httpx.
type StreamSink struct {
	w      io.Writer
	closer io.Closer
}

// NewStreamSink crea un sink de streaming sobre un writer ya abierto.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

// Emit escribe el nombre del veredicto.
func (s *StreamSink) Emit(res domain.Resolution) error {
	if _, err := fmt.Fprintln(s.w, res.Name); err != nil {
		return fmt.Errorf("failed to write stream line: %w", err)
	}
	return nil
}

// Flush no hace nada: todo se escribió sobre la marcha.
func (s *StreamSink) Flush(report *domain.RunReport) error {
	return nil
}

// Close cierra el writer subyacente si es cerrable.
func (s *StreamSink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
