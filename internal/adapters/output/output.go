// internal/adapters/output/output.go

// Package output implementa los sinks de resultados: streaming línea a
// línea, reporte de texto ordenado, reporte JSON y un histórico SQLite.
// La extensión del archivo de salida decide el formato.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
	"subsift/internal/platform/logx"
)

// ForPath crea el sink de archivo que corresponde a la extensión.
func ForPath(path string, logger logx.Logger) (ports.Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return NewTextFileSink(path)
	case ".json":
		return NewJSONFileSink(path)
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteSink(path, logger)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
}

// Sinks construye la salida completa de una ejecución: el archivo pedido
// con -o, más stdout cuando corresponde (siempre en modo stream, y como
// reporte de texto cuando no hay archivo).
func Sinks(path string, stream bool, logger logx.Logger) (ports.Sink, error) {
	var sinks []ports.Sink

	if path != "" {
		fileSink, err := ForPath(path, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)
	}

	if stream {
		sinks = append(sinks, NewStreamSink(os.Stdout))
	} else if path == "" {
		sinks = append(sinks, NewTextSink(os.Stdout))
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}
