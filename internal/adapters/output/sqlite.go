// internal/adapters/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"subsift/internal/core/domain"
	"subsift/internal/platform/logx"
)

// historySchema guarda nombres con atribución de fuente más una fila de
// resumen por ejecución. La clave primaria sobre el nombre deduplica
// entre ejecuciones.
const historySchema = `
CREATE TABLE IF NOT EXISTS names (
	name       TEXT PRIMARY KEY,
	source     TEXT,
	first_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	target      TEXT,
	mode        TEXT,
	started_at  TIMESTAMP,
	duration_ms INTEGER,
	candidates  INTEGER,
	resolved    INTEGER,
	wildcard    INTEGER
);
`

// SQLiteSink acumula el histórico de descubrimientos en una base SQLite.
// Ejecutar varias veces contra el mismo archivo construye el inventario
// incremental del dominio.
type SQLiteSink struct {
	db     *sql.DB
	logger logx.Logger
}

// NewSQLiteSink abre (o crea) la base de histórico.
func NewSQLiteSink(path string, logger logx.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &SQLiteSink{
		db:     db,
		logger: logger.With("component", "sqlite-sink"),
	}, nil
}

// Emit inserta el nombre si no estaba ya en el histórico.
func (s *SQLiteSink) Emit(res domain.Resolution) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO names (name, source) VALUES (?, ?)",
		res.Name, res.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to store name %s: %w", res.Name, err)
	}
	return nil
}

// Flush registra la fila de resumen de la ejecución.
func (s *SQLiteSink) Flush(report *domain.RunReport) error {
	wildcard := 0
	if report.Metadata.WildcardDetected {
		wildcard = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, target, mode, started_at, duration_ms, candidates, resolved, wildcard)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Target.Root,
		report.Mode.String(),
		report.Metadata.StartTime,
		report.Metadata.Duration.Milliseconds(),
		report.Metadata.TotalCandidates,
		report.TotalResolved(),
		wildcard,
	)
	if err != nil {
		return fmt.Errorf("failed to store run summary: %w", err)
	}

	s.logger.Debug("history updated",
		"run", report.ID,
		"resolved", report.TotalResolved(),
	)
	return nil
}

// Close cierra la base.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
