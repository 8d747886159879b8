// internal/sources/dataset/source.go
package dataset

import (
	"context"
	"time"

	"subsift/internal/core/domain"
	"subsift/internal/core/ports"
	"subsift/internal/platform/errors"
	"subsift/internal/platform/httpclient"
	"subsift/internal/platform/logx"
	"subsift/internal/platform/metrics"
	"subsift/internal/platform/validator"
)

// Source es el paginator genérico: un Schema más la configuración de
// runtime. Todas las fuentes builtin y las del catálogo YAML son instancias
// de este tipo.
type Source struct {
	schema Schema
	cfg    ports.SourceConfig
	client *httpclient.Client
	logger logx.Logger
}

// New construye la fuente a partir de su schema.
func New(schema Schema, cfg ports.SourceConfig, logger logx.Logger) (*Source, error) {
	schema.normalize()
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	httpCfg := httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.Retries,
		RetryBackoff: cfg.Backoff,
		RateLimit:    cfg.RateLimit,
	}

	return &Source{
		schema: schema,
		cfg:    cfg,
		client: httpclient.New(httpCfg, logger),
		logger: logger.With("source", schema.Name),
	}, nil
}

// Name retorna el identificador del dataset.
func (s *Source) Name() string {
	return s.schema.Name
}

// Stream pagina el dataset emitiendo candidatos según llegan. El canal de
// candidatos se cierra al terminar; el de errores lleva a lo sumo un error.
func (s *Source) Stream(ctx context.Context, target domain.Target) (<-chan domain.Candidate, <-chan error) {
	out := make(chan domain.Candidate)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		if err := s.paginate(ctx, target, out); err != nil {
			errs <- err
		}
	}()

	return out, errs
}

// Close libera recursos. El cliente HTTP no mantiene estado que cerrar.
func (s *Source) Close() error {
	return nil
}

// paginate ejecuta el bucle secuencial de páginas. La página N+1 necesita
// el cursor de la N, así que no hay concurrencia intra-fuente.
func (s *Source) paginate(ctx context.Context, target domain.Target, out chan<- domain.Candidate) error {
	cursor := ""
	pageNum := s.schema.PageStart
	pages := 0
	emitted := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pg, err := s.fetchPage(ctx, target.Root, cursor, pageNum)
		if err != nil {
			if pages == 0 {
				return errors.Wrapf(err, "source %s: first page failed", s.schema.Name)
			}
			return errors.Wrapf(err, "source %s: failed after %d pages", s.schema.Name, pages)
		}
		pages++

		for _, raw := range pg.names {
			name := validator.NormalizeName(raw)
			if name == "" || !target.Owns(name) {
				continue
			}
			select {
			case out <- domain.NewCandidate(name, s.schema.Name):
				emitted++
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if !s.more(pg, &cursor, &pageNum, pages) {
			break
		}

		if delay := s.interPageDelay(); delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	s.logger.Debug("source drained", "pages", pages, "candidates", emitted)
	return nil
}

// fetchPage descarga y decodifica una página. El httpclient ya reintenta
// fallos transitorios con backoff.
func (s *Source) fetchPage(ctx context.Context, root, cursor string, pageNum int) (page, error) {
	url := s.schema.render(s.schema.URL, root, cursor, pageNum)

	var body []byte
	if s.schema.Body != "" {
		body = []byte(s.schema.render(s.schema.Body, root, cursor, pageNum))
	}

	headers := map[string]string{"Accept": "application/json, */*"}
	for k, v := range s.schema.Headers {
		headers[k] = v
	}

	start := time.Now()
	resp, err := s.client.Request(ctx, s.schema.Method, url, body, headers)
	if err != nil {
		metrics.Default().ObservePage(s.schema.Name, time.Since(start), err)
		return page{}, err
	}

	if err := httpclient.CheckStatus(resp); err != nil {
		resp.Body.Close()
		metrics.Default().ObservePage(s.schema.Name, time.Since(start), err)
		return page{}, err
	}

	data, err := httpclient.ReadBody(resp)
	metrics.Default().ObservePage(s.schema.Name, time.Since(start), err)
	if err != nil {
		return page{}, err
	}

	return s.schema.parsePage(data)
}

// more decide si hay otra página y avanza el estado de paginación.
func (s *Source) more(pg page, cursor *string, pageNum *int, pages int) bool {
	if pg.count == 0 {
		return false
	}

	switch s.schema.Pagination {
	case PaginationCursor:
		if pg.cursor == "" || pg.cursor == *cursor {
			return false
		}
		*cursor = pg.cursor

	case PaginationPage:
		if pg.hasMore != nil && !*pg.hasMore {
			return false
		}
		*pageNum++

	default:
		return false
	}

	if s.schema.MaxPages > 0 && pages >= s.schema.MaxPages {
		s.logger.Warn("page cap reached", "max_pages", s.schema.MaxPages)
		return false
	}
	return true
}

// interPageDelay prioriza el delay de runtime sobre el del schema.
func (s *Source) interPageDelay() time.Duration {
	if s.cfg.Delay > 0 {
		return s.cfg.Delay
	}
	return s.schema.Delay
}
