// internal/sources/dataset/schema.go
package dataset

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"subsift/internal/platform/errors"
	"subsift/internal/platform/registry"
)

// Modos de paginación soportados por un dataset.
const (
	PaginationNone   = "none"   // una sola página
	PaginationCursor = "cursor" // token opaco devuelto por la respuesta
	PaginationPage   = "page"   // número de página incremental
)

// Claves probadas en orden cuando el schema no las fija. Reflejan la
// variedad de formas en que los datasets públicos exponen lo mismo.
var (
	defaultEntryKeys  = []string{"subdomains", "results", "data", "items"}
	defaultNameKeys   = []string{"domain", "subdomain", "fqdn", "name", "host"}
	defaultCursorKeys = []string{"page_state", "next_page_state", "next", "cursor"}
)

// Schema describe el protocolo de paginación de un dataset. Toda la
// variación entre fuentes es configuración; el paginator es uno solo.
//
// Placeholders en URL y Body: {domain}, {cursor}, {page}, {limit}.
type Schema struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     bool   `yaml:"default"`
	Priority    int    `yaml:"priority"`

	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Body    string            `yaml:"body"`
	Headers map[string]string `yaml:"headers"`

	// Extracción de nombres
	Plaintext  bool     `yaml:"plaintext"`   // respuesta texto plano, un nombre por línea
	EntryKeys  []string `yaml:"entry_keys"`  // contenedores de entradas; vacío = defaults
	NameKeys   []string `yaml:"name_keys"`   // claves de nombre en objetos; vacío = defaults
	SplitNames bool     `yaml:"split_names"` // un valor puede traer varios nombres separados por \n

	// Paginación
	Pagination string   `yaml:"pagination"`
	CursorKeys []string `yaml:"cursor_keys"`
	HasMoreKey string   `yaml:"has_more_key"`
	PageStart  int      `yaml:"page_start"`
	Limit      int      `yaml:"limit"`
	MaxPages   int      `yaml:"max_pages"`

	// Delay entre páginas. El YAML lo expresa en milisegundos.
	Delay   time.Duration `yaml:"-"`
	DelayMS int           `yaml:"delay_ms"`
}

// normalize rellena los defaults del schema.
func (s *Schema) normalize() {
	s.Name = strings.ToLower(strings.TrimSpace(s.Name))

	s.Method = strings.ToUpper(strings.TrimSpace(s.Method))
	if s.Method == "" {
		s.Method = "GET"
	}

	if s.Pagination == "" {
		s.Pagination = PaginationNone
	}

	if len(s.EntryKeys) == 0 {
		s.EntryKeys = defaultEntryKeys
	}
	if len(s.NameKeys) == 0 {
		s.NameKeys = defaultNameKeys
	}
	if len(s.CursorKeys) == 0 {
		s.CursorKeys = defaultCursorKeys
	}

	if s.PageStart <= 0 {
		s.PageStart = 1
	}
	if s.Limit <= 0 {
		s.Limit = 500
	}
	if s.Pagination != PaginationNone && s.MaxPages <= 0 {
		s.MaxPages = 100
	}

	if s.Delay == 0 && s.DelayMS > 0 {
		s.Delay = time.Duration(s.DelayMS) * time.Millisecond
	}
}

// Validate verifica que el schema esté completo y sea coherente.
func (s *Schema) Validate() error {
	if err := registry.ValidateRequiredString("name", s.Name); err != nil {
		return err
	}
	if err := registry.ValidateRequiredString("url", s.URL); err != nil {
		return err
	}
	if err := registry.ValidateEnum("method", s.Method, []string{"GET", "POST"}); err != nil {
		return err
	}
	if err := registry.ValidateEnum("pagination", s.Pagination,
		[]string{PaginationNone, PaginationCursor, PaginationPage}); err != nil {
		return err
	}
	if !strings.Contains(s.URL, "{domain}") && !strings.Contains(s.Body, "{domain}") {
		return errors.Errorf("source %s: url or body must reference {domain}", s.Name)
	}
	if s.Pagination == PaginationCursor &&
		!strings.Contains(s.URL, "{cursor}") && !strings.Contains(s.Body, "{cursor}") {
		return errors.Errorf("source %s: cursor pagination needs a {cursor} placeholder", s.Name)
	}
	if s.Pagination == PaginationPage &&
		!strings.Contains(s.URL, "{page}") && !strings.Contains(s.Body, "{page}") {
		return errors.Errorf("source %s: page pagination needs a {page} placeholder", s.Name)
	}
	if err := registry.ValidateNonNegativeInt("max_pages", s.MaxPages); err != nil {
		return err
	}
	return nil
}

// render sustituye los placeholders de una plantilla.
func (s *Schema) render(template, domain, cursor string, page int) string {
	r := strings.NewReplacer(
		"{domain}", domain,
		"{cursor}", cursor,
		"{page}", strconv.Itoa(page),
		"{limit}", strconv.Itoa(s.Limit),
	)
	return r.Replace(template)
}

// page es el resultado de decodificar una página del dataset.
type page struct {
	names   []string
	cursor  string
	hasMore *bool
	count   int // entradas crudas, antes de filtrar por target
}

// parsePage decodifica el cuerpo de una página según el schema.
func (s *Schema) parsePage(data []byte) (page, error) {
	if s.Plaintext {
		return s.parseLines(data), nil
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return page{}, errors.Wrapf(errors.ErrMalformedResponse, "source %s: %v", s.Name, err)
	}

	var pg page
	s.extractNames(root, &pg.names)
	pg.count = len(pg.names)

	if s.Pagination == PaginationCursor {
		pg.cursor = findCursor(root, s.CursorKeys)
	}
	if s.HasMoreKey != "" {
		if m, ok := root.(map[string]any); ok {
			if v, ok := m[s.HasMoreKey].(bool); ok {
				pg.hasMore = &v
			}
		}
	}
	return pg, nil
}

func (s *Schema) parseLines(data []byte) page {
	var pg page
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			pg.names = append(pg.names, line)
		}
	}
	pg.count = len(pg.names)
	return pg
}

// extractNames recorre el JSON decodificado acumulando nombres. En objetos
// prueba primero las claves de nombre, luego los contenedores conocidos y
// por último cualquier valor anidado. Strings sueltos bajo claves
// arbitrarias nunca se emiten.
func (s *Schema) extractNames(node any, out *[]string) {
	switch v := node.(type) {
	case string:
		s.appendName(v, out)

	case []any:
		for _, item := range v {
			s.extractNames(item, out)
		}

	case map[string]any:
		visited := make(map[string]bool, len(s.NameKeys)+len(s.EntryKeys))

		for _, k := range s.NameKeys {
			if val, ok := v[k].(string); ok && strings.TrimSpace(val) != "" {
				s.appendName(val, out)
				visited[k] = true
			}
		}

		for _, k := range s.EntryKeys {
			sub, ok := v[k]
			if !ok || visited[k] {
				continue
			}
			switch sub.(type) {
			case []any, map[string]any, string:
				s.extractNames(sub, out)
				visited[k] = true
			}
		}

		for k, sub := range v {
			if visited[k] {
				continue
			}
			switch sub.(type) {
			case []any, map[string]any:
				s.extractNames(sub, out)
			}
		}
	}
}

func (s *Schema) appendName(raw string, out *[]string) {
	if s.SplitNames {
		for _, part := range strings.Split(raw, "\n") {
			part = strings.TrimSpace(part)
			if part != "" {
				*out = append(*out, part)
			}
		}
		return
	}
	raw = strings.TrimSpace(raw)
	if raw != "" {
		*out = append(*out, raw)
	}
}

// findCursor busca recursivamente el token de página siguiente.
func findCursor(node any, keys []string) string {
	switch v := node.(type) {
	case map[string]any:
		for _, k := range keys {
			if s, ok := v[k].(string); ok && s != "" {
				return s
			}
		}
		for _, sub := range v {
			if c := findCursor(sub, keys); c != "" {
				return c
			}
		}
	case []any:
		for _, sub := range v {
			if c := findCursor(sub, keys); c != "" {
				return c
			}
		}
	}
	return ""
}
