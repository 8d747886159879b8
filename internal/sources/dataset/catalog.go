// internal/sources/dataset/catalog.go
package dataset

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"subsift/internal/core/ports"
	"subsift/internal/platform/errors"
	"subsift/internal/platform/logx"
	"subsift/internal/platform/registry"
)

// Builtin retorna los schemas de los datasets incorporados.
func Builtin() []Schema {
	return []Schema{
		{
			Name:        "thc",
			Description: "THC free passive DNS dataset (ip.thc.org)",
			Default:     true,
			Priority:    10,
			Method:      "POST",
			URL:         "https://ip.thc.org/api/v1/lookup/subdomains",
			Body:        `{"domain":"{domain}","limit":{limit},"page_state":"{cursor}"}`,
			// El servicio espera el JSON con content type de formulario
			Headers: map[string]string{
				"Content-Type": "application/x-www-form-urlencoded",
			},
			Pagination: PaginationCursor,
			Limit:      500,
			Delay:      150 * time.Millisecond,
		},
		{
			Name:        "crtsh",
			Description: "crt.sh certificate transparency index",
			Priority:    8,
			URL:         "https://crt.sh/?q=%25.{domain}&output=json",
			// name_value puede traer varios nombres separados por \n
			NameKeys:   []string{"name_value"},
			SplitNames: true,
			Pagination: PaginationNone,
		},
		{
			Name:        "anubis",
			Description: "Anubis-DB subdomain archive (jldc.me)",
			Priority:    6,
			URL:         "https://jldc.me/anubis/subdomains/{domain}",
			Pagination:  PaginationNone,
		},
		{
			Name:        "otx",
			Description: "AlienVault OTX passive DNS",
			Priority:    4,
			URL:         "https://otx.alienvault.com/api/v1/indicators/domain/{domain}/passive_dns?limit={limit}&page={page}",
			EntryKeys:   []string{"passive_dns"},
			NameKeys:    []string{"hostname"},
			Pagination:  PaginationPage,
			HasMoreKey:  "has_next",
			Limit:       100,
			Delay:       200 * time.Millisecond,
		},
	}
}

func init() {
	for _, schema := range Builtin() {
		// Los errores de registro de builtins son bugs de programación
		if err := RegisterSchema(registry.Global(), schema); err != nil {
			panic(err)
		}
	}
}

// RegisterSchema registra un schema como factory en el registry.
func RegisterSchema(reg *registry.SourceRegistry, schema Schema) error {
	schema.normalize()
	if err := schema.Validate(); err != nil {
		return err
	}

	factory := func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
		return New(schema, cfg, logger)
	}
	meta := ports.SourceMetadata{
		Name:        schema.Name,
		Description: schema.Description,
		Default:     schema.Default,
		Priority:    schema.Priority,
	}
	return reg.Register(schema.Name, factory, meta)
}

// catalogFile es la estructura del YAML de --sources-file.
type catalogFile struct {
	Sources []Schema `yaml:"sources"`
}

// LoadCatalog lee un YAML de datasets y los registra, sustituyendo builtins
// con el mismo nombre. Retorna los nombres registrados.
func LoadCatalog(path string, reg *registry.SourceRegistry, logger logx.Logger) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read sources file %s", path)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "parse sources file %s", path)
	}
	if len(file.Sources) == 0 {
		return nil, errors.Errorf("sources file %s defines no sources", path)
	}

	names := make([]string, 0, len(file.Sources))
	for _, schema := range file.Sources {
		schema.normalize()
		if err := schema.Validate(); err != nil {
			return nil, errors.Wrapf(err, "sources file %s", path)
		}

		if reg.IsRegistered(schema.Name) {
			logger.Warn("overriding builtin source", "source", schema.Name)
		}

		s := schema
		factory := func(cfg ports.SourceConfig, logger logx.Logger) (ports.Source, error) {
			return New(s, cfg, logger)
		}
		meta := ports.SourceMetadata{
			Name:        s.Name,
			Description: s.Description,
			Default:     s.Default,
			Priority:    s.Priority,
		}
		if err := reg.Replace(s.Name, factory, meta); err != nil {
			return nil, err
		}
		names = append(names, s.Name)
	}

	logger.Info("dataset catalog loaded", "path", path, "sources", len(names))
	return names, nil
}
