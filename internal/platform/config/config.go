// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"subsift/internal/core/ports"
	"subsift/internal/platform/validator"
)

type Config struct {
	// Core
	Core CoreConfig

	// Source: fuentes de datasets y catálogo externo
	Source SourceConfig

	// Resolver: pool de resolución DNS
	Resolver ResolverConfig

	// Wildcard: detección de comodín DNS
	Wildcard WildcardConfig

	// Output: sinks de resultados
	Output OutputConfig

	// Resilience: reintentos y circuit breaker de fuentes
	Resilience ResilienceConfig

	// Metrics: endpoint Prometheus opcional
	Metrics MetricsConfig

	// Help / Version (solo CLI)
	Help    bool
	Version bool
}

type CoreConfig struct {
	// Target dominio apex objetivo
	Target string

	// Full consulta todas las fuentes registradas, no solo las default
	Full bool

	// TimeoutS timeout global en segundos (0 = sin timeout)
	TimeoutS int

	// LogLevel nivel mínimo de log (debug|info|warn|error)
	LogLevel string
}

type SourceConfig struct {
	// Sources: mapa dinámico de configuraciones por fuente
	// Key = nombre de la fuente (ej: "thc", "crtsh")
	Sources map[string]ports.SourceConfig

	// Only restringe la ejecución a estas fuentes (vacío = según modo)
	Only []string

	// CatalogFile YAML con definiciones de datasets adicionales
	CatalogFile string
}

type ResolverConfig struct {
	// Servers servidores DNS host[:puerto] (vacío = sistema + públicos)
	Servers []string

	// Workers número de resoluciones concurrentes
	Workers int

	// Retries reintentos por candidato ante fallos transitorios
	Retries int

	// QPS límite global de consultas por segundo (0 = sin límite)
	QPS float64

	// TimeoutS timeout por consulta DNS en segundos
	TimeoutS int
}

// Timeout retorna el timeout por consulta como duración.
func (r ResolverConfig) Timeout() time.Duration {
	if r.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(r.TimeoutS) * time.Second
}

type WildcardConfig struct {
	// Disabled desactiva la detección y el filtrado de comodín
	Disabled bool

	// Probes número de etiquetas aleatorias a sondear
	Probes int
}

type OutputConfig struct {
	// Path archivo de salida; la extensión decide el formato
	// (.txt, .json, .db/.sqlite3). Vacío = stdout.
	Path string

	// Stream emite nombres verificados según llegan, sin reporte final
	Stream bool

	// UIDisabled desactiva banner y tabla resumen
	UIDisabled bool
}

type ResilienceConfig struct {
	// Backoff para reintentos de páginas y resoluciones
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration

	// Circuit breaker por fuente
	CircuitBreakerEnabled     bool
	CircuitBreakerThreshold   int
	CircuitBreakerTimeout     time.Duration
	CircuitBreakerHalfOpenMax int
}

type MetricsConfig struct {
	// Addr dirección de escucha del endpoint Prometheus (vacío = off)
	Addr string
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			Target:   "",
			Full:     false,
			TimeoutS: 0,
			LogLevel: "",
		},

		Source: SourceConfig{
			Sources: map[string]ports.SourceConfig{
				"thc": {
					Enabled:   true,
					Timeout:   30 * time.Second,
					Retries:   2,
					RateLimit: 0,
					Delay:     150 * time.Millisecond,
					Priority:  10,
				},
				"crtsh": {
					Enabled:   true,
					Timeout:   60 * time.Second,
					Retries:   2,
					RateLimit: 1.0,
					Delay:     0,
					Priority:  8,
				},
				"anubis": {
					Enabled:   true,
					Timeout:   30 * time.Second,
					Retries:   2,
					RateLimit: 0,
					Delay:     0,
					Priority:  6,
				},
				"otx": {
					Enabled:   true,
					Timeout:   30 * time.Second,
					Retries:   2,
					RateLimit: 0,
					Delay:     200 * time.Millisecond,
					Priority:  4,
				},
			},
			Only:        nil,
			CatalogFile: "",
		},

		Resolver: ResolverConfig{
			Servers:  nil,
			Workers:  8,
			Retries:  2,
			QPS:      0,
			TimeoutS: 5,
		},

		Wildcard: WildcardConfig{
			Disabled: false,
			Probes:   3,
		},

		Output: OutputConfig{
			Path:       "",
			Stream:     false,
			UIDisabled: false,
		},

		Resilience: ResilienceConfig{
			BackoffBase:               1 * time.Second,
			BackoffMultiplier:         2.0,
			MaxBackoff:                30 * time.Second,
			CircuitBreakerEnabled:     true,
			CircuitBreakerThreshold:   5,
			CircuitBreakerTimeout:     60 * time.Second,
			CircuitBreakerHalfOpenMax: 3,
		},

		Metrics: MetricsConfig{
			Addr: "",
		},
	}
}

// Load inicializa la configuración: defaults -> ENV -> FLAGS (flags tienen
// prioridad). Maneja -h/--help y -v/--version internamente.
func Load(version, commit, date string) (Config, error) {
	cfg := DefaultConfig()

	// Cargar desde ENV
	loadFromEnv(&cfg)

	// Parsear flags (overrides ENV)
	loadFromFlags(&cfg)

	if cfg.Help {
		PrintHelp()
	}
	if cfg.Version {
		PrintVersion(version, commit, date)
	}

	// Normalizar
	normalize(&cfg)

	return cfg, nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("SUBSIFT_TARGET", ""); v != "" {
		cfg.Core.Target = v
	}
	if v := getenv("SUBSIFT_FULL", ""); v != "" {
		cfg.Core.Full = parseBool(v)
	}
	if v := getenv("SUBSIFT_TIMEOUT", ""); v != "" {
		cfg.Core.TimeoutS = parseInt(v, cfg.Core.TimeoutS)
	}
	if v := getenv("SUBSIFT_LOG_LEVEL", ""); v != "" {
		cfg.Core.LogLevel = v
	}

	if v := getenv("SUBSIFT_WORKERS", ""); v != "" {
		cfg.Resolver.Workers = parseInt(v, cfg.Resolver.Workers)
	}
	if v := getenv("SUBSIFT_RETRIES", ""); v != "" {
		cfg.Resolver.Retries = parseInt(v, cfg.Resolver.Retries)
	}
	if v := getenv("SUBSIFT_QPS", ""); v != "" {
		cfg.Resolver.QPS = parseFloat(v, cfg.Resolver.QPS)
	}
	if v := getenv("SUBSIFT_RESOLVERS", ""); v != "" {
		cfg.Resolver.Servers = parseList(v)
	}
	if v := getenv("SUBSIFT_RESOLVER_TIMEOUT", ""); v != "" {
		cfg.Resolver.TimeoutS = parseInt(v, cfg.Resolver.TimeoutS)
	}

	if v := getenv("SUBSIFT_NO_WILDCARD", ""); v != "" {
		cfg.Wildcard.Disabled = parseBool(v)
	}
	if v := getenv("SUBSIFT_WILDCARD_PROBES", ""); v != "" {
		cfg.Wildcard.Probes = parseInt(v, cfg.Wildcard.Probes)
	}

	if v := getenv("SUBSIFT_OUT", ""); v != "" {
		cfg.Output.Path = v
	}
	if v := getenv("SUBSIFT_STREAM", ""); v != "" {
		cfg.Output.Stream = parseBool(v)
	}
	if v := getenv("SUBSIFT_QUIET", ""); v != "" {
		cfg.Output.UIDisabled = parseBool(v)
	}

	if v := getenv("SUBSIFT_SOURCES", ""); v != "" {
		cfg.Source.Only = parseList(v)
	}
	if v := getenv("SUBSIFT_SOURCES_FILE", ""); v != "" {
		cfg.Source.CatalogFile = v
	}

	if v := getenv("SUBSIFT_METRICS_ADDR", ""); v != "" {
		cfg.Metrics.Addr = v
	}

	// Sources config desde ENV
	// Formato: SUBSIFT_SOURCES_THC_ENABLED=true
	//          SUBSIFT_SOURCES_THC_TIMEOUT=60
	//          SUBSIFT_SOURCES_THC_DELAY=150   (milisegundos)
	for name := range cfg.Source.Sources {
		prefix := fmt.Sprintf("SUBSIFT_SOURCES_%s_", strings.ToUpper(name))

		sourceCfg := cfg.Source.Sources[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			sourceCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PRIORITY", ""); v != "" {
			sourceCfg.Priority = parseInt(v, sourceCfg.Priority)
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			sourceCfg.Timeout = time.Duration(parseInt(v, int(sourceCfg.Timeout.Seconds()))) * time.Second
		}
		if v := getenv(prefix+"RETRIES", ""); v != "" {
			sourceCfg.Retries = parseInt(v, sourceCfg.Retries)
		}
		if v := getenv(prefix+"RATELIMIT", ""); v != "" {
			sourceCfg.RateLimit = parseFloat(v, sourceCfg.RateLimit)
		}
		if v := getenv(prefix+"DELAY", ""); v != "" {
			sourceCfg.Delay = time.Duration(parseInt(v, int(sourceCfg.Delay.Milliseconds()))) * time.Millisecond
		}

		cfg.Source.Sources[name] = sourceCfg
	}

	// Resilience
	if v := getenv("SUBSIFT_RESILIENCE_BACKOFF_BASE", ""); v != "" {
		cfg.Resilience.BackoffBase = time.Duration(parseInt(v, int(cfg.Resilience.BackoffBase.Seconds()))) * time.Second
	}
	if v := getenv("SUBSIFT_RESILIENCE_CB_ENABLED", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
	if v := getenv("SUBSIFT_RESILIENCE_CB_THRESHOLD", ""); v != "" {
		cfg.Resilience.CircuitBreakerThreshold = parseInt(v, cfg.Resilience.CircuitBreakerThreshold)
	}
}

// loadFromFlags parsea flags de CLI con pflag.
func loadFromFlags(cfg *Config) {
	pflag.StringVarP(&cfg.Core.Target, "target", "t", cfg.Core.Target, "Dominio objetivo (e.g., example.com)")
	pflag.BoolVar(&cfg.Core.Full, "full", cfg.Core.Full, "Consultar todas las fuentes, no solo las default")
	pflag.IntVarP(&cfg.Core.TimeoutS, "timeout", "T", cfg.Core.TimeoutS, "Timeout global en segundos (0 = sin timeout)")
	pflag.StringVar(&cfg.Core.LogLevel, "log-level", cfg.Core.LogLevel, "Nivel de log (debug|info|warn|error)")

	pflag.IntVarP(&cfg.Resolver.Workers, "workers", "w", cfg.Resolver.Workers, "Resoluciones DNS concurrentes")
	pflag.IntVarP(&cfg.Resolver.Retries, "retries", "r", cfg.Resolver.Retries, "Reintentos de resolución ante fallos transitorios")
	pflag.Float64Var(&cfg.Resolver.QPS, "qps", cfg.Resolver.QPS, "Límite global de consultas DNS por segundo (0 = sin límite)")
	pflag.StringSliceVar(&cfg.Resolver.Servers, "resolvers", cfg.Resolver.Servers, "Servidores DNS host[:puerto], separados por coma")

	pflag.BoolVar(&cfg.Wildcard.Disabled, "no-wildcard", cfg.Wildcard.Disabled, "Desactivar detección y filtrado de comodín DNS")

	pflag.StringVarP(&cfg.Output.Path, "out", "o", cfg.Output.Path, "Archivo de salida (.txt|.json|.db); vacío = stdout")
	pflag.BoolVarP(&cfg.Output.Stream, "stream", "s", cfg.Output.Stream, "Emitir nombres verificados según llegan")
	pflag.BoolVarP(&cfg.Output.UIDisabled, "quiet", "q", cfg.Output.UIDisabled, "Sin banner ni tabla resumen")

	pflag.StringSliceVar(&cfg.Source.Only, "sources", cfg.Source.Only, "Limitar la ejecución a estas fuentes")
	pflag.StringVar(&cfg.Source.CatalogFile, "sources-file", cfg.Source.CatalogFile, "YAML con definiciones de datasets adicionales")

	// Source configs (solo enabled via flags, el resto via ENV o defaults).
	// pflag escribe tras Parse, así que se vuelcan al mapa al final.
	srcEnabled := make(map[string]*bool, len(cfg.Source.Sources))
	for name := range cfg.Source.Sources {
		enabled := cfg.Source.Sources[name].Enabled
		pflag.BoolVar(&enabled, fmt.Sprintf("src.%s", name), enabled,
			fmt.Sprintf("Habilitar fuente %s", name))
		srcEnabled[name] = &enabled
	}

	pflag.StringVar(&cfg.Metrics.Addr, "metrics-addr", cfg.Metrics.Addr, "Dirección del endpoint Prometheus (vacío = off)")

	pflag.IntVar(&cfg.Resilience.CircuitBreakerThreshold, "resilience.cb-threshold", cfg.Resilience.CircuitBreakerThreshold,
		"Fallos consecutivos antes de abrir el circuit breaker")
	pflag.BoolVar(&cfg.Resilience.CircuitBreakerEnabled, "resilience.cb", cfg.Resilience.CircuitBreakerEnabled,
		"Habilitar circuit breaker por fuente")

	pflag.BoolVarP(&cfg.Version, "version", "v", false, "Imprimir versión y salir")
	pflag.BoolVarP(&cfg.Help, "help", "h", false, "Mostrar esta ayuda")

	pflag.Parse()

	for name, enabled := range srcEnabled {
		sourceCfg := cfg.Source.Sources[name]
		sourceCfg.Enabled = *enabled
		cfg.Source.Sources[name] = sourceCfg
	}
}

func normalize(c *Config) {
	c.Core.Target = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(c.Core.Target)), ".")
	c.Core.LogLevel = strings.ToLower(strings.TrimSpace(c.Core.LogLevel))

	if c.Core.TimeoutS < 0 {
		c.Core.TimeoutS = 0
	}

	if c.Resolver.Workers < 1 {
		c.Resolver.Workers = 1
	}
	if c.Resolver.Retries < 0 {
		c.Resolver.Retries = 0
	}
	if c.Resolver.QPS < 0 {
		c.Resolver.QPS = 0
	}
	if c.Resolver.TimeoutS < 1 {
		c.Resolver.TimeoutS = 5
	}

	// Servidores DNS a forma canónica host:puerto; los inválidos se
	// descartan.
	if len(c.Resolver.Servers) > 0 {
		servers := make([]string, 0, len(c.Resolver.Servers))
		for _, raw := range c.Resolver.Servers {
			if addr, ok := validator.NormalizeResolver(raw); ok {
				servers = append(servers, addr)
			}
		}
		c.Resolver.Servers = servers
	}

	if c.Wildcard.Probes < 1 {
		c.Wildcard.Probes = 3
	}

	only := make([]string, 0, len(c.Source.Only))
	for _, name := range c.Source.Only {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			only = append(only, name)
		}
	}
	c.Source.Only = only

	if c.Resilience.BackoffBase <= 0 {
		c.Resilience.BackoffBase = 1 * time.Second
	}
	if c.Resilience.BackoffMultiplier < 1.0 {
		c.Resilience.BackoffMultiplier = 2.0
	}
	if c.Resilience.MaxBackoff <= 0 {
		c.Resilience.MaxBackoff = 30 * time.Second
	}
	if c.Resilience.CircuitBreakerThreshold < 1 {
		c.Resilience.CircuitBreakerThreshold = 5
	}
	if c.Resilience.CircuitBreakerTimeout <= 0 {
		c.Resilience.CircuitBreakerTimeout = 60 * time.Second
	}
	if c.Resilience.CircuitBreakerHalfOpenMax < 1 {
		c.Resilience.CircuitBreakerHalfOpenMax = 3
	}
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout global como duración (0 = sin timeout).
func (c Config) Timeout() time.Duration {
	if c.Core.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Core.TimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

func parseList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
