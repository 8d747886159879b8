// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
subsift - Passive Subdomain Discovery

USAGE:
  subsift -t <domain> [options]

IMPORTANT:
  Use double dash (--) for long flag names: --target, --workers, --full
  Use single dash (-) for short flags: -t, -w, -o

  ❌ WRONG:  subsift -target example.com
  ✓  RIGHT:  subsift --target example.com
  ✓  RIGHT:  subsift -t example.com

CORE OPTIONS:
  -t, --target string      Target domain (required, e.g., example.com)
      --full               Query every registered source, not just the defaults
  -T, --timeout int        Global timeout in seconds, 0=no timeout (default: 0)
      --log-level string   Minimum log level: debug|info|warn|error

SOURCE OPTIONS:
  --sources strings        Restrict the run to these sources (comma separated)
  --sources-file string    YAML file with extra dataset definitions

  --src.thc                Enable THC free dataset source (default: true)
  --src.crtsh              Enable crt.sh certificate transparency source (default: true)
  --src.anubis             Enable Anubis-DB source (default: true)
  --src.otx                Enable AlienVault OTX passive DNS source (default: true)

RESOLVER OPTIONS:
  -w, --workers int        Concurrent DNS resolutions (default: 8)
  -r, --retries int        Retries per name on transient failures (default: 2)
      --qps float          Global DNS queries per second, 0=unlimited (default: 0)
      --resolvers strings  DNS servers host[:port], comma separated
      --no-wildcard        Skip wildcard DNS detection and filtering

OUTPUT OPTIONS:
  -o, --out string         Output file; extension picks the format:
                           .txt plain sorted list, .json full report,
                           .db/.sqlite3 SQLite database. Empty = stdout.
  -s, --stream             Print verified names as they arrive
  -q, --quiet              No banner or summary table

RESILIENCE OPTIONS:
  --resilience.cb                Enable per-source circuit breaker (default: true)
  --resilience.cb-threshold int  Consecutive failures before opening (default: 5)

METRICS OPTIONS:
  --metrics-addr string    Prometheus listen address (e.g., :9090). Empty = off.

INFO:
  -v, --version            Print version information and exit
  -h, --help               Show this help message

EXAMPLES:
  Basic discovery:
    subsift -t example.com

  Query every source with more workers:
    subsift -t example.com --full -w 16

  Stream verified names into another tool:
    subsift -t example.com -s -q | httpx

  Write a full JSON report:
    subsift -t example.com -o report.json

  Keep results in SQLite across runs:
    subsift -t example.com -o findings.db

  Custom resolvers and paced lookups:
    subsift -t example.com --resolvers 1.1.1.1,9.9.9.9 --qps 50

  Disable specific sources:
    subsift -t example.com --src.crtsh=false --src.otx=false

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with SUBSIFT_ prefix:

  SUBSIFT_TARGET                Target domain
  SUBSIFT_FULL=true             Query every registered source
  SUBSIFT_WORKERS=16            Concurrent resolutions
  SUBSIFT_TIMEOUT=120           Global timeout in seconds
  SUBSIFT_OUT=report.json       Output file
  SUBSIFT_RESOLVERS=1.1.1.1     DNS servers (comma separated)
  SUBSIFT_QPS=50                DNS queries per second
  SUBSIFT_NO_WILDCARD=true      Skip wildcard filtering
  SUBSIFT_METRICS_ADDR=:9090    Prometheus listen address

  Source-specific (replace THC with source name):
  SUBSIFT_SOURCES_THC_ENABLED=false
  SUBSIFT_SOURCES_THC_DELAY=300

  Note: CLI flags override environment variables.

RUN MODES:
  Default mode:
    - Queries only the sources marked as defaults (currently: thc)
    - Fast, low request volume

  Full mode (--full):
    - Queries every registered source, including YAML-defined ones
    - Slower, broader coverage

OUTPUT:
  Names are aggregated across sources, deduplicated case-insensitively,
  checked against a wildcard DNS baseline and verified by resolution.
  Only names that resolve to their own records are reported.

For more information and documentation:
  https://github.com/lcalzada-xor/subsift
`

// PrintHelp prints the custom help message and exits.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion prints version information and exits.
func PrintVersion(version, commit, date string) {
	fmt.Printf("subsift %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", getGoVersion())
	os.Exit(0)
}

func getGoVersion() string {
	return runtime.Version()
}
