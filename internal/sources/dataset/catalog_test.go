// internal/sources/dataset/catalog_test.go
package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"subsift/internal/platform/logx"
	"subsift/internal/platform/registry"
	"subsift/internal/testutil"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func seededRegistry(t *testing.T) *registry.SourceRegistry {
	t.Helper()
	reg := registry.NewSourceRegistry(logx.NewSilent())
	for _, schema := range Builtin() {
		if err := RegisterSchema(reg, schema); err != nil {
			t.Fatalf("seed registry: %v", err)
		}
	}
	return reg
}

func TestRegisterSchema_InvalidRejected(t *testing.T) {
	reg := registry.NewSourceRegistry(logx.NewSilent())

	err := RegisterSchema(reg, Schema{Name: "", URL: "https://x/{domain}"})

	testutil.AssertError(t, err, "nameless schema rejected")
}

func TestLoadCatalog_AddsNewSource(t *testing.T) {
	path := writeCatalog(t, `
sources:
  - name: internaldb
    description: internal passive DNS mirror
    url: https://pdns.corp.internal/v1/{domain}
    entry_keys: [records]
    name_keys: [fqdn]
    priority: 12
    default: true
`)
	reg := seededRegistry(t)

	names, err := LoadCatalog(path, reg, logx.NewSilent())

	testutil.AssertNoError(t, err, "catalog loads")
	testutil.AssertLen(t, names, 1, "one source loaded")
	testutil.AssertEqual(t, names[0], "internaldb", "name from file")
	testutil.AssertTrue(t, reg.IsRegistered("internaldb"), "new source registered")
	testutil.AssertTrue(t, reg.IsRegistered("thc"), "builtins untouched")

	meta, ok := reg.GetMetadata("internaldb")
	testutil.AssertTrue(t, ok, "metadata present")
	testutil.AssertEqual(t, meta.Priority, 12, "priority from file")
	testutil.AssertTrue(t, meta.Default, "default flag from file")
}

func TestLoadCatalog_OverridesBuiltin(t *testing.T) {
	path := writeCatalog(t, `
sources:
  - name: crtsh
    description: crt.sh via internal proxy
    url: https://ctproxy.corp.internal/?q={domain}
    name_keys: [name_value]
    split_names: true
    priority: 20
`)
	reg := seededRegistry(t)

	names, err := LoadCatalog(path, reg, logx.NewSilent())

	testutil.AssertNoError(t, err, "catalog loads")
	testutil.AssertLen(t, names, 1, "one source loaded")

	meta, ok := reg.GetMetadata("crtsh")
	testutil.AssertTrue(t, ok, "metadata present")
	testutil.AssertEqual(t, meta.Priority, 20, "override wins over builtin")
	testutil.AssertEqual(t, meta.Description, "crt.sh via internal proxy", "description replaced")
}

func TestLoadCatalog_DelayMillis(t *testing.T) {
	path := writeCatalog(t, `
sources:
  - name: slowdb
    url: https://slow.example.net/{domain}/{cursor}
    pagination: cursor
    delay_ms: 250
`)
	reg := seededRegistry(t)

	_, err := LoadCatalog(path, reg, logx.NewSilent())

	testutil.AssertNoError(t, err, "catalog loads")
	testutil.AssertTrue(t, reg.IsRegistered("slowdb"), "source registered")
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	reg := seededRegistry(t)

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"), reg, logx.NewSilent())

	testutil.AssertError(t, err, "missing file reported")
}

func TestLoadCatalog_InvalidYAML(t *testing.T) {
	path := writeCatalog(t, "sources: [not: {valid")
	reg := seededRegistry(t)

	_, err := LoadCatalog(path, reg, logx.NewSilent())

	testutil.AssertError(t, err, "parse failure reported")
}

func TestLoadCatalog_EmptyCatalog(t *testing.T) {
	path := writeCatalog(t, "sources: []\n")
	reg := seededRegistry(t)

	_, err := LoadCatalog(path, reg, logx.NewSilent())

	testutil.AssertError(t, err, "empty catalog rejected")
}

func TestLoadCatalog_InvalidSchema(t *testing.T) {
	path := writeCatalog(t, `
sources:
  - name: broken
    url: https://fixed.example.net/list
`)
	reg := seededRegistry(t)

	_, err := LoadCatalog(path, reg, logx.NewSilent())

	testutil.AssertError(t, err, "schema without {domain} rejected")
}
