// internal/sources/dataset/schema_test.go
package dataset

import (
	"testing"
	"time"

	"subsift/internal/platform/errors"
	"subsift/internal/testutil"
)

func TestSchemaNormalize_Defaults(t *testing.T) {
	s := Schema{
		Name: "  Demo  ",
		URL:  "https://api.example.net/{domain}",
	}
	s.normalize()

	testutil.AssertEqual(t, s.Name, "demo", "name lowercased and trimmed")
	testutil.AssertEqual(t, s.Method, "GET", "method defaults to GET")
	testutil.AssertEqual(t, s.Pagination, PaginationNone, "pagination defaults to none")
	testutil.AssertEqual(t, s.PageStart, 1, "page start defaults to 1")
	testutil.AssertEqual(t, s.Limit, 500, "limit defaults to 500")
	testutil.AssertLen(t, s.EntryKeys, 4, "entry keys filled")
	testutil.AssertLen(t, s.NameKeys, 5, "name keys filled")
	testutil.AssertLen(t, s.CursorKeys, 4, "cursor keys filled")
}

func TestSchemaNormalize_DelayFromYAMLMillis(t *testing.T) {
	s := Schema{Name: "demo", URL: "https://x/{domain}", DelayMS: 250}
	s.normalize()

	testutil.AssertEqual(t, s.Delay, 250*time.Millisecond, "delay_ms mapped to duration")
}

func TestSchemaNormalize_PaginatedGetsPageCap(t *testing.T) {
	s := Schema{Name: "demo", URL: "https://x/{domain}?c={cursor}", Pagination: PaginationCursor}
	s.normalize()

	testutil.AssertEqual(t, s.MaxPages, 100, "paginated schema gets a page cap")
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		wantErr bool
	}{
		{
			name:    "valid single page",
			schema:  Schema{Name: "demo", URL: "https://x/{domain}"},
			wantErr: false,
		},
		{
			name:    "missing name",
			schema:  Schema{URL: "https://x/{domain}"},
			wantErr: true,
		},
		{
			name:    "missing url",
			schema:  Schema{Name: "demo"},
			wantErr: true,
		},
		{
			name:    "no domain placeholder",
			schema:  Schema{Name: "demo", URL: "https://x/fixed"},
			wantErr: true,
		},
		{
			name: "domain placeholder in body is enough",
			schema: Schema{
				Name:   "demo",
				Method: "POST",
				URL:    "https://x/lookup",
				Body:   `{"domain":"{domain}"}`,
			},
			wantErr: false,
		},
		{
			name: "cursor pagination without cursor placeholder",
			schema: Schema{
				Name:       "demo",
				URL:        "https://x/{domain}",
				Pagination: PaginationCursor,
			},
			wantErr: true,
		},
		{
			name: "page pagination without page placeholder",
			schema: Schema{
				Name:       "demo",
				URL:        "https://x/{domain}",
				Pagination: PaginationPage,
			},
			wantErr: true,
		},
		{
			name: "valid cursor pagination",
			schema: Schema{
				Name:       "demo",
				Method:     "POST",
				URL:        "https://x/lookup",
				Body:       `{"domain":"{domain}","page_state":"{cursor}"}`,
				Pagination: PaginationCursor,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.schema
			s.normalize()
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(): err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestSchemaRender(t *testing.T) {
	s := Schema{Name: "demo", URL: "https://x/{domain}", Limit: 500}
	s.normalize()

	got := s.render(`{"domain":"{domain}","limit":{limit},"page_state":"{cursor}","page":{page}}`,
		"example.com", "tok-1", 3)

	want := `{"domain":"example.com","limit":500,"page_state":"tok-1","page":3}`
	testutil.AssertEqual(t, got, want, "all placeholders substituted")
}

func parseWith(t *testing.T, s Schema, body string) page {
	t.Helper()
	s.normalize()
	pg, err := s.parsePage([]byte(body))
	testutil.AssertNoError(t, err, "parsePage should succeed")
	return pg
}

func TestParsePage_RootArrayOfStrings(t *testing.T) {
	s := Schema{Name: "anubis", URL: "https://x/{domain}"}

	pg := parseWith(t, s, `["a.example.com","b.example.com"]`)

	testutil.AssertLen(t, pg.names, 2, "two names extracted")
	testutil.AssertEqual(t, pg.names[0], "a.example.com", "first name")
	testutil.AssertEqual(t, pg.count, 2, "raw count matches")
}

func TestParsePage_ContainerKeys(t *testing.T) {
	s := Schema{Name: "thc", URL: "https://x/{domain}"}

	pg := parseWith(t, s, `{"subdomains":["a.example.com"],"results":[{"domain":"b.example.com"}]}`)

	testutil.AssertLen(t, pg.names, 2, "names from both containers")
	testutil.AssertContains(t, pg.names, "a.example.com", "string entry extracted")
	testutil.AssertContains(t, pg.names, "b.example.com", "object entry extracted")
}

func TestParsePage_NestedContainers(t *testing.T) {
	s := Schema{Name: "thc", URL: "https://x/{domain}"}

	// Contenedor anidado bajo una clave desconocida: el recorrido lo alcanza
	pg := parseWith(t, s, `{"payload":{"items":[{"fqdn":"deep.example.com"}]}}`)

	testutil.AssertLen(t, pg.names, 1, "nested name found")
	testutil.AssertEqual(t, pg.names[0], "deep.example.com", "nested extraction")
}

func TestParsePage_LooseStringsNotExtracted(t *testing.T) {
	s := Schema{Name: "thc", URL: "https://x/{domain}"}

	pg := parseWith(t, s, `{"status":"ok","message":"fine","subdomains":["a.example.com"]}`)

	testutil.AssertLen(t, pg.names, 1, "only names under known keys")
	testutil.AssertEqual(t, pg.names[0], "a.example.com", "status strings ignored")
}

func TestParsePage_SplitNames(t *testing.T) {
	s := Schema{
		Name:       "crtsh",
		URL:        "https://x/{domain}",
		NameKeys:   []string{"name_value"},
		SplitNames: true,
	}

	pg := parseWith(t, s, `[{"name_value":"a.example.com\n*.b.example.com"},{"name_value":"c.example.com"}]`)

	testutil.AssertLen(t, pg.names, 3, "newline separated values split")
	testutil.AssertContains(t, pg.names, "*.b.example.com", "wildcard entry kept raw")
}

func TestParsePage_CursorFound(t *testing.T) {
	s := Schema{
		Name:       "thc",
		Method:     "POST",
		URL:        "https://x/lookup",
		Body:       `{"domain":"{domain}","page_state":"{cursor}"}`,
		Pagination: PaginationCursor,
	}

	pg := parseWith(t, s, `{"subdomains":["a.example.com"],"page_state":"tok-2"}`)
	testutil.AssertEqual(t, pg.cursor, "tok-2", "top level cursor")

	pg = parseWith(t, s, `{"meta":{"next":"tok-3"},"subdomains":["a.example.com"]}`)
	testutil.AssertEqual(t, pg.cursor, "tok-3", "nested cursor found")

	pg = parseWith(t, s, `{"subdomains":["a.example.com"]}`)
	testutil.AssertEqual(t, pg.cursor, "", "absent cursor is empty")
}

func TestParsePage_HasMore(t *testing.T) {
	s := Schema{
		Name:       "otx",
		URL:        "https://x/{domain}?page={page}",
		EntryKeys:  []string{"passive_dns"},
		NameKeys:   []string{"hostname"},
		Pagination: PaginationPage,
		HasMoreKey: "has_next",
	}

	pg := parseWith(t, s, `{"passive_dns":[{"hostname":"a.example.com"}],"has_next":true}`)
	if pg.hasMore == nil {
		t.Fatal("has_next should be read")
	}
	testutil.AssertTrue(t, *pg.hasMore, "has_next true")

	pg = parseWith(t, s, `{"passive_dns":[{"hostname":"a.example.com"}],"has_next":false}`)
	if pg.hasMore == nil {
		t.Fatal("has_next should be read")
	}
	testutil.AssertFalse(t, *pg.hasMore, "has_next false")

	pg = parseWith(t, s, `{"passive_dns":[{"hostname":"a.example.com"}]}`)
	if pg.hasMore != nil {
		t.Error("missing has_next should leave hasMore nil")
	}
}

func TestParsePage_MalformedJSON(t *testing.T) {
	s := Schema{Name: "thc", URL: "https://x/{domain}"}
	s.normalize()

	_, err := s.parsePage([]byte(`<html>not json</html>`))

	testutil.AssertError(t, err, "malformed payload should fail")
	testutil.AssertTrue(t, errors.IsMalformedResponse(err), "classified as malformed response")
}

func TestParsePage_Plaintext(t *testing.T) {
	s := Schema{Name: "plain", URL: "https://x/{domain}", Plaintext: true}

	pg := parseWith(t, s, "a.example.com\n\n  b.example.com  \n")

	testutil.AssertLen(t, pg.names, 2, "lines extracted")
	testutil.AssertEqual(t, pg.names[1], "b.example.com", "lines trimmed")
}

func TestBuiltinSchemas(t *testing.T) {
	builtins := Builtin()
	testutil.AssertLen(t, names(builtins), 4, "four builtin datasets")

	seen := make(map[string]bool)
	defaults := 0
	for _, schema := range builtins {
		s := schema
		s.normalize()
		testutil.AssertNoError(t, s.Validate(), "builtin "+s.Name+" must validate")

		if seen[s.Name] {
			t.Errorf("duplicate builtin name %s", s.Name)
		}
		seen[s.Name] = true

		if s.Default {
			defaults++
		}
	}

	testutil.AssertEqual(t, defaults, 1, "exactly one default source")
	testutil.AssertTrue(t, seen["thc"], "thc present")
	testutil.AssertTrue(t, seen["crtsh"], "crtsh present")
	testutil.AssertTrue(t, seen["anubis"], "anubis present")
	testutil.AssertTrue(t, seen["otx"], "otx present")
}

func names(schemas []Schema) []string {
	out := make([]string, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, s.Name)
	}
	return out
}
