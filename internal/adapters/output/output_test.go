// internal/adapters/output/output_test.go
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subsift/internal/core/domain"
	"subsift/internal/platform/logx"
	"subsift/internal/testutil"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("writer is broken")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

// sampleReport construye un reporte con dos resueltos y un no resuelto.
func sampleReport(t *testing.T) *domain.RunReport {
	t.Helper()
	target := domain.NewTarget("example.com")
	if err := target.Validate(); err != nil {
		t.Fatalf("target: %v", err)
	}

	report := domain.NewRunReport(*target, domain.RunModeDefault)
	report.AddResolution(resolved("mail.example.com", "thc", "9.9.9.10"))
	report.AddResolution(resolved("api.example.com", "crtsh", "9.9.9.9"))
	report.AddResolution(domain.NewResolution(
		domain.NewCandidate("gone.example.com", "thc"),
		domain.ResolutionUnresolved,
		domain.RRSet{},
	))
	report.Metadata.TotalCandidates = 3
	report.Finalize()
	return report
}

func resolved(name, source string, addrs ...string) domain.Resolution {
	return domain.NewResolution(
		domain.NewCandidate(name, source),
		domain.ResolutionResolved,
		domain.RRSet{A: addrs},
	)
}

func TestStreamSink_EmitsAsTheyArrive(t *testing.T) {
	var buf bytes.Buffer
	sink := NewStreamSink(&buf)

	testutil.AssertNoError(t, sink.Emit(resolved("b.example.com", "thc", "1.1.1.1")), "first emit")
	testutil.AssertNoError(t, sink.Emit(resolved("a.example.com", "thc", "1.1.1.2")), "second emit")
	testutil.AssertNoError(t, sink.Flush(sampleReport(t)), "flush is a no-op")
	testutil.AssertNoError(t, sink.Close(), "close")

	// El orden de llegada se conserva, sin ordenar
	testutil.AssertEqual(t, buf.String(), "b.example.com\na.example.com\n", "arrival order")
}

func TestTextSink_SortsAtFlush(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTextSink(&buf)

	report := sampleReport(t)
	for _, res := range report.Resolutions {
		testutil.AssertNoError(t, sink.Emit(res), "emit buffers nothing")
	}
	testutil.AssertNoError(t, sink.Flush(report), "flush")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	testutil.AssertLen(t, lines, 2, "only resolved names")
	testutil.AssertEqual(t, lines[0], "api.example.com", "alphabetical first")
	testutil.AssertEqual(t, lines[1], "mail.example.com", "alphabetical second")
}

func TestTextFileSink_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	sink, err := NewTextFileSink(path)
	testutil.AssertNoError(t, err, "file sink opens")

	testutil.AssertNoError(t, sink.Flush(sampleReport(t)), "flush")
	testutil.AssertNoError(t, sink.Close(), "close")

	data := readFile(t, path)
	testutil.AssertEqual(t, data, "api.example.com\nmail.example.com\n", "sorted file content")
}

func TestJSONSink_WritesFullReport(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONSink(&buf)

	report := sampleReport(t)
	testutil.AssertNoError(t, sink.Flush(report), "flush")

	var decoded domain.RunReport
	testutil.AssertNoError(t, json.Unmarshal(buf.Bytes(), &decoded), "valid JSON")
	testutil.AssertEqual(t, decoded.Target.Root, "example.com", "target preserved")
	testutil.AssertEqual(t, len(decoded.Resolutions), 3, "all verdicts present")
	testutil.AssertEqual(t, decoded.Metadata.TotalCandidates, 3, "metadata preserved")
	testutil.AssertTrue(t, strings.Contains(buf.String(), "  "), "pretty-printed")
}

func TestMultiSink_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	sink := NewMultiSink(NewStreamSink(&first), NewStreamSink(&second))

	testutil.AssertNoError(t, sink.Emit(resolved("a.example.com", "thc", "1.1.1.1")), "emit")
	testutil.AssertNoError(t, sink.Close(), "close")

	testutil.AssertEqual(t, first.String(), "a.example.com\n", "first sink written")
	testutil.AssertEqual(t, second.String(), "a.example.com\n", "second sink written")
}

func TestMultiSink_AccumulatesErrors(t *testing.T) {
	var ok bytes.Buffer
	sink := NewMultiSink(
		NewStreamSink(failingWriter{}),
		NewStreamSink(&ok),
	)

	err := sink.Emit(resolved("a.example.com", "thc", "1.1.1.1"))

	testutil.AssertError(t, err, "failure reported")
	// El sink sano recibió la línea a pesar del fallo del otro
	testutil.AssertEqual(t, ok.String(), "a.example.com\n", "healthy sink unaffected")
}

func TestForPath_SelectsByExtension(t *testing.T) {
	dir := t.TempDir()
	logger := logx.NewSilent()

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "text", path: filepath.Join(dir, "a.txt"), want: "*output.TextSink"},
		{name: "json", path: filepath.Join(dir, "a.json"), want: "*output.JSONSink"},
		{name: "sqlite db", path: filepath.Join(dir, "a.db"), want: "*output.SQLiteSink"},
		{name: "sqlite3", path: filepath.Join(dir, "a.sqlite3"), want: "*output.SQLiteSink"},
		{name: "upper case ext", path: filepath.Join(dir, "a.TXT"), want: "*output.TextSink"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, err := ForPath(tt.path, logger)
			testutil.AssertNoError(t, err, "sink builds")
			defer sink.Close()

			got := typeName(sink)
			testutil.AssertEqual(t, got, tt.want, "sink type")
		})
	}
}

func TestForPath_UnknownExtension(t *testing.T) {
	_, err := ForPath("out.xml", logx.NewSilent())

	testutil.AssertError(t, err, "unknown extension rejected")
	testutil.AssertTrue(t, strings.Contains(err.Error(), "unsupported"), "reason in error")
}

func TestSinks_StdoutDefaults(t *testing.T) {
	logger := logx.NewSilent()

	report, err := Sinks("", false, logger)
	testutil.AssertNoError(t, err, "report mode builds")
	testutil.AssertEqual(t, typeName(report), "*output.TextSink", "no file, no stream: sorted text")

	stream, err := Sinks("", true, logger)
	testutil.AssertNoError(t, err, "stream mode builds")
	testutil.AssertEqual(t, typeName(stream), "*output.StreamSink", "stream flag wins")
}

func TestSinks_FilePlusStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	sink, err := Sinks(path, true, logx.NewSilent())

	testutil.AssertNoError(t, err, "combo builds")
	testutil.AssertEqual(t, typeName(sink), "*output.MultiSink", "file and stdout fan out")
	testutil.AssertNoError(t, sink.Close(), "close")
}
