package io_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/expedition"
	"github.com/matzehuels/expedition/pkg/io"
)

func sample() *expedition.Expedition {
	e := expedition.New("Health")
	m := e.Mountains.Add().Create(func(m *expedition.Mountain) { m.Name.Set("Fitness") })
	ind := m.Indicators.Add().Create(func(i *expedition.Indicator) { i.Caption.Set("Weight") })
	metric, _ := ind.Metric.CreateAs("Measured")
	weight := metric.(*expedition.Measured)
	weight.Caption.Set("Weight")
	weight.Measure(time.Date(2020, 11, 12, 0, 0, 0, 0, time.UTC), 80.5)

	g := m.Goals.Add().Create(func(g *expedition.Goal) { g.Caption.Set("Lose weight") })
	g.Criteria.Add().Create(func(i *expedition.Indicator) { i.Metric.Point(weight) })
	return e
}

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "health.json")

	if err := io.ExportJSON(sample(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	e, err := io.ImportJSON(path, expedition.ExpeditionType)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if e.Name.Get() != "Health" {
		t.Errorf("name = %q", e.Name.Get())
	}

	var buf bytes.Buffer
	if err := io.WriteJSON(e, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if buf.String() != string(first) {
		t.Errorf("re-export differs:\n%s\nwant\n%s", buf.String(), first)
	}

	m := e.Mountains.At(0).MustGet()
	a := m.Goals.At(0).MustGet().Criteria.At(0).MustGet().Metric.MustGet()
	b := m.Indicators.At(0).MustGet().Metric.MustGet()
	if a != b {
		t.Error("shared metric was duplicated")
	}
}

func TestOutputFormat(t *testing.T) {
	data, err := io.Marshal(expedition.New("A & <B>"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{
  "type": "Expedition",
  "fields": {
    "name": "A & <B>",
    "mountains": []
  }
}
`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errs.Code
	}{
		{"invalid json", `{"type": `, errs.ErrCodeMalformedDocument},
		{"trailing data", `{"type": "Expedition", "fields": {}} {}`, errs.ErrCodeMalformedDocument},
		{"wrong root", `{"type": "Mountain", "fields": {}}`, errs.ErrCodeUnknownType},
		{"dangling reference", `{"type": "Expedition", "fields": {"mountains": ["@1"]}}`, errs.ErrCodeUnresolvedReference},
		{"bad date", `{"type": "Expedition", "fields": {"mountains": [{"type": "Mountain", "fields": {"indicators": [
			{"type": "Indicator", "fields": {"metric": {"type": "Measured", "fields": {"facts": [
				{"type": "Datum", "fields": {"at": "soon"}}]}}}}]}}]}}`, errs.ErrCodeTypeCoercion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := io.ReadJSON(strings.NewReader(tt.doc), expedition.ExpeditionType)
			if !errs.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExampleDocument(t *testing.T) {
	path := filepath.Join("..", "..", "examples", "health.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	e, err := io.ImportJSON(path, expedition.ExpeditionType)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got := len(e.Metrics()); got != 1 {
		t.Errorf("Metrics() = %d, want the shared weight metric once", got)
	}
	weight, ok := e.FindMetric("weight")
	if !ok {
		t.Fatal("weight metric not found")
	}
	if last, _ := weight.(*expedition.Measured).Last(); last.Value.Get() != 82.1 {
		t.Errorf("last weight = %v, want 82.1", last.Value.Get())
	}

	// The example is kept in canonical form.
	data, err := io.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("examples/health.json is not canonical; re-export gives\n%s", data)
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := io.ImportJSON(filepath.Join(t.TempDir(), "nope.json"), expedition.ExpeditionType)
	if !errs.Is(err, errs.ErrCodeDocumentNotFound) {
		t.Errorf("ImportJSON() error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func ExampleUnmarshal() {
	doc := []byte(`{"type": "Expedition", "fields": {"name": "Health", "mountains": [
		{"type": "Mountain", "fields": {"name": "Fitness"}}
	]}}`)

	e, err := io.Unmarshal(doc, expedition.ExpeditionType)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(e.Name.Get(), e.Mountains.Len(), e.Mountains.At(0).MustGet().Name.Get())
	// Output: Health 1 Fitness
}
