package nodelink

import (
	"context"
	"strings"
	"testing"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/wire"
)

const sharedDoc = `{
  "type": "Mountain",
  "fields": {
    "name": "Fitness",
    "indicators": [
      {"type": "Indicator", "fields": {"caption": "Weight", "ok": 80, "metric": {"id": "@1", "type": "Measured", "fields": {"caption": "kg"}}}}
    ],
    "goals": [
      {"type": "Goal", "fields": {"caption": "Lean", "criteria": [
        {"type": "Indicator", "fields": {"caption": "Still", "metric": "@1"}}
      ]}}
    ],
    "choice": {"picked": "note", "object": {"type": "Note", "fields": {}}}
  }
}`

func parse(t *testing.T, doc string) any {
	t.Helper()
	tree, err := wire.Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return tree
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(parse(t, sharedDoc), Options{})

	for _, want := range []string{
		"digraph G {",
		`n0 [label="Mountain\nFitness"];`,
		`n2 [label="Measured @1\nkg", fillcolor=lightyellow];`,
		`n0 -> n1 [label="indicators[0]"];`,
		`n1 -> n2 [label="metric"];`,
		`n4 -> n2 [label="metric", style=dashed, color=grey40];`,
		`n0 -> n5 [label="choice.note"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(parse(t, sharedDoc), Options{Detailed: true})
	if !strings.Contains(dot, `label="Indicator\ncaption: Weight\nok: 80"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOTForwardReference(t *testing.T) {
	doc := `{"type": "Pair", "fields": {
		"first": "@1",
		"second": {"id": "@1", "type": "X", "fields": {"name": "x"}}
	}}`
	dot := ToDOT(parse(t, doc), Options{})
	if !strings.Contains(dot, `n0 -> n1 [label="first", style=dashed, color=grey40];`) {
		t.Errorf("forward reference not drawn:\n%s", dot)
	}
}

func TestToDOTIgnoresPlainStrings(t *testing.T) {
	doc := `{"type": "X", "fields": {"name": "@1"}}`
	dot := ToDOT(parse(t, doc), Options{})
	if strings.Contains(dot, "->") {
		t.Errorf("undeclared token should not become an edge:\n%s", dot)
	}
}

func TestCount(t *testing.T) {
	if n := Count(parse(t, sharedDoc)); n != 6 {
		t.Errorf("Count = %d, want 6", n)
	}
	if n := Count(nil); n != 0 {
		t.Errorf("Count(nil) = %d", n)
	}
}

func TestRenderDOT(t *testing.T) {
	out, err := Render(context.Background(), parse(t, sharedDoc), FormatDOT, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "digraph G {") {
		t.Errorf("unexpected output: %s", out)
	}

	_, err = Render(context.Background(), nil, "gif", Options{})
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("unknown format: %v", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s", out)
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
