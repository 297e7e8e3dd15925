package wire

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"@1", 1, true},
		{"@42", 42, true},
		{"@0", 0, false},
		{"@01", 0, false},
		{"@-1", 0, false},
		{"@+1", 0, false},
		{"@", 0, false},
		{"1", 0, false},
		{"@1a", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRef(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseRef(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if Ref(3) != "@3" {
		t.Errorf("Ref(3) = %q, want %q", Ref(3), "@3")
	}
}

func TestMapOrder(t *testing.T) {
	m := NewMap().Set("zeta", 1).Set("alpha", 2).Set("mid", 3)
	m.Set("zeta", 4)

	if got := strings.Join(m.Keys(), ","); got != "zeta,alpha,mid" {
		t.Errorf("Keys() = %s, want zeta,alpha,mid", got)
	}
	if v, _ := m.Get("zeta"); v != 4 {
		t.Errorf("Get(zeta) = %v, want 4", v)
	}

	m.Delete("alpha")
	if got := strings.Join(m.Keys(), ","); got != "zeta,mid" {
		t.Errorf("Keys() after delete = %s, want zeta,mid", got)
	}

	var nilMap *Map
	if nilMap.Len() != 0 || nilMap.Has("x") {
		t.Error("nil map should read as empty")
	}
}

func TestMarshalIndentAndOrder(t *testing.T) {
	tree := Object("@1", "Goal", NewMap().
		Set("caption", "Run <10k>").
		Set("scores", []any{3, 7.5}).
		Set("done", false).
		Set("metric", nil))

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{
  "id": "@1",
  "type": "Goal",
  "fields": {
    "caption": "Run <10k>",
    "scores": [
      3,
      7.5
    ],
    "done": false,
    "metric": null
  }
}
`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestUnmarshalKeepsOrder(t *testing.T) {
	tree, err := Unmarshal([]byte(`{"b": 1, "a": [true, null, "x"], "c": {"z": 2, "y": 3}}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	m, ok := tree.(*Map)
	if !ok {
		t.Fatalf("tree is %T, want *Map", tree)
	}
	if got := strings.Join(m.Keys(), ","); got != "b,a,c" {
		t.Errorf("Keys() = %s, want b,a,c", got)
	}
	c, _ := m.Get("c")
	if got := strings.Join(c.(*Map).Keys(), ","); got != "z,y" {
		t.Errorf("nested Keys() = %s, want z,y", got)
	}
	b, _ := m.Get("b")
	if b != float64(1) {
		t.Errorf("b = %#v, want float64(1)", b)
	}
}

func TestUnmarshalNested(t *testing.T) {
	in := `[{"z": [{"q": "<b>", "p": 2}], "a": null}, 3, "x"]`
	tree, err := Unmarshal([]byte(in))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	arr, ok := tree.([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("tree = %#v, want 3 items", tree)
	}
	first := arr[0].(*Map)
	if got := strings.Join(first.Keys(), ","); got != "z,a" {
		t.Errorf("Keys() = %s, want z,a", got)
	}
	z, _ := first.Get("z")
	inner := z.([]any)[0].(*Map)
	if got := strings.Join(inner.Keys(), ","); got != "q,p" {
		t.Errorf("object in array Keys() = %s, want q,p", got)
	}
	if arr[1] != float64(3) || arr[2] != "x" {
		t.Errorf("scalars = %#v, %#v", arr[1], arr[2])
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(first); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := `{"z":[{"q":"<b>","p":2}],"a":null}` + "\n"; buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}

	for _, in := range []string{`"plain"`, `12.5`, `true`, `null`} {
		if _, err := Unmarshal([]byte(in)); err != nil {
			t.Errorf("Unmarshal(%s): %v", in, err)
		}
	}
}

func TestUnmarshalErrors(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,`, `{"a":1} {"b":2}`, `nope`} {
		if _, err := Unmarshal([]byte(in)); err == nil {
			t.Errorf("Unmarshal(%q) succeeded, want error", in)
		}
	}
}

func TestRoundTripBytes(t *testing.T) {
	in := `{
  "type": "Expedition",
  "fields": {
    "name": "Health",
    "mountains": [],
    "tags": {
      "z": "last",
      "a": "first"
    }
  }
}
`
	tree, err := Unmarshal([]byte(in))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	out, err := Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("round trip changed document:\n%s", out)
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		a, b     any
		wantPath string
		wantSame bool
	}{
		{"int equals float", 3, float64(3), "", true},
		{"nil", nil, nil, "", true},
		{"string mismatch", "a", "b", "$", false},
		{"type mismatch", "3", 3, "$", false},
		{"array length", []any{1}, []any{1, 2}, "$", false},
		{"array element", []any{1, 2}, []any{1, 3}, "$[1]", false},
		{"map order ignored", NewMap().Set("a", 1).Set("b", 2), NewMap().Set("b", 2).Set("a", 1), "", true},
		{"nested map value", NewMap().Set("f", NewMap().Set("x", true)), NewMap().Set("f", NewMap().Set("x", false)), "$.f.x", false},
		{"missing key", NewMap().Set("a", 1), NewMap().Set("b", 1), "$.a", false},
		{"nil vs map", nil, NewMap(), "$", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, same := Diff(tt.a, tt.b)
			if same != tt.wantSame || path != tt.wantPath {
				t.Errorf("Diff() = %q, %v, want %q, %v", path, same, tt.wantPath, tt.wantSame)
			}
		})
	}
}

func TestChoice(t *testing.T) {
	unpicked := Choice(nil, nil)
	data, err := Marshal(unpicked)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "{\n  \"picked\": null,\n  \"object\": null\n}\n" {
		t.Errorf("unpicked = %s", data)
	}

	name := "text"
	picked := Choice(&name, "foo")
	if v, _ := picked.Get(KeyPicked); v != "text" {
		t.Errorf("picked = %v, want text", v)
	}
}
