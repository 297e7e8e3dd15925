package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/expedition"
	eio "github.com/matzehuels/expedition/pkg/io"
)

// isolate points every XDG directory at a temp dir so commands never touch
// the real config, store or cache.
func isolate(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("EXPEDITION_STORE", "")
	t.Setenv("EXPEDITION_REDIS_ADDR", "")
	t.Setenv("EXPEDITION_MONGO_URI", "")
	return base
}

// run executes one command line against a fresh CLI and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	var out bytes.Buffer
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "expedition %v", args)
	return out
}

func TestDocumentLifecycle(t *testing.T) {
	base := isolate(t)
	doc := filepath.Join(base, "health.json")

	mustRun(t, "init", doc, "--name", "Health")
	mustRun(t, "add", "mountain", doc, "Fitness", "--reason", "feel better")
	mustRun(t, "add", "goal", doc, "Fitness", "Run a marathon")
	mustRun(t, "add", "indicator", doc, "Fitness", "Weight", "--every", "24h", "--ok", "85", "--good", "80")
	mustRun(t, "add", "indicator", doc, "Fitness", "Weight trend", "--metric", "Weight", "--goal", "Run a marathon")
	mustRun(t, "measure", doc, "Weight", "82.5", "--at", "2026-02-27")

	exp, err := eio.ImportJSON(doc, expedition.ExpeditionType)
	require.NoError(t, err)
	m := exp.Mountains.At(0).MustGet()
	direct := m.Indicators.At(0).MustGet().Metric.MustGet()
	viaGoal := m.Goals.At(0).MustGet().Criteria.At(0).MustGet().Metric.MustGet()
	require.Same(t, direct, viaGoal, "indicators added with the same metric caption share it")
	require.Len(t, exp.Metrics(), 1)

	out := mustRun(t, "show", doc, "--json", "--at", "2026-03-01")
	var status expedition.Status
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.Equal(t, "Health", status.Name)
	require.Len(t, status.Mountains, 1)
	require.Equal(t, "feel better", status.Mountains[0].Reason)
	ind := status.Mountains[0].Indicators[0]
	require.NotNil(t, ind.Metric)
	require.Len(t, ind.Metric.Data, 1)
	require.Equal(t, 82.5, ind.Metric.Data[0].Value)
	require.True(t, ind.Metric.Due, "a daily metric last measured two days ago is due")

	mustRun(t, "validate", doc, "--strict")
	mustRun(t, "fmt", doc, "--check")

	dot := mustRun(t, "graph", doc, "-f", "dot", "--no-cache")
	require.Contains(t, dot, "digraph G {")
	require.Contains(t, dot, "style=dashed")
}

func TestInitRefusesToOverwrite(t *testing.T) {
	base := isolate(t)
	doc := filepath.Join(base, "health.json")

	mustRun(t, "init", doc)
	_, err := run(t, "init", doc)
	require.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)

	mustRun(t, "init", doc, "--force")
}

func TestCommandErrors(t *testing.T) {
	base := isolate(t)
	doc := filepath.Join(base, "health.json")
	mustRun(t, "init", doc)
	mustRun(t, "add", "mountain", doc, "Fitness")

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"missing document", []string{"show", filepath.Join(base, "nope.json")}, errs.ErrCodeDocumentNotFound},
		{"duplicate mountain", []string{"add", "mountain", doc, "fitness"}, errs.ErrCodeInvalidInput},
		{"unknown mountain", []string{"add", "goal", doc, "Career", "Promotion"}, errs.ErrCodeInvalidInput},
		{"unknown goal", []string{"add", "indicator", doc, "Fitness", "Pace", "--goal", "Nope"}, errs.ErrCodeInvalidInput},
		{"bad url", []string{"add", "indicator", doc, "Fitness", "Pace", "--url", "ftp://example.com"}, errs.ErrCodeInvalidInput},
		{"unknown metric", []string{"measure", doc, "Pace", "5"}, errs.ErrCodeInvalidInput},
		{"bad value", []string{"measure", doc, "Pace", "fast"}, errs.ErrCodeInvalidInput},
		{"bad date", []string{"show", doc, "--at", "yesterday"}, errs.ErrCodeInvalidInput},
		{"bad format", []string{"graph", doc, "-f", "png"}, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			require.Equal(t, tt.code, errs.GetCode(err), "%v", err)
		})
	}
}

func TestFmtCheck(t *testing.T) {
	base := isolate(t)
	doc := filepath.Join(base, "compact.json")
	compact := `{"type":"Expedition","fields":{"name":"Compact","mountains":[]}}`
	require.NoError(t, os.WriteFile(doc, []byte(compact), 0o644))

	_, err := run(t, "fmt", doc, "--check")
	require.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)

	formatted := mustRun(t, "fmt", doc, "--stdout")
	require.Contains(t, formatted, "\n  ")

	mustRun(t, "fmt", doc)
	mustRun(t, "fmt", doc, "--check")
}

func TestStoreDocuments(t *testing.T) {
	base := isolate(t)

	mustRun(t, "init", "health")
	mustRun(t, "add", "mountain", "health", "Fitness")

	out := mustRun(t, "list")
	require.Equal(t, "health\n", out)

	_, err := os.Stat(filepath.Join(base, "data", "expedition", "health.json"))
	require.NoError(t, err, "file store keeps documents under XDG_DATA_HOME")

	mustRun(t, "history", "health", "-n", "1")

	_, err = run(t, "history", "health.json")
	require.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)
}

func TestConfigFile(t *testing.T) {
	base := isolate(t)
	dir := filepath.Join(base, "config", "expedition")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[store]
dir = "`+filepath.ToSlash(filepath.Join(base, "docs"))+`"

[log]
level = "warn"
`), 0o644))

	out := mustRun(t, "config")
	require.Contains(t, out, `level = "warn"`)

	mustRun(t, "init", "health")
	_, err := os.Stat(filepath.Join(base, "docs", "health.json"))
	require.NoError(t, err)

	_, err = run(t, "--config", filepath.Join(base, "missing.toml"), "list")
	require.True(t, errs.Is(err, errs.ErrCodeDocumentNotFound), "got %v", err)
}

func TestValidateDocument(t *testing.T) {
	exp := expedition.New("Health")
	m := exp.Mountains.Add().Create(func(m *expedition.Mountain) { m.Name.Set("Fitness") })
	for _, caption := range []string{"Weight", "weight"} {
		ind := m.Indicators.Add().Create()
		metric, err := ind.Metric.CreateAs(expedition.MeasuredType.Name())
		require.NoError(t, err)
		measured := metric.(*expedition.Measured)
		measured.Caption.Set(caption)
		measured.Source.Set(newWebsite("not a url"))
	}

	data, err := eio.Marshal(exp)
	require.NoError(t, err)

	problems, err := validateDocument(data)
	require.NoError(t, err)
	require.Len(t, problems, 3, "two bad urls and one duplicate caption: %v", problems)

	loop := `{"type": "Expedition", "fields": {"name": "Loop", "mountains": [
	  {"type": "Mountain", "fields": {"name": "M", "reason": null, "goals": [], "indicators": [
	    {"type": "Indicator", "fields": {"caption": "i", "description": null, "ok": null, "good": null,
	      "metric": {"id": "@1", "type": "Smoothed", "fields": {"caption": "Trend", "description": null,
	        "window": null, "input": "@1"}}}}
	  ]}}
	]}}`
	problems, err = validateDocument([]byte(loop))
	require.NoError(t, err)
	require.Equal(t, []string{`metric "Trend" reads itself through its inputs`}, problems)

	_, err = validateDocument([]byte("{"))
	require.True(t, errs.Is(err, errs.ErrCodeMalformedDocument), "got %v", err)
}

func TestJudge(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		value    float64
		ok, good *float64
		want     string
	}{
		{"no thresholds", 5, nil, nil, ""},
		{"higher is better good", 10, f(5), f(8), "good"},
		{"higher is better ok", 6, f(5), f(8), "ok"},
		{"higher is better below", 4, f(5), f(8), "below"},
		{"lower is better good", 79, f(85), f(80), "good"},
		{"lower is better ok", 82, f(85), f(80), "ok"},
		{"lower is better below", 90, f(85), f(80), "below"},
		{"only ok", 3, f(5), nil, "below"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := judge(tt.value, tt.ok, tt.good)
			if tt.want == "" {
				require.Empty(t, got)
				return
			}
			require.Contains(t, got, tt.want)
		})
	}
}

func TestIsFileRef(t *testing.T) {
	require.True(t, isFileRef("health.json"))
	require.True(t, isFileRef(filepath.Join("docs", "health")))
	require.False(t, isFileRef("health"))
	require.False(t, isFileRef("health-2026"))
}

func TestParseAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(io.Discard, LogInfo)
	c.now = func() time.Time { return now }

	got, err := c.parseAt("")
	require.NoError(t, err)
	require.Equal(t, now, got)

	got, err = c.parseAt("2026-02-27")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), got)

	got, err = c.parseAt("2026-02-27T08:30:00Z")
	require.NoError(t, err)
	require.Equal(t, 8, got.Hour())

	_, err = c.parseAt("27.02.2026")
	require.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
}

func TestDefaultGraphOutput(t *testing.T) {
	require.Equal(t, "health.svg", defaultGraphOutput("health"))
	require.Equal(t, "health.svg", defaultGraphOutput(filepath.Join("docs", "health.json")))
}

func TestMetricListModel(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	exp := expedition.New("Health")
	m := exp.Mountains.Add().Create(func(m *expedition.Mountain) { m.Name.Set("Fitness") })

	var measured []*expedition.Measured
	for _, caption := range []string{"Weight", "Steps"} {
		ind := m.Indicators.Add().Create()
		metric, err := ind.Metric.CreateAs(expedition.MeasuredType.Name())
		require.NoError(t, err)
		mm := metric.(*expedition.Measured)
		mm.Caption.Set(caption)
		mm.SetFrequency(24 * time.Hour)
		measured = append(measured, mm)
	}
	// Weight is fresh, Steps was never measured.
	measured[0].Measure(now, 80)

	model := NewMetricListModel(exp.Metrics(), now)
	require.Equal(t, 1, model.Cursor, "cursor starts on the first due metric")

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = next.(MetricListModel)
	require.Equal(t, 0, model.Cursor)

	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = next.(MetricListModel)
	require.Equal(t, 0, model.Cursor, "cursor stays at the top")

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(MetricListModel)
	require.Same(t, measured[0], model.Selected)
	require.NotNil(t, cmd)

	require.Contains(t, model.View(), "Weight")
	require.Contains(t, model.View(), "[1/2]")
}
