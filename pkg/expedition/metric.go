package expedition

import (
	"slices"
	"time"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/model"
)

// Metric is a named series of data.
type Metric interface {
	model.Object

	// Info returns the caption and description shared by all metrics.
	Info() *MetricInfo

	// Reads returns the metrics this metric reads directly.
	Reads() []Metric

	// IsDue reports whether a new fact should be recorded at now.
	IsDue(now time.Time) bool
}

// MetricInfo holds the fields every metric has.
type MetricInfo struct {
	Caption     *model.Value[string]
	Description *model.Value[string]
}

func newMetricInfo() MetricInfo {
	return MetricInfo{
		Caption:     model.NewValue[string](),
		Description: model.NewValue[string](),
	}
}

// Info returns i.
func (i *MetricInfo) Info() *MetricInfo { return i }

func (i *MetricInfo) fields(rest ...model.Field) []model.Field {
	return append([]model.Field{
		model.F("caption", i.Caption),
		model.F("description", i.Description),
	}, rest...)
}

// Measured is a metric whose facts are recorded.
type Measured struct {
	MetricInfo

	// Frequency is the expected time between facts in milliseconds.
	Frequency *model.Value[float64]
	Source    *model.One[Source]
	Facts     *model.Many[*model.One[*Datum]]
}

func newMeasured() *Measured {
	return &Measured{
		MetricInfo: newMetricInfo(),
		Frequency:  model.NewValue[float64](),
		Source:     model.NewOne(SourceType),
		Facts:      model.ManyOf(DatumType),
	}
}

func (m *Measured) TypeName() string { return "Measured" }

func (m *Measured) Fields() []model.Field {
	return m.fields(
		model.F("frequency", m.Frequency),
		model.F("source", m.Source),
		model.F("facts", m.Facts),
	)
}

func (m *Measured) Reads() []Metric { return nil }

// Measure records value at the instant at and returns the new fact.
func (m *Measured) Measure(at time.Time, value float64) *Datum {
	return m.Facts.Add().Create(func(d *Datum) {
		d.At.Set(at)
		d.Value.Set(value)
	})
}

// SetFrequency stores every as the expected time between facts.
func (m *Measured) SetFrequency(every time.Duration) {
	m.Frequency.Set(float64(every.Milliseconds()))
}

// Every returns the expected time between facts, zero when unset.
func (m *Measured) Every() time.Duration {
	return time.Duration(m.Frequency.Get()) * time.Millisecond
}

// Last returns the most recent fact.
func (m *Measured) Last() (*Datum, bool) {
	return m.Facts.Last().Get()
}

// DatumOn returns the last fact recorded at or before at.
func (m *Measured) DatumOn(at time.Time) (*Datum, bool) {
	return m.Facts.Select(func(o *model.One[*Datum]) bool {
		return model.IfEither(o,
			func(d *Datum) bool { return !d.At.Get().After(at) },
			func() bool { return false })
	}).Last().Get()
}

// IsDue reports whether the last fact is older than the frequency. Metrics
// without a frequency are never due; metrics without facts always are.
func (m *Measured) IsDue(now time.Time) bool {
	if !m.Frequency.Exists() {
		return false
	}
	last, ok := m.Last()
	if !ok {
		return true
	}
	return last.At.Get().Before(now.Add(-m.Every()))
}

// Derived computes its value from named input metrics.
type Derived struct {
	MetricInfo
	Inputs  *model.Map[*model.One[Metric]]
	Formula *model.Formula[*model.Value[float64]]
}

func newDerived() *Derived {
	return &Derived{
		MetricInfo: newMetricInfo(),
		Inputs:     model.MapOf(MetricType),
		Formula:    model.NewFormula(model.NewValue[float64]()),
	}
}

func (m *Derived) TypeName() string { return "Derived" }

func (m *Derived) Fields() []model.Field {
	return m.fields(
		model.F("inputs", m.Inputs),
		model.F("formula", m.Formula),
	)
}

// Reads returns the input metrics in key order.
func (m *Derived) Reads() []Metric {
	var out []Metric
	for _, in := range m.Inputs.Values() {
		in.IfThere(func(input Metric) { out = append(out, input) })
	}
	return out
}

func (m *Derived) IsDue(time.Time) bool { return false }

// Evaluate runs the formula once with every measured input bound to its
// value at at. It does not compute a series.
func (m *Derived) Evaluate(at time.Time) (*model.Value[float64], error) {
	env := make(map[string]any, m.Inputs.Len())
	for _, key := range m.Inputs.Keys() {
		input, ok := m.Inputs.At(key).Get()
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "input %q of %s is empty", key, m.Caption.Get())
		}
		measured, ok := input.(*Measured)
		if !ok {
			return nil, errs.New(errs.ErrCodeUnsupported, "input %q of %s is a %s; only measured inputs can be evaluated",
				key, m.Caption.Get(), input.TypeName())
		}
		datum, ok := measured.DatumOn(at)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidInput, "input %q of %s has no data before %s",
				key, m.Caption.Get(), model.FormatInstant(at))
		}
		env[key] = datum.Value.Get()
	}
	return m.Formula.Execute(env)
}

// Smoothed averages its input over a sliding window.
type Smoothed struct {
	MetricInfo

	// Window is the averaging window in milliseconds.
	Window *model.Value[float64]
	Input  *model.One[Metric]
}

func newSmoothed() *Smoothed {
	return &Smoothed{
		MetricInfo: newMetricInfo(),
		Window:     model.NewValue[float64](),
		Input:      model.NewOne(MetricType),
	}
}

func (m *Smoothed) TypeName() string { return "Smoothed" }

func (m *Smoothed) Fields() []model.Field {
	return m.fields(
		model.F("window", m.Window),
		model.F("input", m.Input),
	)
}

func (m *Smoothed) Reads() []Metric { return single(m.Input) }

func (m *Smoothed) IsDue(time.Time) bool { return false }

// Chunked sums its input over fixed-size periods starting at Start.
type Chunked struct {
	MetricInfo
	Start *model.Value[time.Time]

	// Size is the period length in milliseconds.
	Size  *model.Value[float64]
	Input *model.One[Metric]
}

func newChunked() *Chunked {
	return &Chunked{
		MetricInfo: newMetricInfo(),
		Start:      model.NewValue[time.Time](),
		Size:       model.NewValue[float64](),
		Input:      model.NewOne(MetricType),
	}
}

func (m *Chunked) TypeName() string { return "Chunked" }

func (m *Chunked) Fields() []model.Field {
	return m.fields(
		model.F("start", m.Start),
		model.F("size", m.Size),
		model.F("input", m.Input),
	)
}

func (m *Chunked) Reads() []Metric { return single(m.Input) }

func (m *Chunked) IsDue(time.Time) bool { return false }

func single(input *model.One[Metric]) []Metric {
	return model.IfEither(input,
		func(in Metric) []Metric { return []Metric{in} },
		func() []Metric { return nil })
}

// Dependencies returns m followed by every metric it reads, directly or
// through other metrics, each once in depth-first order. A metric that
// reads itself is listed once.
func Dependencies(m Metric) []Metric {
	return collect(nil, map[Metric]bool{}, m)
}

// ReadsItself reports whether m is among the metrics it depends on.
func ReadsItself(m Metric) bool {
	for _, in := range m.Reads() {
		if slices.Contains(Dependencies(in), m) {
			return true
		}
	}
	return false
}

// collect appends m and its inputs to out, skipping metrics in seen.
func collect(out []Metric, seen map[Metric]bool, m Metric) []Metric {
	if m == nil || seen[m] {
		return out
	}
	seen[m] = true
	out = append(out, m)
	for _, in := range m.Reads() {
		out = collect(out, seen, in)
	}
	return out
}
