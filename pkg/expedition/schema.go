// Package expedition is the goal-tracking domain built on the container
// kernel.
//
// An [Expedition] is a list of mountains. A [Mountain] has goals and
// indicators; a [Goal] is judged by criteria, which are indicators too. An
// [Indicator] has ok/good thresholds and points at a [Metric]. Metrics are
// polymorphic:
//
//   - [Measured] holds facts recorded by hand or fetched from a [Source]
//   - [Derived] combines named input metrics with a formula
//   - [Smoothed] and [Chunked] wrap a single input metric
//
// The same metric is often used by several indicators. Indicators then hold
// a pointer to one metric instance (see [model.One.Point]) and the document
// stores it once with an id.
//
// Every type registers itself in package variables, so importing this
// package is enough to inflate expedition documents:
//
//	exp, err := codec.InflateObject(tree, expedition.ExpeditionType)
package expedition

import (
	"time"

	"github.com/matzehuels/expedition/pkg/model"
)

// Registered types. Metric and Source are abstractions whose
// implementations are added in init.
var (
	ExpeditionType = model.NewType("Expedition", newExpedition)
	MountainType   = model.NewType("Mountain", newMountain)
	GoalType       = model.NewType("Goal", newGoal)
	IndicatorType  = model.NewType("Indicator", newIndicator)
	DatumType      = model.NewType("Datum", newDatum)

	MetricType   = model.NewAbstraction[Metric]("Metric")
	MeasuredType = model.NewType("Measured", newMeasured)
	DerivedType  = model.NewType("Derived", newDerived)
	SmoothedType = model.NewType("Smoothed", newSmoothed)
	ChunkedType  = model.NewType("Chunked", newChunked)

	SourceType   = model.NewAbstraction[Source]("Source")
	ExternalType = model.NewType("External", newExternal)
	WebsiteType  = model.NewType("Website", newWebsite)
)

func init() {
	model.Implement(MetricType, MeasuredType)
	model.Implement(MetricType, DerivedType)
	model.Implement(MetricType, SmoothedType)
	model.Implement(MetricType, ChunkedType)

	model.Implement(SourceType, ExternalType)
	model.Implement(SourceType, WebsiteType)
}

// Expedition is the document root.
type Expedition struct {
	Name      *model.Value[string]
	Mountains *model.Many[*model.One[*Mountain]]
}

func newExpedition() *Expedition {
	return &Expedition{
		Name:      model.NewValue[string](),
		Mountains: model.ManyOf(MountainType),
	}
}

// New returns an empty expedition called name.
func New(name string) *Expedition {
	e := newExpedition()
	if name != "" {
		e.Name.Set(name)
	}
	return e
}

func (e *Expedition) TypeName() string { return "Expedition" }

func (e *Expedition) Fields() []model.Field {
	return []model.Field{
		model.F("name", e.Name),
		model.F("mountains", e.Mountains),
	}
}

// Mountain is a long-term aim.
type Mountain struct {
	Name       *model.Value[string]
	Reason     *model.Value[string]
	Goals      *model.Many[*model.One[*Goal]]
	Indicators *model.Many[*model.One[*Indicator]]
}

func newMountain() *Mountain {
	return &Mountain{
		Name:       model.NewValue[string](),
		Reason:     model.NewValue[string](),
		Goals:      model.ManyOf(GoalType),
		Indicators: model.ManyOf(IndicatorType),
	}
}

func (m *Mountain) TypeName() string { return "Mountain" }

func (m *Mountain) Fields() []model.Field {
	return []model.Field{
		model.F("name", m.Name),
		model.F("reason", m.Reason),
		model.F("goals", m.Goals),
		model.F("indicators", m.Indicators),
	}
}

// Goal is a concrete milestone on the way to a mountain.
type Goal struct {
	Caption     *model.Value[string]
	Description *model.Value[string]
	Criteria    *model.Many[*model.One[*Indicator]]
}

func newGoal() *Goal {
	return &Goal{
		Caption:     model.NewValue[string](),
		Description: model.NewValue[string](),
		Criteria:    model.ManyOf(IndicatorType),
	}
}

func (g *Goal) TypeName() string { return "Goal" }

func (g *Goal) Fields() []model.Field {
	return []model.Field{
		model.F("caption", g.Caption),
		model.F("description", g.Description),
		model.F("criteria", g.Criteria),
	}
}

// Indicator judges a metric against two thresholds.
type Indicator struct {
	Caption     *model.Value[string]
	Description *model.Value[string]
	Ok          *model.Value[float64]
	Good        *model.Value[float64]
	Metric      *model.One[Metric]
}

func newIndicator() *Indicator {
	return &Indicator{
		Caption:     model.NewValue[string](),
		Description: model.NewValue[string](),
		Ok:          model.NewValue[float64](),
		Good:        model.NewValue[float64](),
		Metric:      model.NewOne(MetricType),
	}
}

func (i *Indicator) TypeName() string { return "Indicator" }

func (i *Indicator) Fields() []model.Field {
	return []model.Field{
		model.F("caption", i.Caption),
		model.F("description", i.Description),
		model.F("ok", i.Ok),
		model.F("good", i.Good),
		model.F("metric", i.Metric),
	}
}

// Datum is one observation.
type Datum struct {
	At    *model.Value[time.Time]
	Value *model.Value[float64]
}

func newDatum() *Datum {
	return &Datum{
		At:    model.NewValue[time.Time](),
		Value: model.NewValue[float64](),
	}
}

func (d *Datum) TypeName() string { return "Datum" }

func (d *Datum) Fields() []model.Field {
	return []model.Field{
		model.F("at", d.At),
		model.F("value", d.Value),
	}
}

// Source tells where the facts of a measured metric come from.
type Source interface {
	model.Object
	Label() string
}

// SourceInfo holds the fields every source has.
type SourceInfo struct {
	Name *model.Value[string]
}

func newSourceInfo() SourceInfo {
	return SourceInfo{Name: model.NewValue[string]()}
}

// External is a source outside any system, e.g. a bathroom scale.
type External struct {
	SourceInfo
}

func newExternal() *External { return &External{SourceInfo: newSourceInfo()} }

func (s *External) TypeName() string { return "External" }

func (s *External) Fields() []model.Field {
	return []model.Field{model.F("name", s.Name)}
}

func (s *External) Label() string { return s.Name.Get() }

// Website is a source that can be looked up online.
type Website struct {
	SourceInfo
	URL *model.Value[string]
}

func newWebsite() *Website {
	return &Website{SourceInfo: newSourceInfo(), URL: model.NewValue[string]()}
}

func (s *Website) TypeName() string { return "Website" }

func (s *Website) Fields() []model.Field {
	return []model.Field{
		model.F("name", s.Name),
		model.F("url", s.URL),
	}
}

func (s *Website) Label() string {
	if name := s.Name.Get(); name != "" {
		return name
	}
	return s.URL.Get()
}
