package expedition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/expedition/pkg/codec"
	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/expedition"
	"github.com/matzehuels/expedition/pkg/model"
	"github.com/matzehuels/expedition/pkg/wire"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// sample builds an expedition where one measured metric is shared by an
// indicator and a goal criterion.
func sample(t *testing.T) (*expedition.Expedition, *expedition.Measured) {
	t.Helper()
	e := expedition.New("Foo")
	m := e.Mountains.Add().Create(func(m *expedition.Mountain) {
		m.Name.Set("Bar")
		m.Reason.Set("Because foo")
	})

	ind := m.Indicators.Add().Create(func(i *expedition.Indicator) {
		i.Caption.Set("Be Foo")
		i.Ok.Set(12)
		i.Good.Set(24)
	})
	metric, err := ind.Metric.CreateAs("Measured", func(me expedition.Metric) {
		me.Info().Caption.Set("Weight")
	})
	require.NoError(t, err)
	weight := metric.(*expedition.Measured)
	_, err = weight.Source.CreateAs("Website", func(s expedition.Source) {
		s.(*expedition.Website).URL.Set("example.com")
	})
	require.NoError(t, err)
	weight.Measure(day("2020-11-12"), 0)
	weight.Measure(day("2020-11-13"), 18)

	g := m.Goals.Add().Create(func(g *expedition.Goal) { g.Caption.Set("Goal one") })
	g.Criteria.Add().Create(func(i *expedition.Indicator) {
		i.Caption.Set("Still Foo")
		i.Metric.Point(weight)
	})
	return e, weight
}

func TestStatus(t *testing.T) {
	e, _ := sample(t)
	s := e.Status(day("2020-11-14"))

	require.Equal(t, "Foo", s.Name)
	require.Len(t, s.Mountains, 1)
	mountain := s.Mountains[0]
	require.Equal(t, "Because foo", mountain.Reason)

	ind := mountain.Indicators[0]
	require.Equal(t, 12.0, *ind.Ok)
	require.Equal(t, 24.0, *ind.Good)
	require.NotNil(t, ind.Metric)
	require.Equal(t, "Measured", ind.Metric.Kind)
	require.Equal(t, []expedition.DatumStatus{
		{At: day("2020-11-12"), Value: 0},
		{At: day("2020-11-13"), Value: 18},
	}, ind.Metric.Data)

	crit := mountain.Goals[0].Criteria[0]
	require.Nil(t, crit.Ok)
	require.Equal(t, "Weight", crit.Metric.Caption)
}

func TestEmptyStatus(t *testing.T) {
	s := expedition.New("Foo").Status(time.Now())
	require.Equal(t, expedition.Status{Name: "Foo", Mountains: []expedition.MountainStatus{}}, s)
}

func TestMetricsAreUnique(t *testing.T) {
	e, weight := sample(t)
	metrics := e.Metrics()
	require.Len(t, metrics, 1)
	require.Same(t, weight, metrics[0])

	found, ok := e.FindMetric("weight")
	require.True(t, ok)
	require.Same(t, weight, found)

	_, ok = e.FindMetric("height")
	require.False(t, ok)
}

func TestIsDue(t *testing.T) {
	m, err := expedition.MeasuredType.New("Measured")
	require.NoError(t, err)

	now := day("2020-11-20")
	require.False(t, m.IsDue(now), "no frequency means never due")

	m.SetFrequency(48 * time.Hour)
	require.Equal(t, 48*time.Hour, m.Every())
	require.True(t, m.IsDue(now), "no facts means due")

	m.Measure(day("2020-11-19"), 1)
	require.False(t, m.IsDue(now))

	m.Measure(day("2020-11-17"), 2)
	require.True(t, m.IsDue(now), "the last fact counts, not the latest date")
}

func TestDueMetrics(t *testing.T) {
	e, weight := sample(t)
	now := day("2020-11-20")
	require.Empty(t, e.DueMetrics(now))

	weight.SetFrequency(24 * time.Hour)
	due := e.DueMetrics(now)
	require.Len(t, due, 1)
	require.Same(t, weight, due[0])
}

func TestDatumOn(t *testing.T) {
	_, weight := sample(t)

	d, ok := weight.DatumOn(day("2020-11-12"))
	require.True(t, ok)
	require.Equal(t, 0.0, d.Value.Get())

	d, ok = weight.DatumOn(day("2020-12-01"))
	require.True(t, ok)
	require.Equal(t, 18.0, d.Value.Get())

	_, ok = weight.DatumOn(day("2020-01-01"))
	require.False(t, ok)
}

func TestDerived(t *testing.T) {
	weight, err := expedition.MeasuredType.New("Measured")
	require.NoError(t, err)
	weight.Info().Caption.Set("Weight")
	weight.Measure(day("2020-01-01"), 81)

	height, err := expedition.MeasuredType.New("Measured")
	require.NoError(t, err)
	height.Measure(day("2019-06-01"), 1.8)

	bmi := expedition.DerivedType.Create()
	bmi.Caption.Set("BMI")
	bmi.Inputs.Put("w").Point(weight)
	bmi.Inputs.Put("h").Point(height)
	require.NoError(t, bmi.Formula.Set("w / (h * h)"))

	require.Equal(t, []expedition.Metric{bmi, weight, height}, expedition.Dependencies(bmi))
	require.Equal(t, []expedition.Metric{weight, height}, bmi.Reads())
	require.False(t, expedition.ReadsItself(bmi))

	v, err := bmi.Evaluate(day("2020-02-01"))
	require.NoError(t, err)
	require.InDelta(t, 25.0, v.Get(), 0.01)

	_, err = bmi.Evaluate(day("2019-12-01"))
	require.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)
}

func TestRoundTrip(t *testing.T) {
	e, _ := sample(t)

	smoothed := e.Mountains.At(0).MustGet().Indicators.Add().Create()
	_, err := smoothed.Metric.CreateAs("Smoothed", func(m expedition.Metric) {
		s := m.(*expedition.Smoothed)
		s.Window.Set(7 * 24 * 3600 * 1000)
		weight, _ := e.FindMetric("Weight")
		s.Input.Point(weight)
	})
	require.NoError(t, err)

	flat := codec.DeflateObject(e)
	data, err := wire.Marshal(flat)
	require.NoError(t, err)
	reread, err := wire.Unmarshal(data)
	require.NoError(t, err)

	back, err := codec.InflateObject(reread, expedition.ExpeditionType)
	require.NoError(t, err)
	require.True(t, wire.Equal(flat, codec.DeflateObject(back)))

	mountain := back.Mountains.At(0).MustGet()
	shared := mountain.Indicators.At(0).MustGet().Metric.MustGet()
	require.IsType(t, &expedition.Measured{}, shared)
	require.Same(t, shared, mountain.Goals.At(0).MustGet().Criteria.At(0).MustGet().Metric.MustGet())

	smooth := mountain.Indicators.At(1).MustGet().Metric.MustGet().(*expedition.Smoothed)
	require.Same(t, shared, smooth.Input.MustGet())

	source := shared.(*expedition.Measured).Source.MustGet()
	require.Equal(t, "example.com", source.Label())
	require.Len(t, back.Metrics(), 2)
}

func TestCyclicMetrics(t *testing.T) {
	t.Run("self", func(t *testing.T) {
		doc := `{"type": "Expedition", "fields": {"name": "Loop", "mountains": [
		  {"type": "Mountain", "fields": {"name": "M", "goals": [], "indicators": [
		    {"type": "Indicator", "fields": {"caption": "i",
		      "metric": {"id": "@1", "type": "Smoothed", "fields": {"caption": "s", "input": "@1"}}}}
		  ]}}
		]}}`
		tree, err := wire.Unmarshal([]byte(doc))
		require.NoError(t, err)
		e, err := codec.InflateObject(tree, expedition.ExpeditionType)
		require.NoError(t, err)
		flat := codec.DeflateObject(e)
		again, err := codec.InflateObject(flat, expedition.ExpeditionType)
		require.NoError(t, err)
		require.True(t, wire.Equal(flat, codec.DeflateObject(again)))

		metrics := e.Metrics()
		require.Len(t, metrics, 1)
		s := metrics[0].(*expedition.Smoothed)
		require.Same(t, s, s.Input.MustGet())
		require.True(t, expedition.ReadsItself(s))
		require.Equal(t, []expedition.Metric{s}, expedition.Dependencies(s))
		require.Empty(t, e.DueMetrics(day("2020-01-01")))
		require.Len(t, e.Status(day("2020-01-01")).Mountains[0].Indicators, 1)
	})

	t.Run("derived and smoothed", func(t *testing.T) {
		e := expedition.New("Loop")
		ind := e.Mountains.Add().Create().Indicators.Add().Create()
		derived := ind.Metric.Point(expedition.DerivedType.Create()).(*expedition.Derived)
		derived.Caption.Set("d")
		smoothed := expedition.SmoothedType.Create()
		smoothed.Caption.Set("s")
		smoothed.Input.Point(derived)
		derived.Inputs.Put("x").Point(smoothed)

		require.Equal(t, []expedition.Metric{derived, smoothed}, e.Metrics())
		require.Equal(t, []expedition.Metric{smoothed, derived}, expedition.Dependencies(smoothed))
		require.True(t, expedition.ReadsItself(derived))
		require.True(t, expedition.ReadsItself(smoothed))
		require.Empty(t, e.DueMetrics(day("2020-01-01")))

		back, err := codec.InflateObject(codec.DeflateObject(e), expedition.ExpeditionType)
		require.NoError(t, err)
		require.Len(t, back.Metrics(), 2)
	})
}

func TestMetricConstructors(t *testing.T) {
	one := model.NewOne(expedition.MetricType)
	require.Equal(t, []string{"Measured", "Derived", "Smoothed", "Chunked"}, one.Constructors())

	src := model.NewOne(expedition.SourceType)
	require.Equal(t, []string{"External", "Website"}, src.Constructors())
}
