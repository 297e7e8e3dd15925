package expedition

import (
	"time"

	"github.com/matzehuels/expedition/pkg/model"
)

// Status is a read-only view of an expedition for presentation.
type Status struct {
	Name      string           `json:"name"`
	Mountains []MountainStatus `json:"mountains"`
}

// MountainStatus is the view of a mountain.
type MountainStatus struct {
	Name       string            `json:"name"`
	Reason     string            `json:"reason"`
	Goals      []GoalStatus      `json:"goals"`
	Indicators []IndicatorStatus `json:"indicators"`
}

// GoalStatus is the view of a goal.
type GoalStatus struct {
	Caption     string            `json:"caption"`
	Description string            `json:"description"`
	Criteria    []IndicatorStatus `json:"criteria"`
}

// IndicatorStatus is the view of an indicator. Thresholds are nil when
// unset.
type IndicatorStatus struct {
	Caption     string        `json:"caption"`
	Description string        `json:"description"`
	Ok          *float64      `json:"ok,omitempty"`
	Good        *float64      `json:"good,omitempty"`
	Metric      *MetricStatus `json:"metric,omitempty"`
}

// MetricStatus is the view of a metric. Data lists recorded facts; metrics
// computed from other metrics have none.
type MetricStatus struct {
	Caption     string        `json:"caption"`
	Description string        `json:"description"`
	Kind        string        `json:"kind"`
	Due         bool          `json:"due"`
	Data        []DatumStatus `json:"data"`
}

// DatumStatus is one fact.
type DatumStatus struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// Status builds the view of the expedition at now.
func (e *Expedition) Status(now time.Time) Status {
	s := Status{Name: e.Name.Get(), Mountains: []MountainStatus{}}
	for _, m := range model.Objects(e.Mountains) {
		s.Mountains = append(s.Mountains, m.status(now))
	}
	return s
}

func (m *Mountain) status(now time.Time) MountainStatus {
	s := MountainStatus{
		Name:       m.Name.Get(),
		Reason:     m.Reason.Get(),
		Goals:      []GoalStatus{},
		Indicators: indicatorStatuses(m.Indicators, now),
	}
	for _, g := range model.Objects(m.Goals) {
		s.Goals = append(s.Goals, GoalStatus{
			Caption:     g.Caption.Get(),
			Description: g.Description.Get(),
			Criteria:    indicatorStatuses(g.Criteria, now),
		})
	}
	return s
}

func indicatorStatuses(indicators *model.Many[*model.One[*Indicator]], now time.Time) []IndicatorStatus {
	out := []IndicatorStatus{}
	for _, i := range model.Objects(indicators) {
		s := IndicatorStatus{
			Caption:     i.Caption.Get(),
			Description: i.Description.Get(),
			Ok:          optional(i.Ok),
			Good:        optional(i.Good),
		}
		i.Metric.IfThere(func(m Metric) {
			ms := metricStatus(m, now)
			s.Metric = &ms
		})
		out = append(out, s)
	}
	return out
}

func metricStatus(m Metric, now time.Time) MetricStatus {
	s := MetricStatus{
		Caption:     m.Info().Caption.Get(),
		Description: m.Info().Description.Get(),
		Kind:        m.TypeName(),
		Due:         m.IsDue(now),
		Data:        []DatumStatus{},
	}
	if measured, ok := m.(*Measured); ok {
		for _, d := range model.Objects(measured.Facts) {
			s.Data = append(s.Data, DatumStatus{At: d.At.Get(), Value: d.Value.Get()})
		}
	}
	return s
}

func optional(v *model.Value[float64]) *float64 {
	x, ok := v.Lookup()
	if !ok {
		return nil
	}
	return &x
}
