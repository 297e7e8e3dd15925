package expedition

import (
	"strings"
	"time"

	"github.com/matzehuels/expedition/pkg/model"
)

// Metrics returns every metric reachable from the expedition, each once, in
// document order. Metrics that read each other in a cycle are still listed
// once.
func (e *Expedition) Metrics() []Metric {
	seen := map[Metric]bool{}
	var all []Metric
	for _, m := range model.Objects(e.Mountains) {
		all = m.collect(all, seen)
	}
	return all
}

// DueMetrics returns the metrics that need a new fact at now.
func (e *Expedition) DueMetrics(now time.Time) []Metric {
	var due []Metric
	for _, m := range e.Metrics() {
		if m.IsDue(now) {
			due = append(due, m)
		}
	}
	return due
}

// FindMetric returns the first metric whose caption matches caption,
// ignoring case.
func (e *Expedition) FindMetric(caption string) (Metric, bool) {
	for _, m := range e.Metrics() {
		if strings.EqualFold(m.Info().Caption.Get(), caption) {
			return m, true
		}
	}
	return nil, false
}

// Metrics returns the metrics of the mountain's goals and indicators.
func (m *Mountain) Metrics() []Metric {
	return m.collect(nil, map[Metric]bool{})
}

func (m *Mountain) collect(out []Metric, seen map[Metric]bool) []Metric {
	for _, g := range model.Objects(m.Goals) {
		out = g.collect(out, seen)
	}
	for _, i := range model.Objects(m.Indicators) {
		out = i.collect(out, seen)
	}
	return out
}

// Metrics returns the metrics of the goal's criteria.
func (g *Goal) Metrics() []Metric {
	return g.collect(nil, map[Metric]bool{})
}

func (g *Goal) collect(out []Metric, seen map[Metric]bool) []Metric {
	for _, i := range model.Objects(g.Criteria) {
		out = i.collect(out, seen)
	}
	return out
}

// Metrics returns the indicator's metric and its dependencies.
func (i *Indicator) Metrics() []Metric {
	return i.collect(nil, map[Metric]bool{})
}

func (i *Indicator) collect(out []Metric, seen map[Metric]bool) []Metric {
	if m, ok := i.Metric.Get(); ok {
		out = collect(out, seen, m)
	}
	return out
}
