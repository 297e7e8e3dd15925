// Package pkg provides the core libraries of expedition.
//
// # Overview
//
// Expedition models a personal goal tracker as a graph of typed objects and
// keeps it as a JSON document. The pkg directory is organized into three
// areas:
//
//  1. [model], [wire] and [codec] - the object-graph engine
//  2. [expedition] - the goal-tracking schema built on it
//  3. [io], [store], [cache] and [render/nodelink] - persistence and output
//
// # Architecture
//
// The typical data flow:
//
//	JSON document (file, Redis or MongoDB)
//	         ↓
//	    [wire] package (ordered tree, reference tokens)
//	         ↓
//	    [codec] package (inflate: ids, forward references, polymorphism)
//	         ↓
//	    [expedition] objects built from [model] containers
//	         ↓
//	    [codec] package (deflate: shared objects stored once)
//	         ↓
//	    [io] / [store] / [render/nodelink]
//
// # Quick Start
//
// Build an expedition where two indicators share one metric, and save it:
//
//	e := expedition.New("Health")
//	m := e.Mountains.Add().Create(func(m *expedition.Mountain) { m.Name.Set("Fitness") })
//	ind := m.Indicators.Add().Create()
//	metric, _ := ind.Metric.CreateAs("Measured")
//	weight := metric.(*expedition.Measured)
//	weight.Caption.Set("Weight")
//	weight.Measure(time.Now(), 80.5)
//
//	g := m.Goals.Add().Create()
//	g.Criteria.Add().Create(func(i *expedition.Indicator) { i.Metric.Point(weight) })
//
//	err := io.ExportJSON(e, "health.json")
//
// The weight metric is written once with an "@1" id; the second indicator
// holds the token "@1". Reading the file back restores a single shared
// metric.
//
// # Main Packages
//
// [model] - Containers (Value, One, Many, Map, Either, Formula) and the type
// registry that maps names to constructors and abstractions to their
// implementations.
//
// [wire] - The JSON-shaped tree: insertion-ordered maps, "@n" reference
// tokens and structural comparison.
//
// [codec] - Deflate turns a graph into a tree and Inflate rebuilds it.
// Identity is per call; nothing is shared between calls.
//
// [errors] - Coded errors for every failure the codec and stores report.
//
// [expedition] - Expedition, Mountain, Goal, Indicator, the Metric family
// and the Source family.
//
// [io] - Indented JSON files.
//
// [store] - Named documents with revision history on disk, Redis or
// MongoDB.
//
// [cache] - Byte cache for rendered graphs (file, Redis or none).
//
// [render/nodelink] - Graphviz drawings of a document's object graph.
//
// [observability] - Hooks for store, cache and render events.
//
// [buildinfo] - Version information set at build time.
//
// [model]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/model
// [wire]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/wire
// [codec]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/codec
// [errors]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/errors
// [expedition]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/expedition
// [io]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/io
// [store]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/cache
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/expedition/pkg/buildinfo
package pkg
