// Package model provides the typed container primitives that domain object
// graphs are composed of.
//
// # Containers
//
// Every node of a graph is a [Container]:
//
//   - [Value]: at most one scalar (string, float64, int, bool, time.Time)
//   - [One]: at most one owned domain object, possibly polymorphic
//   - [Many]: an ordered sequence of containers of one shape
//   - [Map]: string keys to containers of one shape
//   - [Either]: a tagged union over explicitly named variants
//   - [Formula]: an expression producing a container of one shape
//
// Every container can Clone itself into an empty instance of the same static
// shape. Many and Map rely on this to allocate new slots, Either to switch
// variants, and the codec to allocate targets while inflating.
//
// # Domain Objects
//
// A domain type implements [Object]: it names its concrete type and lists its
// container fields in a fixed order. The field list is the schema the codec
// walks; fields that are not listed are never persisted.
//
//	type Datum struct {
//	    At    *model.Value[time.Time]
//	    Value *model.Value[float64]
//	}
//
//	func (d *Datum) TypeName() string { return "Datum" }
//	func (d *Datum) Fields() []model.Field {
//	    return []model.Field{model.F("at", d.At), model.F("value", d.Value)}
//	}
//
// # Polymorphism
//
// A [Type] registers how to construct a domain type by name. Abstractions
// are types whose concrete instances may be any registered implementation:
//
//	var MetricType = model.NewAbstraction[Metric]("Metric")
//	var MeasuredType = model.NewType("Measured", NewMeasured)
//
//	func init() { model.Implement(MetricType, MeasuredType) }
//
// A One[Metric] then exposes [One.CreateAs] for every implementation and the
// codec writes the concrete type name to the wire.
//
// # Ownership
//
// One, Many and Map own their contents. [One.Point] is the exception: it
// stores an object owned elsewhere in the graph, and the codec preserves
// that shared identity with reference tokens.
//
// # Concurrency
//
// Containers are not safe for concurrent use. Types must be registered
// before documents are inflated, typically from package-level variables and
// init functions.
package model
