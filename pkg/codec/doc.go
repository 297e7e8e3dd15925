// Package codec converts container graphs to and from wire trees.
//
// [Deflate] flattens a graph built from [model] containers into a tree of
// nil, scalars, []any and *[wire.Map]. [Inflate] walks such a tree together
// with an empty target of the same static shape and populates it.
//
// # Identity
//
// Objects are identified by pointer. The first time an object is emitted it
// is written in full:
//
//	{"type": "Goal", "fields": {...}}
//
// If the same object is reached again, its definition gains an id and every
// later use site is written as a reference token:
//
//	{"id": "@1", "type": "Goal", "fields": {...}}
//	...
//	"@1"
//
// Ids are assigned in first-reuse order and are scoped to one Deflate call.
// Objects referenced only once carry no id. Deflate works in two passes: the
// first walks the graph and assigns ids, the second emits the final tree, so
// emitted structures are never patched afterwards. Cycles terminate because
// an object already seen is never descended into again.
//
// # Resolution
//
// Inflate keeps one id table per call. A reference token whose object is
// already known is adopted directly, so both slots hold the same pointer. A
// token that appears before its definition is parked and resolved when the
// object carrying that id is inflated. An object is registered under its id
// before its own fields are inflated, which lets cyclic back-references
// resolve. Tokens still parked when the walk ends fail the whole call with
// UNRESOLVED_REFERENCE.
//
// All inflate errors carry the wire path of the offending node, e.g.
// "$.fields.mountains[0].fields.name".
package codec
