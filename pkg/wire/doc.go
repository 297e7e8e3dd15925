// Package wire defines the JSON-shaped tree that container graphs are
// deflated into and inflated from.
//
// # Tree Values
//
// A wire tree is built from a closed set of Go values:
//
//   - nil: an unset Value, One, Formula or an unpicked Either's content
//   - string, bool, float64 (and int on the deflate side): scalars
//   - []any: an ordered array (a Many)
//   - *Map: a string-keyed object that remembers key order
//
// [Map] keeps insertion order so that documents are written with fields in
// schema order and Map containers keep their key order across a round trip.
//
// # Document Shapes
//
// Generic objects and Either unions have fixed shapes:
//
//	{"id": "@1", "type": "Measured", "fields": {"caption": "Weight"}}
//	{"picked": "text", "object": "tomorrow"}
//
// The id key is only present on objects that are referenced more than once.
// Every other occurrence of the same object is the bare reference token:
//
//	"@1"
//
// Tokens are "@" followed by a positive decimal number, see [Ref] and
// [ParseRef].
//
// # Encoding
//
// [Marshal] and [Write] produce UTF-8 JSON indented by two spaces without
// HTML escaping. [Unmarshal] and [Read] decode JSON into a tree, building a
// *Map for every JSON object so key order is preserved. Numbers decode as
// float64.
//
// # Comparison
//
// [Equal] and [Diff] compare two trees structurally. Object key order is
// ignored and numbers compare by value, so an int 3 equals a float64 3.
package wire
