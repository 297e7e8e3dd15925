package model

// Object is a domain-defined structure whose persistent state lives in
// container fields. Implementations must be pointer types: the codec uses
// pointer identity to detect shared references.
type Object interface {
	// TypeName returns the concrete type tag written to the wire.
	TypeName() string

	// Fields returns the container fields in schema order.
	Fields() []Field
}

// Field is one named container of an object's schema.
type Field struct {
	Name      string
	Container Container
}

// F builds a Field.
func F(name string, c Container) Field {
	return Field{Name: name, Container: c}
}

// FieldByName returns the container of the named field.
func FieldByName(obj Object, name string) (Container, bool) {
	for _, f := range obj.Fields() {
		if f.Name == name {
			return f.Container, true
		}
	}
	return nil, false
}
