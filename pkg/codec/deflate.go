package codec

import (
	"time"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/model"
	"github.com/matzehuels/expedition/pkg/wire"
)

// Deflate flattens the graph rooted at root into a wire tree.
//
// Deflate is total over well-formed graphs. A container that implements none
// of the kernel's codec interfaces is a schema defect and makes it panic
// with an INTERNAL_ERROR.
func Deflate(root model.Container) any {
	d := newDeflater()
	d.plan(root)
	return d.emit(root)
}

// DeflateObject flattens a single root object. The root takes part in
// identity tracking, so fields pointing back at it become references.
func DeflateObject(obj model.Object) any {
	if obj == nil {
		return nil
	}
	d := newDeflater()
	d.planObject(obj)
	return d.emitObject(obj)
}

// deflater holds the identity registry of one Deflate call.
type deflater struct {
	seen    map[model.Object]bool // pass one: objects already walked
	ids     map[model.Object]int  // objects reached more than once
	next    int
	emitted map[model.Object]bool // pass two: objects already written in full
}

func newDeflater() *deflater {
	return &deflater{
		seen:    make(map[model.Object]bool),
		ids:     make(map[model.Object]int),
		emitted: make(map[model.Object]bool),
	}
}

// plan walks c in emission order and assigns ids to every object reached a
// second time.
func (d *deflater) plan(c model.Container) {
	switch c := c.(type) {
	case model.ScalarSlot, model.Expression:
	case model.ObjectSlot:
		if obj, ok := c.Object(); ok {
			d.planObject(obj)
		}
	case model.Sequence:
		for _, s := range c.Slots() {
			d.plan(s)
		}
	case model.Dictionary:
		for _, k := range c.Keys() {
			s, _ := c.Slot(k)
			d.plan(s)
		}
	case model.Union:
		if active := c.Active(); active != nil {
			d.plan(active)
		}
	default:
		panic(unknownKind(c))
	}
}

func (d *deflater) planObject(obj model.Object) {
	if d.seen[obj] {
		if d.ids[obj] == 0 {
			d.next++
			d.ids[obj] = d.next
		}
		return
	}
	d.seen[obj] = true
	for _, f := range obj.Fields() {
		d.plan(f.Container)
	}
}

// emit produces the wire form of c using the completed id table.
func (d *deflater) emit(c model.Container) any {
	switch c := c.(type) {
	case model.ScalarSlot:
		v, ok := c.Scalar()
		if !ok {
			return nil
		}
		if t, isTime := v.(time.Time); isTime {
			return model.FormatInstant(t)
		}
		return v
	case model.Expression:
		if src := c.Source(); src != "" {
			return src
		}
		return nil
	case model.ObjectSlot:
		obj, ok := c.Object()
		if !ok {
			return nil
		}
		return d.emitObject(obj)
	case model.Sequence:
		slots := c.Slots()
		out := make([]any, len(slots))
		for i, s := range slots {
			out[i] = d.emit(s)
		}
		return out
	case model.Dictionary:
		out := wire.NewMap()
		for _, k := range c.Keys() {
			s, _ := c.Slot(k)
			out.Set(k, d.emit(s))
		}
		return out
	case model.Union:
		name, ok := c.Picked()
		if !ok {
			return wire.Choice(nil, nil)
		}
		return wire.Choice(&name, d.emit(c.Active()))
	}
	panic(unknownKind(c))
}

func (d *deflater) emitObject(obj model.Object) any {
	id := d.ids[obj]
	if d.emitted[obj] {
		return wire.Ref(id)
	}
	d.emitted[obj] = true

	fields := wire.NewMap()
	for _, f := range obj.Fields() {
		fields.Set(f.Name, d.emit(f.Container))
	}
	var ref string
	if id > 0 {
		ref = wire.Ref(id)
	}
	return wire.Object(ref, obj.TypeName(), fields)
}

func unknownKind(c model.Container) error {
	if c == nil {
		return errs.New(errs.ErrCodeInternal, "cannot deflate a nil container")
	}
	return errs.New(errs.ErrCodeInternal, "cannot deflate %T (%s)", c, c.Description())
}
