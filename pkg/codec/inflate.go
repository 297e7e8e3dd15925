package codec

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	errs "github.com/matzehuels/expedition/pkg/errors"
	"github.com/matzehuels/expedition/pkg/model"
	"github.com/matzehuels/expedition/pkg/wire"
)

// Option configures an Inflate call.
type Option func(*options)

type options struct {
	strictFields bool
}

// DisallowUnknownFields makes Inflate fail with MALFORMED_DOCUMENT when an
// object carries a field its schema does not declare. By default such
// fields are ignored, so documents written by newer schemas still load.
func DisallowUnknownFields() Option {
	return func(o *options) { o.strictFields = true }
}

// Inflate populates target from the wire tree flat and returns it.
//
// target must be an empty container with the static shape flat was deflated
// from. On error target may be partially populated and should be discarded.
func Inflate(flat any, target model.Container, opts ...Option) (model.Container, error) {
	in := newInflater(opts)
	if err := in.inflate(flat, target, "$"); err != nil {
		return nil, err
	}
	if err := in.finish(); err != nil {
		return nil, err
	}
	return target, nil
}

// InflateObject inflates a root object of type typ. The tree's type tag may
// name any implementation registered for typ.
func InflateObject[T model.Object](flat any, typ *model.Type[T], opts ...Option) (T, error) {
	var zero T
	if flat == nil {
		return zero, errs.New(errs.ErrCodeMalformedDocument, "document is empty").At("$")
	}
	root := model.NewOne(typ)
	if _, err := Inflate(flat, root, opts...); err != nil {
		return zero, err
	}
	obj, ok := root.Get()
	if !ok {
		return zero, errs.New(errs.ErrCodeMalformedDocument, "document does not hold a %s", typ.Name()).At("$")
	}
	return obj, nil
}

// pending is a reference waiting for its object.
type pending struct {
	path  string
	adopt func(model.Object) error
}

// inflater holds the read-side identity registry of one Inflate call.
type inflater struct {
	opts    options
	byID    map[string]model.Object
	pending map[string][]pending
}

func newInflater(opts []Option) *inflater {
	in := &inflater{
		byID:    make(map[string]model.Object),
		pending: make(map[string][]pending),
	}
	for _, opt := range opts {
		opt(&in.opts)
	}
	return in
}

func (in *inflater) inflate(flat any, target model.Container, path string) error {
	switch c := target.(type) {
	case model.ScalarSlot:
		return in.inflateScalar(flat, c, path)
	case model.Expression:
		return in.inflateExpression(flat, c, path)
	case model.ObjectSlot:
		return in.inflateSlot(flat, c, path)
	case model.Sequence:
		return in.inflateSequence(flat, c, path)
	case model.Dictionary:
		return in.inflateDictionary(flat, c, path)
	case model.Union:
		return in.inflateUnion(flat, c, path)
	}
	if target == nil {
		return errs.New(errs.ErrCodeInternal, "cannot inflate into a nil container").At(path)
	}
	return errs.New(errs.ErrCodeInternal, "cannot inflate into %T (%s)", target, target.Description()).At(path)
}

func (in *inflater) inflateScalar(flat any, slot model.ScalarSlot, path string) error {
	switch flat.(type) {
	case []any, *wire.Map, map[string]any:
		return malformed(path, slot, flat)
	}
	return at(slot.SetScalar(flat), path)
}

func (in *inflater) inflateExpression(flat any, expr model.Expression, path string) error {
	switch src := flat.(type) {
	case nil:
		return expr.Set("")
	case string:
		return at(expr.Set(src), path)
	}
	return malformed(path, expr, flat)
}

func (in *inflater) inflateSlot(flat any, slot model.ObjectSlot, path string) error {
	switch v := flat.(type) {
	case nil:
		slot.Clear()
		return nil
	case string:
		if !wire.IsRef(v) {
			return errs.New(errs.ErrCodeMalformedDocument,
				"%q is neither an object nor a reference token for %s", v, slot.Description()).At(path)
		}
		return in.resolve(v, slot, path)
	}

	m, ok := asMap(flat)
	if !ok {
		return malformed(path, slot, flat)
	}
	return in.inflateObject(m, slot, path)
}

// resolve adopts the object behind token into slot, or parks the slot until
// the object turns up.
func (in *inflater) resolve(token string, slot model.ObjectSlot, path string) error {
	if obj, ok := in.byID[token]; ok {
		return at(slot.Adopt(obj), path)
	}
	in.pending[token] = append(in.pending[token], pending{
		path:  path,
		adopt: slot.Adopt,
	})
	return nil
}

func (in *inflater) inflateObject(m *wire.Map, slot model.ObjectSlot, path string) error {
	tagValue, _ := m.Get(wire.KeyType)
	tag, ok := tagValue.(string)
	if !ok || tag == "" {
		return errs.New(errs.ErrCodeMalformedDocument, "object has no type tag").At(path)
	}
	obj, err := slot.Instantiate(tag)
	if err != nil {
		return at(err, path+"."+wire.KeyType)
	}
	if err := slot.Adopt(obj); err != nil {
		return at(err, path)
	}

	if idValue, ok := m.Get(wire.KeyID); ok && idValue != nil {
		id, ok := idValue.(string)
		if !ok || !wire.IsRef(id) {
			return errs.New(errs.ErrCodeMalformedDocument, "object id %v is not a reference token", idValue).
				At(path + "." + wire.KeyID)
		}
		if err := in.register(id, obj, path); err != nil {
			return err
		}
	}

	fieldsValue, _ := m.Get(wire.KeyFields)
	if fieldsValue == nil {
		return nil
	}
	fields, ok := asMap(fieldsValue)
	if !ok {
		return errs.New(errs.ErrCodeMalformedDocument, "fields of %s must be an object, got %s", tag, describe(fieldsValue)).
			At(path + "." + wire.KeyFields)
	}
	for _, name := range fields.Keys() {
		fieldPath := path + "." + wire.KeyFields + "." + name
		c, ok := model.FieldByName(obj, name)
		if !ok {
			if in.opts.strictFields {
				return errs.New(errs.ErrCodeMalformedDocument, "%s has no field %q", tag, name).At(fieldPath)
			}
			continue
		}
		v, _ := fields.Get(name)
		if err := in.inflate(v, c, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

// register records obj under id and fulfils the references parked on it.
func (in *inflater) register(id string, obj model.Object, path string) error {
	if _, dup := in.byID[id]; dup {
		return errs.New(errs.ErrCodeMalformedDocument, "id %s is defined twice", id).At(path + "." + wire.KeyID)
	}
	in.byID[id] = obj
	for _, p := range in.pending[id] {
		if err := p.adopt(obj); err != nil {
			return at(err, p.path)
		}
	}
	delete(in.pending, id)
	return nil
}

func (in *inflater) inflateSequence(flat any, seq model.Sequence, path string) error {
	seq.Reset()
	if flat == nil {
		return nil
	}
	items, ok := flat.([]any)
	if !ok {
		return malformed(path, seq, flat)
	}
	for i, item := range items {
		if err := in.inflate(item, seq.AppendSlot(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (in *inflater) inflateDictionary(flat any, dict model.Dictionary, path string) error {
	dict.Reset()
	if flat == nil {
		return nil
	}
	m, ok := asMap(flat)
	if !ok {
		return malformed(path, dict, flat)
	}
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if err := in.inflate(v, dict.PutSlot(k), path+"."+k); err != nil {
			return err
		}
	}
	return nil
}

func (in *inflater) inflateUnion(flat any, u model.Union, path string) error {
	u.Unpick()
	m, ok := asMap(flat)
	if !ok {
		return malformed(path, u, flat)
	}
	pickedValue, _ := m.Get(wire.KeyPicked)
	switch name := pickedValue.(type) {
	case nil:
		return nil
	case string:
		active, err := u.Pick(name)
		if err != nil {
			return at(err, path+"."+wire.KeyPicked)
		}
		object, _ := m.Get(wire.KeyObject)
		return in.inflate(object, active, path+"."+wire.KeyObject)
	default:
		return errs.New(errs.ErrCodeMalformedDocument, "picked must be a string or null, got %s", describe(pickedValue)).
			At(path + "." + wire.KeyPicked)
	}
}

// finish fails if any reference is still waiting for its object.
func (in *inflater) finish() error {
	if len(in.pending) == 0 {
		return nil
	}
	tokens := make([]string, 0, len(in.pending))
	for t := range in.pending {
		tokens = append(tokens, t)
	}
	slices.SortFunc(tokens, func(a, b string) int {
		na, _ := wire.ParseRef(a)
		nb, _ := wire.ParseRef(b)
		return na - nb
	})
	first := in.pending[tokens[0]][0]
	return errs.New(errs.ErrCodeUnresolvedReference, "no object defines %s", strings.Join(tokens, ", ")).At(first.path)
}

// asMap accepts the ordered wire map and, for hand-built trees, a plain Go
// map whose keys are then visited in sorted order.
func asMap(v any) (*wire.Map, bool) {
	switch m := v.(type) {
	case *wire.Map:
		return m, m != nil
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		out := wire.NewMap()
		for _, k := range keys {
			out.Set(k, m[k])
		}
		return out, true
	}
	return nil, false
}

func malformed(path string, c model.Container, flat any) error {
	return errs.New(errs.ErrCodeMalformedDocument, "expected %s, got %s", c.Description(), describe(flat)).At(path)
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", v)
	case bool:
		return "boolean"
	case []any:
		return "array"
	case *wire.Map, map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// at stamps path on a structured error that has none yet. Other errors are
// wrapped as MALFORMED_DOCUMENT.
func at(err error, path string) error {
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) {
		if e.Path == "" {
			e.At(path)
		}
		return err
	}
	return errs.Wrap(errs.ErrCodeMalformedDocument, err, "invalid value").At(path)
}
