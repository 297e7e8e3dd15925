package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/expedition/pkg/codec"
	"github.com/matzehuels/expedition/pkg/model"
	"github.com/matzehuels/expedition/pkg/wire"
)

// X is the plain shared object of the identity tests.
type X struct {
	Name *model.Value[string]
}

func (x *X) TypeName() string { return "X" }

func (x *X) Fields() []model.Field {
	return []model.Field{model.F("name", x.Name)}
}

var typeX = model.NewType("X", func() *X { return &X{Name: model.NewValue[string]()} })

type Pair struct {
	First  *model.One[*X]
	Second *model.One[*X]
}

func (p *Pair) TypeName() string { return "Pair" }

func (p *Pair) Fields() []model.Field {
	return []model.Field{model.F("first", p.First), model.F("second", p.Second)}
}

var typePair = model.NewType("Pair", func() *Pair {
	return &Pair{First: model.NewOne(typeX), Second: model.NewOne(typeX)}
})

type Triple struct {
	A, B, C *model.One[*X]
}

func (t *Triple) TypeName() string { return "Triple" }

func (t *Triple) Fields() []model.Field {
	return []model.Field{model.F("a", t.A), model.F("b", t.B), model.F("c", t.C)}
}

var typeTriple = model.NewType("Triple", func() *Triple {
	return &Triple{A: model.NewOne(typeX), B: model.NewOne(typeX), C: model.NewOne(typeX)}
})

// Shelves holds objects only inside sequences.
type Shelves struct {
	Left  *model.Many[*model.One[*X]]
	Right *model.Many[*model.One[*X]]
}

func (s *Shelves) TypeName() string { return "Shelves" }

func (s *Shelves) Fields() []model.Field {
	return []model.Field{model.F("left", s.Left), model.F("right", s.Right)}
}

var typeShelves = model.NewType("Shelves", func() *Shelves {
	return &Shelves{Left: model.ManyOf(typeX), Right: model.ManyOf(typeX)}
})

// Node links to other nodes and may form cycles.
type Node struct {
	Name     *model.Value[string]
	Next     *model.One[*Node]
	Children *model.Many[*model.One[*Node]]
}

func (n *Node) TypeName() string { return "Node" }

func (n *Node) Fields() []model.Field {
	return []model.Field{model.F("name", n.Name), model.F("next", n.Next), model.F("children", n.Children)}
}

var typeNode = model.NewAbstraction[*Node]("NodeBase")

func newNode() *Node {
	return &Node{
		Name:     model.NewValue[string](),
		Next:     model.NewOne(typeNode),
		Children: model.ManyOf(typeNode),
	}
}

// Shape and its implementations exercise polymorphic slots.
type Shape interface {
	model.Object
	Area() float64
}

type Square struct{ Side *model.Value[float64] }

func (s *Square) TypeName() string { return "Square" }

func (s *Square) Fields() []model.Field { return []model.Field{model.F("side", s.Side)} }

func (s *Square) Area() float64 { return s.Side.Get() * s.Side.Get() }

type Circle struct{ Radius *model.Value[float64] }

func (c *Circle) TypeName() string { return "Circle" }

func (c *Circle) Fields() []model.Field { return []model.Field{model.F("radius", c.Radius)} }

func (c *Circle) Area() float64 { return 3.14159 * c.Radius.Get() * c.Radius.Get() }

var (
	typeShape  = model.NewAbstraction[Shape]("Shape")
	typeSquare = model.NewType("Square", func() *Square { return &Square{Side: model.NewValue[float64]()} })
	typeCircle = model.NewType("Circle", func() *Circle { return &Circle{Radius: model.NewValue[float64]()} })
)

type Drawing struct {
	Main   *model.One[Shape]
	Extras *model.Many[*model.One[Shape]]
}

func (d *Drawing) TypeName() string { return "Drawing" }

func (d *Drawing) Fields() []model.Field {
	return []model.Field{model.F("main", d.Main), model.F("extras", d.Extras)}
}

var typeDrawing = model.NewType("Drawing", func() *Drawing {
	return &Drawing{Main: model.NewOne(typeShape), Extras: model.ManyOf(typeShape)}
})

// Everything has one field of every container kind.
type Everything struct {
	Text    *model.Value[string]
	Count   *model.Value[int]
	Ratio   *model.Value[float64]
	Flag    *model.Value[bool]
	At      *model.Value[time.Time]
	Tags    *model.Many[*model.Value[string]]
	Scores  *model.Map[*model.Value[float64]]
	Choice  *model.Either
	Rule    *model.Formula[*model.Value[float64]]
	Friends *model.Map[*model.One[*X]]
}

func (e *Everything) TypeName() string { return "Everything" }

func (e *Everything) Fields() []model.Field {
	return []model.Field{
		model.F("text", e.Text),
		model.F("count", e.Count),
		model.F("ratio", e.Ratio),
		model.F("flag", e.Flag),
		model.F("at", e.At),
		model.F("tags", e.Tags),
		model.F("scores", e.Scores),
		model.F("choice", e.Choice),
		model.F("rule", e.Rule),
		model.F("friends", e.Friends),
	}
}

var typeEverything = model.NewType("Everything", func() *Everything {
	return &Everything{
		Text:   model.NewValue[string](),
		Count:  model.NewValue[int](),
		Ratio:  model.NewValue[float64](),
		Flag:   model.NewValue[bool](),
		At:     model.NewValue[time.Time](),
		Tags:   model.NewMany(model.NewValue[string]()),
		Scores: model.NewMap(model.NewValue[float64]()),
		Choice: model.NewEither(
			model.Variant{Name: "x", Shape: model.NewOne(typeX)},
			model.Variant{Name: "note", Shape: model.NewValue[string]()},
		),
		Rule:    model.NewFormula(model.NewValue[float64]()),
		Friends: model.MapOf(typeX),
	}
})

func init() {
	model.Extend(typeNode, "Node", newNode)
	model.Implement(typeShape, typeSquare)
	model.Implement(typeShape, typeCircle)
}

func newX(name string) *X {
	x := typeX.Create()
	x.Name.Set(name)
	return x
}

// tree parses a JSON literal into a wire tree.
func tree(t *testing.T, doc string) any {
	t.Helper()
	v, err := wire.Unmarshal([]byte(doc))
	require.NoError(t, err)
	return v
}

// requireTree fails unless got is structurally equal to the JSON literal.
func requireTree(t *testing.T, want string, got any) {
	t.Helper()
	path, same := wire.Diff(tree(t, want), got)
	if !same {
		data, _ := wire.Marshal(got)
		require.Failf(t, "wire trees differ", "first difference at %s, got:\n%s", path, data)
	}
}

// roundTrip deflates obj, inflates the result into a fresh object of typ and
// checks that deflating again yields the same tree.
func roundTrip[T model.Object](t *testing.T, obj T, typ *model.Type[T]) T {
	t.Helper()
	flat := codec.DeflateObject(obj)

	data, err := wire.Marshal(flat)
	require.NoError(t, err)
	reread, err := wire.Unmarshal(data)
	require.NoError(t, err)

	back, err := codec.InflateObject(reread, typ)
	require.NoError(t, err)

	again := codec.DeflateObject(back)
	path, same := wire.Diff(flat, again)
	require.Truef(t, same, "round trip changed the tree at %s", path)
	return back
}
