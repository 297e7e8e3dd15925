package model_test

import (
	"github.com/matzehuels/expedition/pkg/model"
)

// A is a minimal concrete object with one scalar field.
type A struct {
	Foo *model.Value[string]
}

func newA() *A { return &A{Foo: model.NewValue[string]()} }

func (a *A) TypeName() string { return "A" }

func (a *A) Fields() []model.Field {
	return []model.Field{model.F("foo", a.Foo)}
}

var typeA = model.NewType("A", newA)

// Shape is an abstraction with two implementations.
type Shape interface {
	model.Object
	Area() float64
}

type Square struct {
	Side *model.Value[float64]
}

func newSquare() *Square { return &Square{Side: model.NewValue[float64]()} }

func (s *Square) TypeName() string { return "Square" }

func (s *Square) Fields() []model.Field {
	return []model.Field{model.F("side", s.Side)}
}

func (s *Square) Area() float64 { return s.Side.Get() * s.Side.Get() }

type Circle struct {
	Radius *model.Value[float64]
}

func newCircle() *Circle { return &Circle{Radius: model.NewValue[float64]()} }

func (c *Circle) TypeName() string { return "Circle" }

func (c *Circle) Fields() []model.Field {
	return []model.Field{model.F("radius", c.Radius)}
}

func (c *Circle) Area() float64 { return 3 * c.Radius.Get() * c.Radius.Get() }

var (
	shapeType  = model.NewAbstraction[Shape]("Shape")
	squareType = model.NewType("Square", newSquare)
	circleType = model.NewType("Circle", newCircle)
)

func init() {
	model.Implement(shapeType, squareType)
	model.Implement(shapeType, circleType)
}
