// Package chain is a fixture for source extraction: a generic embedding
// chain whose type arguments are fixed at different depths.
package chain

type Base[A, B any] struct {
	First  A
	second B
}

func (b *Base[A, B]) GetFirst() A { return b.First }

// Put renames the receiver's type parameters.
func (b *Base[X, Y]) Put(a X, c Y) error {
	b.First, b.second = a, c
	return nil
}

func (b *Base[A, B]) Pairs() []Base[B, A] { return nil }

type Mid[X any] struct {
	Base[X, string]
	Label string
}

func (m Mid[X]) Middle() X { return m.First }

type Leaf struct {
	Mid[int32]
	Named
	weight *float64
}

func NewLeaf(label string, count int) *Leaf {
	return &Leaf{Mid: Mid[int32]{Label: label}}
}

type Named interface {
	Name() string
}

type Source[T any] interface {
	Next() (T, error)
}

type Pipe struct {
	Source[string]
	Buffer []int64
}

type Celsius float64

func (c Celsius) Kelvin() float64 { return float64(c) + 273.15 }
