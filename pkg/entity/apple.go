package entity

import "github.com/opd-ai/go-snake/pkg/grid"

// KindApple tags the default food entity.
const KindApple Kind = "apple"

// Apple only occupies a cell; eating it is handled by the caller.
type Apple struct {
	Base
}

// NewApple is the Constructor for apples.
func NewApple(pos grid.Position) Entity {
	return &Apple{Base: NewBase(pos)}
}

// Kind implements Entity.
func (a *Apple) Kind() Kind {
	return KindApple
}
