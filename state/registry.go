package state

import (
	"github.com/udzura/purua-old/object"
)

// The Registry is the flat value stack shared by every call: arguments,
// return values, and block-scoped locals all live here, indexed by
// absolute position below the Top cursor.
type Registry struct {
	Array   []object.Object
	Top     int
	MaxSize int
}

func NewRegistry(size int) *Registry {
	return &Registry{Array: make([]object.Object, 0, size), Top: 0, MaxSize: size}
}

// Push appends a value and returns the new top. Running out of
// configured capacity is a reported error, never a silent truncation.
func (r *Registry) Push(value object.Object) (int, *object.Error) {
	if r.Top >= r.MaxSize {
		return r.Top, object.CreateErr("state/registry/overflow", r.MaxSize)
	}
	r.Array = append(r.Array, value)
	r.Top++
	return r.Top, nil
}

func (r *Registry) Pop() (object.Object, bool) {
	if r.Top == 0 {
		return nil, false
	}
	r.Top--
	value := r.Array[r.Top]
	r.Array = r.Array[:r.Top]
	return value, true
}

func (r *Registry) EnsurePop() (object.Object, *object.Error) {
	value, ok := r.Pop()
	if !ok {
		return nil, object.CreateErr("state/registry/empty")
	}
	return value, nil
}

// ToInt reads the value at position pos relative to the top (position 1
// is the last value pushed) and coerces it to an integer.
func (r *Registry) ToInt(pos int) (int64, *object.Error) {
	value, err := r.at(pos)
	if err != nil {
		return 0, err
	}
	i, ok := value.(*object.Integer)
	if !ok {
		return 0, object.CreateErr("state/arg/int", value)
	}
	return i.Value, nil
}

// ToString is ToInt's counterpart for strings.
func (r *Registry) ToString(pos int) (string, *object.Error) {
	value, err := r.at(pos)
	if err != nil {
		return "", err
	}
	s, ok := value.(*object.String)
	if !ok {
		return "", object.CreateErr("state/arg/string", value)
	}
	return s.Value, nil
}

func (r *Registry) at(pos int) (object.Object, *object.Error) {
	idx := r.Top - pos
	if pos < 1 || idx < 0 {
		return nil, object.CreateErr("state/arg/pos", pos)
	}
	return r.Array[idx], nil
}
