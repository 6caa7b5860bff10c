package state

import (
	"github.com/udzura/purua-old/ast"
	"github.com/udzura/purua-old/object"
)

// ProcessOp applies a binary operator tag to two fully evaluated
// operands. Dispatch is strictly same-type: integers get arithmetic and
// all six comparisons, booleans get and/or, strings get equality and
// inequality, and every other combination is a type error.
func (s *State) ProcessOp(op byte, lvalue, rvalue object.Object) (object.Object, *object.Error) {
	switch l := lvalue.(type) {
	case *object.Integer:
		if r, ok := rvalue.(*object.Integer); ok {
			return s.processOpInt(op, l.Value, r.Value)
		}
	case *object.Boolean:
		if r, ok := rvalue.(*object.Boolean); ok {
			return s.processOpBool(op, l.Value, r.Value)
		}
	case *object.String:
		if r, ok := rvalue.(*object.String); ok {
			return s.processOpString(op, l.Value, r.Value)
		}
	}
	return nil, object.CreateErr("eval/op/type", ast.OpString(op), lvalue, rvalue)
}

func (s *State) processOpInt(op byte, l, r int64) (object.Object, *object.Error) {
	switch op {
	case ast.OpAdd:
		return &object.Integer{Value: l + r}, nil
	case ast.OpSub:
		return &object.Integer{Value: l - r}, nil
	case ast.OpMul:
		return &object.Integer{Value: l * r}, nil
	case ast.OpDiv:
		if r == 0 {
			return nil, object.CreateErr("state/op/div")
		}
		return &object.Integer{Value: l / r}, nil
	case ast.OpLess:
		return object.MakeBool(l < r), nil
	case ast.OpLessEq:
		return object.MakeBool(l <= r), nil
	case ast.OpGreater:
		return object.MakeBool(l > r), nil
	case ast.OpGreatEq:
		return object.MakeBool(l >= r), nil
	case ast.OpEqual:
		return object.MakeBool(l == r), nil
	case ast.OpNotEqual:
		return object.MakeBool(l != r), nil
	}
	return nil, object.CreateErr("eval/op/unsupported", ast.OpString(op), &object.Integer{Value: l})
}

func (s *State) processOpBool(op byte, l, r bool) (object.Object, *object.Error) {
	switch op {
	case ast.OpAnd:
		return object.MakeBool(l && r), nil
	case ast.OpOr:
		return object.MakeBool(l || r), nil
	case ast.OpEqual:
		return object.MakeBool(l == r), nil
	case ast.OpNotEqual:
		return object.MakeBool(l != r), nil
	}
	return nil, object.CreateErr("eval/op/unsupported", ast.OpString(op), object.MakeBool(l))
}

func (s *State) processOpString(op byte, l, r string) (object.Object, *object.Error) {
	switch op {
	case ast.OpEqual:
		return object.MakeBool(l == r), nil
	case ast.OpNotEqual:
		return object.MakeBool(l != r), nil
	}
	return nil, object.CreateErr("eval/op/unsupported", ast.OpString(op), &object.String{Value: l})
}

// ProcessUnop applies a unary operator tag to its evaluated operand.
func (s *State) ProcessUnop(op byte, value object.Object) (object.Object, *object.Error) {
	switch op {
	case ast.OpNot:
		return object.MakeBool(!object.Truthy(value)), nil
	case ast.OpSub:
		if i, ok := value.(*object.Integer); ok {
			return &object.Integer{Value: -i.Value}, nil
		}
	case ast.OpBnot:
		if i, ok := value.(*object.Integer); ok {
			return &object.Integer{Value: ^i.Value}, nil
		}
	case ast.OpLen:
		switch v := value.(type) {
		case *object.String:
			return &object.Integer{Value: int64(len(v.Value))}, nil
		case *object.Table:
			return &object.Integer{Value: int64(v.Len())}, nil
		}
	}
	return nil, object.CreateErr("eval/op/unsupported", ast.OpString(op), value)
}
