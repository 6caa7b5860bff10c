package initializer

// The builtin library. Builtins are natives: they read their arguments
// off the registry by position and push their own return values, so the
// calling convention treats them exactly like interpreted functions.

import (
	"fmt"
	"io"

	"github.com/udzura/purua-old/object"
	"github.com/udzura/purua-old/state"
)

// NewState builds a fresh interpreter state with the builtins
// installed. Output from print goes to out.
func NewState(config *Config, out io.Writer) *state.State {
	s := state.New(config.RegistrySize)
	RegisterBuiltins(s, out)
	return s
}

func RegisterBuiltins(s *state.State, out io.Writer) {
	s.RegisterGlobalFn("print", makePrint(out))
	s.RegisterGlobalFn("type", builtinType)
	s.RegisterGlobalFn("tostring", builtinTostring)
	s.RegisterGlobalFn("len", builtinLen)
	s.RegisterGlobalFn("assert", builtinAssert)

	// The stock generic-for opener: ipairs(t) yields the triple
	// (inext, t, 0), and inext walks t's array part one index at a
	// time. inext is a global of its own so scripts can drive the
	// protocol by hand.
	inext := object.MakeNative(builtinInext)
	s.AssignGlobal("inext", inext)
	s.RegisterGlobalFn("ipairs", func(m object.Machine) (int, *object.Error) {
		table, err := requireTable(m, 1)
		if err != nil {
			return 0, err
		}
		for _, ret := range []object.Object{inext, table, &object.Integer{Value: 0}} {
			if err := m.Ret(ret); err != nil {
				return 0, err
			}
		}
		return 3, nil
	})
}

func makePrint(out io.Writer) object.NativeFn {
	return func(m object.Machine) (int, *object.Error) {
		value, err := m.Arg(1)
		if err != nil {
			return 0, err
		}
		fmt.Fprintln(out, value.Inspect(object.ViewStdOut))
		return 0, nil
	}
}

func builtinType(m object.Machine) (int, *object.Error) {
	value, err := m.Arg(1)
	if err != nil {
		return 0, err
	}
	if err := m.Ret(&object.String{Value: string(value.Type())}); err != nil {
		return 0, err
	}
	return 1, nil
}

func builtinTostring(m object.Machine) (int, *object.Error) {
	value, err := m.Arg(1)
	if err != nil {
		return 0, err
	}
	if err := m.Ret(&object.String{Value: value.Inspect(object.ViewStdOut)}); err != nil {
		return 0, err
	}
	return 1, nil
}

func builtinLen(m object.Machine) (int, *object.Error) {
	value, err := m.Arg(1)
	if err != nil {
		return 0, err
	}
	var length int64
	switch value := value.(type) {
	case *object.String:
		length = int64(len(value.Value))
	case *object.Table:
		length = int64(value.Len())
	default:
		return 0, object.CreateErr("eval/op/unsupported", "len", value)
	}
	if err := m.Ret(&object.Integer{Value: length}); err != nil {
		return 0, err
	}
	return 1, nil
}

// assert hands its argument back so it can sit inline in expressions.
func builtinAssert(m object.Machine) (int, *object.Error) {
	value, err := m.Arg(1)
	if err != nil {
		return 0, err
	}
	if !object.Truthy(value) {
		return 0, object.CreateErr("init/assert")
	}
	if err := m.Ret(value); err != nil {
		return 0, err
	}
	return 1, nil
}

// builtinInext is the step function behind ipairs. Its arguments are
// (collection, control); it returns (control+1, value) until the array
// part runs out, then a single nil.
func builtinInext(m object.Machine) (int, *object.Error) {
	control, err := m.ArgInt(1)
	if err != nil {
		return 0, err
	}
	table, err := requireTable(m, 2)
	if err != nil {
		return 0, err
	}
	next := control + 1
	if next > int64(table.Len()) {
		if err := m.Ret(object.NIL); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err := m.Ret(&object.Integer{Value: next}); err != nil {
		return 0, err
	}
	if err := m.Ret(table.Index(next)); err != nil {
		return 0, err
	}
	return 2, nil
}

func requireTable(m object.Machine, pos int) (*object.Table, *object.Error) {
	value, err := m.Arg(pos)
	if err != nil {
		return nil, err
	}
	table, ok := value.(*object.Table)
	if !ok {
		return nil, object.CreateErr("init/ipairs", value)
	}
	return table, nil
}
