package state

import (
	"github.com/udzura/purua-old/ast"
	"github.com/udzura/purua-old/object"
	"github.com/udzura/purua-old/stack"
)

// An Executor evaluates an interpreted function body against the state.
// The evaluator supplies one; taking it as an interface is what lets
// the calling convention live here without the two packages chasing
// each other's imports.
type Executor interface {
	ExecBlock(s *State, block *ast.Block) (object.Object, *object.Error)
}

// One CallFrame per active interpreted function invocation. Locals maps
// a local variable's name to its absolute registry index: locals are
// registry slots, not copies held somewhere else.
type CallFrame struct {
	Locals map[string]int
}

func NewCallFrame() *CallFrame {
	return &CallFrame{Locals: make(map[string]int)}
}

// State owns everything one interpreter run mutates: the global table,
// the registry, and the call-frame stack. It is threaded explicitly
// through every evaluation; there are no ambient globals.
type State struct {
	Global map[string]object.Object
	Reg    *Registry
	Frames *stack.Stack[*CallFrame]
}

func New(regSize int) *State {
	return &State{
		Global: make(map[string]object.Object),
		Reg:    NewRegistry(regSize),
		Frames: stack.NewStack[*CallFrame](),
	}
}

// Globals.

func (s *State) AssignGlobal(name string, value object.Object) {
	s.Global[name] = value
}

func (s *State) GetGlobal(name string) (object.Object, bool) {
	value, ok := s.Global[name]
	return value, ok
}

// RegisterGlobalFn binds a native function into the global table.
func (s *State) RegisterGlobalFn(name string, fn object.NativeFn) {
	s.Global[name] = object.MakeNative(fn)
}

// RegisterGlobalCode binds an interpreted closure into the global
// table. The block is shared with the AST it was parsed from.
func (s *State) RegisterGlobalCode(name string, params []string, block *ast.Block) {
	s.Global[name] = object.MakeClosure(params, block)
}

// Frames and locals. Lookup is two-tier: the innermost frame's local
// map, then the global table; frames below the innermost one are not
// searched.

func (s *State) CurrentFrame() (*CallFrame, bool) {
	return s.Frames.HeadValue()
}

func (s *State) PushFrame(frame *CallFrame) {
	s.Frames.Push(frame)
}

func (s *State) PopFrame() {
	s.Frames.Pop()
}

func (s *State) HasLocal(name string) bool {
	frame, ok := s.CurrentFrame()
	if !ok {
		return false
	}
	_, ok = frame.Locals[name]
	return ok
}

func (s *State) GetLocal(name string) (object.Object, bool) {
	frame, ok := s.CurrentFrame()
	if !ok {
		return nil, false
	}
	idx, ok := frame.Locals[name]
	if !ok {
		return nil, false
	}
	return s.Reg.Array[idx], true
}

// DeclareLocal pushes a fresh registry slot and binds the name to it in
// the active frame, shadowing any previous binding of the same name.
func (s *State) DeclareLocal(name string, value object.Object) *object.Error {
	frame, ok := s.CurrentFrame()
	if !ok {
		return object.CreateErr("state/local/frame", name)
	}
	top, err := s.Reg.Push(value)
	if err != nil {
		return err
	}
	frame.Locals[name] = top - 1
	return nil
}

// SetLocal mutates the slot an existing local is bound to.
func (s *State) SetLocal(name string, value object.Object) *object.Error {
	frame, ok := s.CurrentFrame()
	if !ok {
		return object.CreateErr("state/local/frame", name)
	}
	idx, ok := frame.Locals[name]
	if !ok {
		return object.CreateErr("state/local/bound", name)
	}
	s.Reg.Array[idx] = value
	return nil
}

// Block scope: entering a block checkpoints the top of the registry;
// leaving it truncates back to the checkpoint and invalidates the name
// bindings that pointed above it. Scope exit is O(locals), no heap
// allocation per local.

func (s *State) StartBlock() int {
	return s.Reg.Top
}

func (s *State) EndBlock(oldtop int) *object.Error {
	if frame, ok := s.CurrentFrame(); ok {
		for name, idx := range frame.Locals {
			if idx >= oldtop {
				delete(frame.Locals, name)
			}
		}
	}
	for s.Reg.Top > oldtop {
		if _, err := s.Reg.EnsurePop(); err != nil {
			return err
		}
	}
	return nil
}

// The calling convention. Both paths push the arguments, invoke through
// call, verify the net stack effect exactly, and restore the registry
// to its pre-call depth whatever the callee actually produced.

// GlobalCall1 resolves a function by name in the global table, calls it
// with a single argument, and returns its single declared return value
// (NIL when the callee declared none).
func (s *State) GlobalCall1(name string, arg object.Object, ex Executor) (object.Object, *object.Error) {
	value, ok := s.Global[name]
	if !ok {
		return nil, object.CreateErr("eval/call/found", name)
	}
	fn, ok := value.(*object.Function)
	if !ok {
		return nil, object.CreateErr("eval/call/type", name, value)
	}
	oldtop := s.Reg.Top
	nargs := 1
	if _, err := s.Reg.Push(arg); err != nil {
		return nil, err
	}
	retnr, err := s.call(fn, nargs, ex)
	if err != nil {
		return nil, err
	}
	if oldtop+nargs+retnr != s.Reg.Top {
		return nil, object.CreateErr("state/call/balance", name, retnr)
	}
	var vret object.Object = object.NIL
	if retnr == 1 {
		if vret, err = s.Reg.EnsurePop(); err != nil {
			return nil, err
		}
	}
	for oldtop < s.Reg.Top {
		if _, err := s.Reg.EnsurePop(); err != nil {
			return nil, err
		}
	}
	return vret, nil
}

// Funcall calls an already-resolved function value with any number of
// arguments and hands back every value it returned, in order. This is
// the path the generic-for protocol drives.
func (s *State) Funcall(name string, fn *object.Function, args []object.Object, ex Executor) ([]object.Object, *object.Error) {
	oldtop := s.Reg.Top
	for _, arg := range args {
		if _, err := s.Reg.Push(arg); err != nil {
			return nil, err
		}
	}
	retnr, err := s.call(fn, len(args), ex)
	if err != nil {
		return nil, err
	}
	if oldtop+len(args)+retnr != s.Reg.Top {
		return nil, object.CreateErr("state/call/balance", name, retnr)
	}
	rets := make([]object.Object, retnr)
	for i := retnr - 1; i >= 0; i-- {
		if rets[i], err = s.Reg.EnsurePop(); err != nil {
			return nil, err
		}
	}
	for oldtop < s.Reg.Top {
		if _, err := s.Reg.EnsurePop(); err != nil {
			return nil, err
		}
	}
	return rets, nil
}

// call invokes a callee whose arguments are already on the registry.
// Natives read them by position and push their own returns; no frame is
// pushed for them. An interpreted callee gets a fresh frame whose
// formal parameters are bound to the argument slots in place, and
// always declares exactly one return value.
func (s *State) call(fn *object.Function, nargs int, ex Executor) (int, *object.Error) {
	if fn.Native != nil {
		return fn.Native(s)
	}
	frame := NewCallFrame()
	base := s.Reg.Top - nargs
	for i, param := range fn.Params {
		if i < nargs {
			frame.Locals[param] = base + i
		}
	}
	s.PushFrame(frame)
	ret, err := ex.ExecBlock(s, fn.Body)
	s.PopFrame()
	if err != nil {
		return 0, err
	}
	if _, err := s.Reg.Push(ret); err != nil {
		return 0, err
	}
	return 1, nil
}

// The object.Machine interface, through which natives read their
// arguments and push their returns.

func (s *State) Arg(pos int) (object.Object, *object.Error) {
	return s.Reg.at(pos)
}

func (s *State) ArgInt(pos int) (int64, *object.Error) {
	return s.Reg.ToInt(pos)
}

func (s *State) ArgString(pos int) (string, *object.Error) {
	return s.Reg.ToString(pos)
}

func (s *State) Ret(value object.Object) *object.Error {
	_, err := s.Reg.Push(value)
	return err
}
