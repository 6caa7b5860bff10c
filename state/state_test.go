package state

import (
	"testing"

	"github.com/udzura/purua-old/ast"
	"github.com/udzura/purua-old/object"
)

// A canned executor: whatever block it is handed, it returns a fixed
// value, optionally reading a local out of the state first.
type cannedExec struct {
	value object.Object
	read  string
}

func (c *cannedExec) ExecBlock(s *State, block *ast.Block) (object.Object, *object.Error) {
	if c.read != "" {
		if value, ok := s.GetLocal(c.read); ok {
			return value, nil
		}
		return object.NIL, nil
	}
	return c.value, nil
}

func emptyBlock() *ast.Block {
	return &ast.Block{Chunk: &ast.Chunk{}}
}

func TestRegistryPushPop(t *testing.T) {
	reg := NewRegistry(4)
	for i := int64(1); i <= 4; i++ {
		top, err := reg.Push(&object.Integer{Value: i})
		if err != nil {
			t.Fatalf("push %d: %s", i, err.Message)
		}
		if top != int(i) {
			t.Errorf("push %d: top is %d", i, top)
		}
	}
	if _, err := reg.Push(object.NIL); err == nil || err.ErrorId != "state/registry/overflow" {
		t.Errorf("expected overflow, got %v", err)
	}
	for i := int64(4); i >= 1; i-- {
		value, err := reg.EnsurePop()
		if err != nil {
			t.Fatalf("pop: %s", err.Message)
		}
		if value.(*object.Integer).Value != i {
			t.Errorf("pop: got %s, want %d", value.Inspect(object.ViewLiteral), i)
		}
	}
	if _, err := reg.EnsurePop(); err == nil || err.ErrorId != "state/registry/empty" {
		t.Errorf("expected empty-registry error, got %v", err)
	}
}

func TestRegistryArgCoercions(t *testing.T) {
	reg := NewRegistry(8)
	reg.Push(&object.Integer{Value: 7})
	reg.Push(&object.String{Value: "s"})
	// Position 1 is the last value pushed.
	if got, err := reg.ToString(1); err != nil || got != "s" {
		t.Errorf("ToString(1): got %q, %v", got, err)
	}
	if got, err := reg.ToInt(2); err != nil || got != 7 {
		t.Errorf("ToInt(2): got %d, %v", got, err)
	}
	if _, err := reg.ToInt(1); err == nil || err.ErrorId != "state/arg/int" {
		t.Errorf("ToInt(1): expected coercion error, got %v", err)
	}
	if _, err := reg.ToString(2); err == nil || err.ErrorId != "state/arg/string" {
		t.Errorf("ToString(2): expected coercion error, got %v", err)
	}
	if _, err := reg.ToInt(3); err == nil || err.ErrorId != "state/arg/pos" {
		t.Errorf("ToInt(3): expected position error, got %v", err)
	}
}

func TestLocalsAreRegistrySlots(t *testing.T) {
	s := New(16)
	s.PushFrame(NewCallFrame())
	if err := s.DeclareLocal("x", &object.Integer{Value: 1}); err != nil {
		t.Fatalf("declare: %s", err.Message)
	}
	if s.Reg.Top != 1 {
		t.Errorf("declaring a local must claim a registry slot, top is %d", s.Reg.Top)
	}
	value, ok := s.GetLocal("x")
	if !ok || value.(*object.Integer).Value != 1 {
		t.Fatalf("GetLocal: got %v, %t", value, ok)
	}
	if err := s.SetLocal("x", &object.Integer{Value: 2}); err != nil {
		t.Fatalf("set: %s", err.Message)
	}
	if value, _ := s.GetLocal("x"); value.(*object.Integer).Value != 2 {
		t.Errorf("SetLocal must mutate the slot in place")
	}
	if s.Reg.Top != 1 {
		t.Errorf("SetLocal must not claim a new slot, top is %d", s.Reg.Top)
	}
}

func TestDeclareLocalShadows(t *testing.T) {
	s := New(16)
	s.PushFrame(NewCallFrame())
	s.DeclareLocal("x", &object.Integer{Value: 1})
	s.DeclareLocal("x", &object.Integer{Value: 2})
	if value, _ := s.GetLocal("x"); value.(*object.Integer).Value != 2 {
		t.Errorf("redeclaring must shadow")
	}
	if s.Reg.Top != 2 {
		t.Errorf("the shadowed slot must survive, top is %d", s.Reg.Top)
	}
}

func TestLocalErrors(t *testing.T) {
	s := New(16)
	if err := s.DeclareLocal("x", object.NIL); err == nil || err.ErrorId != "state/local/frame" {
		t.Errorf("expected frame error, got %v", err)
	}
	s.PushFrame(NewCallFrame())
	if err := s.SetLocal("x", object.NIL); err == nil || err.ErrorId != "state/local/bound" {
		t.Errorf("expected bound error, got %v", err)
	}
}

func TestInnerFrameHidesOuterLocals(t *testing.T) {
	s := New(16)
	s.PushFrame(NewCallFrame())
	s.DeclareLocal("x", &object.Integer{Value: 1})
	s.PushFrame(NewCallFrame())
	if s.HasLocal("x") {
		t.Errorf("lookup must not reach below the innermost frame")
	}
	s.PopFrame()
	if !s.HasLocal("x") {
		t.Errorf("the outer local must come back after the frame pops")
	}
}

func TestBlockScopeReclaimsSlots(t *testing.T) {
	s := New(16)
	s.PushFrame(NewCallFrame())
	s.DeclareLocal("keep", &object.Integer{Value: 1})
	oldtop := s.StartBlock()
	s.DeclareLocal("drop", &object.Integer{Value: 2})
	s.DeclareLocal("keep", &object.Integer{Value: 3}) // shadows inside the block
	if err := s.EndBlock(oldtop); err != nil {
		t.Fatalf("EndBlock: %s", err.Message)
	}
	if s.Reg.Top != 1 {
		t.Errorf("block slots must be reclaimed, top is %d", s.Reg.Top)
	}
	if s.HasLocal("drop") {
		t.Errorf("block locals must not survive the block")
	}
	// The shadow binding pointed above the checkpoint, so it died with
	// the block; the original binding is gone too, since names are one
	// map entry deep. This is the documented cost of flat frames.
	if s.HasLocal("keep") {
		t.Errorf("a shadowed name rebound inside the block is dropped with it")
	}
}

func TestGlobalCall1Native(t *testing.T) {
	s := New(16)
	s.RegisterGlobalFn("double", func(m object.Machine) (int, *object.Error) {
		n, err := m.ArgInt(1)
		if err != nil {
			return 0, err
		}
		if err := m.Ret(&object.Integer{Value: n * 2}); err != nil {
			return 0, err
		}
		return 1, nil
	})
	value, err := s.GlobalCall1("double", &object.Integer{Value: 21}, &cannedExec{})
	if err != nil {
		t.Fatalf("call: %s", err.Message)
	}
	if value.(*object.Integer).Value != 42 {
		t.Errorf("got %s, want 42", value.Inspect(object.ViewLiteral))
	}
	if s.Reg.Top != 0 {
		t.Errorf("registry depth %d after call, want 0", s.Reg.Top)
	}
}

func TestGlobalCall1ZeroReturnsYieldNil(t *testing.T) {
	s := New(16)
	s.RegisterGlobalFn("sink", func(m object.Machine) (int, *object.Error) {
		return 0, nil
	})
	value, err := s.GlobalCall1("sink", object.NIL, &cannedExec{})
	if err != nil {
		t.Fatalf("call: %s", err.Message)
	}
	if value != object.NIL {
		t.Errorf("got %s, want nil", value.Inspect(object.ViewLiteral))
	}
	if s.Reg.Top != 0 {
		t.Errorf("registry depth %d after call, want 0", s.Reg.Top)
	}
}

func TestGlobalCall1BalanceCheck(t *testing.T) {
	s := New(16)
	// A native that lies: reports two returns but pushes one.
	s.RegisterGlobalFn("liar", func(m object.Machine) (int, *object.Error) {
		if err := m.Ret(object.NIL); err != nil {
			return 0, err
		}
		return 2, nil
	})
	_, err := s.GlobalCall1("liar", object.NIL, &cannedExec{})
	if err == nil || err.ErrorId != "state/call/balance" {
		t.Errorf("expected balance error, got %v", err)
	}
}

func TestGlobalCall1Resolution(t *testing.T) {
	s := New(16)
	if _, err := s.GlobalCall1("ghost", object.NIL, &cannedExec{}); err == nil || err.ErrorId != "eval/call/found" {
		t.Errorf("expected not-found error, got %v", err)
	}
	s.AssignGlobal("notfn", &object.Integer{Value: 1})
	if _, err := s.GlobalCall1("notfn", object.NIL, &cannedExec{}); err == nil || err.ErrorId != "eval/call/type" {
		t.Errorf("expected type error, got %v", err)
	}
	if s.Reg.Top != 0 {
		t.Errorf("failed resolution must not leave values behind, top is %d", s.Reg.Top)
	}
}

func TestGlobalCall1Interpreted(t *testing.T) {
	s := New(16)
	s.RegisterGlobalCode("echo", []string{"n"}, emptyBlock())
	// The executor reads the parameter back out of the frame, proving
	// the argument slot was bound as the local n.
	value, err := s.GlobalCall1("echo", &object.Integer{Value: 9}, &cannedExec{read: "n"})
	if err != nil {
		t.Fatalf("call: %s", err.Message)
	}
	if value.(*object.Integer).Value != 9 {
		t.Errorf("got %s, want 9", value.Inspect(object.ViewLiteral))
	}
	if s.Reg.Top != 0 {
		t.Errorf("registry depth %d after call, want 0", s.Reg.Top)
	}
	if _, ok := s.CurrentFrame(); ok {
		t.Errorf("the callee frame must be popped")
	}
}

func TestFuncallMultipleReturns(t *testing.T) {
	s := New(16)
	fn := object.MakeNative(func(m object.Machine) (int, *object.Error) {
		a, err := m.ArgInt(2)
		if err != nil {
			return 0, err
		}
		b, err := m.ArgInt(1)
		if err != nil {
			return 0, err
		}
		m.Ret(&object.Integer{Value: a + b})
		m.Ret(&object.Integer{Value: a * b})
		return 2, nil
	})
	rets, err := s.Funcall("both", fn, []object.Object{
		&object.Integer{Value: 3}, &object.Integer{Value: 4},
	}, &cannedExec{})
	if err != nil {
		t.Fatalf("call: %s", err.Message)
	}
	if len(rets) != 2 {
		t.Fatalf("got %d returns, want 2", len(rets))
	}
	if rets[0].(*object.Integer).Value != 7 || rets[1].(*object.Integer).Value != 12 {
		t.Errorf("got %s, %s; want 7, 12",
			rets[0].Inspect(object.ViewLiteral), rets[1].Inspect(object.ViewLiteral))
	}
	if s.Reg.Top != 0 {
		t.Errorf("registry depth %d after call, want 0", s.Reg.Top)
	}
}

func TestProcessOpIntegers(t *testing.T) {
	s := New(4)
	tests := []struct {
		op   byte
		l, r int64
		want int64
	}{
		{ast.OpAdd, 2, 3, 5},
		{ast.OpSub, 2, 3, -1},
		{ast.OpMul, 2, 3, 6},
		{ast.OpDiv, 7, 2, 3},
	}
	for _, tc := range tests {
		value, err := s.ProcessOp(tc.op, &object.Integer{Value: tc.l}, &object.Integer{Value: tc.r})
		if err != nil {
			t.Fatalf("op %c: %s", tc.op, err.Message)
		}
		if value.(*object.Integer).Value != tc.want {
			t.Errorf("op %c: got %s, want %d", tc.op, value.Inspect(object.ViewLiteral), tc.want)
		}
	}
	if _, err := s.ProcessOp(ast.OpDiv, &object.Integer{Value: 1}, &object.Integer{Value: 0}); err == nil || err.ErrorId != "state/op/div" {
		t.Errorf("expected division error, got %v", err)
	}
}

func TestProcessOpMixedTypesFail(t *testing.T) {
	s := New(4)
	pairs := [][2]object.Object{
		{&object.Integer{Value: 1}, &object.String{Value: "1"}},
		{&object.String{Value: "1"}, &object.Integer{Value: 1}},
		{object.TRUE, &object.Integer{Value: 1}},
		{object.NIL, object.NIL},
	}
	for _, pair := range pairs {
		if _, err := s.ProcessOp(ast.OpAdd, pair[0], pair[1]); err == nil || err.ErrorId != "eval/op/type" {
			t.Errorf("%s + %s: expected type error, got %v",
				pair[0].Inspect(object.ViewLiteral), pair[1].Inspect(object.ViewLiteral), err)
		}
	}
}

func TestProcessUnop(t *testing.T) {
	s := New(4)
	if value, _ := s.ProcessUnop(ast.OpSub, &object.Integer{Value: 5}); value.(*object.Integer).Value != -5 {
		t.Errorf("negation failed")
	}
	if value, _ := s.ProcessUnop(ast.OpNot, object.NIL); value != object.TRUE {
		t.Errorf("not nil must be true")
	}
	if value, _ := s.ProcessUnop(ast.OpLen, &object.String{Value: "abc"}); value.(*object.Integer).Value != 3 {
		t.Errorf("string length failed")
	}
	if _, err := s.ProcessUnop(ast.OpLen, object.TRUE); err == nil || err.ErrorId != "eval/op/unsupported" {
		t.Errorf("expected unsupported error, got %v", err)
	}
}
