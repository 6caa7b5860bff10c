package evaluator

// A tree-walking evaluator. Non-local exits (return, break) travel as
// explicit signals alongside the value, never as flags on the state, so
// every construct that can swallow or forward one does so visibly.

import (
	"github.com/udzura/purua-old/ast"
	"github.com/udzura/purua-old/object"
	"github.com/udzura/purua-old/state"
)

// Signal says how a statement finished: fell through, hit a return, or
// hit a break.
type Signal int

const (
	SigNone Signal = iota
	SigReturn
	SigBreak
)

// Evaluator implements state.Executor; the state calls back into it to
// run interpreted function bodies.
type Evaluator struct{}

func New() *Evaluator { return &Evaluator{} }

// Run evaluates a whole parsed chunk against the state. It pushes a
// root call frame so that top-level scripts can declare locals, and
// leaves the registry at the depth it found it.
func Run(s *state.State, chunk *ast.Chunk) (object.Object, *object.Error) {
	e := New()
	s.PushFrame(state.NewCallFrame())
	defer s.PopFrame()
	oldtop := s.StartBlock()
	value, sig, err := e.evalChunk(s, chunk)
	if err != nil {
		s.EndBlock(oldtop)
		return nil, err
	}
	if err := s.EndBlock(oldtop); err != nil {
		return nil, err
	}
	if sig == SigBreak {
		return nil, object.CreateErr("eval/break/context")
	}
	return value, nil
}

// ExecBlock runs an interpreted function body and reports its single
// return value, NIL if the body never hit a return.
func (e *Evaluator) ExecBlock(s *state.State, block *ast.Block) (object.Object, *object.Error) {
	value, sig, err := e.evalBlock(s, block)
	if err != nil {
		return nil, err
	}
	if sig == SigBreak {
		return nil, object.CreateErr("eval/break/context")
	}
	return value, nil
}

// evalBlock brackets a chunk in a block scope: locals declared inside
// vanish, and their registry slots are reclaimed, when the block ends.
func (e *Evaluator) evalBlock(s *state.State, block *ast.Block) (object.Object, Signal, *object.Error) {
	oldtop := s.StartBlock()
	value, sig, err := e.evalChunk(s, block.Chunk)
	if err != nil {
		s.EndBlock(oldtop)
		return nil, SigNone, err
	}
	if err := s.EndBlock(oldtop); err != nil {
		return nil, SigNone, err
	}
	return value, sig, nil
}

func (e *Evaluator) evalChunk(s *state.State, chunk *ast.Chunk) (object.Object, Signal, *object.Error) {
	for _, stat := range chunk.Statements {
		value, sig, err := e.evalStat(s, stat)
		if err != nil {
			return nil, SigNone, err
		}
		if sig != SigNone {
			return value, sig, nil
		}
	}
	if chunk.Return != nil {
		var value object.Object = object.NIL
		if chunk.Return.Value != nil {
			var err *object.Error
			if value, err = e.evalExp(s, chunk.Return.Value); err != nil {
				return nil, SigNone, err
			}
		}
		return value, SigReturn, nil
	}
	return object.NIL, SigNone, nil
}

func (e *Evaluator) evalStat(s *state.State, stat ast.Node) (object.Object, Signal, *object.Error) {
	switch stat := stat.(type) {
	case *ast.SeparatorStatement:
		return object.NIL, SigNone, nil
	case *ast.LocalStatement:
		value, err := e.evalExp(s, stat.Value)
		if err != nil {
			return nil, SigNone, err
		}
		return object.NIL, SigNone, s.DeclareLocal(stat.Name.Value, value)
	case *ast.AssignStatement:
		value, err := e.evalExp(s, stat.Value)
		if err != nil {
			return nil, SigNone, err
		}
		if s.HasLocal(stat.Name.Value) {
			return object.NIL, SigNone, s.SetLocal(stat.Name.Value, value)
		}
		s.AssignGlobal(stat.Name.Value, value)
		return object.NIL, SigNone, nil
	case *ast.CallStatement:
		_, err := e.evalCall(s, stat.Call)
		return object.NIL, SigNone, err
	case *ast.FunctionStatement:
		s.RegisterGlobalCode(stat.Name.Value, stat.Function.Params, stat.Function.Body)
		return object.NIL, SigNone, nil
	case *ast.IfStatement:
		return e.evalIf(s, stat)
	case *ast.DoStatement:
		return e.evalBlock(s, stat.Body)
	case *ast.NumericForStatement:
		return e.evalNumericFor(s, stat)
	case *ast.ForInStatement:
		return e.evalForIn(s, stat)
	case *ast.BreakStatement:
		return object.NIL, SigBreak, nil
	default:
		return nil, SigNone, object.CreateErr("eval/stat/unsupported", stat.String())
	}
}

// evalIf walks the condition list in order and runs the block of the
// first truthy one; a nil condition is the else branch and always
// matches. A signal from the chosen block is the if's signal.
func (e *Evaluator) evalIf(s *state.State, stat *ast.IfStatement) (object.Object, Signal, *object.Error) {
	for i, cond := range stat.Conds {
		if cond != nil {
			value, err := e.evalExp(s, cond)
			if err != nil {
				return nil, SigNone, err
			}
			if !object.Truthy(value) {
				continue
			}
		}
		return e.evalBlock(s, stat.Blocks[i])
	}
	return object.NIL, SigNone, nil
}

func (e *Evaluator) evalNumericFor(s *state.State, stat *ast.NumericForStatement) (object.Object, Signal, *object.Error) {
	start, err := e.evalForBound(s, stat.Start)
	if err != nil {
		return nil, SigNone, err
	}
	stop, err := e.evalForBound(s, stat.Stop)
	if err != nil {
		return nil, SigNone, err
	}
	step := int64(1)
	if stat.Step != nil {
		if step, err = e.evalForBound(s, stat.Step); err != nil {
			return nil, SigNone, err
		}
		if step == 0 {
			return nil, SigNone, object.CreateErr("eval/for/step")
		}
	}
	for i := start; (step > 0 && i <= stop) || (step < 0 && i >= stop); i += step {
		oldtop := s.StartBlock()
		if err := s.DeclareLocal(stat.Name.Value, &object.Integer{Value: i}); err != nil {
			return nil, SigNone, err
		}
		value, sig, err := e.evalChunk(s, stat.Body.Chunk)
		if err != nil {
			s.EndBlock(oldtop)
			return nil, SigNone, err
		}
		if err := s.EndBlock(oldtop); err != nil {
			return nil, SigNone, err
		}
		if sig == SigBreak {
			break
		}
		if sig == SigReturn {
			return value, SigReturn, nil
		}
	}
	return object.NIL, SigNone, nil
}

func (e *Evaluator) evalForBound(s *state.State, node ast.Node) (int64, *object.Error) {
	value, err := e.evalExp(s, node)
	if err != nil {
		return 0, err
	}
	i, ok := value.(*object.Integer)
	if !ok {
		return 0, object.CreateErr("eval/for/type", value)
	}
	return i.Value, nil
}

// The generic-for protocol. The iterator expression must be a call; it
// is invoked once and expected to yield the triple (next, collection,
// control), padded with NIL if it returned fewer values. Each step then
// calls next(collection, control) and stops when the first returned
// value is nil; otherwise that value becomes the new control and the
// returned values are bound, padded with NIL, to the loop names.
func (e *Evaluator) evalForIn(s *state.State, stat *ast.ForInStatement) (object.Object, Signal, *object.Error) {
	call, ok := stat.Iterator.(*ast.CallExpression)
	if !ok {
		return nil, SigNone, object.CreateErr("eval/forin/call", stat.Iterator.String())
	}
	opened, err := e.evalCallMulti(s, call)
	if err != nil {
		return nil, SigNone, err
	}
	for len(opened) < 3 {
		opened = append(opened, object.NIL)
	}
	next, ok := opened[0].(*object.Function)
	if !ok {
		return nil, SigNone, object.CreateErr("eval/forin/func", opened[0])
	}
	collection, control := opened[1], opened[2]
	for {
		rets, err := s.Funcall(call.Name.Value, next, []object.Object{collection, control}, e)
		if err != nil {
			return nil, SigNone, err
		}
		if len(rets) == 0 {
			break
		}
		if _, stop := rets[0].(*object.Nil); stop {
			break
		}
		control = rets[0]
		oldtop := s.StartBlock()
		for i, name := range stat.Names {
			var value object.Object = object.NIL
			if i < len(rets) {
				value = rets[i]
			}
			if err := s.DeclareLocal(name.Value, value); err != nil {
				return nil, SigNone, err
			}
		}
		value, sig, err := e.evalChunk(s, stat.Body.Chunk)
		if err != nil {
			s.EndBlock(oldtop)
			return nil, SigNone, err
		}
		if err := s.EndBlock(oldtop); err != nil {
			return nil, SigNone, err
		}
		if sig == SigBreak {
			break
		}
		if sig == SigReturn {
			return value, SigReturn, nil
		}
	}
	return object.NIL, SigNone, nil
}

// Expressions.

func (e *Evaluator) evalExp(s *state.State, node ast.Node) (object.Object, *object.Error) {
	switch node := node.(type) {
	case *ast.NilLiteral:
		return object.NIL, nil
	case *ast.BooleanLiteral:
		return object.MakeBool(node.Value), nil
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}, nil
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil
	case *ast.Identifier:
		if value, ok := s.GetLocal(node.Value); ok {
			return value, nil
		}
		if value, ok := s.GetGlobal(node.Value); ok {
			return value, nil
		}
		return nil, object.CreateErr("eval/ident/found", node.Value)
	case *ast.ParenExpression:
		return e.evalExp(s, node.Inner)
	case *ast.InfixExpression:
		lvalue, err := e.evalExp(s, node.Left)
		if err != nil {
			return nil, err
		}
		rvalue, err := e.evalExp(s, node.Right)
		if err != nil {
			return nil, err
		}
		return s.ProcessOp(node.Operator, lvalue, rvalue)
	case *ast.PrefixExpression:
		value, err := e.evalExp(s, node.Right)
		if err != nil {
			return nil, err
		}
		return s.ProcessUnop(node.Operator, value)
	case *ast.CallExpression:
		return e.evalCall(s, node)
	case *ast.TableExpression:
		return e.evalTable(s, node)
	default:
		return nil, object.CreateErr("eval/exp/shape", node.String())
	}
}

// evalCall is the single-return call path: one argument (NIL for empty
// parentheses), one result.
func (e *Evaluator) evalCall(s *state.State, call *ast.CallExpression) (object.Object, *object.Error) {
	var arg object.Object = object.NIL
	if call.Arg != nil {
		var err *object.Error
		if arg, err = e.evalExp(s, call.Arg); err != nil {
			return nil, err
		}
	}
	return s.GlobalCall1(call.Name.Value, arg, e)
}

// evalCallMulti keeps every value the callee returned; the generic-for
// opener needs all three.
func (e *Evaluator) evalCallMulti(s *state.State, call *ast.CallExpression) ([]object.Object, *object.Error) {
	value, ok := s.GetGlobal(call.Name.Value)
	if !ok {
		return nil, object.CreateErr("eval/call/found", call.Name.Value)
	}
	fn, ok := value.(*object.Function)
	if !ok {
		return nil, object.CreateErr("eval/call/type", call.Name.Value, value)
	}
	args := []object.Object{}
	if call.Arg != nil {
		arg, err := e.evalExp(s, call.Arg)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return s.Funcall(call.Name.Value, fn, args, e)
}

func (e *Evaluator) evalTable(s *state.State, node *ast.TableExpression) (object.Object, *object.Error) {
	table := object.NewTable()
	for _, field := range node.Fields {
		if field.Key != nil {
			return nil, object.CreateErr("eval/table/key")
		}
		value, err := e.evalExp(s, field.Value)
		if err != nil {
			return nil, err
		}
		table.Append(value)
	}
	return table, nil
}
