package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// The base Node interface. Every node can print itself back as
// (approximately) the source it was parsed from, which is what the
// parser tests and the error messages lean on.
type Node interface {
	String() string
}

// Binary and unary operators are carried as single-byte tags so that the
// overloaded source tokens stay distinct once parsed: "<=" and ">=" get
// their own tags, "and"/"or"/"not" collapse to one byte each.
const (
	OpAnd      = '&'
	OpOr       = '|'
	OpLess     = '<'
	OpGreater  = '>'
	OpLessEq   = 'l'
	OpGreatEq  = 'g'
	OpEqual    = 'e'
	OpNotEqual = 'n'
	OpAdd      = '+'
	OpSub      = '-'
	OpMul      = '*'
	OpDiv      = '/'
	OpNot      = '!'
	OpLen      = '#'
	OpBnot     = '~'
)

// OpString maps an operator tag back to its source spelling.
func OpString(op byte) string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpLessEq:
		return "<="
	case OpGreatEq:
		return ">="
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "~="
	case OpNot:
		return "not"
	default:
		return string(op)
	}
}

type NilLiteral struct{}

func (nl *NilLiteral) String() string { return "nil" }

type BooleanLiteral struct {
	Value bool
}

func (b *BooleanLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type IntegerLiteral struct {
	Value int64
}

func (il *IntegerLiteral) String() string { return strconv.FormatInt(il.Value, 10) }

type StringLiteral struct {
	Value string
}

func (sl *StringLiteral) String() string { return strconv.Quote(sl.Value) }

type Identifier struct {
	Value string
}

func (i *Identifier) String() string { return i.Value }

// A function call with its zero-or-one argument. Arg is nil when the
// parentheses were empty.
type CallExpression struct {
	Name *Identifier
	Arg  Node
}

func (ce *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(ce.Name.String())
	out.WriteString("(")
	if ce.Arg != nil {
		out.WriteString(ce.Arg.String())
	}
	out.WriteString(")")
	return out.String()
}

type ParenExpression struct {
	Inner Node
}

func (pe *ParenExpression) String() string { return "(" + pe.Inner.String() + ")" }

type InfixExpression struct {
	Operator byte
	Left     Node
	Right    Node
}

func (ie *InfixExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + OpString(ie.Operator) + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")
	return out.String()
}

type PrefixExpression struct {
	Operator byte
	Right    Node
}

func (pe *PrefixExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(OpString(pe.Operator))
	if pe.Operator == OpNot {
		out.WriteString(" ")
	}
	out.WriteString(pe.Right.String())
	out.WriteString(")")
	return out.String()
}

// One entry of a table constructor. Key is nil for an un-keyed field,
// which appends to the array part; an *Identifier key came from the
// 'name = exp' form and any other node from the '[exp] = exp' form.
type Field struct {
	Key   Node
	Value Node
}

func (f *Field) String() string {
	if f.Key == nil {
		return f.Value.String()
	}
	if _, ok := f.Key.(*Identifier); ok {
		return f.Key.String() + " = " + f.Value.String()
	}
	return "[" + f.Key.String() + "] = " + f.Value.String()
}

type TableExpression struct {
	Fields []*Field
}

func (te *TableExpression) String() string {
	elements := []string{}
	for _, f := range te.Fields {
		elements = append(elements, f.String())
	}
	return "{" + strings.Join(elements, ", ") + "}"
}

type FunctionLiteral struct {
	Params []string
	Body   *Block
}

func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(strings.Join(fl.Params, ", "))
	out.WriteString(") ")
	out.WriteString(fl.Body.String())
	return out.String()
}

// Statements.

type SeparatorStatement struct{}

func (ss *SeparatorStatement) String() string { return ";" }

type AssignStatement struct {
	Name  *Identifier
	Value Node
}

func (as *AssignStatement) String() string { return as.Name.String() + " = " + as.Value.String() }

type LocalStatement struct {
	Name  *Identifier
	Value Node // never nil: a 'local x' with no initializer gets a NilLiteral
}

func (ls *LocalStatement) String() string {
	return "local " + ls.Name.String() + " = " + ls.Value.String()
}

type CallStatement struct {
	Call *CallExpression
}

func (cs *CallStatement) String() string { return cs.Call.String() }

type FunctionStatement struct {
	Name     *Identifier
	Function *FunctionLiteral
}

func (fs *FunctionStatement) String() string {
	return "function " + fs.Name.String() + fs.Function.String() + " end"
}

// The conditions and blocks are index-aligned and always the same
// length. A trailing nil condition is the else branch.
type IfStatement struct {
	Conds  []Node
	Blocks []*Block
}

func (is *IfStatement) String() string {
	var out bytes.Buffer
	for i, cond := range is.Conds {
		switch {
		case i == 0:
			out.WriteString("if " + cond.String() + " then ")
		case cond == nil:
			out.WriteString(" else ")
		default:
			out.WriteString(" elseif " + cond.String() + " then ")
		}
		out.WriteString(is.Blocks[i].String())
	}
	out.WriteString(" end")
	return out.String()
}

type NumericForStatement struct {
	Name  *Identifier
	Start Node
	Stop  Node
	Step  Node // nil means a step of 1
	Body  *Block
}

func (nf *NumericForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for " + nf.Name.String() + " = " + nf.Start.String() + ", " + nf.Stop.String())
	if nf.Step != nil {
		out.WriteString(", " + nf.Step.String())
	}
	out.WriteString(" do " + nf.Body.String() + " end")
	return out.String()
}

type ForInStatement struct {
	Names    []*Identifier
	Iterator Node
	Body     *Block
}

func (fi *ForInStatement) String() string {
	names := []string{}
	for _, n := range fi.Names {
		names = append(names, n.String())
	}
	return "for " + strings.Join(names, ", ") + " in " + fi.Iterator.String() +
		" do " + fi.Body.String() + " end"
}

type BreakStatement struct{}

func (bs *BreakStatement) String() string { return "break" }

type DoStatement struct {
	Body *Block
}

func (ds *DoStatement) String() string { return "do " + ds.Body.String() + " end" }

type ReturnStatement struct {
	Value Node // nil for a bare return
}

func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

// A Chunk is what you get from parsing a whole script or the inside of
// a block: statements in order plus an optional final return.
type Chunk struct {
	Statements []Node
	Return     *ReturnStatement
}

func (c *Chunk) String() string {
	parts := []string{}
	for _, s := range c.Statements {
		parts = append(parts, s.String())
	}
	if c.Return != nil {
		parts = append(parts, c.Return.String())
	}
	return strings.Join(parts, "; ")
}

type Block struct {
	Chunk *Chunk
}

func (b *Block) String() string { return b.Chunk.String() }
