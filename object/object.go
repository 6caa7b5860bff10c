package object

import (
	"strconv"
	"strings"

	"src.elv.sh/pkg/persistent/vector"

	"github.com/udzura/purua-old/ast"
	"github.com/udzura/purua-old/text"
)

type View int

const (
	ViewStdOut = iota
	ViewLiteral
)

type ObjectType string

const (
	ERROR_OBJ = "error"

	NIL_OBJ     = "nil"
	BOOLEAN_OBJ = "bool"
	INTEGER_OBJ = "int"
	STRING_OBJ  = "string"

	FUNC_OBJ  = "function"
	TABLE_OBJ = "table"
)

type Object interface {
	Type() ObjectType
	Inspect(view View) string
}

type Nil struct{}

func (n *Nil) Type() ObjectType         { return NIL_OBJ }
func (n *Nil) Inspect(view View) string { return "nil" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect(view View) string {
	if b.Value {
		return "true"
	}
	return "false"
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType         { return INTEGER_OBJ }
func (i *Integer) Inspect(view View) string { return strconv.FormatInt(i.Value, 10) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect(view View) string {
	if view == ViewStdOut {
		return s.Value
	}
	return text.ToEscapedText(s.Value)
}

// The Machine interface is how a native function sees the execution
// state: arguments are read by position relative to the top of the
// registry (position 1 is the last value pushed), return values are
// pushed back with Ret. The state package supplies the implementation.
type Machine interface {
	Arg(pos int) (Object, *Error)
	ArgInt(pos int) (int64, *Error)
	ArgString(pos int) (string, *Error)
	Ret(v Object) *Error
}

// A native binding: reads its arguments off the machine's registry,
// pushes its return values, and reports how many it pushed.
type NativeFn func(m Machine) (int, *Error)

// Function is either a native binding or an interpreted closure holding
// its formal parameters and a reference into the parsed AST. Functions
// are shared by pointer, so duplicating a value keeps identity.
type Function struct {
	Native NativeFn
	Params []string
	Body   *ast.Block
}

func (f *Function) Type() ObjectType { return FUNC_OBJ }
func (f *Function) Inspect(view View) string {
	if f.Native != nil {
		return "function: builtin"
	}
	return "function(" + strings.Join(f.Params, ", ") + ")"
}

// MakeNative wraps a Go function as a callable value.
func MakeNative(fn NativeFn) *Function {
	return &Function{Native: fn}
}

// MakeClosure wraps a parameter list and a parsed body block as a
// callable value. The block is borrowed from the AST, not copied.
func MakeClosure(params []string, body *ast.Block) *Function {
	return &Function{Params: params, Body: body}
}

func MakeBool(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NIL   = &Nil{}
)

// Equals compares two values the way the == operator does for the types
// where that is defined.
func Equals(lhs, rhs Object) bool {
	if lhs.Type() != rhs.Type() {
		return false
	}
	switch lhs.Type() {
	case NIL_OBJ:
		return true
	case INTEGER_OBJ:
		return lhs.(*Integer).Value == rhs.(*Integer).Value
	case BOOLEAN_OBJ:
		return lhs.(*Boolean).Value == rhs.(*Boolean).Value
	case STRING_OBJ:
		return lhs.(*String).Value == rhs.(*String).Value
	default:
		// Functions and tables compare by identity.
		return lhs == rhs
	}
}

// Truthy implements the language's truth rule: everything is true
// except nil and false.
func Truthy(o Object) bool {
	switch o := o.(type) {
	case *Nil:
		return false
	case *Boolean:
		return o.Value
	default:
		return true
	}
}

// Table is a shared handle: every copy of a table value aliases the
// same backing store, so mutation through one handle is visible through
// all of them. Only the array part is wired up at present; the key/value
// part is reserved for when keyed constructor fields are implemented.
type Table struct {
	array vector.Vector
}

func NewTable() *Table {
	return &Table{array: vector.Empty}
}

func (t *Table) Type() ObjectType { return TABLE_OBJ }
func (t *Table) Inspect(view View) string {
	elements := []string{}
	for it := t.array.Iterator(); it.HasElem(); it.Next() {
		elements = append(elements, it.Elem().(Object).Inspect(ViewLiteral))
	}
	return "{" + strings.Join(elements, ", ") + "}"
}

// Append adds a value to the end of the array part.
func (t *Table) Append(v Object) {
	t.array = t.array.Conj(v)
}

// Index returns the 1-based element of the array part, or NIL when the
// index is out of range.
func (t *Table) Index(i int64) Object {
	if i < 1 || i > int64(t.array.Len()) {
		return NIL
	}
	elem, _ := t.array.Index(int(i - 1))
	return elem.(Object)
}

func (t *Table) Len() int { return t.array.Len() }
