package object

import (
	"fmt"
	"strconv"

	"github.com/udzura/purua-old/text"
)

// The error type. There is one flat kind at the language level; the
// ErrorId records which of the conceptual categories (parse, shape,
// name, type, arity/stack, unsupported) a failure belongs to, and two
// otherwise identical errors thrown in different places in the Go code
// get different identifiers, if only by suffixing /a, /b to the id.
type Error struct {
	ErrorId string
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect(view View) string {
	if view == ViewStdOut {
		return text.ERROR + e.Message
	}
	return "error " + text.ToEscapedText(e.Message)
}

func (e *Error) Error() string { return e.Message }

type ErrorCreator struct {
	Message func(args ...any) string
}

// CreateErr builds an error from its identifier. An id missing from the
// map is itself a bug, and says so.
func CreateErr(ident string, args ...any) *Error {
	creator, ok := ErrorCreatorMap[ident]
	if !ok {
		return &Error{ErrorId: ident, Message: "oopsie, can't find errorId " + ident}
	}
	return &Error{ErrorId: ident, Message: creator.Message(args...)}
}

// A map from error identifiers to functions that supply the
// corresponding error messages.
//
// Errors in the map are in alphabetical order of their identifiers.
//
// Major categories are eval, init, parse, and state.
var ErrorCreatorMap = map[string]ErrorCreator{

	"eval/break/context": {
		Message: func(args ...any) string {
			return "'break' outside of a loop"
		},
	},

	"eval/call/found": {
		Message: func(args ...any) string {
			return "function " + text.Emph(args[0].(string)) + " not found"
		},
	},

	"eval/call/type": {
		Message: func(args ...any) string {
			return text.Emph(args[0].(string)) + " is not a function but " + emph(args[1])
		},
	},

	"eval/exp/shape": {
		Message: func(args ...any) string {
			return "malformed expression node " + text.Emph(args[0].(string))
		},
	},

	"eval/for/step": {
		Message: func(args ...any) string {
			return "'for' loop with a step of zero"
		},
	},

	"eval/for/type": {
		Message: func(args ...any) string {
			return "'for' loop bounds must be integers, not " + emph(args[0])
		},
	},

	"eval/forin/call": {
		Message: func(args ...any) string {
			return "'for ... in' expects a function call as its iterator, not " + text.Emph(args[0].(string))
		},
	},

	"eval/forin/func": {
		Message: func(args ...any) string {
			return "'for ... in' iterator is not a function but " + emph(args[0])
		},
	},

	"eval/ident/found": {
		Message: func(args ...any) string {
			return "variable " + text.Emph(args[0].(string)) + " not found"
		},
	},

	"eval/op/type": {
		Message: func(args ...any) string {
			return "operator '" + args[0].(string) + "' not defined on " + emph(args[1]) + " and " + emph(args[2])
		},
	},

	"eval/op/unsupported": {
		Message: func(args ...any) string {
			return "operator '" + args[0].(string) + "' not defined on " + emph(args[1])
		},
	},

	"eval/stat/unsupported": {
		Message: func(args ...any) string {
			return "statement form " + text.Emph(args[0].(string)) + " is not supported yet"
		},
	},

	"eval/table/key": {
		Message: func(args ...any) string {
			return "keyed table fields are not supported yet"
		},
	},

	"init/assert": {
		Message: func(args ...any) string {
			return "assertion failed"
		},
	},

	"init/config/parse": {
		Message: func(args ...any) string {
			return "can't make sense of config file '" + args[0].(string) + "': " + args[1].(string)
		},
	},

	"init/config/read": {
		Message: func(args ...any) string {
			return "can't read config file '" + args[0].(string) + "'"
		},
	},

	"init/file": {
		Message: func(args ...any) string {
			return "can't read script file '" + args[0].(string) + "'"
		},
	},

	"init/ipairs": {
		Message: func(args ...any) string {
			return "'ipairs' expects a table, not " + emph(args[0])
		},
	},

	"parse/fail": {
		Message: func(args ...any) string {
			return "unexpected input at line " + strconv.Itoa(args[0].(int)) +
				", column " + strconv.Itoa(args[1].(int))
		},
	},

	"state/arg/int": {
		Message: func(args ...any) string {
			return "can't use " + emph(args[0]) + " as an int"
		},
	},

	"state/arg/pos": {
		Message: func(args ...any) string {
			return "no argument at stack position " + strconv.Itoa(args[0].(int))
		},
	},

	"state/arg/string": {
		Message: func(args ...any) string {
			return "can't use " + emph(args[0]) + " as a string"
		},
	},

	"state/call/balance": {
		Message: func(args ...any) string {
			return fmt.Sprintf("call to %s left the stack unbalanced: expected %d values",
				text.Emph(args[0].(string)), args[1].(int))
		},
	},

	"state/local/bound": {
		Message: func(args ...any) string {
			return "no local named " + text.Emph(args[0].(string)) + " to assign to"
		},
	},

	"state/local/frame": {
		Message: func(args ...any) string {
			return "can't declare local " + text.Emph(args[0].(string)) + " with no active call frame"
		},
	},

	"state/op/div": {
		Message: func(args ...any) string {
			return "division by zero"
		},
	},

	"state/registry/empty": {
		Message: func(args ...any) string {
			return "can't pop a value from an empty registry"
		},
	},

	"state/registry/overflow": {
		Message: func(args ...any) string {
			return "registry overflow: capacity is " + strconv.Itoa(args[0].(int))
		},
	},
}

// emph formats the type of a value the way the error messages want it.
func emph(arg any) string {
	if o, ok := arg.(Object); ok {
		return "<" + string(o.Type()) + ">"
	}
	return "<" + fmt.Sprint(arg) + ">"
}
