package parser

import (
	"testing"
)

func parseOne(t *testing.T, input string) string {
	t.Helper()
	chunk, err := Parse(input)
	if err != nil {
		t.Fatalf("parse of %q failed: %s", input, err.Message)
	}
	return chunk.String()
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`return 1`, `return 1`},
		{`return nil`, `return nil`},
		{`return true`, `return true`},
		{`return false`, `return false`},
		{`return "hello"`, `return "hello"`},
		{`return "a\nb"`, `return "a\nb"`},
		{`return x`, `return x`},
		// Same-level operators fold to the left.
		{`return 1 - 2 - 3`, `return ((1 - 2) - 3)`},
		{`return 20 / 2 / 5`, `return ((20 / 2) / 5)`},
		// Multiplication binds tighter than addition.
		{`return 2 + 3 * 4`, `return (2 + (3 * 4))`},
		{`return 2 * 3 + 4`, `return ((2 * 3) + 4)`},
		// Comparison sits above the arithmetic levels.
		{`return 1 + 2 < 4`, `return ((1 + 2) < 4)`},
		{`return x <= y`, `return (x <= y)`},
		{`return x >= y`, `return (x >= y)`},
		{`return x == y`, `return (x == y)`},
		{`return x ~= y`, `return (x ~= y)`},
		// and/or bind loosest of all.
		{`return 1 + 2 < 4 and true`, `return (((1 + 2) < 4) and true)`},
		{`return a or b and c`, `return ((a or b) and c)`},
		// Unary operators.
		{`return -2`, `return (-2)`},
		{`return 1 - -2`, `return (1 - (-2))`},
		{`return not nil`, `return (not nil)`},
		{`return #"abc"`, `return (#"abc")`},
		{`return ~5`, `return (~5)`},
		// Parentheses override precedence.
		{`return (1 + 2) * 3`, `return (((1 + 2)) * 3)`},
		// Calls.
		{`return f()`, `return f()`},
		{`return f(1 + 2)`, `return f((1 + 2))`},
		{`return add(add(1))`, `return add(add(1))`},
	}
	for _, tc := range tests {
		if got := parseOne(t, tc.input); got != tc.want {
			t.Errorf("parse of %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`x = 1 + 2`, `x = (1 + 2)`},
		{`local x`, `local x = nil`},
		{`local x = 10`, `local x = 10`},
		{"x = 1\ny = 2", `x = 1; y = 2`},
		{`print("hi")`, `print("hi")`},
		{`do local x = 1 end`, `do local x = 1 end`},
		{`function add(n) return n + 1 end`, `function add(n) return (n + 1) end`},
		{`function hello() print("hi") end`, `function hello() print("hi") end`},
		{
			`if x < 3 then y = 1 elseif x < 5 then y = 2 else y = 3 end`,
			`if (x < 3) then y = 1 elseif (x < 5) then y = 2 else y = 3 end`,
		},
		{`if x then return 1 end`, `if x then return 1 end`},
		{`for i = 1, 10 do print(i) end`, `for i = 1, 10 do print(i) end`},
		{`for i = 10, 1, -1 do print(i) end`, `for i = 10, 1, (-1) do print(i) end`},
		{`for k, v in ipairs(t) do print(v) end`, `for k, v in ipairs(t) do print(v) end`},
		{`while true do break end`, ``}, // no while: parsed as nothing, fails below
	}
	for _, tc := range tests {
		if tc.want == "" {
			if _, err := Parse(tc.input); err == nil {
				t.Errorf("parse of %q: expected failure", tc.input)
			}
			continue
		}
		if got := parseOne(t, tc.input); got != tc.want {
			t.Errorf("parse of %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseTables(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`t = {}`, `t = {}`},
		{`t = {1, 2, 3}`, `t = {1, 2, 3}`},
		{`t = {1; 2; 3}`, `t = {1, 2, 3}`},
		{`t = {1, 2, 3,}`, `t = {1, 2, 3}`},
		{`t = {x = 3}`, `t = {x = 3}`},
		{`t = {["k"] = 4}`, `t = {["k"] = 4}`},
		{`t = {1, x = 2, ["y"] = 3}`, `t = {1, x = 2, ["y"] = 3}`},
		{`t = {f(1), g(2)}`, `t = {f(1), g(2)}`},
	}
	for _, tc := range tests {
		if got := parseOne(t, tc.input); got != tc.want {
			t.Errorf("parse of %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// Identifiers that merely start with a keyword must not be split.
func TestParseKeywordBoundaries(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`nilly = 5`, `nilly = 5`},
		{`trueish = false`, `trueish = false`},
		{`notx = 1`, `notx = 1`},
		{`ending = 2`, `ending = 2`},
		{`return android`, `return android`},
	}
	for _, tc := range tests {
		if got := parseOne(t, tc.input); got != tc.want {
			t.Errorf("parse of %q: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseWholeScript(t *testing.T) {
	input := `
local total = 0
function double(n)
  return n * 2
end
for i = 1, 3 do
  total = total + double(i)
end
print(total)
`
	want := `local total = 0; function double(n) return (n * 2) end; ` +
		`for i = 1, 3 do total = (total + double(i)) end; print(total)`
	if got := parseOne(t, input); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseFailures(t *testing.T) {
	inputs := []string{
		`x = `,
		`1 + 2`,
		`x = "unterminated`,
		`for i = 1 do end`,
		`if x then y = 1`,
		`function f() return 1`,
		`local = `,
		`x = {`,
	}
	for _, input := range inputs {
		_, err := Parse(input)
		if err == nil {
			t.Errorf("parse of %q: expected failure", input)
			continue
		}
		if err.ErrorId != "parse/fail" {
			t.Errorf("parse of %q: got error id %q", input, err.ErrorId)
		}
	}
}

func TestParseFailurePosition(t *testing.T) {
	_, err := Parse("x = 1\ny = ")
	if err == nil {
		t.Fatal("expected failure")
	}
	if err.ErrorId != "parse/fail" {
		t.Fatalf("got error id %q", err.ErrorId)
	}
}
