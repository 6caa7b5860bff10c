package parser

// A scannerless recursive-descent parser with ordered backtracking
// choice. There is no separate lexer pass: every token match consumes
// the whitespace after it, and a failed alternative rewinds the cursor
// so the next alternative starts from the same place. The order of
// alternatives is part of the grammar contract: the first one to
// succeed wins.

import (
	"strconv"
	"strings"

	"github.com/udzura/purua-old/ast"
	"github.com/udzura/purua-old/object"
)

type Parser struct {
	source string
	pos    int
	far    int // the furthest position any alternative reached
}

// Parse turns source text into a chunk, or reports the position of the
// furthest point the grammar could make sense of. There is no error
// recovery: the whole input fails as one.
func Parse(source string) (*ast.Chunk, *object.Error) {
	p := &Parser{source: source}
	p.skipSpaces()
	chunk, ok := p.parseChunk()
	if !ok || !p.atEOF() {
		p.note()
		line, col := p.lineCol(p.far)
		return nil, object.CreateErr("parse/fail", line, col)
	}
	return chunk, nil
}

// Cursor primitives.

func (p *Parser) mark() int { return p.pos }

// reset rewinds to a saved position, remembering how far we got first.
func (p *Parser) reset(m int) {
	p.note()
	p.pos = m
}

func (p *Parser) note() {
	if p.pos > p.far {
		p.far = p.pos
	}
}

func (p *Parser) atEOF() bool { return p.pos >= len(p.source) }

func (p *Parser) skipSpaces() {
	for p.pos < len(p.source) {
		switch p.source[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

// token matches a single punctuation character and eats the whitespace
// after it.
func (p *Parser) token(ch byte) bool {
	if p.pos < len(p.source) && p.source[p.pos] == ch {
		p.pos++
		p.skipSpaces()
		return true
	}
	p.note()
	return false
}

// literal matches an exact operator spelling.
func (p *Parser) literal(s string) bool {
	if strings.HasPrefix(p.source[p.pos:], s) {
		p.pos += len(s)
		p.skipSpaces()
		return true
	}
	p.note()
	return false
}

// reserved matches a keyword. The character after it must not be able
// to continue an identifier, so that "note" is never "not e".
func (p *Parser) reserved(word string) bool {
	if !strings.HasPrefix(p.source[p.pos:], word) {
		p.note()
		return false
	}
	next := p.pos + len(word)
	if next < len(p.source) && isAlphaNum(p.source[next]) {
		p.note()
		return false
	}
	p.pos = next
	p.skipSpaces()
	return true
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func isAlphaNum(ch byte) bool { return isLetter(ch) || isDigit(ch) }

// Terminals.

func (p *Parser) symbol() (*ast.Identifier, bool) {
	if p.atEOF() || !isLetter(p.source[p.pos]) {
		p.note()
		return nil, false
	}
	start := p.pos
	for p.pos < len(p.source) && isAlphaNum(p.source[p.pos]) {
		p.pos++
	}
	name := p.source[start:p.pos]
	p.skipSpaces()
	return &ast.Identifier{Value: name}, true
}

func (p *Parser) symbolList() ([]*ast.Identifier, bool) {
	first, ok := p.symbol()
	if !ok {
		return nil, false
	}
	names := []*ast.Identifier{first}
	for {
		m := p.mark()
		if !p.token(',') {
			break
		}
		next, ok := p.symbol()
		if !ok {
			p.reset(m)
			break
		}
		names = append(names, next)
	}
	return names, true
}

// Numerals are unsigned digit sequences; a negative literal is spelled
// with the unary minus operator instead.
func (p *Parser) numeral() (ast.Node, bool) {
	if p.atEOF() || !isDigit(p.source[p.pos]) {
		p.note()
		return nil, false
	}
	start := p.pos
	for p.pos < len(p.source) && isDigit(p.source[p.pos]) {
		p.pos++
	}
	value, err := strconv.ParseInt(p.source[start:p.pos], 10, 64)
	if err != nil {
		p.note()
		p.pos = start
		return nil, false
	}
	p.skipSpaces()
	return &ast.IntegerLiteral{Value: value}, true
}

// literalString supports exactly one escape: \n.
func (p *Parser) literalString() (ast.Node, bool) {
	m := p.mark()
	if p.atEOF() || p.source[p.pos] != '"' {
		p.note()
		return nil, false
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.source) && p.source[p.pos] != '"' {
		p.pos++
	}
	if p.atEOF() {
		p.reset(m)
		return nil, false
	}
	value := strings.ReplaceAll(p.source[start:p.pos], "\\n", "\n")
	p.pos++
	p.skipSpaces()
	return &ast.StringLiteral{Value: value}, true
}

// Expressions. Each precedence level parses one term of the level above
// it and then folds (operator, term) pairs to the left, so that
// "a - b - c" means "(a - b) - c".

func (p *Parser) parseExp() (ast.Node, bool) {
	return p.parseBinop1()
}

// and/or bind loosest.
func (p *Parser) parseBinop1() (ast.Node, bool) {
	left, ok := p.parseBinop2()
	if !ok {
		return nil, false
	}
	for {
		m := p.mark()
		var op byte
		switch {
		case p.reserved("and"):
			op = ast.OpAnd
		case p.reserved("or"):
			op = ast.OpOr
		default:
			return left, true
		}
		right, ok := p.parseBinop2()
		if !ok {
			p.reset(m)
			return left, true
		}
		left = &ast.InfixExpression{Operator: op, Left: left, Right: right}
	}
}

// The relational level. Two-character operators have to be tried before
// their one-character prefixes.
func (p *Parser) parseBinop2() (ast.Node, bool) {
	left, ok := p.parseBinop3()
	if !ok {
		return nil, false
	}
	for {
		m := p.mark()
		var op byte
		switch {
		case p.literal("<="):
			op = ast.OpLessEq
		case p.literal(">="):
			op = ast.OpGreatEq
		case p.literal("=="):
			op = ast.OpEqual
		case p.literal("~="):
			op = ast.OpNotEqual
		case p.token('<'):
			op = ast.OpLess
		case p.token('>'):
			op = ast.OpGreater
		default:
			return left, true
		}
		right, ok := p.parseBinop3()
		if !ok {
			p.reset(m)
			return left, true
		}
		left = &ast.InfixExpression{Operator: op, Left: left, Right: right}
	}
}

// The additive level.
func (p *Parser) parseBinop3() (ast.Node, bool) {
	left, ok := p.parseBinop4()
	if !ok {
		return nil, false
	}
	for {
		m := p.mark()
		var op byte
		switch {
		case p.token('+'):
			op = ast.OpAdd
		case p.token('-'):
			op = ast.OpSub
		default:
			return left, true
		}
		right, ok := p.parseBinop4()
		if !ok {
			p.reset(m)
			return left, true
		}
		left = &ast.InfixExpression{Operator: op, Left: left, Right: right}
	}
}

// The multiplicative level.
func (p *Parser) parseBinop4() (ast.Node, bool) {
	left, ok := p.parseExpTerm()
	if !ok {
		return nil, false
	}
	for {
		m := p.mark()
		var op byte
		switch {
		case p.token('*'):
			op = ast.OpMul
		case p.token('/'):
			op = ast.OpDiv
		default:
			return left, true
		}
		right, ok := p.parseExpTerm()
		if !ok {
			p.reset(m)
			return left, true
		}
		left = &ast.InfixExpression{Operator: op, Left: left, Right: right}
	}
}

// A term: literal, unary operation, prefix-expression, or table
// constructor, in that order.
func (p *Parser) parseExpTerm() (ast.Node, bool) {
	m := p.mark()
	if p.reserved("nil") {
		return &ast.NilLiteral{}, true
	}
	if p.reserved("true") {
		return &ast.BooleanLiteral{Value: true}, true
	}
	if p.reserved("false") {
		return &ast.BooleanLiteral{Value: false}, true
	}
	if node, ok := p.numeral(); ok {
		return node, true
	}
	if node, ok := p.literalString(); ok {
		return node, true
	}
	if node, ok := p.parseUnop(); ok {
		return node, true
	}
	if node, ok := p.parsePrefixExp(); ok {
		return node, true
	}
	if node, ok := p.parseTableConstructor(); ok {
		return node, true
	}
	p.reset(m)
	return nil, false
}

// Unary not/-/#/~, applied to a term of the same level so that the
// operand binds tighter than any binary operator.
func (p *Parser) parseUnop() (ast.Node, bool) {
	m := p.mark()
	var op byte
	switch {
	case p.reserved("not"):
		op = ast.OpNot
	case p.token('-'):
		op = ast.OpSub
	case p.token('#'):
		op = ast.OpLen
	case p.token('~'):
		op = ast.OpBnot
	default:
		return nil, false
	}
	right, ok := p.parseExpTerm()
	if !ok {
		p.reset(m)
		return nil, false
	}
	return &ast.PrefixExpression{Operator: op, Right: right}, true
}

// A prefix-expression is the ambiguous bit of the grammar: a leading
// symbol might open a function call or stand alone as a variable.
// Resolution is ordered backtracking: call, then bare variable, then a
// parenthesized expression.
func (p *Parser) parsePrefixExp() (ast.Node, bool) {
	if call, ok := p.parseFunctionCall(); ok {
		return call, true
	}
	if sym, ok := p.symbol(); ok {
		return sym, true
	}
	m := p.mark()
	if p.token('(') {
		if inner, ok := p.parseExp(); ok && p.token(')') {
			return &ast.ParenExpression{Inner: inner}, true
		}
	}
	p.reset(m)
	return nil, false
}

// A call is a symbol followed immediately by a parenthesized,
// possibly-empty argument.
func (p *Parser) parseFunctionCall() (*ast.CallExpression, bool) {
	m := p.mark()
	name, ok := p.symbol()
	if !ok {
		return nil, false
	}
	arg, ok := p.parseArgs()
	if !ok {
		p.reset(m)
		return nil, false
	}
	return &ast.CallExpression{Name: name, Arg: arg}, true
}

// parseArgs returns the zero-or-one argument expression; the node is
// nil for an empty argument list.
func (p *Parser) parseArgs() (ast.Node, bool) {
	m := p.mark()
	if !p.token('(') {
		return nil, false
	}
	arg, _ := p.parseExp()
	if !p.token(')') {
		p.reset(m)
		return nil, false
	}
	return arg, true
}

// Table constructors.

func (p *Parser) parseTableConstructor() (ast.Node, bool) {
	m := p.mark()
	if !p.token('{') {
		return nil, false
	}
	fields := []*ast.Field{}
	if field, ok := p.parseField(); ok {
		fields = append(fields, field)
		for {
			fm := p.mark()
			if !p.fieldSep() {
				break
			}
			field, ok := p.parseField()
			if !ok {
				p.reset(fm)
				break
			}
			fields = append(fields, field)
		}
		p.fieldSep() // a trailing separator is fine
	}
	if !p.token('}') {
		p.reset(m)
		return nil, false
	}
	return &ast.TableExpression{Fields: fields}, true
}

func (p *Parser) parseField() (*ast.Field, bool) {
	m := p.mark()
	// [exp] = exp
	if p.token('[') {
		if key, ok := p.parseExp(); ok && p.token(']') && p.token('=') {
			if value, ok := p.parseExp(); ok {
				return &ast.Field{Key: key, Value: value}, true
			}
		}
		p.reset(m)
	}
	// name = exp
	if key, ok := p.symbol(); ok {
		if p.token('=') {
			if value, ok := p.parseExp(); ok {
				return &ast.Field{Key: key, Value: value}, true
			}
		}
		p.reset(m)
	}
	// bare exp, appended to the array part
	if value, ok := p.parseExp(); ok {
		return &ast.Field{Value: value}, true
	}
	p.reset(m)
	return nil, false
}

func (p *Parser) fieldSep() bool {
	return p.token(',') || p.token(';')
}

// Statements, tried in order with full backtrack on failure.

func (p *Parser) parseStat() (ast.Node, bool) {
	if p.token(';') {
		return &ast.SeparatorStatement{}, true
	}
	if stat, ok := p.parseIfStat(); ok {
		return stat, true
	}
	if p.reserved("break") {
		return &ast.BreakStatement{}, true
	}
	if stat, ok := p.parseDoStat(); ok {
		return stat, true
	}
	if stat, ok := p.parseLocalStat(); ok {
		return stat, true
	}
	if stat, ok := p.parseNumericForStat(); ok {
		return stat, true
	}
	if stat, ok := p.parseForInStat(); ok {
		return stat, true
	}
	if stat, ok := p.parseAssignStat(); ok {
		return stat, true
	}
	if call, ok := p.parseFunctionCall(); ok {
		return &ast.CallStatement{Call: call}, true
	}
	if stat, ok := p.parseFunctionStat(); ok {
		return stat, true
	}
	return nil, false
}

func (p *Parser) parseIfStat() (ast.Node, bool) {
	m := p.mark()
	if !p.reserved("if") {
		return nil, false
	}
	cond, ok := p.parseExp()
	if !ok || !p.reserved("then") {
		p.reset(m)
		return nil, false
	}
	block, ok := p.parseBlock()
	if !ok {
		p.reset(m)
		return nil, false
	}
	conds := []ast.Node{cond}
	blocks := []*ast.Block{block}
	for {
		em := p.mark()
		if !p.reserved("elseif") {
			break
		}
		cond, ok := p.parseExp()
		if !ok || !p.reserved("then") {
			p.reset(em)
			break
		}
		block, ok := p.parseBlock()
		if !ok {
			p.reset(em)
			break
		}
		conds = append(conds, cond)
		blocks = append(blocks, block)
	}
	em := p.mark()
	if p.reserved("else") {
		if block, ok := p.parseBlock(); ok {
			conds = append(conds, nil)
			blocks = append(blocks, block)
		} else {
			p.reset(em)
		}
	}
	if !p.reserved("end") {
		p.reset(m)
		return nil, false
	}
	return &ast.IfStatement{Conds: conds, Blocks: blocks}, true
}

func (p *Parser) parseDoStat() (ast.Node, bool) {
	m := p.mark()
	if !p.reserved("do") {
		return nil, false
	}
	block, ok := p.parseBlock()
	if !ok || !p.reserved("end") {
		p.reset(m)
		return nil, false
	}
	return &ast.DoStatement{Body: block}, true
}

func (p *Parser) parseLocalStat() (ast.Node, bool) {
	m := p.mark()
	if !p.reserved("local") {
		return nil, false
	}
	name, ok := p.symbol()
	if !ok {
		p.reset(m)
		return nil, false
	}
	var value ast.Node = &ast.NilLiteral{}
	vm := p.mark()
	if p.token('=') {
		if v, ok := p.parseExp(); ok {
			value = v
		} else {
			p.reset(vm)
		}
	}
	return &ast.LocalStatement{Name: name, Value: value}, true
}

func (p *Parser) parseNumericForStat() (ast.Node, bool) {
	m := p.mark()
	if !p.reserved("for") {
		return nil, false
	}
	name, ok := p.symbol()
	if !ok || !p.token('=') {
		p.reset(m)
		return nil, false
	}
	start, ok := p.parseExp()
	if !ok || !p.token(',') {
		p.reset(m)
		return nil, false
	}
	stop, ok := p.parseExp()
	if !ok {
		p.reset(m)
		return nil, false
	}
	var step ast.Node
	sm := p.mark()
	if p.token(',') {
		if s, ok := p.parseExp(); ok {
			step = s
		} else {
			p.reset(sm)
		}
	}
	if !p.reserved("do") {
		p.reset(m)
		return nil, false
	}
	block, ok := p.parseBlock()
	if !ok || !p.reserved("end") {
		p.reset(m)
		return nil, false
	}
	return &ast.NumericForStatement{Name: name, Start: start, Stop: stop, Step: step, Body: block}, true
}

func (p *Parser) parseForInStat() (ast.Node, bool) {
	m := p.mark()
	if !p.reserved("for") {
		return nil, false
	}
	names, ok := p.symbolList()
	if !ok || !p.reserved("in") {
		p.reset(m)
		return nil, false
	}
	iterator, ok := p.parseExp()
	if !ok || !p.reserved("do") {
		p.reset(m)
		return nil, false
	}
	block, ok := p.parseBlock()
	if !ok || !p.reserved("end") {
		p.reset(m)
		return nil, false
	}
	return &ast.ForInStatement{Names: names, Iterator: iterator, Body: block}, true
}

func (p *Parser) parseAssignStat() (ast.Node, bool) {
	m := p.mark()
	name, ok := p.symbol()
	if !ok || !p.token('=') {
		p.reset(m)
		return nil, false
	}
	value, ok := p.parseExp()
	if !ok {
		p.reset(m)
		return nil, false
	}
	return &ast.AssignStatement{Name: name, Value: value}, true
}

func (p *Parser) parseFunctionStat() (ast.Node, bool) {
	m := p.mark()
	if !p.reserved("function") {
		return nil, false
	}
	name, ok := p.symbol()
	if !ok {
		p.reset(m)
		return nil, false
	}
	fn, ok := p.parseFuncBody()
	if !ok || !p.reserved("end") {
		p.reset(m)
		return nil, false
	}
	return &ast.FunctionStatement{Name: name, Function: fn}, true
}

// A function body: a parameter list of zero or one name, then a block.
func (p *Parser) parseFuncBody() (*ast.FunctionLiteral, bool) {
	m := p.mark()
	if !p.token('(') {
		return nil, false
	}
	params := []string{}
	if param, ok := p.symbol(); ok {
		params = append(params, param.Value)
	}
	if !p.token(')') {
		p.reset(m)
		return nil, false
	}
	block, ok := p.parseBlock()
	if !ok {
		p.reset(m)
		return nil, false
	}
	return &ast.FunctionLiteral{Params: params, Body: block}, true
}

// Chunks and blocks.

func (p *Parser) parseChunk() (*ast.Chunk, bool) {
	stats := []ast.Node{}
	for {
		stat, ok := p.parseStat()
		if !ok {
			break
		}
		stats = append(stats, stat)
	}
	chunk := &ast.Chunk{Statements: stats}
	m := p.mark()
	if p.reserved("return") {
		ret := &ast.ReturnStatement{}
		if value, ok := p.parseExp(); ok {
			ret.Value = value
		}
		chunk.Return = ret
	} else {
		p.reset(m)
	}
	return chunk, true
}

func (p *Parser) parseBlock() (*ast.Block, bool) {
	chunk, ok := p.parseChunk()
	if !ok {
		return nil, false
	}
	return &ast.Block{Chunk: chunk}, true
}

// lineCol converts a byte offset into a 1-based line and column.
func (p *Parser) lineCol(offset int) (int, int) {
	line, col := 1, 1
	for i := 0; i < offset && i < len(p.source); i++ {
		if p.source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
