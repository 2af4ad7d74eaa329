package condition

import (
	"strings"

	"github.com/ValentinKolb/lDDB/lib/ddb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// The condition-expression grammar, in precedence order (low to high):
//
//	condition   := or-expr
//	or-expr     := and-expr ( "OR" and-expr )*
//	and-expr    := not-expr ( "AND" not-expr )*
//	not-expr    := "NOT" not-expr | primary
//	primary     := "(" condition ")" | function | comparison
//	function    := attribute_exists(path) | attribute_not_exists(path)
//	             | begins_with(path, operand) | contains(path, operand)
//	comparison  := operand cmp-op operand
//	             | operand "BETWEEN" operand "AND" operand
//	             | operand "IN" "(" operand ( "," operand )* ")"
//	cmp-op      := "=" | "<>" | "<" | "<=" | ">" | ">="
//	operand     := path | ":" name
//	path        := name | "#" alias
//
// Keywords are case-insensitive, function names are lowercase as in
// DynamoDB. Document paths (dots, indexes) and size() are not supported and
// are rejected with a ValidationException.

// --------------------------------------------------------------------------
// Lexer
// --------------------------------------------------------------------------

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNameRef
	tokValueRef
	tokLParen
	tokRParen
	tokComma
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "("})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")"})
			i++
		case c == ',':
			tokens = append(tokens, token{tokComma, ","})
			i++
		case c == '=':
			tokens = append(tokens, token{tokEq, "="})
			i++
		case c == '<':
			if i+1 < len(input) && input[i+1] == '>' {
				tokens = append(tokens, token{tokNe, "<>"})
				i += 2
			} else if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokLe, "<="})
				i += 2
			} else {
				tokens = append(tokens, token{tokLt, "<"})
				i++
			}
		case c == '>':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokGe, ">="})
				i += 2
			} else {
				tokens = append(tokens, token{tokGt, ">"})
				i++
			}
		case c == '#' || c == ':':
			start := i
			i++
			for i < len(input) && isIdentChar(input[i]) {
				i++
			}
			if i == start+1 {
				return nil, ddb.NewValidationException("condition expression: dangling %q at offset %d", string(c), start)
			}
			kind := tokNameRef
			if c == ':' {
				kind = tokValueRef
			}
			tokens = append(tokens, token{kind, input[start+1 : i]})
		case isIdentStart(c):
			start := i
			for i < len(input) && isIdentChar(input[i]) {
				i++
			}
			tokens = append(tokens, token{tokIdent, input[start:i]})
		default:
			return nil, ddb.NewValidationException("condition expression: unexpected character %q at offset %d", string(c), i)
		}
	}
	tokens = append(tokens, token{tokEOF, ""})
	return tokens, nil
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

// --------------------------------------------------------------------------
// AST
// --------------------------------------------------------------------------

type evalEnv struct {
	item   map[string]types.AttributeValue
	names  map[string]string
	values map[string]types.AttributeValue
}

type exprNode interface {
	eval(env *evalEnv) (bool, error)
}

type binaryNode struct {
	op          string // "AND" | "OR"
	left, right exprNode
}

func (n *binaryNode) eval(env *evalEnv) (bool, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return false, err
	}
	// short-circuit
	if n.op == "AND" && !left {
		return false, nil
	}
	if n.op == "OR" && left {
		return true, nil
	}
	return n.right.eval(env)
}

type notNode struct {
	inner exprNode
}

func (n *notNode) eval(env *evalEnv) (bool, error) {
	v, err := n.inner.eval(env)
	return !v, err
}

// operand is either a top-level attribute path or a :value reference.
type operand struct {
	path     string
	valueRef string
	isPath   bool
}

// resolve returns the operand's value. For paths the second return reports
// whether the attribute exists on the item; unresolvable :refs and #aliases
// are hard errors.
func (o operand) resolve(env *evalEnv) (types.AttributeValue, bool, error) {
	if o.isPath {
		name := o.path
		if strings.HasPrefix(name, "#") {
			resolved, ok := env.names[name]
			if !ok {
				return nil, false, ddb.NewValidationException("condition expression: undefined name reference %s", name)
			}
			name = resolved
		}
		v, ok := env.item[name]
		return v, ok, nil
	}
	v, ok := env.values[o.valueRef]
	if !ok {
		return nil, false, ddb.NewValidationException("condition expression: undefined value reference %s", o.valueRef)
	}
	return v, true, nil
}

type compareNode struct {
	op          tokenKind
	left, right operand
}

func (n *compareNode) eval(env *evalEnv) (bool, error) {
	left, leftOk, err := n.left.resolve(env)
	if err != nil {
		return false, err
	}
	right, rightOk, err := n.right.resolve(env)
	if err != nil {
		return false, err
	}
	if !leftOk || !rightOk {
		// a missing attribute fails every value comparison
		return false, nil
	}

	switch n.op {
	case tokEq:
		return ddb.Equal(left, right), nil
	case tokNe:
		return !ddb.Equal(left, right), nil
	}

	cmp, ok := ddb.Compare(left, right)
	if !ok {
		return false, nil
	}
	switch n.op {
	case tokLt:
		return cmp < 0, nil
	case tokLe:
		return cmp <= 0, nil
	case tokGt:
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

type betweenNode struct {
	value     operand
	low, high operand
}

func (n *betweenNode) eval(env *evalEnv) (bool, error) {
	value, ok, err := n.value.resolve(env)
	if err != nil || !ok {
		return false, err
	}
	low, lowOk, err := n.low.resolve(env)
	if err != nil {
		return false, err
	}
	high, highOk, err := n.high.resolve(env)
	if err != nil {
		return false, err
	}
	if !lowOk || !highOk {
		return false, nil
	}
	cmpLow, okLow := ddb.Compare(value, low)
	cmpHigh, okHigh := ddb.Compare(value, high)
	return okLow && okHigh && cmpLow >= 0 && cmpHigh <= 0, nil
}

type inNode struct {
	value      operand
	candidates []operand
}

func (n *inNode) eval(env *evalEnv) (bool, error) {
	value, ok, err := n.value.resolve(env)
	if err != nil || !ok {
		return false, err
	}
	for _, candidate := range n.candidates {
		cv, cok, err := candidate.resolve(env)
		if err != nil {
			return false, err
		}
		if cok && ddb.Equal(value, cv) {
			return true, nil
		}
	}
	return false, nil
}

type functionNode struct {
	name string
	path operand
	arg  *operand // begins_with / contains only
}

func (n *functionNode) eval(env *evalEnv) (bool, error) {
	value, exists, err := n.path.resolve(env)
	if err != nil {
		return false, err
	}

	switch n.name {
	case "attribute_exists":
		return exists, nil
	case "attribute_not_exists":
		return !exists, nil
	case "begins_with":
		if !exists {
			return false, nil
		}
		arg, argOk, err := n.arg.resolve(env)
		if err != nil {
			return false, err
		}
		return argOk && beginsWith(value, arg), nil
	default: // contains
		if !exists {
			return false, nil
		}
		arg, argOk, err := n.arg.resolve(env)
		if err != nil {
			return false, err
		}
		return argOk && contains(value, arg), nil
	}
}

// --------------------------------------------------------------------------
// Parser
// --------------------------------------------------------------------------

type parser struct {
	tokens []token
	pos    int
}

func parse(expression string) (exprNode, error) {
	tokens, err := lex(expression)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, ddb.NewValidationException("condition expression: unexpected trailing token %q", p.peek().text)
	}
	return node, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// peekKeyword reports whether the next token is the given keyword
// (case-insensitive).
func (p *parser) peekKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, ddb.NewValidationException("condition expression: expected %s, got %q", what, t.text)
	}
	return t, nil
}

func (p *parser) parseOr() (exprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peekKeyword("OR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "OR", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (exprNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peekKeyword("AND") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: "AND", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (exprNode, error) {
	if p.peekKeyword("NOT") {
		p.next()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{inner: inner}, nil
	}
	return p.parsePrimary()
}

var functionNames = map[string]int{
	"attribute_exists":     1,
	"attribute_not_exists": 1,
	"begins_with":          2,
	"contains":             2,
}

func (p *parser) parsePrimary() (exprNode, error) {
	t := p.peek()

	if t.kind == tokLParen {
		p.next()
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return node, nil
	}

	if t.kind == tokIdent {
		if argc, isFunc := functionNames[t.text]; isFunc && p.tokens[p.pos+1].kind == tokLParen {
			return p.parseFunction(t.text, argc)
		}
		if _, reserved := functionNames[strings.ToLower(t.text)]; !reserved {
			// size() and other unknown call forms are an extension point,
			// reject them explicitly instead of misreading them as paths
			if p.tokens[p.pos+1].kind == tokLParen {
				return nil, ddb.NewValidationException("condition expression: unsupported function %q", t.text)
			}
		}
	}

	return p.parseComparison()
}

func (p *parser) parseFunction(name string, argc int) (exprNode, error) {
	p.next() // function name
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	path, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if !path.isPath {
		return nil, ddb.NewValidationException("condition expression: first argument of %s must be an attribute path", name)
	}

	node := &functionNode{name: name, path: path}
	if argc == 2 {
		if _, err := p.expect(tokComma, "','"); err != nil {
			return nil, err
		}
		arg, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		node.arg = &arg
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseComparison() (exprNode, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if p.peekKeyword("BETWEEN") {
		p.next()
		low, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		if !p.peekKeyword("AND") {
			return nil, ddb.NewValidationException("condition expression: BETWEEN needs AND, got %q", p.peek().text)
		}
		p.next()
		high, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &betweenNode{value: left, low: low, high: high}, nil
	}

	if p.peekKeyword("IN") {
		p.next()
		if _, err := p.expect(tokLParen, "'('"); err != nil {
			return nil, err
		}
		var candidates []operand
		for {
			candidate, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, candidate)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return &inNode{value: left, candidates: candidates}, nil
	}

	op := p.next()
	switch op.kind {
	case tokEq, tokNe, tokLt, tokLe, tokGt, tokGe:
	default:
		return nil, ddb.NewValidationException("condition expression: expected comparison operator, got %q", op.text)
	}

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &compareNode{op: op.kind, left: left, right: right}, nil
}

func (p *parser) parseOperand() (operand, error) {
	t := p.next()
	switch t.kind {
	case tokValueRef:
		return operand{valueRef: ":" + t.text}, nil
	case tokNameRef:
		return operand{path: "#" + t.text, isPath: true}, nil
	case tokIdent:
		if isReservedWord(t.text) {
			return operand{}, ddb.NewValidationException("condition expression: %q cannot be used as an attribute path", t.text)
		}
		return operand{path: t.text, isPath: true}, nil
	default:
		return operand{}, ddb.NewValidationException("condition expression: expected operand, got %q", t.text)
	}
}

func isReservedWord(s string) bool {
	switch strings.ToUpper(s) {
	case "AND", "OR", "NOT", "BETWEEN", "IN":
		return true
	}
	return false
}
