// Package arith evaluates small arithmetic expressions typed by chat users.
//
// Only numeric literals, the four basic operators, unary signs and
// parentheses are understood. Anything else is a syntax error; there is no
// general purpose evaluator behind it.
package arith

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrSyntax reports a malformed expression.
	ErrSyntax = errors.New("arith: malformed expression")
	// ErrDivisionByZero reports a division whose right operand is zero.
	ErrDivisionByZero = errors.New("arith: division by zero")
	// ErrNotFinite reports a result that overflowed to infinity.
	ErrNotFinite = errors.New("arith: result is not finite")
)

// Eval parses and evaluates expr with the usual precedence rules.
func Eval(expr string) (float64, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, p.toks[p.pos].text)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrNotFinite
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return v, nil
}

// Format renders v without a trailing ".0" for whole numbers.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Allowed reports whether every character of expr is a digit, whitespace,
// one of + - * / ( ) . , and expr is not blank.
func Allowed(expr string) bool {
	if strings.TrimSpace(expr) == "" {
		return false
	}
	for _, r := range expr {
		if isDigit(r) || unicode.IsSpace(r) || strings.ContainsRune("+-*/().,", r) {
			continue
		}
		return false
	}
	return true
}

// LooksLikeMath reports whether text contains a digit and one of + - * / =.
func LooksLikeMath(text string) bool {
	return strings.ContainsAny(text, "+-*/=") && strings.IndexFunc(text, isDigit) >= 0
}

// Strip drops every character that is not a digit, whitespace or one of
// + - * / ( ) . and trims the result.
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isDigit(r) || unicode.IsSpace(r) || strings.ContainsRune("+-*/().", r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func tokenize(s string) ([]token, error) {
	var out []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			i++
		case isDigit(rune(c)) || c == '.':
			start := i
			dots := 0
			for i < len(s) && (isDigit(rune(s[i])) || s[i] == '.') {
				if s[i] == '.' {
					dots++
				}
				i++
			}
			lit := s[start:i]
			if dots > 1 || lit == "." {
				return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
			}
			n, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, lit)
			}
			out = append(out, token{kind: tokNumber, text: lit, num: n})
		case c == '+' || c == '-' || c == '*' || c == '/':
			out = append(out, token{kind: tokOp, text: string(c)})
			i++
		case c == '(':
			out = append(out, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			out = append(out, token{kind: tokRParen, text: ")"})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character at %d", ErrSyntax, i)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrSyntax)
	}
	return out, nil
}

// maxDepth bounds nesting of parentheses and unary signs.
const maxDepth = 64

type parser struct {
	toks  []token
	pos   int
	depth int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

// expr := term (("+"|"-") term)*
func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if t.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

// term := unary (("*"|"/") unary)*
func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
}

// unary := ("+"|"-") unary | primary
func (p *parser) unary() (float64, error) {
	t, ok := p.peek()
	if ok && t.kind == tokOp && (t.text == "+" || t.text == "-") {
		if p.depth++; p.depth > maxDepth {
			return 0, fmt.Errorf("%w: nesting too deep", ErrSyntax)
		}
		defer func() { p.depth-- }()
		p.pos++
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if t.text == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.primary()
}

// primary := number | "(" expr ")"
func (p *parser) primary() (float64, error) {
	t, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("%w: unexpected end", ErrSyntax)
	}
	switch t.kind {
	case tokNumber:
		p.pos++
		return t.num, nil
	case tokLParen:
		if p.depth++; p.depth > maxDepth {
			return 0, fmt.Errorf("%w: nesting too deep", ErrSyntax)
		}
		defer func() { p.depth-- }()
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if t, ok := p.peek(); !ok || t.kind != tokRParen {
			return 0, fmt.Errorf("%w: missing )", ErrSyntax)
		}
		p.pos++
		return v, nil
	default:
		return 0, fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
	}
}
