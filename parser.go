package mathy

import (
	"math/big"
	"strings"
	"unicode"
)

// Parse turns infix problem text into an expression tree.
//
// Accepted syntax: integers and decimals, variables, the binary operators
// + - * / ^, unary minus, parentheses, and implicit multiplication in the
// forms a generator emits: "4x", "4x^2", "2(x + 1)", "(x + 1)(x + 2)".
// Failures return a *ParseError naming the offending substring.
func Parse(input string) (*Node, error) {
	p := &parser{input: input, tokens: lex(input)}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.errorAt(tok)
	}
	return root, nil
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenCaret
	tokenLParen
	tokenRParen
	tokenInvalid
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(input string) []token {
	var out []token
	i := 0
	for i < len(input) {
		c := rune(input[i])
		switch {
		case c == ' ' || c == '\t':
			i++
		case c >= '0' && c <= '9':
			start := i
			seenDot := false
			for i < len(input) {
				ch := input[i]
				if ch >= '0' && ch <= '9' {
					i++
					continue
				}
				if ch == '.' && !seenDot {
					seenDot = true
					i++
					continue
				}
				break
			}
			out = append(out, token{tokenNumber, input[start:i], start})
		case unicode.IsLetter(c):
			start := i
			for i < len(input) && unicode.IsLetter(rune(input[i])) {
				i++
			}
			out = append(out, token{tokenIdent, input[start:i], start})
		default:
			kind := tokenInvalid
			switch c {
			case '+':
				kind = tokenPlus
			case '-':
				kind = tokenMinus
			case '*':
				kind = tokenStar
			case '/':
				kind = tokenSlash
			case '^':
				kind = tokenCaret
			case '(':
				kind = tokenLParen
			case ')':
				kind = tokenRParen
			}
			out = append(out, token{kind, string(c), i})
			i++
		}
	}
	out = append(out, token{tokenEOF, "", len(input)})
	return out
}

type parser struct {
	input  string
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorAt(t token) error {
	text := t.text
	if t.kind == tokenEOF {
		text = "end of input"
	}
	return &ParseError{Input: p.input, Pos: t.pos, Token: text}
}

// expr := term (("+" | "-") term)*
func (p *parser) parseExpr() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokenPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = NewAdd(left, right)
		case tokenMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = NewSubtract(left, right)
		default:
			return left, nil
		}
	}
}

// term := unary (("*" | "/" | implicit) unary)*
func (p *parser) parseTerm() (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokenStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = NewMultiply(left, right)
		case tokenSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = NewDivide(left, right)
		case tokenNumber, tokenIdent, tokenLParen:
			// Adjacency is multiplication: "4x", "2(x + 1)".
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = NewMultiply(left, right)
		default:
			return left, nil
		}
	}
}

// unary := "-" unary | power
func (p *parser) parseUnary() (*Node, error) {
	if p.peek().kind == tokenMinus {
		p.next()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewNegate(child), nil
	}
	return p.parsePower()
}

// power := atom ("^" unary)?   — right-associative
func (p *parser) parsePower() (*Node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokenCaret {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewPower(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (*Node, error) {
	t := p.peek()
	switch t.kind {
	case tokenNumber:
		p.next()
		v, ok := new(big.Rat).SetString(t.text)
		if !ok || strings.HasSuffix(t.text, ".") {
			return nil, p.errorAt(t)
		}
		return Const(v), nil
	case tokenIdent:
		p.next()
		return Var(t.text), nil
	case tokenLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, p.errorAt(closing)
		}
		return inner, nil
	}
	return nil, p.errorAt(t)
}
