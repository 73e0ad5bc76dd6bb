package udunits

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/renjie/prism-units/pkg/core/domain"
)

// maxExponent bounds a single written exponent; accumulated exponents are bounded by maxDimExponent.
const maxExponent = 20

// parser is a recursive-descent parser over the canonical unit grammar:
//
//	shift   := product [ "@" number ]
//	product := power { ( "." | "*" | "/" | space | juxtaposition ) power }
//	power   := basic [ "^" int | "**" int | int ]   (bare int only after identifiers and ")")
//	basic   := identifier | number | "(" product ")"
//
// Division is left-associative: "a/b.c" is (a/b).c.
type parser struct {
	db *Database
	s  scanner
}

func newParser(db *Database, expr string) *parser {
	return &parser{db: db, s: scanner{src: expr}}
}

func (p *parser) parse() (*Unit, error) {
	p.s.skipSpace()
	if p.s.eof() {
		return nil, p.syntaxError("empty unit expression")
	}
	u, err := p.parseShift()
	if err != nil {
		return nil, err
	}
	p.s.skipSpace()
	if !p.s.eof() {
		if p.s.peek() == ')' {
			return nil, p.syntaxError("unbalanced ')'")
		}
		return nil, p.syntaxError(fmt.Sprintf("unexpected %q", p.s.peek()))
	}
	return u, nil
}

func (p *parser) parseShift() (*Unit, error) {
	u, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	p.s.skipSpace()
	if p.s.peek() != '@' {
		return u, nil
	}
	p.s.pos++
	p.s.skipSpace()

	sign := ""
	if c := p.s.peek(); c == '-' || c == '+' {
		sign = string(c)
		p.s.pos++
	}
	if !p.s.atNumber() {
		return nil, p.syntaxError("expected origin after '@'")
	}
	origin, ok := new(big.Rat).SetString(sign + p.s.scanNumber())
	if !ok {
		return nil, p.syntaxError("invalid origin")
	}
	return u.shift(origin), nil
}

func (p *parser) parseProduct() (*Unit, error) {
	u, err := p.parsePower()
	if err != nil {
		return nil, err
	}

	for {
		mark := p.s.pos
		p.s.skipSpace()

		switch c := p.s.peek(); {
		case c == '.' || c == '*' || c == '/':
			p.s.pos++
			p.s.skipSpace()
			rhs, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			if c == '/' {
				u, err = u.div(rhs)
			} else {
				u, err = u.mul(rhs)
			}
			if err != nil {
				return nil, p.syntaxError(err.Error())
			}

		case c == '(' || p.s.atNumber() || p.s.atIdent():
			rhs, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			if u, err = u.mul(rhs); err != nil {
				return nil, p.syntaxError(err.Error())
			}

		default:
			p.s.pos = mark
			return u, nil
		}
	}
}

func (p *parser) parsePower() (*Unit, error) {
	u, exponentable, err := p.parseBasic()
	if err != nil {
		return nil, err
	}

	var expText string
	switch {
	case p.s.peek() == '^':
		p.s.pos++
		if !p.s.atSignedInt() {
			return nil, p.syntaxError("expected integer exponent after '^'")
		}
		expText = p.s.scanSignedInt()
	case p.s.peek() == '*' && p.s.peekAt(1) == '*':
		p.s.pos += 2
		if !p.s.atSignedInt() {
			return nil, p.syntaxError("expected integer exponent after '**'")
		}
		expText = p.s.scanSignedInt()
	case exponentable && p.s.atSignedInt():
		expText = p.s.scanSignedInt()
	default:
		return u, nil
	}

	n, err := strconv.Atoi(expText)
	if err != nil || abs(n) > maxExponent {
		return nil, p.syntaxError(fmt.Sprintf("invalid exponent %q", expText))
	}
	if u, err = u.pow(n); err != nil {
		return nil, p.syntaxError(err.Error())
	}
	return u, nil
}

// parseBasic returns the operand and whether a bare integer may follow as its exponent.
func (p *parser) parseBasic() (*Unit, bool, error) {
	switch {
	case p.s.peek() == '(':
		p.s.pos++
		p.s.skipSpace()
		u, err := p.parseProduct()
		if err != nil {
			return nil, false, err
		}
		p.s.skipSpace()
		if p.s.peek() != ')' {
			return nil, false, p.syntaxError("unbalanced '('")
		}
		p.s.pos++
		return u, true, nil

	case p.s.atNumber():
		text := p.s.scanNumber()
		v, ok := new(big.Rat).SetString(text)
		if !ok {
			return nil, false, p.syntaxError(fmt.Sprintf("invalid number %q", text))
		}
		if v.Sign() == 0 {
			return nil, false, p.syntaxError("zero scale factor")
		}
		return &Unit{db: p.db, scale: v}, false, nil

	case p.s.atIdent():
		id := p.s.scanIdent()
		u, ok := p.db.lookup(id)
		if !ok {
			return nil, false, domain.NewError("udunits.parse", domain.KindUnknownUnit, id,
				fmt.Errorf("no unit or prefixed unit named %q in %q", id, p.s.src))
		}
		return u, true, nil

	case p.s.eof():
		return nil, false, p.syntaxError("unexpected end of expression")

	default:
		return nil, false, p.syntaxError(fmt.Sprintf("unexpected %q", p.s.peek()))
	}
}

func (p *parser) syntaxError(msg string) error {
	return domain.NewError("udunits.parse", domain.KindSyntax, p.s.src,
		fmt.Errorf("%s at offset %d", msg, p.s.pos))
}
