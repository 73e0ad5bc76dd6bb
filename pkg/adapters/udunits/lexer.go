package udunits

import (
	"unicode"
	"unicode/utf8"
)

// scanner walks a unit expression byte by byte; identifiers are decoded as runes.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

// skipSpace consumes whitespace and reports whether any was found.
func (s *scanner) skipSpace() bool {
	start := s.pos
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return s.pos > start
		}
	}
	return s.pos > start
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// atNumber reports whether a number literal starts at the cursor.
func (s *scanner) atNumber() bool {
	c := s.peek()
	return isDigit(c) || (c == '.' && isDigit(s.peekAt(1)))
}

// atSignedInt reports whether an optionally signed integer starts at the cursor.
func (s *scanner) atSignedInt() bool {
	c := s.peek()
	if c == '-' || c == '+' {
		return isDigit(s.peekAt(1))
	}
	return isDigit(c)
}

func (s *scanner) atIdent() bool {
	if s.eof() {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return isIdentRune(r)
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '%' || r == '°' || r == '\''
}

// scanIdent consumes a run of identifier runes. Digits end an identifier: "m2" is m^2.
func (s *scanner) scanIdent() string {
	start := s.pos
	for !s.eof() {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentRune(r) {
			break
		}
		s.pos += size
	}
	return s.src[start:s.pos]
}

// scanNumber consumes digits with an optional fraction and decimal exponent.
// A '.' not followed by a digit is left for the product operator.
func (s *scanner) scanNumber() string {
	start := s.pos
	for isDigit(s.peek()) {
		s.pos++
	}
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.pos++
		for isDigit(s.peek()) {
			s.pos++
		}
	}
	if c := s.peek(); c == 'e' || c == 'E' {
		next := s.peekAt(1)
		if isDigit(next) || ((next == '-' || next == '+') && isDigit(s.peekAt(2))) {
			s.pos += 2
			for isDigit(s.peek()) {
				s.pos++
			}
		}
	}
	return s.src[start:s.pos]
}

// scanSignedInt consumes an optionally signed integer.
func (s *scanner) scanSignedInt() string {
	start := s.pos
	if c := s.peek(); c == '-' || c == '+' {
		s.pos++
	}
	for isDigit(s.peek()) {
		s.pos++
	}
	return s.src[start:s.pos]
}
