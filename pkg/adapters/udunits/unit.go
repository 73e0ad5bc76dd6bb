package udunits

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
)

// maxBaseUnits bounds the number of base dimensions a database may declare.
const maxBaseUnits = 10

const (
	// maxDimExponent bounds the accumulated exponent of any single base unit.
	maxDimExponent = 64
	// maxScaleBits bounds numerator and denominator of a scale factor (about 1e1233).
	maxScaleBits = 4096
)

var (
	errExponentRange = errors.New("dimension exponent out of range")
	errScaleRange    = errors.New("scale factor out of range")
)

// dimension is the exponent vector over the database's base units.
type dimension [maxBaseUnits]int8

func (d dimension) add(o dimension, sign int) (dimension, error) {
	for i := range d {
		v := int(d[i]) + sign*int(o[i])
		if abs(v) > maxDimExponent {
			return d, errExponentRange
		}
		d[i] = int8(v)
	}
	return d, nil
}

func (d dimension) scale(n int) (dimension, error) {
	for i := range d {
		v := int(d[i]) * n
		if abs(v) > maxDimExponent {
			return d, errExponentRange
		}
		d[i] = int8(v)
	}
	return d, nil
}

func (d dimension) isZero() bool { return d == dimension{} }

// Unit is a resolved unit: value_in_base = scale*value + offset.
// Units are immutable once built.
type Unit struct {
	db     *Database
	scale  *big.Rat
	offset *big.Rat // nil for purely multiplicative units
	dims   dimension
	label  string // dimensionless category name ("count", "fraction"), kept only while untouched
}

var ratOne = big.NewRat(1, 1)

func (u *Unit) isAffine() bool { return u.offset != nil && u.offset.Sign() != 0 }

// String renders the base-unit part, e.g. "kg.m-2"; "1" when dimensionless.
func (u *Unit) String() string {
	var parts []string
	for _, slot := range u.db.baseOrder {
		exp := u.dims[slot]
		if exp == 0 {
			continue
		}
		sym := u.db.bases[slot].Symbol
		if exp != 1 {
			sym += strconv.Itoa(int(exp))
		}
		parts = append(parts, sym)
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, ".")
}

func (u *Unit) mul(o *Unit) (*Unit, error) {
	return u.combine(o, 1)
}

func (u *Unit) div(o *Unit) (*Unit, error) {
	return u.combine(o, -1)
}

func (u *Unit) combine(o *Unit, sign int) (*Unit, error) {
	dims, err := u.dims.add(o.dims, sign)
	if err != nil {
		return nil, err
	}
	s := new(big.Rat)
	if sign > 0 {
		s.Mul(u.scale, o.scale)
	} else {
		s.Quo(u.scale, o.scale)
	}
	if scaleTooLarge(s, 1) {
		return nil, errScaleRange
	}
	return &Unit{db: u.db, scale: s, dims: dims}, nil
}

func (u *Unit) pow(n int) (*Unit, error) {
	dims, err := u.dims.scale(n)
	if err != nil {
		return nil, err
	}
	// bound the size before Exp so nested powers are never materialized
	if scaleTooLarge(u.scale, abs(n)) {
		return nil, errScaleRange
	}
	e := big.NewInt(int64(abs(n)))
	s := new(big.Rat).SetInt(new(big.Int).Exp(u.scale.Num(), e, nil))
	s.Quo(s, new(big.Rat).SetInt(new(big.Int).Exp(u.scale.Denom(), e, nil)))
	if n < 0 {
		s.Inv(s)
	}
	return &Unit{db: u.db, scale: s, dims: dims}, nil
}

func scaleTooLarge(s *big.Rat, n int) bool {
	return s.Num().BitLen()*n > maxScaleBits || s.Denom().BitLen()*n > maxScaleBits
}

// shift moves the origin: a value v of the result equals v+origin of u.
func (u *Unit) shift(origin *big.Rat) *Unit {
	off := new(big.Rat).Mul(u.scale, origin)
	if u.offset != nil {
		off.Add(off, u.offset)
	}
	return &Unit{db: u.db, scale: u.scale, offset: off, dims: u.dims}
}

// withPrefix applies a prefix factor; labels do not survive prefixing.
func (u *Unit) withPrefix(factor *big.Rat) *Unit {
	return &Unit{db: u.db, scale: new(big.Rat).Mul(u.scale, factor), offset: u.offset, dims: u.dims}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
