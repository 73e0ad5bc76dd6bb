package services

import (
	"math/big"
	"regexp"
	"strings"

	"gopkg.in/inf.v0"
)

// DefaultSignificantDigits 非有限小数结果保留的有效数字位数 (与 decimal128 一致)
const DefaultSignificantDigits = 34

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseDecimal parses a plain decimal literal exactly. Fractions ("1/3"), hex and
// NaN/Inf are rejected.
func parseDecimal(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	return r, ok
}

// ratToScale rounds half-up to a fixed number of fractional digits.
func ratToScale(r *big.Rat, scale int) *inf.Dec {
	num := new(inf.Dec).SetUnscaledBig(r.Num())
	den := new(inf.Dec).SetUnscaledBig(r.Denom())
	return new(inf.Dec).QuoRound(num, den, inf.Scale(scale), inf.RoundHalfUp)
}

// ratToDec returns terminating values exactly and rounds the rest to digits
// significant digits.
func ratToDec(r *big.Rat, digits int) *inf.Dec {
	num := new(inf.Dec).SetUnscaledBig(r.Num())
	den := new(inf.Dec).SetUnscaledBig(r.Denom())
	if exact := new(inf.Dec).QuoExact(num, den); exact != nil {
		return trimZeros(exact)
	}
	scale := digits - 1 - decimalExponent(r)
	return trimZeros(ratToScale(r, scale))
}

// decimalExponent returns floor(log10(|r|)) for r != 0.
func decimalExponent(r *big.Rat) int {
	num := new(big.Int).Abs(r.Num())
	den := r.Denom()
	if num.Sign() == 0 {
		return 0
	}
	if q := new(big.Int).Quo(num, den); q.Sign() > 0 {
		return len(q.String()) - 1
	}
	e := 0
	ten := big.NewInt(10)
	for num.Cmp(den) < 0 {
		num.Mul(num, ten)
		e--
	}
	return e
}

// trimZeros drops trailing fractional zeros and normalizes negative scales.
func trimZeros(d *inf.Dec) *inf.Dec {
	if d.Scale() < 0 {
		d = new(inf.Dec).Round(d, 0, inf.RoundHalfUp)
	}
	u := new(big.Int).Set(d.UnscaledBig())
	s := d.Scale()
	ten := big.NewInt(10)
	q, m := new(big.Int), new(big.Int)
	for s > 0 {
		q.QuoRem(u, ten, m)
		if m.Sign() != 0 {
			break
		}
		u.Set(q)
		s--
	}
	return new(inf.Dec).SetUnscaledBig(u).SetScale(s)
}
