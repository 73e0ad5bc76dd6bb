package udunits

import (
	"math/big"
	"strconv"
)

// formatRat prints r in Go's shortest float form ("0.01", "86400", "1.1574074074074073e-05").
// Exact values stay in the Unit; this is presentation only.
func formatRat(r *big.Rat) string {
	if r.IsInt() {
		if n := r.Num(); n.IsInt64() && abs64(n.Int64()) < 1e15 {
			return n.String()
		}
	}
	f, _ := r.Float64()
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// describe renders a unit relative to its base representation.
func describe(u *Unit) string {
	base := u.String()
	scaleOne := u.scale.Cmp(ratOne) == 0

	if u.isAffine() {
		ref := base
		if !scaleOne {
			ref = formatRat(u.scale) + " " + base
		}
		return "(" + ref + ") @ " + formatRat(u.offset)
	}

	if u.dims.isZero() {
		if u.label != "" && scaleOne {
			return u.label
		}
		return formatRat(u.scale)
	}
	if scaleOne {
		return base
	}
	return formatRat(u.scale) + " " + base
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
