package services

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	good := map[string]string{
		"1":       "1",
		"-2.5":    "-5/2",
		"1e3":     "1000",
		"1.5E-2":  "3/200",
		" 0.125 ": "1/8",
	}
	for in, want := range good {
		r, ok := parseDecimal(in)
		if assert.Truef(t, ok, "parseDecimal(%q)", in) {
			assert.Equal(t, want, r.RatString())
		}
	}

	for _, in := range []string{"", "abc", "1/3", "Inf", "NaN", "0x1p3", "1e", "--1", "1.2.3"} {
		_, ok := parseDecimal(in)
		assert.Falsef(t, ok, "parseDecimal(%q) should fail", in)
	}
}

func TestRatToDec(t *testing.T) {
	cases := []struct {
		r    *big.Rat
		want string
	}{
		{big.NewRat(1, 100), "0.01"},
		{big.NewRat(3600, 1), "3600"},
		{big.NewRat(1, 3), "0.3333333333333333333333333333333333"},
		{big.NewRat(2, 3), "0.6666666666666666666666666666666667"},
		{big.NewRat(-1, 8), "-0.125"},
		{big.NewRat(0, 1), "0"},
		{big.NewRat(200000, 3), "66666.66666666666666666666666666667"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ratToDec(c.r, DefaultSignificantDigits).String(), c.r.RatString())
	}
}

func TestRatToScale(t *testing.T) {
	assert.Equal(t, "0.33", ratToScale(big.NewRat(1, 3), 2).String())
	assert.Equal(t, "0.67", ratToScale(big.NewRat(2, 3), 2).String())
	assert.Equal(t, "3", ratToScale(big.NewRat(5, 2), 0).String())
	assert.Equal(t, "1.000", ratToScale(big.NewRat(1, 1), 3).String())
}

func TestDecimalExponent(t *testing.T) {
	assert.Equal(t, 0, decimalExponent(big.NewRat(5, 1)))
	assert.Equal(t, 3, decimalExponent(big.NewRat(1234, 1)))
	assert.Equal(t, -1, decimalExponent(big.NewRat(1, 10)))
	assert.Equal(t, -2, decimalExponent(big.NewRat(1, 60)))
	assert.Equal(t, -3, decimalExponent(big.NewRat(-1, 1000)))
}
