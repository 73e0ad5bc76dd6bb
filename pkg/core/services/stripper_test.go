package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renjie/prism-units/pkg/core/services"
)

func TestStrip(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"g.[plant]-1.d-1", "g.d-1"},
		{"g/[plant]/d", "g/d"},
		{"g/[plant]", "g"},
		{"g.[plant]^-2", "g"},
		{"g.[plant]^2.d", "g.d"},
		{"g.[plant]2", "g"},
		{"g[C]/100g[soil]", "g/100g"},
		{"kg [DM]/ha", "kg/ha"},
		{"[plant]/m2", "1/m2"},
		{"[plant].m-2", "m-2"},
		{"[plant]", "1"},
		{"m2/(m2.[leaf])", "m2/(m2)"},
		{"m2/([leaf].m2)", "m2/(m2)"},
		{"m2/([leaf])", "m2/(1)"},
		{"cm", "cm"},
		{"", ""},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			assert.Equal(t, c.want, services.Strip(c.raw))
		})
	}
}

func FuzzStrip(f *testing.F) {
	for _, seed := range []string{
		"g.[plant]-1.d-1",
		"g/[plant]/d",
		"g/[plant]",
		"g.[plant]^-2",
		"g[C]/100g[soil]",
		"kg [DM]/ha",
		"[plant]/m2",
		"[plant]",
		"m2/(m2.[leaf])",
		"m2/([leaf])",
		"g/[plant",
		"g/[a] [b]",
		"2//[] d",
		"(/[] -2g",
		"/[2] (g",
		"2//[] [b] d",
		"g/[x] (d)",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, raw string) {
		once := services.Strip(raw)
		if twice := services.Strip(once); twice != once {
			t.Fatalf("Strip(%q) = %q, Strip again = %q", raw, once, twice)
		}
	})
}

func TestStripDropsDanglingImplicitProduct(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2//[] d", "2/d"},
		{"(/[] -2g", "(-2g"},
		{"/[2] (g", "(g"},
		{"g/[x] (d)", "g (d)"},
		{"g/[a] [b]", "g"},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			assert.Equal(t, c.want, services.Strip(c.raw))
		})
	}
}
