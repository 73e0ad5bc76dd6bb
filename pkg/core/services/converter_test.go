package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-units/pkg/adapters/udunits"
	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/services"
	"github.com/renjie/prism-units/pkg/core/services/rules"
)

// recordingObserver counts outcomes per operation.
type recordingObserver struct {
	mu       sync.Mutex
	ok, fail map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{ok: map[string]int{}, fail: map[string]int{}}
}

func (o *recordingObserver) Observe(op string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.fail[op]++
		return
	}
	o.ok[op]++
}

func newConverter(t *testing.T, opts ...services.ConverterOption) *services.UnitConverter {
	t.Helper()
	engine, err := udunits.Default()
	require.NoError(t, err)
	return services.NewUnitConverter(engine, opts...)
}

func TestConverterScenarios(t *testing.T) {
	c := newConverter(t)

	// 1. Annotation stripping
	assert.Equal(t, "g.d-1", services.Strip("g.[plant]-1.d-1"))
	assert.Equal(t, "g/d", services.Strip("g/[plant]/d"))

	// 2. Description
	d, err := c.Describe("cm")
	require.NoError(t, err)
	assert.Equal(t, "0.01 m", d)

	d, err = c.Describe("degC")
	require.NoError(t, err)
	assert.Equal(t, "(K) @ 273.15", d)

	// 3. Conversion
	v, err := c.Convert("cm", "m", "1")
	require.NoError(t, err)
	assert.Equal(t, "0.01", v.String())

	v, err = c.ConvertWithPrecision("g/m2/s", "g/m2/h", "1", 0)
	require.NoError(t, err)
	assert.Equal(t, "3600", v.String())

	// 4. Validation and category
	assert.False(t, c.IsValid("not_a_real_unit"))

	cat, err := c.Category("deg")
	require.NoError(t, err)
	assert.Equal(t, "Plane Angle", cat)
}

func TestPreParse(t *testing.T) {
	c := newConverter(t)

	assert.Equal(t, "g/(m2.s)", c.PreParse("g/m2/s"))
	assert.Equal(t, "g/(100g)", c.PreParse("g[C]/100g[soil]"))
	assert.Equal(t, "kg/ha", c.PreParse(" kg [DM]/ha "))
	assert.Equal(t, "m", c.PreParse("m"))
}

func TestIsValid(t *testing.T) {
	c := newConverter(t)

	valid := []string{
		"cm", "g.[plant]-1.d-1", "g/[plant]/d", "g[C]/100g[soil]", "kg [DM]/ha",
		"number", "%", "degC", "MJ/m2/d", "cmol/kg", "mS/cm", "[plant]/m2", "doy",
	}
	for _, u := range valid {
		assert.Truef(t, c.IsValid(u), "expected %q to be valid", u)
	}

	invalid := []string{"not_a_real_unit", "", "g/", "g/[plant", "kg/hectacre", "m^", "(m^16)^16"}
	for _, u := range invalid {
		assert.Falsef(t, c.IsValid(u), "expected %q to be invalid", u)
	}
}

func TestDescribe(t *testing.T) {
	c := newConverter(t)

	cases := map[string]string{
		"g[C]/100g[soil]": "0.01",
		"number":          "count",
		"kg [DM]/ha":      "0.0001 kg.m-2",
		"g/m2/s":          "0.001 kg.m-2.s-1",
		"[plant]/m2":      "m-2",
	}
	for raw, want := range cases {
		got, err := c.Describe(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := c.Describe("not_a_real_unit")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnknownUnit))
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
}

func TestCategoryFallback(t *testing.T) {
	c := newConverter(t)

	cat, err := c.Category("m.s-1.kg")
	require.NoError(t, err)
	assert.Equal(t, "Derived", cat)

	_, err = c.Category("furlong")
	assert.True(t, domain.IsKind(err, domain.KindUnknownUnit))
}

func TestConvert(t *testing.T) {
	c := newConverter(t)

	cases := []struct {
		from, to, value string
		want            string
	}{
		{"m", "cm", "1.5", "150"},
		{"degC", "degF", "100", "212"},
		{"degC", "K", "-273.15", "0"},
		{"K", "degC", "0", "-273.15"},
		{"t/ha", "kg/ha", "2.5", "2500"},
		{"g/kg", "%", "15", "1.5"},
		{"g[C]/100g[soil]", "g/kg", "1.2", "12"},
		{"m", "ft", "1", "3.28083989501312335958005249343832"},
		{"min", "h", "1", "0.01666666666666666666666666666666667"},
		{"m", "m", "1e3", "1000"},
		{"m", "m", "+0.50", "0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			v, err := c.Convert(tc.from, tc.to, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.String())
		})
	}
}

func TestConvertWithPrecision(t *testing.T) {
	c := newConverter(t)

	cases := []struct {
		from, to, value string
		precision       int
		want            string
	}{
		{"cm", "m", "1", 3, "0.010"},
		{"m", "ft", "1", 4, "3.2808"},
		{"m", "m", "0.125", 2, "0.13"},
		{"m", "m", "0.124", 2, "0.12"},
		{"g/m2/s", "g/m2/h", "1", 2, "3600.00"},
		{"min", "h", "1", 0, "0"},
	}
	for _, tc := range cases {
		v, err := c.ConvertWithPrecision(tc.from, tc.to, tc.value, tc.precision)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v.String())
	}
}

func TestConvertChainedDivisionEquivalence(t *testing.T) {
	c := newConverter(t)

	pairs := [][2]string{
		{"g/m2/s", "g/(m2.s)"},
		{"kg/ha/d", "kg/(ha.d)"},
		{"mol/m2/s/Pa", "mol/(m2.s.Pa)"},
		{"MJ/m2/d", "MJ.m-2.d-1"},
	}
	for _, p := range pairs {
		v, err := c.Convert(p[0], p[1], "1")
		require.NoError(t, err, p[0])
		assert.Equal(t, "1", v.String(), "%s should equal %s", p[0], p[1])
	}
}

func TestConvertRoundTrip(t *testing.T) {
	c := newConverter(t)

	cases := [][3]string{
		{"degC", "degF", "37.5"},
		{"kg/ha", "lb/acre", "1200"},
		{"%", "ppm", "0.25"},
		{"kPa", "bar", "101.325"},
	}
	for _, tc := range cases {
		there, err := c.Convert(tc[0], tc[1], tc[2])
		require.NoError(t, err)
		back, err := c.Convert(tc[1], tc[0], there.String())
		require.NoError(t, err)
		assert.Equal(t, tc[2], back.String(), "%s -> %s -> %s", tc[0], tc[1], tc[0])
	}
}

func TestConvertErrors(t *testing.T) {
	c := newConverter(t)

	_, err := c.Convert("m", "kg", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompatibleDimensions)
	assert.Equal(t, domain.KindIncompatibleDimensions, domain.KindOf(err))

	for _, bad := range []string{"abc", "1/3", "", "NaN", "0x10", "1,5"} {
		_, err = c.Convert("m", "cm", bad)
		assert.Truef(t, domain.IsKind(err, domain.KindMalformedValue), "value %q: %v", bad, err)
	}

	_, err = c.ConvertWithPrecision("m", "cm", "1", -1)
	assert.True(t, domain.IsKind(err, domain.KindMalformedValue))

	_, err = c.Convert("not_a_real_unit", "m", "1")
	assert.True(t, domain.IsKind(err, domain.KindUnknownUnit))

	_, err = c.Convert("m", "g/(m2", "1")
	assert.True(t, domain.IsKind(err, domain.KindSyntax))
	assert.False(t, errors.Is(err, domain.ErrUnknownUnit))

	// 指数溢出不能退化为无量纲单位
	_, err = c.Convert("(m^16)^16", "count", "1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrIncompatibleDimensions))
}

func TestConverterOptions(t *testing.T) {
	obs := newRecordingObserver()
	alias := &rules.TermAliasRule{Aliases: map[string]string{"oC": "degC"}}
	c := newConverter(t,
		services.WithRewriteRules(alias, &rules.ChainedDivisionRule{}),
		services.WithObserver(obs),
		services.WithConcurrencyLimit(0),
		services.WithLogger(nil),
		services.WithSanitizer(nil),
	)

	d, err := c.Describe("oC")
	require.NoError(t, err)
	assert.Equal(t, "(K) @ 273.15", d)

	// NumericDenominatorRule is not installed, so g/100g scales by 1/100 only.
	assert.Equal(t, "g/100g", c.PreParse("g/100g"))

	c.IsValid("cm")
	c.IsValid("bogus_unit")
	_, _ = c.Convert("m", "kg", "1")

	assert.Equal(t, 1, obs.ok["describe"])
	assert.Equal(t, 1, obs.ok["is_valid"])
	assert.Equal(t, 1, obs.fail["is_valid"])
	assert.Equal(t, 1, obs.fail["convert"])
}

func TestConverterIsSafeForConcurrentUse(t *testing.T) {
	c := newConverter(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.ConvertWithPrecision("g/m2/s", "g/m2/h", "1", 0)
			assert.NoError(t, err)
			assert.Equal(t, "3600", v.String())
			assert.True(t, c.IsValid("g.[plant]-1.d-1"))
		}()
	}
	wg.Wait()
}

func TestConverterWithLeavesOriginalUntouched(t *testing.T) {
	base := newConverter(t)
	obs := newRecordingObserver()
	derived := base.With(services.WithObserver(obs))

	base.IsValid("cm")
	derived.IsValid("cm")

	assert.Equal(t, 1, obs.ok["is_valid"])
}
