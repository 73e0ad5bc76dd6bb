package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-units/pkg/adapters/quarantine"
)

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNormalize(t *testing.T) {
	out, _, err := run(t, "normalize", "g.[plant]-1.d-1", "g/m2/s")
	require.NoError(t, err)
	assert.Equal(t, "g.d-1\ng/(m2.s)\n", out)

	out, _, err = run(t, "normalize", "-v", "g[C]/100g[soil]")
	require.NoError(t, err)
	assert.Equal(t, "g[C]/100g[soil]\tstripped=g/100g\tnormalized=g/(100g)\trules=NUMERIC_DENOMINATOR\n", out)
}

func TestDescribeAndCategory(t *testing.T) {
	out, _, err := run(t, "describe", "degC")
	require.NoError(t, err)
	assert.Equal(t, "(K) @ 273.15\n", out)

	out, _, err = run(t, "category", "deg")
	require.NoError(t, err)
	assert.Equal(t, "Plane Angle\n", out)

	_, _, err = run(t, "describe", "not_a_real_unit")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	out, _, err := run(t, "convert", "cm", "m", "1")
	require.NoError(t, err)
	assert.Equal(t, "0.01\n", out)

	out, _, err = run(t, "convert", "--precision", "0", "g/m2/s", "g/m2/h", "1")
	require.NoError(t, err)
	assert.Equal(t, "3600\n", out)

	_, _, err = run(t, "convert", "m", "kg", "1")
	assert.Error(t, err)
}

func TestConvertUsesConfiguredPrecision(t *testing.T) {
	cfg := filepath.Join("testdata", "config.yaml")

	out, _, err := run(t, "--config", cfg, "convert", "oC", "K", "1")
	require.NoError(t, err)
	assert.Equal(t, "274.15\n", out)

	out, _, err = run(t, "--config", cfg, "convert", "-p", "0", "cm", "m", "150")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestValidate(t *testing.T) {
	out, _, err := run(t, "validate", "cm", "g/[plant]/d")
	require.NoError(t, err)
	assert.Contains(t, out, "ok\tg/[plant]/d\tg/d\n")
	assert.Contains(t, out, "2 units, 0 invalid")

	qfile := filepath.Join(t.TempDir(), "q", "quarantine.jsonl")
	out, _, err = run(t, "--config", filepath.Join("testdata", "config.yaml"), "validate", "--quarantine-out", qfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus_unit")
	assert.Contains(t, out, "ok\toC\tdegC\n")
	assert.Contains(t, out, "FAIL\tbogus_unit\tbogus_unit\tunknown_unit\n")

	f, err := os.Open(qfile)
	require.NoError(t, err)
	defer f.Close()
	records, err := quarantine.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bogus_unit", records[0].Raw)
}

func TestBatch(t *testing.T) {
	out, _, err := run(t, "batch", filepath.Join("testdata", "requests.csv"))
	require.Error(t, err, "rows that fail to convert make the command fail")
	assert.Contains(t, err.Error(), "bad:")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "depth\t1 cm -> m\t0.01", lines[0])
	assert.Equal(t, "flux\t1 g/m2/s -> g/m2/h\t3600", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "bad\t1 m -> kg\terror: "))
	assert.Equal(t, "3 rows, 3 parsed, 0 skipped", lines[3])
}

func TestBatchJSONFormatFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.txt")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","from":"t/ha","to":"kg/ha","value":2.5}]`), 0o644))

	out, _, err := run(t, "batch", "--format", "json", path)
	require.NoError(t, err)
	assert.Contains(t, out, "a\t2.5 t/ha -> kg/ha\t2500\n")

	_, _, err = run(t, "batch", path)
	assert.Error(t, err, "unknown extension without --format")
}

func TestMetricsFlag(t *testing.T) {
	_, stderr, err := run(t, "--metrics", "convert", "cm", "m", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, `prism_units_operations_total{op="convert",outcome="ok"} 1`)
}
