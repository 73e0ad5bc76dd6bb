package metrics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-units/pkg/core/domain"
)

func TestRecorderObserve(t *testing.T) {
	r := NewRecorder()

	r.Observe("convert", nil)
	r.Observe("convert", nil)
	r.Observe("convert", domain.NewError("udunits.parse", domain.KindUnknownUnit, "furlong", errors.New("no such unit")))
	r.Observe("describe", errors.New("plain failure"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Counter("convert", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Counter("convert", "unknown_unit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Counter("describe", "error")))
}

func TestRecorderWriteText(t *testing.T) {
	r := NewRecorder()
	r.Observe("is_valid", nil)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), `prism_units_operations_total{op="is_valid",outcome="ok"} 1`)
}
