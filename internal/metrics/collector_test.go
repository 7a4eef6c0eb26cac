package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSaveIncrementsLabeledCounter(t *testing.T) {
	SavesTotal.Reset()

	RecordSave(nil)
	RecordSave(errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(SavesTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SavesTotal.WithLabelValues("error")))
}

func TestRecordKeyDerivationObservesHistogram(t *testing.T) {
	sampleCount := func() uint64 {
		families, err := Registry.Gather()
		require.NoError(t, err)
		for _, f := range families {
			if f.GetName() == "safecloset_key_derivation_seconds" {
				return f.GetMetric()[0].GetHistogram().GetSampleCount()
			}
		}
		return 0
	}
	before := sampleCount()
	RecordKeyDerivation(50 * time.Millisecond)
	after := sampleCount()
	assert.Greater(t, after, before)
}

func TestRegistryGathersRegisteredMetrics(t *testing.T) {
	families, err := Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"safecloset_drawers_created_total",
		"safecloset_drawers_opened_total",
		"safecloset_auth_failures_total",
		"safecloset_saves_total",
		"safecloset_key_derivation_seconds",
	} {
		assert.True(t, names[want], "missing metric %q", want)
	}
}
