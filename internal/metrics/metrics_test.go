package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndTextfile(t *testing.T) {
	m := New()
	m.Lines.Add(7)
	m.Accepted.Add(3)
	m.Rejected.Add(4)
	m.ObserveCache(5, 2)
	m.Finish(3, 1500*time.Millisecond)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.Lines))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.UniqueDomains))

	fn := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, m.WriteTextfile(fn))
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	out := string(b)
	assert.True(t, strings.Contains(out, "fqdnsan_lines_total 7"), out)
	assert.True(t, strings.Contains(out, "fqdnsan_run_duration_seconds 1.5"), out)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Lines.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Lines))

	a.ObserveCache(1, 1)
	n, err := testutil.GatherAndCount(a.Registry(), "fqdnsan_lines_total", "fqdnsan_validation_cache_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "one lines series plus hit and miss")

	n, err = testutil.GatherAndCount(b.Registry(), "fqdnsan_validation_cache_lookups_total")
	require.NoError(t, err)
	assert.Zero(t, n)
}
