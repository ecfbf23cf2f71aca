package keel

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	app := New(":0")
	collector := NewCollector(app, "keel")

	t.Run("registers cleanly", func(t *testing.T) {
		reg := prometheus.NewPedanticRegistry()
		require.NoError(t, reg.Register(collector))
	})

	t.Run("passes the linter", func(t *testing.T) {
		problems, err := testutil.CollectAndLint(collector)
		require.NoError(t, err)
		require.Empty(t, problems)
	})

	t.Run("exposes every counter", func(t *testing.T) {
		require.Equal(t, 12, testutil.CollectAndCount(collector))
	})

	t.Run("values track the app", func(t *testing.T) {
		app.stats.ConnsAccepted.Add(3)
		app.stats.ConnsActive.Add(2)

		expected := strings.NewReader(`
# HELP keel_connections_accepted_total Connections accepted off the listener.
# TYPE keel_connections_accepted_total counter
keel_connections_accepted_total 3
# HELP keel_connections_active Connections currently being served.
# TYPE keel_connections_active gauge
keel_connections_active 2
`)
		require.NoError(t, testutil.CollectAndCompare(collector, expected,
			"keel_connections_accepted_total", "keel_connections_active"))
	})
}
