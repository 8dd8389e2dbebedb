package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/goto/salt/log"
	"github.com/goto/sieve/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("should be a no-op when every exporter is disabled", func(t *testing.T) {
		nrApp, cleanUp, err := telemetry.Init(context.Background(), telemetry.Config{AppName: "sieve"}, log.NewNoop())
		require.NoError(t, err)
		assert.Nil(t, nrApp)
		assert.NotPanics(t, cleanUp)
	})

	t.Run("should fail on an invalid new relic license", func(t *testing.T) {
		_, cleanUp, err := telemetry.Init(context.Background(), telemetry.Config{
			AppName:  "sieve",
			NewRelic: telemetry.NewRelicConfig{Enabled: true, LicenseKey: "invalid"},
		}, log.NewNoop())
		assert.ErrorContains(t, err, "init new relic monitor")
		assert.NotPanics(t, cleanUp)
	})

	t.Run("should start the otlp pipeline with host and runtime metrics", func(t *testing.T) {
		nrApp, cleanUp, err := telemetry.Init(context.Background(), telemetry.Config{
			AppName:    "sieve",
			AppVersion: "test",
			OpenTelemetry: telemetry.OpenTelemetryConfig{
				Enabled:                true,
				CollectorAddr:          "127.0.0.1:1",
				PeriodicReadInterval:   time.Hour,
				TraceSampleProbability: 1,
			},
		}, log.NewNoop())
		require.NoError(t, err)
		assert.Nil(t, nrApp)
		assert.NotPanics(t, cleanUp)
	})
}
