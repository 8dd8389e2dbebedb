package statsd

import (
	"sync"
	"testing"

	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
)

func TestMetricPublish(t *testing.T) {
	t.Run("should encode tags into the name for influx format", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			gotName string
			gotTags []string
		)
		wg.Add(1)
		m := &Metric{
			logger:        log.NewNoop(),
			name:          "query.pipeline",
			withInfluxTag: true,
			publishFunc: func(name string, tags []string, rate float64) error {
				defer wg.Done()
				gotName, gotTags = name, tags
				return nil
			},
		}

		m.Tag("stage", "search").Success().Publish()
		wg.Wait()

		assert.Equal(t, "query.pipeline,stage=search,success=true", gotName)
		assert.Nil(t, gotTags)
	})

	t.Run("should pass datadog tags separately", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			gotName string
			gotTags []string
		)
		wg.Add(1)
		m := &Metric{
			logger: log.NewNoop(),
			name:   "savedsearch.save",
			rate:   1,
			publishFunc: func(name string, tags []string, rate float64) error {
				defer wg.Done()
				gotName, gotTags = name, tags
				return nil
			},
		}

		m.Failure().Tag("backend", "redis").Publish()
		wg.Wait()

		assert.Equal(t, "savedsearch.save", gotName)
		assert.Equal(t, []string{"backend:redis", "success:false"}, gotTags)
	})

	t.Run("should ignore a nil metric", func(t *testing.T) {
		var m *Metric
		assert.NotPanics(t, func() {
			m.Tag("a", "b").Success().Publish()
		})
	})
}

func TestDisabledReporter(t *testing.T) {
	r, err := Init(log.NewNoop(), Config{Enabled: false})
	assert.NoError(t, err)
	assert.Nil(t, r.Timing("query.pipeline", 0))
	assert.NoError(t, r.Close())

	var nilReporter *Reporter
	assert.Nil(t, nilReporter.Incr("x"))
}
