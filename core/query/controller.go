package query

import (
	"context"
	"sync"
	"time"

	"github.com/goto/salt/log"
	"github.com/goto/sieve/core/filter"
	"github.com/goto/sieve/core/record"
	"github.com/goto/sieve/core/savedsearch"
	"github.com/goto/sieve/core/search"
	"github.com/goto/sieve/core/sorting"
	"github.com/goto/sieve/pkg/statsd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/goto/sieve/core/query")

const DefaultDebounce = 300 * time.Millisecond

type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateComputing
)

func (s State) String() string {
	switch s {
	case StateDebouncing:
		return "debouncing"
	case StateComputing:
		return "computing"
	}
	return "idle"
}

// Snapshot is the controller state handed to subscribers.
type Snapshot struct {
	Input
	Results []record.Record
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Controller holds the query, filters and sort of a list view and
// recomputes the visible records once input has been quiet for the
// debounce window.
type Controller struct {
	logger     log.Logger
	statsd     *statsd.Reporter
	debounce   time.Duration
	searchOpts search.Options
	schema     record.Schema

	mu          sync.Mutex
	records     []record.Record
	input       Input
	results     []record.Record
	state       State
	timer       *time.Timer
	generation  uint64
	closed      bool
	subscribers []subscriber
	nextSubID   int

	// serializes pipeline runs
	runMu sync.Mutex

	runDuration metric.Float64Histogram
}

type Option func(*Controller)

func WithLogger(logger log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithStatsDReporter(reporter *statsd.Reporter) Option {
	return func(c *Controller) {
		c.statsd = reporter
	}
}

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		c.debounce = d
	}
}

func WithSearchOptions(opts search.Options) Option {
	return func(c *Controller) {
		c.searchOpts = opts
	}
}

func WithSchema(schema record.Schema) Option {
	return func(c *Controller) {
		c.schema = schema
	}
}

// New creates a controller over records. The initial results are computed
// synchronously from an empty query.
func New(records []record.Record, opts ...Option) *Controller {
	runDuration, err := otel.Meter("github.com/goto/sieve/core/query").
		Float64Histogram("sieve.query.pipeline.duration", metric.WithUnit("ms"))
	if err != nil {
		otel.Handle(err)
	}

	c := &Controller{
		logger:      log.NewNoop(),
		debounce:    DefaultDebounce,
		searchOpts:  search.DefaultOptions(),
		records:     records,
		runDuration: runDuration,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.results = Run(c.records, c.input, c.searchOpts, c.schema)
	return c
}

func (c *Controller) SetQuery(q string) {
	c.update(func(in *Input) { in.Query = q })
}

func (c *Controller) SetFilters(filters []filter.Filter) {
	filters = append([]filter.Filter(nil), filters...)
	c.update(func(in *Input) { in.Filters = filters })
}

// SetSort sets the sort config; nil keeps the ranked order.
func (c *Controller) SetSort(cfg *sorting.Config) {
	if cfg != nil {
		cp := *cfg
		cfg = &cp
	}
	c.update(func(in *Input) { in.Sort = cfg })
}

// Load applies a saved search as a single input change.
func (c *Controller) Load(ss savedsearch.SavedSearch) {
	c.SetInput(Input{Query: ss.Query, Filters: ss.Filters, Sort: ss.Sort})
}

func (c *Controller) SetInput(in Input) {
	in.Filters = append([]filter.Filter(nil), in.Filters...)
	if in.Sort != nil {
		cp := *in.Sort
		in.Sort = &cp
	}
	c.update(func(cur *Input) { *cur = in })
}

// SetRecords replaces the collection the pipeline runs over.
func (c *Controller) SetRecords(records []record.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = records
	c.scheduleLocked()
}

func (c *Controller) update(fn func(*Input)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(&c.input)
	c.scheduleLocked()
}

// scheduleLocked restarts the debounce window. Only the last change inside
// the window triggers a run.
func (c *Controller) scheduleLocked() {
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}

	c.generation++
	gen := c.generation
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(gen)
	})
	if c.state == StateIdle {
		c.state = StateDebouncing
	}
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	c.compute()
}

// Flush cancels any pending debounce and recomputes immediately.
func (c *Controller) Flush() []record.Record {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
	c.mu.Unlock()

	c.compute()
	return c.Results()
}

func (c *Controller) compute() {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	records, in := c.records, c.input
	c.state = StateComputing
	c.mu.Unlock()

	_, span := tracer.Start(context.Background(), "query.Run", trace.WithAttributes(
		attribute.Int("query.records", len(records)),
		attribute.Int("query.filters", len(in.Filters)),
	))
	start := time.Now()
	results := Run(records, in, c.searchOpts, c.schema)
	c.instrumentRun(time.Since(start), in, len(records), len(results))
	span.SetAttributes(attribute.Int("query.results", len(results)))
	span.End()

	c.mu.Lock()
	c.results = results
	if c.timer != nil {
		c.state = StateDebouncing
	} else {
		c.state = StateIdle
	}
	snap := c.snapshotLocked()
	subs := append([]subscriber(nil), c.subscribers...)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(snap)
	}
}

// Subscribe registers fn to be called after every recompute. The returned
// function removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subscribers {
				if s.id == id {
					c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Close stops the pending debounce timer. Later input changes are kept but
// no longer trigger recomputation.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = StateIdle
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.Query
}

func (c *Controller) Filters() []filter.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]filter.Filter(nil), c.input.Filters...)
}

func (c *Controller) Sort() *sorting.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.input.Sort == nil {
		return nil
	}
	cp := *c.input.Sort
	return &cp
}

// Results returns the last computed list.
func (c *Controller) Results() []record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]record.Record(nil), c.results...)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	in := c.input
	in.Filters = append([]filter.Filter(nil), in.Filters...)
	if in.Sort != nil {
		cp := *in.Sort
		in.Sort = &cp
	}
	return Snapshot{
		Input:   in,
		Results: append([]record.Record(nil), c.results...),
	}
}

func (c *Controller) instrumentRun(elapsed time.Duration, in Input, total, visible int) {
	c.logger.Debug("query pipeline computed",
		"query", in.Query,
		"filters", len(in.Filters),
		"records", total,
		"results", visible,
		"elapsed", elapsed.String(),
	)

	if c.runDuration != nil {
		c.runDuration.Record(context.Background(), float64(elapsed.Microseconds())/1000, metric.WithAttributes(
			attribute.Bool("query.blank", in.Query == ""),
			attribute.Bool("query.sorted", in.Sort != nil),
		))
	}

	c.statsd.Timing("query.pipeline", elapsed).
		Tag("sorted", boolTag(in.Sort != nil)).
		Publish()
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
