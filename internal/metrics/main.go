package metrics

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/maps"

	"github.com/ttd2089/ringdeque/internal/ringbuf"
)

// TimeBuckets maps the start of each second to the total recorded in it.
type TimeBuckets map[time.Time]int

// A Bucket is one second of one key's series.
type Bucket struct {
	Second time.Time
	Count  int
}

// Count keeps a rolling per-second total for each recorded key. Each key's series is a deque
// of buckets in time order, so expiring old seconds is a pop from the front.
type Count struct {
	startTime        time.Time
	retentionSeconds int
	measurements     chan measurement
	series           map[string]*ringbuf.Deque[Bucket]
	closed           chan struct{}
	closeOnce        sync.Once
	done             chan struct{}
	mu               sync.Mutex
	now              func() time.Time
	instruments      *instruments
}

// An Option configures a Count.
type Option func(*Count)

// WithRegisterer exports the totals and series lengths as Prometheus metrics.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Count) {
		if reg != nil {
			c.instruments = newInstruments(reg)
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Count) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCount starts a Count that keeps retentionSeconds of history per key. Call Close to stop
// its ingestion goroutine.
func NewCount(retentionSeconds int, opts ...Option) *Count {
	c := &Count{
		retentionSeconds: retentionSeconds,
		// Large buffer to absorb writes while reading. This could still block if we record metrics
		// faster than we can ingest them.
		measurements: make(chan measurement, 100000),
		series:       map[string]*ringbuf.Deque[Bucket]{},
		closed:       make(chan struct{}),
		done:         make(chan struct{}),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startTime = c.now().Truncate(time.Second)

	go c.run()

	return c
}

// Record adds value to key's total for the current second. After Close it drops the
// measurement.
func (c *Count) Record(key string, value int) {
	m := measurement{
		key:    key,
		value:  value,
		second: c.now().Truncate(time.Second),
	}

	start := time.Now()

	select {
	case c.measurements <- m:
		return
	case <-c.closed:
		return
	default:
	}

	select {
	case c.measurements <- m:
	case <-c.closed:
		return
	}
	blockedFor := time.Since(start)
	slog.Warn("metrics: record blocked", "key", key, "blocked_for", blockedFor)
}

// Keys returns the recorded keys in sorted order.
func (c *Count) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := maps.Keys(c.series)
	slices.Sort(keys)
	return keys
}

// Series returns a copy of key's buckets, oldest first.
func (c *Count) Series(key string) []Bucket {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.series[key]
	if !ok {
		return nil
	}
	return s.Slice()
}

// Data returns every key's totals with a zero for each second of the retention period that
// has no measurements.
func (c *Count) Data() map[string]TimeBuckets {
	data := func() map[string]TimeBuckets {
		c.mu.Lock()
		defer c.mu.Unlock()
		data := make(map[string]TimeBuckets, len(c.series))
		for key, s := range c.series {
			tb := make(TimeBuckets, s.Len())
			for b := range s.Values() {
				tb[b.Second] = b.Count
			}
			data[key] = tb
		}
		return data
	}()

	now := c.now()
	earliest := c.retentionThreshold(now)
	if c.startTime.After(earliest) {
		earliest = c.startTime
	}
	for t := earliest.Truncate(time.Second); t.Before(now); t = t.Add(time.Second) {
		for key := range data {
			if _, ok := data[key][t]; !ok {
				data[key][t] = 0
			}
		}
	}

	return data
}

// Close stops ingestion. Measurements still buffered are dropped. Close may be called more
// than once.
func (c *Count) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
	<-c.done
}

func (c *Count) retentionThreshold(now time.Time) time.Time {
	return now.Add(-time.Duration(c.retentionSeconds) * time.Second)
}

func (c *Count) run() {
	defer close(c.done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	onTick := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.expireOldData(c.retentionThreshold(c.now()))
	}

	for {
		// Prefer a pending tick or close over another measurement so that a steady stream of
		// measurements cannot hold off expiry.
		select {
		case m := <-c.measurements:
			c.ingestMeasurement(m)
		case <-ticker.C:
			onTick()
		case <-c.closed:
			return
		}

		select {
		case <-ticker.C:
			onTick()
		case <-c.closed:
			return
		default:
		}
	}
}

func (c *Count) ingestMeasurement(m measurement) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Don't bother ingesting a measurement that's already older than our retention period.
	if m.second.Before(c.retentionThreshold(c.now())) {
		return
	}

	s, ok := c.series[m.key]
	if !ok {
		s = ringbuf.New[Bucket]()
		c.series[m.key] = s
	}
	addToSeries(s, m.second, m.value)
	c.instruments.observe(m.key, m.value, s.Len())
}

// addToSeries folds value into the bucket for second, keeping s ordered by time. Measurements
// almost always land in the newest bucket, so the search starts at the back.
func addToSeries(s *ringbuf.Deque[Bucket], second time.Time, value int) {
	at := 0
	for i, b := range s.Backward() {
		if b.Second.Equal(second) {
			b.Count += value
			_ = s.Set(i, b)
			return
		}
		if b.Second.Before(second) {
			at = i + 1
			break
		}
	}
	_ = s.Insert(at, Bucket{Second: second, Count: value})
}

func (c *Count) expireOldData(threshold time.Time) {
	for key, s := range c.series {
		for {
			oldest, err := s.Front()
			if err != nil || oldest.Second.After(threshold) {
				break
			}
			_, _ = s.RemoveFromFront()
		}
		if s.Len() == 0 {
			delete(c.series, key)
			c.instruments.forget(key)
			continue
		}
		c.instruments.observe(key, 0, s.Len())
	}
}

type measurement struct {
	key    string
	value  int
	second time.Time
}
