package stats

import (
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/rs/zerolog"
)

// Recorder accumulates per-run counters and a latency histogram covering the
// full decode-apply-snapshot-emit cycle of each accepted event.
type Recorder struct {
	accepted uint64
	skipped  uint64
	hist     *hdrhistogram.Histogram
	start    time.Time
}

// NewRecorder creates a recorder tracking microsecond latencies up to one
// minute at three significant figures.
func NewRecorder() *Recorder {
	return &Recorder{
		hist:  hdrhistogram.New(1, time.Minute.Microseconds(), 3),
		start: time.Now(),
	}
}

// Accept counts one emitted event and records how long it took to process.
func (r *Recorder) Accept(d time.Duration) {
	r.accepted++
	// Out-of-range samples are dropped rather than failing the run.
	_ = r.hist.RecordValue(d.Microseconds())
}

// Skip counts one undecodable input line.
func (r *Recorder) Skip() {
	r.skipped++
}

// Accepted returns the number of events processed and emitted.
func (r *Recorder) Accepted() uint64 { return r.accepted }

// Skipped returns the number of input lines rejected by the decoder.
func (r *Recorder) Skipped() uint64 { return r.skipped }

// LogSummary emits the run totals and latency quantiles.
func (r *Recorder) LogSummary(logger zerolog.Logger) {
	logger.Info().
		Uint64("accepted", r.accepted).
		Uint64("skipped", r.skipped).
		Dur("elapsed", time.Since(r.start)).
		Int64("latency_p50_us", r.hist.ValueAtQuantile(50)).
		Int64("latency_p99_us", r.hist.ValueAtQuantile(99)).
		Int64("latency_max_us", r.hist.Max()).
		Msg("replay finished")
}
