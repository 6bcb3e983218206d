// Package replay drives the book engine over a sequential event log: read a
// line, decode it, mutate the book, snapshot, emit. One event is fully
// processed before the next is read; there is no buffering or reordering.
package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Parthyadav05/blockhouse/pkg/book"
	"github.com/Parthyadav05/blockhouse/pkg/mbo"
	"github.com/Parthyadav05/blockhouse/pkg/sink"
	"github.com/Parthyadav05/blockhouse/pkg/stats"
)

const maxLineBytes = 1 << 20

// Runner owns one replay pass over one input stream.
type Runner struct {
	Book  *book.Book
	Depth int
	Sink  sink.Sender
	Stats *stats.Recorder
	// Limiter paces the replay when set; nil replays at full speed.
	Limiter *rate.Limiter
}

// Run processes the input to end of stream. Undecodable lines are counted,
// logged at debug level and skipped with no output and no book mutation.
// Read and emit failures abort the run.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	logger := zerolog.Ctx(ctx)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return fmt.Errorf("replay pacing: %w", err)
			}
		}

		start := time.Now()
		event, err := mbo.ParseEvent(scanner.Text())
		if err != nil {
			r.Stats.Skip()
			logger.Debug().Err(err).Msg("Skipping undecodable record")
			continue
		}

		r.Book.Apply(&event)
		bids, asks := r.Book.Snapshot(r.Depth)
		record := mbo.AppendUpdate(nil, &event, bids, asks)

		if err := r.Sink.Send(ctx, event.Symbol, record); err != nil {
			return fmt.Errorf("emit update: %w", err)
		}
		r.Stats.Accept(time.Since(start))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
