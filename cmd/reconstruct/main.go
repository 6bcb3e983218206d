package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Parthyadav05/blockhouse/config"
	"github.com/Parthyadav05/blockhouse/pkg/book"
	"github.com/Parthyadav05/blockhouse/pkg/logging"
	"github.com/Parthyadav05/blockhouse/pkg/mbo"
	"github.com/Parthyadav05/blockhouse/pkg/replay"
	"github.com/Parthyadav05/blockhouse/pkg/sink"
	"github.com/Parthyadav05/blockhouse/pkg/sink/kafka"
	"github.com/Parthyadav05/blockhouse/pkg/stats"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Setup logging; stdout carries the output records, diagnostics go to
	// stderr.
	logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Format == "pretty",
		Output: os.Stderr,
	})
	logger := log.Logger

	// Open the input stream before emitting anything: an unreadable input is
	// a startup failure with no partial output.
	in, err := os.Open(cfg.Input)
	if err != nil {
		logger.Error().Err(err).Str("input", cfg.Input).Msg("Failed to open input")
		os.Exit(1)
	}
	defer in.Close()

	senders := sink.MultiSender{}
	if cfg.Output != "" {
		out, err := os.Create(cfg.Output)
		if err != nil {
			logger.Error().Err(err).Str("output", cfg.Output).Msg("Failed to create output")
			os.Exit(1)
		}
		senders = append(senders, sink.NewWriterSender(out))
	} else {
		senders = append(senders, sink.NewWriterSender(os.Stdout))
	}
	if cfg.Kafka.BrokerAddr != "" {
		senders = append(senders, kafka.NewSender(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic))
		logger.Info().
			Str("broker", cfg.Kafka.BrokerAddr).
			Str("topic", cfg.Kafka.Topic).
			Msg("Publishing updates to Kafka")
	}

	ctx, cancel := context.WithCancel(logger.WithContext(context.Background()))
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		logger.Info().Msg("Received interrupt signal, stopping replay")
		cancel()
	}()

	recorder := stats.NewRecorder()
	engine := book.New()
	runner := &replay.Runner{
		Book:  engine,
		Depth: cfg.Depth,
		Sink:  senders,
		Stats: recorder,
	}
	if cfg.Rate > 0 {
		runner.Limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	runErr := runner.Run(ctx, in)
	if err := senders.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close output")
		os.Exit(1)
	}
	if runErr != nil {
		logger.Error().Err(runErr).Msg("Replay failed")
		os.Exit(1)
	}

	recorder.LogSummary(logger)

	if cfg.Summary {
		if err := printSummary(engine, cfg.Depth); err != nil {
			logger.Error().Err(err).Msg("Failed to print summary")
		}
	}
}

// printSummary renders the final state of the book as a colored table on
// stderr, asks above bids, best levels adjacent.
func printSummary(engine *book.Book, depth int) error {
	cyan := color.New(color.FgCyan).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()
	green := color.New(color.FgGreen).SprintfFunc()

	bids, asks := engine.Snapshot(depth)

	w := tabwriter.NewWriter(os.Stderr, 0, 0, 3, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "%15s|%15s|%15s|%s\n",
		cyan("Price"),
		cyan("Size"),
		cyan("Orders"),
		cyan("Side"))
	fmt.Fprintf(w, "%15s|%15s|%15s|%s\n",
		"---------------",
		"---------------",
		"---------------",
		"----")

	// Asks print worst-first so the best ask sits just above the best bid.
	for i := len(asks) - 1; i >= 0; i-- {
		if asks[i].Price.Equal(mbo.PriceUndef) {
			continue
		}
		fmt.Fprintf(w, "%15s|%15d|%15d|%s\n",
			mbo.FormatPrice(asks[i].Price),
			asks[i].Size,
			asks[i].Count,
			red("ASK"))
	}
	for _, lvl := range bids {
		if lvl.Price.Equal(mbo.PriceUndef) {
			continue
		}
		fmt.Fprintf(w, "%15s|%15d|%15d|%s\n",
			mbo.FormatPrice(lvl.Price),
			lvl.Size,
			lvl.Count,
			green("BID"))
	}

	return w.Flush()
}
