// Command hailstone prints a histogram of hailstone (Collatz)
// sequence lengths for every integer in a range.
//
// Usage:
//
//	hailstone <lower> <upper> <max-length> <bucket-size>
//
// The report lists one line per bucket of sequence lengths, a line
// for sequences longer than max-length, a total and the scan time.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/numbatlabs/hailstone"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		workers   int
		cacheSize uint64
		verbose   bool
		noTotal   bool
	)

	cmd := &cobra.Command{
		Use:   "hailstone <lower> <upper> <max-length> <bucket-size>",
		Short: "histogram of hailstone (Collatz) sequence lengths over an integer range",
		Long: `hailstone computes the hailstone (Collatz) sequence length of every
integer in [lower, upper] and prints a histogram of the lengths in
buckets of bucket-size, plus an overflow count for sequences longer
than max-length.

Examples:

  $ hailstone 1 10000000 500 50
  $ hailstone 1 1000 100 10 --workers 4 --verbose
`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := make([]uint64, len(args))
			names := []string{"lower", "upper", "max-length", "bucket-size"}
			for i, arg := range args {
				v, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid %s %q: %w", names[i], arg, err)
				}
				params[i] = v
			}
			lower, upper, maxLength, bucketSize := params[0], params[1], params[2], params[3]

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			var opts []hailstone.Option
			if workers > 0 {
				opts = append(opts, hailstone.WithWorkers(workers))
			}
			if cacheSize > 0 {
				opts = append(opts, hailstone.WithCacheSize(cacheSize))
			}

			fillStart := time.Now()
			engine, err := hailstone.NewEngine(maxLength, opts...)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"workers":   engine.Workers(),
				"cacheSize": engine.CacheSize(),
				"fill":      time.Since(fillStart),
			}).Debug("engine ready")

			hist, err := engine.Scan(lower, upper, bucketSize)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"range":   fmt.Sprintf("%d-%d", lower, upper),
				"elapsed": hist.Elapsed,
			}).Debug("scan complete")

			printReport(cmd.OutOrStdout(), lower, upper, hist, !noTotal)

			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0,
		"number of concurrent workers (default: GOMAXPROCS)")
	cmd.Flags().Uint64Var(&cacheSize, "cache-size", 0,
		"number of precomputed length cache entries (default: 2^20)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging to stderr")
	cmd.Flags().BoolVar(&noTotal, "no-total", false,
		"omit the Total and timing lines")

	return cmd
}

func printReport(w io.Writer, lower, upper uint64, h *hailstone.Histogram, total bool) {
	fmt.Fprintf(w, "Counts of hailstone sequence lengths for range %d-%d:\n", lower, upper)

	for i, count := range h.Buckets {
		lo, hi := h.Bounds(i)
		fmt.Fprintf(w, "%d-%d:\t%d\n", lo, hi, count)
	}
	fmt.Fprintf(w, "%d+:\t%d\n", h.MaxLength+1, h.Overflow)

	if total {
		fmt.Fprintf(w, "Total:\t%d\n", h.Total())
		fmt.Fprintf(w, "Counting finished in %g seconds.\n", h.Elapsed.Seconds())
	}
}
