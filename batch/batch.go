// Package batch runs the experiment repeatedly and reports how the lucked-out
// rate distributes across runs.
package batch

import (
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"luckfactor/experiment"
	"luckfactor/stats"
)

// Options configures a batch of experiment runs.
type Options struct {
	// Runs is the number of experiments to perform.
	Runs int
	// Threads bounds concurrent runs; <= 0 means one per CPU. Results are
	// identical at any thread count for a fixed seed.
	Threads int
	// Experiment holds the per-run parameters. Its Seed is the batch seed;
	// each run derives its own seed from it.
	Experiment experiment.Options
	// Output receives the summary and the histogram. Nil means stdout.
	Output io.Writer
}

// DefaultOptions runs the comparison variant ten times.
func DefaultOptions() Options {
	return Options{
		Runs:       10,
		Experiment: experiment.ComparisonOptions(),
	}
}

// Summary accumulates per-run results across a batch.
type Summary struct {
	all    stats.Vector
	cutoff stats.Vector
	// Rates holds each run's lucked-out rate, in run order.
	Rates []float64
}

// AllMeans returns the across-run means of the whole-population columns.
func (s *Summary) AllMeans() [3]float64 { return s.all.Means() }

// CutoffMeans returns the across-run means of the cutoff-group columns.
func (s *Summary) CutoffMeans() [3]float64 { return s.cutoff.Means() }

// Run performs opts.Runs experiments, writes the aggregate summary and a
// histogram of the lucked-out rate to opts.Output, and returns the
// accumulated summary. Any failure aborts the whole batch.
func Run(opts Options) (*Summary, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	seed := opts.Experiment.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64-1) + 1
	}
	log.Debug().Int("runs", opts.Runs).Int("threads", threads).
		Uint64("seed", seed).Msg("starting batch")

	results := make([]experiment.Result, opts.Runs)
	g := errgroup.Group{}
	g.SetLimit(threads)
	for r := 0; r < opts.Runs; r++ {
		g.Go(func() error {
			runOpts := opts.Experiment
			runOpts.Seed = runSeed(seed, r)
			results[r] = experiment.Run(runOpts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Summary{Rates: make([]float64, 0, opts.Runs)}
	for _, res := range results {
		s.all.Push([3]float64(res.AllMeans))
		s.cutoff.Push([3]float64(res.CutoffMeans))
		s.Rates = append(s.Rates, res.LuckedOutRate)
	}

	if err := s.write(out, opts.Runs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Summary) write(w io.Writer, runs int) error {
	allMeans := s.AllMeans()
	cutoffMeans := s.CutoffMeans()
	fmt.Fprintf(w, "Across %d runs:\n", runs)
	fmt.Fprintf(w, "Mean skill (all):    %.4f\n", allMeans[experiment.ColSkill])
	fmt.Fprintf(w, "Mean luck (all):     %.4f\n", allMeans[experiment.ColLuck])
	fmt.Fprintf(w, "Mean skill (cutoff): %.4f\n", cutoffMeans[experiment.ColSkill])
	fmt.Fprintf(w, "Mean luck (cutoff):  %.4f\n", cutoffMeans[experiment.ColLuck])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Histogram of Lucked Out Rate")
	hist := histogram.Hist(autoBins(s.Rates), s.Rates)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

// runSeed derives a per-run seed from the batch seed, splitmix64-style, so
// run r sees the same stream no matter which worker picks it up.
func runSeed(base uint64, run int) uint64 {
	z := base + uint64(run+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	if z == 0 {
		// Zero would ask the runner for a fresh random seed.
		z = 1
	}
	return z
}
