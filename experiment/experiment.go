// Package experiment implements a single luck-vs-skill selection experiment.
// A population of N individuals gets independently Gaussian-sampled skill and
// luck scores, blended into an aggregate, and the top slice by aggregate is
// compared against the top slice by skill alone.
package experiment

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"lukechampine.com/frand"

	"luckfactor/stats"
)

// Vector3 holds one value per population column.
type Vector3 [3]float64

// Column indices into a Vector3.
const (
	ColAggregate = iota
	ColSkill
	ColLuck
)

// Options configures a single experiment run.
type Options struct {
	// N is the population size.
	N int
	// Mu and Sigma parameterize the Gaussian generator for skill and luck.
	Mu    float64
	Sigma float64
	// WeightSkill blends skill into the aggregate:
	// aggregate = WeightSkill*skill + (1-WeightSkill)*luck.
	// Values outside [0,1] are not rejected; they produce a linear
	// extrapolation instead of a blend.
	WeightSkill float64
	// Threshold is the fraction of the population kept as the cutoff group.
	// The group has floor(Threshold*N) members; callers must keep that >= 1
	// or the group means come back NaN.
	Threshold float64
	// Tolerance is the relative tolerance for the verbose sanity checks.
	Tolerance float64
	// SkillOffset shifts the center of the skill distribution to
	// Mu+SkillOffset, modeling a population whose skill runs above the
	// baseline that the sanity checks compare against.
	SkillOffset float64
	// Seed drives all sampling. Zero picks a fresh seed.
	Seed uint64
	// Verbose writes distribution sanity checks to Output; Report writes a
	// formatted summary. Neither affects the returned result.
	Verbose bool
	Report  bool
	// Output receives verbose and report text. Nil discards it.
	Output io.Writer
}

// DefaultOptions are the parameters of the symmetric variant.
func DefaultOptions() Options {
	return Options{
		N:           100000,
		Mu:          0.5,
		Sigma:       0.1,
		WeightSkill: 0.95,
		Threshold:   0.0001,
		Tolerance:   0.01,
	}
}

// ComparisonOptions are the parameters of the comparison variant, which
// samples skill from a distribution centered 0.4 above the luck baseline.
func ComparisonOptions() Options {
	opts := DefaultOptions()
	opts.N = 500000
	opts.SkillOffset = 0.4
	return opts
}

// Result is the immutable outcome of one experiment.
type Result struct {
	// AllMeans are the per-column means over the whole population;
	// CutoffMeans the same over the cutoff group.
	AllMeans    Vector3
	CutoffMeans Vector3
	// LuckedOutRate is the fraction of the cutoff group that would not have
	// been selected had ranking been by skill alone.
	LuckedOutRate float64
	CutoffSize    int
	// Seed is the seed actually used, for replaying unseeded runs.
	Seed uint64
}

// Run executes one experiment. Degenerate inputs (N=0, a threshold that
// floors to a zero-size cutoff group) are the caller's responsibility and
// yield NaN means rather than errors.
func Run(opts Options) Result {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	seed := opts.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64-1) + 1
	}
	src := rand.NewPCG(seed, seed)
	log.Debug().Uint64("seed", seed).Int("n", opts.N).
		Float64("weight-skill", opts.WeightSkill).Msg("running experiment")

	skillDist := distuv.Normal{Mu: opts.Mu + opts.SkillOffset, Sigma: opts.Sigma, Src: src}
	luckDist := distuv.Normal{Mu: opts.Mu, Sigma: opts.Sigma, Src: src}

	skill := make([]float64, opts.N)
	for i := range skill {
		skill[i] = skillDist.Rand()
	}
	if opts.Verbose {
		writeChecks(out, "skill", skill, opts.Mu, opts.Sigma, opts.Tolerance)
	}

	luck := make([]float64, opts.N)
	for i := range luck {
		luck[i] = luckDist.Rand()
	}
	if opts.Verbose {
		writeChecks(out, "luck", luck, opts.Mu, opts.Sigma, opts.Tolerance)
	}

	aggregate := make([]float64, opts.N)
	for i := range aggregate {
		aggregate[i] = opts.WeightSkill*skill[i] + (1.0-opts.WeightSkill)*luck[i]
	}

	cutoffSize := int(opts.Threshold * float64(opts.N))
	cutoffGroup := topByColumn(aggregate, cutoffSize)
	skillGroup := topByColumn(skill, cutoffSize)

	// Overlap is counted by individual identity, not score value, so ties at
	// the boundary cannot inflate or deflate the rate.
	inCutoff := make(map[int]struct{}, cutoffSize)
	for _, i := range cutoffGroup {
		inCutoff[i] = struct{}{}
	}
	overlap := 0
	for _, i := range skillGroup {
		if _, ok := inCutoff[i]; ok {
			overlap++
		}
	}

	res := Result{
		AllMeans: Vector3{
			stat.Mean(aggregate, nil),
			stat.Mean(skill, nil),
			stat.Mean(luck, nil),
		},
		CutoffMeans: Vector3{
			meanAt(cutoffGroup, aggregate),
			meanAt(cutoffGroup, skill),
			meanAt(cutoffGroup, luck),
		},
		LuckedOutRate: 1.0 - float64(overlap)/float64(cutoffSize),
		CutoffSize:    cutoffSize,
		Seed:          seed,
	}

	if opts.Report {
		writeReport(out, opts, res, overlap)
	}
	return res
}

// topByColumn returns the generation indices of the k individuals with the
// highest values in col, restored to generation order. Ranking is a stable
// ascending sort with the tail taken, so boundary ties resolve by index.
func topByColumn(col []float64, k int) []int {
	order := make([]int, len(col))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return col[order[a]] < col[order[b]]
	})
	top := append([]int(nil), order[len(order)-k:]...)
	sort.Ints(top)
	return top
}

// meanAt averages col over the given indices. Summation runs in generation
// order, so a full-population group reproduces the population mean exactly.
func meanAt(idx []int, col []float64) float64 {
	vals := make([]float64, len(idx))
	for i, j := range idx {
		vals[i] = col[j]
	}
	return stat.Mean(vals, nil)
}

func writeChecks(w io.Writer, name string, vals []float64, mu, sigma, rtol float64) {
	fmt.Fprintf(w, "Check %s average close to mu: %v\n", name,
		stats.AllClose(mu, stat.Mean(vals, nil), rtol))
	fmt.Fprintf(w, "Check %s deviation close to sigma: %v\n", name,
		stats.AllClose(sigma, stat.StdDev(vals, nil), rtol))
}

func writeReport(w io.Writer, opts Options, res Result, overlap int) {
	divider := "------------------------------------------------------"
	fmt.Fprintf(w, "\n%s\n", divider)
	fmt.Fprintln(w, "Experiment:")
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Weight: %v\n", opts.WeightSkill)
	fmt.Fprintf(w, "Threshold: %v\n", opts.Threshold)
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Means (all):    score %.2f; skill %.2f; luck %.2f\n",
		res.AllMeans[ColAggregate]*100, res.AllMeans[ColSkill]*100, res.AllMeans[ColLuck]*100)
	fmt.Fprintf(w, "Means (cutoff): score %.2f; skill %.2f; luck %.2f\n",
		res.CutoffMeans[ColAggregate]*100, res.CutoffMeans[ColSkill]*100, res.CutoffMeans[ColLuck]*100)
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Cutoff size: %d; selected on skill too: %d; overlooked: %d\n",
		res.CutoffSize, overlap, res.CutoffSize-overlap)
	fmt.Fprintf(w, "%s\n\n", divider)
}
