package experiment

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestCutoffSize(t *testing.T) {
	is := is.New(t)
	type tc struct {
		n         int
		threshold float64
		size      int
	}
	cases := []tc{
		{1000, 0.1, 100},
		{100000, 0.0001, 10},
		{10, 0.25, 2},
		{7, 0.5, 3},
		{1000, 1.0, 1000},
	}
	for _, c := range cases {
		opts := DefaultOptions()
		opts.N = c.n
		opts.Threshold = c.threshold
		opts.Seed = 1
		res := Run(opts)
		is.Equal(res.CutoffSize, c.size)
	}
}

func TestReproducibility(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.N = 5000
	opts.Threshold = 0.1
	opts.Seed = 99
	first := Run(opts)
	second := Run(opts)
	is.Equal(first, second)
}

func TestCutoffMeanDominates(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.N = 5000
	opts.Threshold = 0.1
	opts.Seed = 3
	res := Run(opts)
	is.True(res.CutoffMeans[ColAggregate] >= res.AllMeans[ColAggregate])
}

func TestRateBounds(t *testing.T) {
	is := is.New(t)
	for _, w := range []float64{0, 0.25, 0.5, 0.75, 0.95, 1} {
		opts := DefaultOptions()
		opts.N = 2000
		opts.Threshold = 0.1
		opts.WeightSkill = w
		opts.Seed = 17
		res := Run(opts)
		is.True(res.LuckedOutRate >= 0)
		is.True(res.LuckedOutRate <= 1)
	}
}

func TestSkillOnlyWeight(t *testing.T) {
	// With all the weight on skill, the aggregate ranking is the skill
	// ranking, so nobody gets lucked out.
	is := is.New(t)
	opts := DefaultOptions()
	opts.N = 10000
	opts.Threshold = 0.1
	opts.WeightSkill = 1.0
	opts.Seed = 5
	res := Run(opts)
	is.Equal(res.LuckedOutRate, 0.0)
}

func TestLuckOnlyWeight(t *testing.T) {
	// With all the weight on luck, the two rankings are independent; the
	// expected overlap between two random top slices of fraction p is p
	// itself, so the rate should sit near 1-p.
	is := is.New(t)
	opts := DefaultOptions()
	opts.N = 100000
	opts.Threshold = 0.1
	opts.WeightSkill = 0.0
	opts.Seed = 11
	res := Run(opts)
	is.True(math.Abs(res.LuckedOutRate-0.9) < 0.03)
}

func TestEndToEndScenario(t *testing.T) {
	is := is.New(t)
	opts := Options{
		N:           1000,
		Mu:          0.5,
		Sigma:       0.1,
		WeightSkill: 0.95,
		Threshold:   0.1,
		Tolerance:   0.01,
		Seed:        42,
	}
	res := Run(opts)
	is.Equal(res.CutoffSize, 100)
	is.True(math.Abs(res.AllMeans[ColAggregate]-0.5) < 0.02)
	is.True(res.CutoffMeans[ColAggregate] > res.AllMeans[ColAggregate])
}

func TestThresholdOne(t *testing.T) {
	// A threshold of 1 keeps everyone, so the cutoff means are the
	// population means, bit for bit.
	is := is.New(t)
	opts := DefaultOptions()
	opts.N = 1000
	opts.Threshold = 1.0
	opts.Seed = 8
	res := Run(opts)
	is.Equal(res.CutoffMeans, res.AllMeans)
	is.Equal(res.LuckedOutRate, 0.0)
}

func TestSkillOffsetShiftsSkillOnly(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.N = 50000
	opts.Threshold = 0.1
	opts.SkillOffset = 0.4
	opts.Seed = 21
	res := Run(opts)
	is.True(math.Abs(res.AllMeans[ColSkill]-0.9) < 0.01)
	is.True(math.Abs(res.AllMeans[ColLuck]-0.5) < 0.01)
}

func TestVerboseChecks(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Threshold = 0.01
	opts.Seed = 13
	opts.Verbose = true
	opts.Output = &buf
	Run(opts)
	out := buf.String()
	is.True(strings.Contains(out, "Check skill average close to mu:"))
	is.True(strings.Contains(out, "Check luck deviation close to sigma:"))
	// n=100000 puts the sample moments well inside the 1% tolerance.
	is.Equal(strings.Count(out, "true"), 4)
}

func TestReport(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.N = 1000
	opts.Threshold = 0.1
	opts.Seed = 4
	opts.Report = true
	opts.Output = &buf
	Run(opts)
	out := buf.String()
	is.True(strings.Contains(out, "Experiment:"))
	is.True(strings.Contains(out, "Weight: 0.95"))
	is.True(strings.Contains(out, "Means (all):"))
	is.True(strings.Contains(out, "Cutoff size: 100;"))
}

func TestUnseededRunsRecordSeed(t *testing.T) {
	is := is.New(t)
	opts := DefaultOptions()
	opts.N = 100
	opts.Threshold = 0.1
	res := Run(opts)
	is.True(res.Seed != 0)
	// Replaying with the recorded seed reproduces the run.
	opts.Seed = res.Seed
	is.Equal(Run(opts), res)
}
