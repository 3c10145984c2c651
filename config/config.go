package config

import (
	"fmt"

	"github.com/namsral/flag"
)

type Config struct {
	N           int
	Mu          float64
	Sigma       float64
	WeightSkill float64
	Threshold   float64
	Tolerance   float64
	SkillOffset float64
	Seed        uint64
	Runs        int
	Threads     int
	Verbose     bool
	Report      bool
	Debug       bool
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("luckfactor", flag.ContinueOnError)
	fs.IntVar(&c.N, "n", 100000, "population size")
	fs.Float64Var(&c.Mu, "mu", 0.5, "mean of the skill and luck distributions")
	fs.Float64Var(&c.Sigma, "sigma", 0.1, "standard deviation of the skill and luck distributions")
	fs.Float64Var(&c.WeightSkill, "weight-skill", 0.95, "weight of skill in the aggregate score")
	fs.Float64Var(&c.Threshold, "threshold", 0.0001, "fraction of the population admitted to the cutoff group")
	fs.Float64Var(&c.Tolerance, "tolerance", 0.01, "relative tolerance for the distribution sanity checks")
	fs.Float64Var(&c.SkillOffset, "skill-offset", 0, "offset added to the skill distribution center")
	fs.Uint64Var(&c.Seed, "seed", 0, "random seed; 0 picks one at random")
	fs.IntVar(&c.Runs, "runs", 1, "number of experiments; more than 1 enables the batch summary and histogram")
	fs.IntVar(&c.Threads, "threads", 0, "max concurrent batch runs; 0 means one per CPU")
	fs.BoolVar(&c.Verbose, "verbose", false, "print distribution sanity checks")
	fs.BoolVar(&c.Report, "report", false, "print a per-experiment report")
	fs.BoolVar(&c.Debug, "debug", false, "debug logging")
	err := fs.Parse(args)
	return err
}

// Validate refuses parameter combinations the experiment core would turn
// into NaNs. The core itself stays unguarded.
func (c *Config) Validate() error {
	if c.N <= 0 {
		return fmt.Errorf("population size must be positive, got %d", c.N)
	}
	if c.Sigma <= 0 {
		return fmt.Errorf("sigma must be positive, got %v", c.Sigma)
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in (0,1], got %v", c.Threshold)
	}
	if int(c.Threshold*float64(c.N)) < 1 {
		return fmt.Errorf("threshold %v of population %d yields an empty cutoff group", c.Threshold, c.N)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %v", c.Tolerance)
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	return nil
}
