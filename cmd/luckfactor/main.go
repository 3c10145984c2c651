package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"luckfactor/batch"
	"luckfactor/config"
	"luckfactor/experiment"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	var logger zerolog.Logger
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	log.Logger = logger

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid parameters")
	}

	opts := experiment.Options{
		N:           cfg.N,
		Mu:          cfg.Mu,
		Sigma:       cfg.Sigma,
		WeightSkill: cfg.WeightSkill,
		Threshold:   cfg.Threshold,
		Tolerance:   cfg.Tolerance,
		SkillOffset: cfg.SkillOffset,
		Seed:        cfg.Seed,
	}

	if cfg.Runs > 1 {
		_, err := batch.Run(batch.Options{
			Runs:       cfg.Runs,
			Threads:    cfg.Threads,
			Experiment: opts,
			Output:     os.Stdout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("batch failed")
		}
		return
	}

	opts.Verbose = cfg.Verbose
	opts.Report = cfg.Report
	opts.Output = os.Stdout
	res := experiment.Run(opts)
	log.Info().Uint64("seed", res.Seed).
		Float64("lucked-out-rate", res.LuckedOutRate).Msg("experiment done")
}
