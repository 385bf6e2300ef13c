package main

import (
	"flag"

	"github.com/ducminhle1904/combo-optimizer/cmd/common"
)

// OptimizeFlags holds the command line of ga-optimize
type OptimizeFlags struct {
	*common.CommonFlags

	ConfigFile  *string
	Name        *string
	Sizes       *string
	Population  *int
	Generations *int
	Seed        *int64
	OutputDir   *string
	MetricsAddr *string
	LogFile     *bool
	DryRun      *bool
	List        *bool
}

// NewOptimizeFlags registers all flags on fs
func NewOptimizeFlags(fs *flag.FlagSet) *OptimizeFlags {
	return &OptimizeFlags{
		CommonFlags: common.RegisterCommonFlags(fs),

		ConfigFile:  fs.String("config", "", "Run configuration file (JSON)"),
		Name:        fs.String("name", "", "Run name (overrides config)"),
		Sizes:       fs.String("sizes", "", "Comma separated category sizes, e.g. 3,4,5 (overrides config)"),
		Population:  fs.Int("population", 0, "Population size (overrides config)"),
		Generations: fs.Int("generations", 0, "Generation limit (overrides config)"),
		Seed:        fs.Int64("seed", -1, "Random seed; negative keeps the config value"),
		OutputDir:   fs.String("output", "", "Results directory (overrides config)"),
		MetricsAddr: fs.String("metrics-addr", "", "Serve Prometheus metrics on this address during the run"),
		LogFile:     fs.Bool("log-file", false, "Write a per-run log file"),
		DryRun:      fs.Bool("dry-run", false, "Validate the configuration and print the search space without running"),
		List:        fs.Bool("list", false, "List available selection, crossover and mutation strategies"),
	}
}

// Validate checks flag values that do not depend on the config file
func (f *OptimizeFlags) Validate() error {
	v := common.NewFlagValidator()
	v.ValidateFile("config", *f.ConfigFile, false)
	if *f.Population != 0 {
		v.ValidateInt("population", *f.Population, 2, 1_000_000)
	}
	if *f.Generations != 0 {
		v.ValidateInt("generations", *f.Generations, 1, 1_000_000)
	}
	if _, err := common.ParseIntList(*f.Sizes); err != nil {
		v.AddError("sizes: " + err.Error())
	}
	return v.GetError()
}

// Params converts the overriding flags into config manager parameters
func (f *OptimizeFlags) Params() map[string]interface{} {
	params := map[string]interface{}{}
	if *f.Name != "" {
		params["name"] = *f.Name
	}
	if sizes, _ := common.ParseIntList(*f.Sizes); len(sizes) > 0 {
		params["category_sizes"] = sizes
	}
	if *f.Population > 0 {
		params["population_size"] = *f.Population
	}
	if *f.Generations > 0 {
		params["generations"] = *f.Generations
	}
	if *f.Seed >= 0 {
		params["random_seed"] = *f.Seed
	}
	if *f.OutputDir != "" {
		params["output_dir"] = *f.OutputDir
	}
	if *f.Verbose {
		params["verbose"] = true
	}
	return params
}
