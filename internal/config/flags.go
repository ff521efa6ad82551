package config

import "flag"

// Flags carries the config overrides shared by every subcommand. Each
// subcommand registers them on its own FlagSet, so `dotforge convert
// -threshold 96 in.png` and `dotforge batch -jobs 2 plan.yaml` both
// work without a global flag namespace.
type Flags struct {
	ConfigPath string
	Debug      bool
	LogFile    string
	Jobs       int
	// Threshold overrides the config when 0 or greater. Register
	// defaults it to -1, meaning unset; hand-built Flags must do the
	// same.
	Threshold int
	Invert    bool
	NoBase    bool
	Optimize  bool
}

// Register binds the shared override flags onto fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "path to dotforge.yaml")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
	fs.IntVar(&f.Jobs, "jobs", 0, "max concurrent background jobs")
	fs.IntVar(&f.Threshold, "threshold", -1, "luminance threshold override (0-255)")
	fs.BoolVar(&f.Invert, "invert", false, "invert active cells after thresholding")
	fs.BoolVar(&f.NoBase, "no-base", false, "skip the base plinth")
	fs.BoolVar(&f.Optimize, "optimize", false, "merge coplanar faces after generation")
}

// Apply lays the parsed overrides over cfg. Unset flags leave the
// config untouched.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Jobs > 0 {
		cfg.Jobs.MaxConcurrent = f.Jobs
	}
	if f.Threshold >= 0 {
		cfg.Conversion.Threshold = f.Threshold
	}
	if f.Invert {
		cfg.Conversion.Invert = true
	}
	if f.NoBase {
		cfg.Model.GenerateBase = false
	}
	if f.Optimize {
		cfg.Model.OptimizeMesh = true
	}
}
