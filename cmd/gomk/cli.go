package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"gomk/internal/build"
	"gomk/internal/userconfig"
)

// config holds the final run configuration determined from CLI flags,
// falling back to userconfig.Defaults where a flag was not given.
type config struct {
	Makefile string
	Target   string
	ShowHelp bool
	ShowVer  bool
	Debug    bool
	Opts     build.Options
}

// parseCLI parses command-line arguments against defaults and returns a
// config. Flag wiring is grounded on friedelschoen-mk's mk.go, which uses
// the same github.com/spf13/pflag package for a Make clone's CLI surface.
func parseCLI(args []string, defaults userconfig.Defaults) (*config, error) {
	fs := pflag.NewFlagSet("gomk", pflag.ContinueOnError)
	fs.Usage = func() { printHelp(fs) }

	cfg := &config{}
	fs.StringVarP(&cfg.Makefile, "file", "f", defaults.Makefile, "Read FILE as the makefile.")
	fs.BoolVarP(&cfg.ShowHelp, "help", "h", false, "Display this help message.")
	fs.BoolVarP(&cfg.ShowVer, "version", "v", false, "Display program version.")
	fs.BoolVarP(&cfg.Debug, "debug", "d", false, "Print verbose trace output (sets glog verbosity -v=1).")
	fs.BoolVarP(&cfg.Opts.DryRun, "dry-run", "n", defaults.DryRun, "Print commands without executing them.")
	fs.BoolVarP(&cfg.Opts.Silent, "silent", "s", defaults.Silent, "Do not echo commands before running them.")
	fs.BoolVarP(&cfg.Opts.KeepGoing, "keep-going", "k", defaults.KeepGoing, "Keep building unrelated targets after one fails.")
	fs.BoolVarP(&cfg.Opts.IgnoreErrors, "ignore-errors", "i", defaults.IgnoreErrors, "Ignore nonzero exit status from recipe commands.")
	fs.BoolVarP(&cfg.Opts.AlwaysMake, "always-make", "B", defaults.AlwaysMake, "Unconditionally rebuild every requested target.")
	fs.BoolVarP(&cfg.Opts.QuestionOnly, "question", "q", false, "Only report whether targets are out of date; build nothing.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ShowHelp {
		printHelp(fs)
		return cfg, nil
	}

	if cfg.Makefile == "" {
		cfg.Makefile = discoverMakefile()
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		cfg.Target = remaining[0]
	}
	return cfg, nil
}

// discoverMakefile returns the first of defaultMakefileCandidates present
// in the working directory, or "" if none is. This is glue the core does
// not depend on (spec §1).
func discoverMakefile() string {
	for _, name := range defaultMakefileCandidates {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func printHelp(fs *pflag.FlagSet) {
	fmt.Print(helpUsage)
	fmt.Println(helpDescription)
	fmt.Println(helpOptionsHeader)
	fs.PrintDefaults()
}

func printVersion() {
	fmt.Printf(versionFormat, appVersion)
}
