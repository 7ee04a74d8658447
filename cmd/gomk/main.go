// Command gomk is a minimal, single-threaded build tool inspired by Make.
// It parses a makefile into variables and rules, then drives a depth-first
// dependency walk that rebuilds whatever is stale.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"gomk/internal/build"
	"gomk/internal/makefile"
	"gomk/internal/userconfig"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer glog.Flush()

	userDefaults, err := userconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gomk: %v\n", err)
		return 1
	}

	cfg, err := parseCLI(args, userDefaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gomk: %v\n", err)
		return 2
	}

	if cfg.ShowHelp {
		return 0
	}
	if cfg.ShowVer {
		printVersion()
		return 0
	}
	if cfg.Debug {
		flag.Set("v", "1")
	}

	if cfg.Makefile == "" {
		fmt.Fprintf(os.Stderr, "gomk: "+errorMakefileNotFound+"\n", defaultMakefileCandidates)
		return 1
	}

	parser := makefile.NewParser()
	result, err := parser.ParseFile(cfg.Makefile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gomk: %v\n", err)
		return 1
	}

	executor, err := build.NewExecutor(result, cfg.Opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gomk: %v\n", err)
		return 1
	}

	var targets []string
	if cfg.Target != "" {
		targets = []string{cfg.Target}
	} else if result.DefaultTarget == "" {
		fmt.Fprintf(os.Stderr, "gomk: "+errorNoTarget+"\n")
		return 1
	}

	rebuilt, err := executor.Execute(targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gomk: %v\n", err)
		return 1
	}

	if cfg.Opts.QuestionOnly {
		if rebuilt {
			return 1
		}
		return 0
	}
	return 0
}
