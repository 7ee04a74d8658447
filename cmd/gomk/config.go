package main

// --- Application metadata ---
const appVersion = "1.0.0"

// defaultMakefileCandidates lists the filenames tried, in order, when no
// -f/--file flag is given. Discovering the default makefile among these is
// glue the core does not depend on (spec §1).
var defaultMakefileCandidates = []string{"Makefile", "makefile", "GNUmakefile"}

// --- CLI UI strings ---
const (
	helpUsage         = "Usage: gomk [options] [target]\n\n"
	helpDescription   = "A minimal, single-threaded build tool inspired by Make."
	helpOptionsHeader = "\nOptions:"
	versionFormat     = "gomk version %s\n"
)

// --- Status/error message templates ---
const (
	errorMakefileNotFound = "no makefile found (tried %v); use -f to specify one"
	errorNoTarget         = "no target specified and makefile defines none"
	statusUsingDefault    = "gomk: using default target %q\n"
)
