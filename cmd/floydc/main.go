// Command floydc is the CLI embedder boundary spec.md §6 fixes: load a
// pre-compiled program bundle, run it, and map the result to an exit
// code. The interpreter core has no parser of its own (spec.md §1), so
// floydc's "run" subcommand consumes the compiler pipeline's JSON
// output rather than FloydSpeak source text.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mok9/floyd"
)

// Exit codes fixed by spec.md §6's run_main contract.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitLoad    = 2
)

var verbose bool

func main() {
	// Mirrors termfx-morfx's db/sqlite_integration_test.go pattern:
	// load .env for local overrides, ignore a missing file.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "floydc",
		Short: "FloydSpeak bundle interpreter",
		Long:  "floydc loads a compiled FloydSpeak program bundle and runs it to completion.",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log interpreter diagnostics to stderr")

	root.AddCommand(newRunCommand())

	if err := root.Execute(); err != nil {
		os.Exit(exitLoad)
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <bundle.json> [-- program-args...]",
		Short: "Run a compiled program bundle",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runBundle(args[0], args[1:]))
		},
	}
}

// runBundle implements spec.md §6's run_main(source, argv): load,
// validate, run, flush the print log, and return the fixed exit code.
func runBundle(path string, argv []string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("floydc: reading bundle %s: %v", path, err)
		return exitLoad
	}

	program, err := floyd.LoadProgram(data)
	if err != nil {
		log.Printf("floydc: loading bundle %s: %v", path, err)
		return exitLoad
	}
	if verbose {
		log.Printf("floydc: loaded %s: %d globals, %d functions", path, len(program.Globals), len(program.Functions))
	}

	result, printLog, err := floyd.RunProgram(program, argv)
	for _, line := range printLog {
		fmt.Println(line)
	}
	if err != nil {
		log.Printf("floydc: %v", err)
		return exitRuntime
	}
	if verbose {
		log.Printf("floydc: program returned %s", floyd.ToCompactString(result))
	}
	return exitSuccess
}
