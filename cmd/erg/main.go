package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ergc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "erg",
	Short: "Erg-style compiler middle-end toolchain",
	Long:  `erg lexes, parses, type-checks, and effect/ownership-checks erg source files. The compile, transpile, run, server, lint and pack subcommands report that they are not implemented.`,
}

func main() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(typecheckCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(packCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("locale", "", "diagnostic message locale (en|ja|zh-CN|zh-TW); defaults to the project manifest's [build] locale, then en")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to an interactive terminal, the
// same fd-based check the teacher's cmd/surge makes for its --color=auto
// default, adapted to go-isatty (already pulled in transitively by
// fatih/color) rather than golang.org/x/term.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
