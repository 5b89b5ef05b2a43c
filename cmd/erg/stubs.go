package main

import "github.com/spf13/cobra"

// These subcommands round out the CLI surface spec.md §6 names; their
// bodies (bytecode emission to a .pyc-compatible container, the Python
// transpile backend, the VM driver, the language-server wire protocol, and
// the search-path-aware package installer) stay out of scope per
// SPEC_FULL.md §1/§4.12, so each reports a FeatureError rather than
// pretending to run.

var compileCmd = &cobra.Command{
	Use:   "compile <file.er>",
	Short: "Compile an erg source file to a .pyc-compatible bytecode container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return featureNotImplemented(cmd, "compile")
	},
}

var transpileCmd = &cobra.Command{
	Use:   "transpile <file.er>",
	Short: "Transpile an erg source file to Python",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return featureNotImplemented(cmd, "transpile")
	},
}

var runCmd = &cobra.Command{
	Use:   "run <file.er>",
	Short: "Compile and execute an erg source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return featureNotImplemented(cmd, "run")
	},
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the erg language-server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return featureNotImplemented(cmd, "server")
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint <file.er>",
	Short: "Lint an erg source file beyond the core diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return featureNotImplemented(cmd, "lint")
	},
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Fetch and install project dependencies declared in erg.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return featureNotImplemented(cmd, "pack")
	},
}
