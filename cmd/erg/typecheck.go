package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var typecheckCmd = &cobra.Command{
	Use:   "typecheck <file.er>",
	Short: "Lower and type-infer an erg source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypecheck,
}

func runTypecheck(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}

	cr, err := loadParseAndLower(args[0], maxDiagnostics)
	if err != nil {
		return err
	}
	if err := emitDiagnostics(cmd, cr.bag, cr.fs); err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to read quiet flag: %w", err)
	}
	if !quiet && !cr.bag.HasErrors() {
		fmt.Fprintf(os.Stdout, "%s: %d item(s) typed, no errors\n", cr.mod.Path, len(cr.mod.Items))
	}

	if cr.bag.HasErrors() {
		return failSilently(cmd)
	}
	return nil
}
