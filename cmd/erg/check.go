package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.er>",
	Short: "Run the full pipeline: lex, parse, type-infer, effect-check, ownership-check",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("progress", false, "show a live progress view of module resolution while checking")
}

func runCheck(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}

	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return fmt.Errorf("failed to read progress flag: %w", err)
	}

	cr, effRes, ownRes, err := runFullCheck(args[0], maxDiagnostics, showProgress)
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
		fmt.Fprintf(os.Stdout, "%s: ok (%d effect violation(s), %d move(s), %d conditional move(s))\n",
			cr.mod.Path, effRes.Violations, ownRes.Moves, ownRes.ConditionalMoves)
	}

	if cr.bag.HasErrors() {
		return failSilently(cmd)
	}
	return nil
}
