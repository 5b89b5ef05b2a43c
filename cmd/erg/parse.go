package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.er>",
	Short: "Parse an erg source file and print its AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to read format flag: %w", err)
	}
	if format != "pretty" {
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}

	pr, err := loadAndParse(args[0], maxDiagnostics)
	if err != nil {
		return err
	}
	if err := emitDiagnostics(cmd, pr.bag, pr.fs); err != nil {
		return err
	}

	dumpAST(os.Stdout, pr.file)

	if pr.bag.HasErrors() {
		return failSilently(cmd)
	}
	return nil
}
