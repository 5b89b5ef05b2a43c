package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ergc/internal/diagfmt"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file.er>",
	Short: "Tokenize an erg source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	lexCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runLex(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to read format flag: %w", err)
	}
	maxDiagnostics, err := maxDiagnosticsFlag(cmd)
	if err != nil {
		return err
	}

	lr, err := loadAndLex(args[0], maxDiagnostics)
	if err != nil {
		return err
	}

	if err := emitDiagnostics(cmd, lr.bag, lr.fs); err != nil {
		return err
	}

	switch format {
	case "pretty":
		if err := diagfmt.FormatTokensPretty(os.Stdout, lr.tokens, lr.fs); err != nil {
			return err
		}
	case "json":
		if err := diagfmt.FormatTokensJSON(os.Stdout, lr.tokens); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if lr.bag.HasErrors() {
		return failSilently(cmd)
	}
	return nil
}
