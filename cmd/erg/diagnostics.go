package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"ergc/internal/diag"
	"ergc/internal/diag/locale"
	"ergc/internal/diagfmt"
	"ergc/internal/project"
	"ergc/internal/source"
)

// emitDiagnostics pretty-prints bag to stderr when it carries anything
// worth showing, honoring the root command's --color flag the way every
// teacher subcommand does before printing its own stage-specific output.
func emitDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || (!bag.HasErrors() && !bag.HasWarnings()) {
		return nil
	}
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:   useColor,
		Context: 2,
		Locale:  diagnosticLocale(cmd),
	})
	return nil
}

// diagnosticLocale resolves the active diagnostic locale: an explicit
// --locale flag wins, otherwise the nearest project manifest's [build]
// locale, otherwise English (SPEC_FULL.md §7 "four-locale message
// catalog").
func diagnosticLocale(cmd *cobra.Command) language.Tag {
	if explicit, err := cmd.Root().PersistentFlags().GetString("locale"); err == nil && explicit != "" {
		return locale.Resolve(explicit)
	}
	wd, err := os.Getwd()
	if err != nil {
		return language.English
	}
	m, ok, err := project.LoadProjectManifest(wd)
	if err != nil || !ok {
		return language.English
	}
	return locale.Resolve(m.Build.Locale)
}

// errSilentFailure is returned by a subcommand's RunE once its diagnostics
// have already been printed, so cobra exits 1 without also printing a
// redundant "Error: " line or the usage banner (mirrors the teacher's
// SilenceUsage/SilenceErrors + empty-error convention in diagnose.go).
var errSilentFailure = errors.New("")

// failSilently marks cmd so cobra reports a bare failure exit code.
func failSilently(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errSilentFailure
}

// featureNotImplemented reports a FeatureError for a subcommand whose body
// is out of scope in this configuration (SPEC_FULL.md §4.12): the CLI
// surface stays complete even where a backend is a stub by design, rather
// than the subcommand not existing at all.
func featureNotImplemented(cmd *cobra.Command, feature string) error {
	fmt.Fprintf(os.Stderr, "%s: %s [%s] is not implemented in this configuration\n",
		cmd.CommandPath(), feature, diag.FeatureError)
	return failSilently(cmd)
}
