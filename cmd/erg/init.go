package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ergc/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new erg project (erg.toml + main.er)",
	Long: `Initialize a new erg project by creating a project manifest (erg.toml)
and a hello-world entry point (main.er). If [path] is omitted, initializes
the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target, err := resolveInitTarget(args)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	if existing, ok, err := project.FindManifest(target); err == nil && ok && filepath.Dir(existing) == target {
		return fmt.Errorf("project already initialized: %s exists", existing)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "erg-project"
	}

	manifestPath := filepath.Join(target, "erg.toml")
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.er")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMainSource()), 0o600); err != nil {
			return fmt.Errorf("failed to write main.er: %w", err)
		}
		createdMain = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized erg project in %s\n", rel)
	fmt.Fprintln(os.Stdout, "  - erg.toml")
	if createdMain {
		fmt.Fprintln(os.Stdout, "  - main.er")
	} else {
		fmt.Fprintln(os.Stdout, "  - main.er (existing)")
	}
	return nil
}

func resolveInitTarget(args []string) (string, error) {
	if len(args) == 0 || args[0] == "." {
		return os.Getwd()
	}
	arg := args[0]
	if filepath.IsAbs(arg) {
		return arg, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, arg), nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`[package]
name = %q

[build]
opt_level = 0
target_version = "3.11"
locale = "en"

[paths]
std = "lib/std"
pystd = "lib/pystd"
external = "lib/external"
pkgs = "lib/pkgs"
`, name)
}

func defaultMainSource() string {
	return "print! \"hello, world\"\n"
}
