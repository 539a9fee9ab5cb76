// Package cli implements the cobra-based CLI commands for relprep.
//
// Each subcommand is defined in its own file within this package. This
// file defines the root command that serves as the parent for all
// subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/relprep/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only provides
// help text and global flags. Actual functionality is provided by
// subcommands (prepare).
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "relprep",
		Short: "Prepare release branches from a version.json policy",
		Long: `relprep reads the version.json policy of a repository and prepares a
release: it either forks a new release branch and advances the original
branch to the next development version, or — when the release branch is
already checked out — simply finalizes the version in place.

All branch, commit, and merge operations run against the local clone;
nothing is pushed.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags — any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewPrepareCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. PrepError values carry their own
// failure kind, each with a stable exit code; other errors default to
// exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var prepErr *model.PrepError
		if errors.As(err, &prepErr) {
			// The workflow already wrote a diagnostic line to stderr;
			// only the structured form needs printing here.
			if jsonOutput {
				printErrorJSON(prepErr.Kind.String(), prepErr.Message, prepErr.Err)
			}
			os.Exit(int(prepErr.Kind.ExitCode()))
		}

		// Generic error — exit with code 1.
		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		printErrorJSON("", message, underlying)
		return
	}

	// Text format: "Error: <message>" on stderr.
	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// printErrorJSON outputs a structured error object on stderr. Stdout is
// reserved for successful command output even in JSON mode.
func printErrorJSON(kind, message string, underlying error) {
	errMap := map[string]interface{}{
		"message": message,
	}
	if kind != "" {
		errMap["kind"] = kind
	}
	if underlying != nil {
		errMap["detail"] = underlying.Error()
	}

	data, _ := json.MarshalIndent(map[string]interface{}{"error": errMap}, "", "  ")
	fmt.Fprintln(os.Stderr, string(data))
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// This is used throughout the CLI for debug/trace output that helps
// users understand what operations are being performed.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
