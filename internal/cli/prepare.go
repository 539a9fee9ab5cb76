// Package cli — prepare.go implements the "relprep prepare" command.
//
// The prepare command is the primary user-facing operation. It drives the
// release workflow in internal/release:
//  1. Resolve the project directory and optional .relprep.yaml defaults
//  2. Validate the flag values (version, increment segment)
//  3. Run the workflow (fork a release branch, or advance in place)
//  4. Output results (text or JSON)
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/relprep/internal/config"
	"github.com/mmr-tortoise/relprep/internal/model"
	"github.com/mmr-tortoise/relprep/internal/release"
	"github.com/mmr-tortoise/relprep/internal/semver"
)

// prepareFlags holds the flag values for the prepare command.
// These are bound to cobra flags in NewPrepareCommand.
type prepareFlags struct {
	tag         string // --tag: prerelease tag for the release branch version
	nextVersion string // --next-version: explicit next development version
	increment   string // --increment: version segment to bump (major|minor|build)
}

// NewPrepareCommand creates the "prepare" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewPrepareCommand() *cobra.Command {
	flags := &prepareFlags{}

	cmd := &cobra.Command{
		Use:   "prepare [project-dir]",
		Short: "Prepare a release branch and advance the development version",
		Long: `Prepare a release for the project in the given directory (default: the
current directory).

When the current branch is not the release branch named by the policy,
a new release branch is created carrying the release version, the
current branch moves to the next development version, and the release
branch is merged back so both histories stay connected.

When the release branch is already checked out, its version is simply
finalized in place and no branch is created.

Examples:
  relprep prepare
  relprep prepare path/to/project
  relprep prepare --tag beta
  relprep prepare --next-version 2.0
  relprep prepare --increment major --json`,

		// Args allows the optional positional project directory.
		Args: cobra.MaximumNArgs(1),

		// RunE is used instead of Run so we can return errors. Cobra will
		// pass them to the Execute error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runPrepare(cmd, dir, flags)
		},
	}

	// Register command-specific flags.
	cmd.Flags().StringVar(&flags.tag, "tag", "", "Prerelease tag to apply to the release branch version (default: none, the version goes stable)")
	cmd.Flags().StringVar(&flags.nextVersion, "next-version", "", "Version the development branch moves to (default: derived from the policy's versionIncrement)")
	cmd.Flags().StringVar(&flags.increment, "increment", "", "Version segment to increment for the next development version: major, minor or build")

	return cmd
}

// runPrepare validates the inputs and runs the release workflow.
func runPrepare(cmd *cobra.Command, dir string, flags *prepareFlags) error {
	// Project-local settings provide defaults; explicit flags win.
	settings, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("tag") && settings.Tag != "" {
		flags.tag = settings.Tag
	}
	if !cmd.Flags().Changed("next-version") && settings.NextVersion != "" {
		flags.nextVersion = settings.NextVersion
	}
	if !cmd.Flags().Changed("increment") && settings.Increment != "" {
		flags.increment = settings.Increment
	}
	VerboseLog("Project directory: %s", dir)

	req := release.Request{
		Dir:         dir,
		UnstableTag: flags.tag,
		Format:      release.FormatText,
	}
	if IsJSONOutput() || settings.JSON {
		req.Format = release.FormatJSON
	}

	if flags.nextVersion != "" {
		next, err := semver.Parse(flags.nextVersion)
		if err != nil {
			return fmt.Errorf("invalid --next-version %q: %w", flags.nextVersion, err)
		}
		req.NextVersion = &next
		VerboseLog("Next development version override: %s", next)
	}

	if flags.increment != "" {
		seg, err := model.ParseSegment(flags.increment)
		if err != nil {
			return fmt.Errorf("invalid --increment %q: must be major, minor or build", flags.increment)
		}
		req.IncrementOverride = seg
		VerboseLog("Version increment override: %s", seg)
	}

	workflow := release.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	_, err = workflow.Prepare(req)
	return err
}
