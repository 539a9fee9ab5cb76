package release

import (
	"errors"
	"fmt"
	"io"

	"github.com/mmr-tortoise/relprep/internal/config"
	"github.com/mmr-tortoise/relprep/internal/gitx"
	"github.com/mmr-tortoise/relprep/internal/model"
	"github.com/mmr-tortoise/relprep/internal/semver"
)

// Request carries the inputs of one preparation run.
type Request struct {
	// Dir is the project directory. The repository is discovered at or
	// above it, and the policy file is searched from it upward.
	Dir string

	// UnstableTag, when non-empty, is applied as the prerelease tag of
	// the release version instead of stripping the tag entirely.
	UnstableTag string

	// NextVersion, when non-nil, overrides the numeric part of the next
	// development version; the current prerelease tag and build metadata
	// are retained.
	NextVersion *semver.Version

	// IncrementOverride, when set, overrides the policy's version
	// increment for the next development version.
	IncrementOverride model.Segment

	// Format selects text or structured output.
	Format Format
}

// Workflow orchestrates release preparation. The version-control backend
// and the policy store are injected capabilities; Out and ErrOut are the
// two output sinks (results and diagnostics respectively), kept orthogonal
// to the returned error values so headless callers can ignore text output
// and consume only the ReleaseInfo.
type Workflow struct {
	// OpenRepo obtains the repository handle for a directory.
	OpenRepo func(dir string) (gitx.Repository, error)

	// Store reads and writes the versioning policy.
	Store config.Store

	// Out receives the rendered result.
	Out io.Writer

	// ErrOut receives one diagnostic line per failure, before the typed
	// error is returned.
	ErrOut io.Writer
}

// New creates a Workflow with the production collaborators: the git CLI
// repository and the file-backed policy store.
func New(out, errOut io.Writer) *Workflow {
	return &Workflow{
		OpenRepo: func(dir string) (gitx.Repository, error) {
			return gitx.Open(dir)
		},
		Store:  config.NewFileStore(),
		Out:    out,
		ErrOut: errOut,
	}
}

// Prepare runs the release-preparation state machine and returns the
// resulting report. Exactly one of two paths is taken: advancing the
// release branch in place when it is already checked out, or forking a new
// release branch and merging it back into the original branch.
//
// Every failure is detected as early as feasible — the signature and
// repository-state checks run before any branch is touched — and partial
// side effects of a later failure are left in place.
func (w *Workflow) Prepare(req Request) (*model.ReleaseInfo, error) {
	repo, err := w.OpenRepo(req.Dir)
	if err != nil {
		if errors.Is(err, gitx.ErrNoRepository) {
			return nil, w.fail(model.KindNoGitRepo,
				"no git repository found at or above %q", req.Dir)
		}
		return nil, err
	}

	dirty, err := repo.IsDirty()
	if err != nil {
		return nil, err
	}
	if dirty {
		return nil, w.fail(model.KindUncommittedChanges,
			"the working tree has uncommitted changes; commit or stash them first")
	}

	// The signature is only needed for the commits later on, but checking
	// it up front surfaces the failure before any branch is touched.
	hasSig, err := repo.HasSignature()
	if err != nil {
		return nil, err
	}
	if !hasSig {
		return nil, w.fail(model.KindUserNotConfigured,
			"git user.name and user.email must be configured to commit")
	}

	detached, err := repo.IsDetached()
	if err != nil {
		return nil, err
	}
	if detached {
		return nil, w.fail(model.KindDetachedHead,
			"HEAD is detached; check out a branch to prepare a release")
	}

	policy, _, err := w.Store.Load(req.Dir)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, w.fail(model.KindNoVersionFile,
				"no %s found for %q", config.FileName, req.Dir)
		}
		return nil, err
	}

	releaseVersion := policy.Version.StripPrerelease()
	if req.UnstableTag != "" {
		releaseVersion = policy.Version.WithFirstPrerelease(req.UnstableTag)
	}

	releaseBranch, err := BranchName(policy, policy.Version)
	if err != nil {
		return nil, w.failErr(err)
	}

	currentBranch, err := repo.CurrentBranch()
	if err != nil {
		return nil, err
	}

	if IsSameBranch(currentBranch, releaseBranch) {
		return w.advanceInPlace(req, repo, policy, releaseBranch, releaseVersion)
	}
	return w.fork(req, repo, policy, currentBranch, releaseBranch, releaseVersion)
}

// advanceInPlace handles the case where the release branch is already
// checked out: no branch is created, the version is simply updated. The
// report is written before the update commit lands, so the reported commit
// id reflects the tip the operator started from.
func (w *Workflow) advanceInPlace(req Request, repo gitx.Repository, policy *config.Policy, branch string, releaseVersion semver.Version) (*model.ReleaseInfo, error) {
	tip, err := repo.HeadCommit()
	if err != nil {
		return nil, err
	}

	info := &model.ReleaseInfo{
		CurrentBranch: model.BranchInfo{
			Name:    branch,
			Commit:  tip,
			Version: releaseVersion.String(),
		},
	}
	if err := WriteResult(w.Out, req.Format, info); err != nil {
		return nil, err
	}

	if err := w.updateVersion(req.Dir, repo, policy.Version, releaseVersion); err != nil {
		return nil, err
	}
	return info, nil
}

// fork handles the case where the current branch is not the release
// branch: the release branch is created from the current tip, both
// branches get their new versions, and the release branch is merged back
// into the original branch.
func (w *Workflow) fork(req Request, repo gitx.Repository, policy *config.Policy, currentBranch, releaseBranch string, releaseVersion semver.Version) (*model.ReleaseInfo, error) {
	nextDev, err := w.nextDevVersion(policy, req)
	if err != nil {
		return nil, err
	}

	if repo.BranchExists(releaseBranch) {
		return nil, w.fail(model.KindBranchAlreadyExists,
			"branch %q already exists", releaseBranch)
	}

	if err := repo.CreateBranch(releaseBranch); err != nil {
		return nil, err
	}
	if err := repo.Checkout(releaseBranch); err != nil {
		return nil, err
	}
	if err := w.updateVersion(req.Dir, repo, policy.Version, releaseVersion); err != nil {
		return nil, err
	}
	releaseTip, err := repo.HeadCommit()
	if err != nil {
		return nil, err
	}

	if err := repo.Checkout(currentBranch); err != nil {
		return nil, err
	}
	if err := w.updateVersion(req.Dir, repo, policy.Version, nextDev); err != nil {
		return nil, err
	}

	if err := repo.MergeFavorOurs(releaseBranch); err != nil {
		return nil, err
	}
	tip, err := repo.HeadCommit()
	if err != nil {
		return nil, err
	}

	info := &model.ReleaseInfo{
		CurrentBranch: model.BranchInfo{
			Name:    currentBranch,
			Commit:  tip,
			Version: nextDev.String(),
		},
		NewBranch: &model.BranchInfo{
			Name:    releaseBranch,
			Commit:  releaseTip,
			Version: releaseVersion.String(),
		},
	}
	if err := WriteResult(w.Out, req.Format, info); err != nil {
		return nil, err
	}
	return info, nil
}

// nextDevVersion computes the version the development branch moves to after
// the release forks off. An explicit override replaces only the numeric
// part; otherwise the configured (or overridden) increment is applied. In
// both cases the policy's first-unstable tag is re-applied at the end, so
// the development branch always carries its "next is unstable" marker.
func (w *Workflow) nextDevVersion(policy *config.Policy, req Request) (semver.Version, error) {
	var next semver.Version

	if req.NextVersion != nil {
		next = req.NextVersion.WithTagsOf(policy.Version)
	} else {
		inc := policy.VersionIncrement()
		if req.IncrementOverride != "" {
			inc = req.IncrementOverride
		}
		if inc == model.SegmentBuild && policy.Version.ComponentCount() < 3 {
			return semver.Version{}, w.fail(model.KindInvalidVersionIncrementSetting,
				"cannot increment the build segment of version %s: it has no build segment", policy.Version)
		}

		var err error
		next, err = policy.Version.Increment(inc)
		if err != nil {
			if errors.Is(err, semver.ErrNoBuildSegment) {
				return semver.Version{}, w.fail(model.KindInvalidVersionIncrementSetting,
					"cannot increment the build segment of version %s: it has no build segment", policy.Version)
			}
			return semver.Version{}, err
		}
	}

	return next.WithFirstPrerelease(policy.FirstUnstableTag()), nil
}

// updateVersion persists newVersion into the policy of the branch that is
// currently checked out. The policy is re-loaded here because the checked
// out branch changes across the workflow. Nothing is committed when the
// version is already current or when the file rewrite round-trips
// byte-identical.
func (w *Workflow) updateVersion(dir string, repo gitx.Repository, oldVersion, newVersion semver.Version) error {
	policy, path, err := w.Store.Load(dir)
	if err != nil {
		return err
	}

	if semver.IsDecrement(oldVersion, newVersion) {
		return w.fail(model.KindVersionDecrement,
			"cannot decrement the version from %s to %s", oldVersion, newVersion)
	}

	if newVersion.Equal(policy.Version) {
		return nil
	}

	// A change at or above the height position invalidates the stored
	// height offset.
	if semver.WillResetVersionHeight(policy.Version, newVersion, policy.VersionHeightPosition) {
		policy.VersionHeightOffset = nil
	}
	policy.Version = newVersion

	written, err := w.Store.Save(path, policy)
	if err != nil {
		return err
	}
	if err := repo.Stage(written); err != nil {
		return err
	}

	_, err = repo.Commit(fmt.Sprintf("Set version to '%s'", newVersion))
	return err
}

// fail writes one diagnostic line to the error sink and returns the typed
// error carrying the kind.
func (w *Workflow) fail(kind model.ErrorKind, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w.ErrOut, msg)
	return model.NewPrepError(kind, msg)
}

// failErr writes the diagnostic line for an already-typed error before
// propagating it.
func (w *Workflow) failErr(err error) error {
	fmt.Fprintln(w.ErrOut, err.Error())
	return err
}
