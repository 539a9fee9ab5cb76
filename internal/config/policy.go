package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/relprep/internal/model"
	"github.com/mmr-tortoise/relprep/internal/semver"
)

// FileName is the name of the versioning policy file.
const FileName = "version.json"

// SchemaURL is the JSON schema reference written into saved policy files.
const SchemaURL = "https://raw.githubusercontent.com/mmr-tortoise/relprep/main/schema/version.schema.json"

// Default values applied when the release section omits a field.
const (
	// DefaultBranchNameFormat is the release branch-name template used when
	// none is configured. {version} is replaced with the major.minor
	// rendering of the version.
	DefaultBranchNameFormat = "v{version}"

	// DefaultFirstUnstableTag is the prerelease tag applied to the next
	// development version when none is configured.
	DefaultFirstUnstableTag = "alpha"
)

// ErrNotFound is returned by Load when no version.json exists between the
// project directory and the repository root.
var ErrNotFound = errors.New("version.json not found")

// ReleaseOptions is the "release" section of version.json. All fields are
// optional; accessor methods on Policy apply the defaults.
type ReleaseOptions struct {
	// BranchName is the release branch-name template. It must contain a
	// {version} placeholder, validated lazily when a release branch name
	// is actually resolved.
	BranchName string `json:"branchName,omitempty"`

	// VersionIncrement selects which numeric segment advances on the
	// development branch after a release branch forks off.
	VersionIncrement model.Segment `json:"versionIncrement,omitempty"`

	// FirstUnstableTag is the prerelease tag marking the next development
	// version as unstable.
	FirstUnstableTag string `json:"firstUnstableTag,omitempty"`
}

// Policy is the persisted versioning configuration for a branch. Field order
// matters for serialization: $schema is written first.
type Policy struct {
	// Schema is the JSON schema reference ($schema property).
	Schema string `json:"$schema,omitempty"`

	// Version is the branch's current version, possibly with a prerelease
	// tag (e.g. "1.2-beta").
	Version semver.Version `json:"version"`

	// Release holds the release branch settings. Nil means all defaults.
	Release *ReleaseOptions `json:"release,omitempty"`

	// VersionHeightPosition names the numeric segment in which an
	// accumulated build counter lives. Empty when height tracking is off.
	VersionHeightPosition model.Segment `json:"versionHeightPosition,omitempty"`

	// VersionHeightOffset is the stored offset of the accumulated build
	// counter. Cleared whenever a version change resets the counter.
	VersionHeightOffset *int `json:"versionHeightOffset,omitempty"`
}

// BranchNameFormat returns the configured release branch-name template,
// or the default when unset.
func (p *Policy) BranchNameFormat() string {
	if p.Release != nil && p.Release.BranchName != "" {
		return p.Release.BranchName
	}
	return DefaultBranchNameFormat
}

// VersionIncrement returns the configured increment segment, or minor.
func (p *Policy) VersionIncrement() model.Segment {
	if p.Release != nil && p.Release.VersionIncrement != "" {
		return p.Release.VersionIncrement
	}
	return model.SegmentMinor
}

// FirstUnstableTag returns the configured first-unstable prerelease tag,
// or the default.
func (p *Policy) FirstUnstableTag() string {
	if p.Release != nil && p.Release.FirstUnstableTag != "" {
		return p.Release.FirstUnstableTag
	}
	return DefaultFirstUnstableTag
}

// Store abstracts policy persistence so the workflow can be tested without
// touching the filesystem. FileStore is the production implementation.
type Store interface {
	// Load finds and parses the policy for a project directory, returning
	// the policy and the path it was read from. Returns ErrNotFound when
	// no policy file exists.
	Load(dir string) (*Policy, string, error)

	// Save serializes the policy back to the given path and returns the
	// path written.
	Save(path string, p *Policy) (string, error)
}

// FileStore reads and writes version.json files on disk.
type FileStore struct {
	// IncludeSchema controls whether the $schema property is written.
	IncludeSchema bool
}

// NewFileStore creates a FileStore that writes the $schema property.
func NewFileStore() *FileStore {
	return &FileStore{IncludeSchema: true}
}

// Find locates the version.json governing dir. The search walks upward from
// dir and stops after the first directory that contains a .git entry (the
// repository root) or at the filesystem root.
func Find(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}

	for {
		candidate := filepath.Join(current, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		// A .git entry (directory, or file for worktrees) marks the
		// repository root; the policy search does not cross it.
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return "", ErrNotFound
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotFound
		}
		current = parent
	}
}

// Load finds and parses the policy for a project directory.
func (s *FileStore) Load(dir string) (*Policy, string, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	// Strip JSONC comments and trailing commas before parsing. Policy files
	// written by hand frequently carry comments.
	var p Policy
	if err := json.Unmarshal(jsonc.ToJSON(data), &p); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if p.Version.IsZero() {
		return nil, "", fmt.Errorf("%s: missing required \"version\" property", path)
	}

	return &p, path, nil
}

// Save serializes the policy to path as indented JSON with a trailing
// newline. The $schema property is filled in when IncludeSchema is set.
func (s *FileStore) Save(path string, p *Policy) (string, error) {
	if s.IncludeSchema && p.Schema == "" {
		p.Schema = SchemaURL
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize policy: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
