package model

import (
	"fmt"
	"strings"
)

// Segment identifies one numeric component of a version number. It is used
// both as the version increment policy (which segment advances on the
// development branch after a release forks off) and as the version-height
// position (the segment at which an accumulated build counter lives).
type Segment string

const (
	// SegmentMajor is the first numeric component.
	SegmentMajor Segment = "major"

	// SegmentMinor is the second numeric component.
	SegmentMinor Segment = "minor"

	// SegmentBuild is the third numeric component. A version with only two
	// components has no build segment.
	SegmentBuild Segment = "build"
)

// String returns the string representation of the segment.
func (s Segment) String() string {
	return string(s)
}

// IsValid checks whether the Segment is one of the predefined values.
func (s Segment) IsValid() bool {
	switch s {
	case SegmentMajor, SegmentMinor, SegmentBuild:
		return true
	default:
		return false
	}
}

// Index returns the zero-based component index of the segment
// (major=0, minor=1, build=2). Invalid segments return -1.
func (s Segment) Index() int {
	switch s {
	case SegmentMajor:
		return 0
	case SegmentMinor:
		return 1
	case SegmentBuild:
		return 2
	default:
		return -1
	}
}

// ParseSegment converts a string to a Segment.
// Returns an error if the string does not match any valid segment.
func ParseSegment(s string) (Segment, error) {
	seg := Segment(strings.ToLower(s))
	if !seg.IsValid() {
		return "", fmt.Errorf("invalid version segment: %q (valid: major, minor, build)", s)
	}
	return seg, nil
}

// BranchInfo is a snapshot of a branch's tip after the workflow touched it.
// Immutable once constructed.
type BranchInfo struct {
	// Name is the branch name.
	Name string `json:"name"`

	// Commit is the commit id of the branch tip.
	Commit string `json:"commit"`

	// Version is the version the branch tracks, in full semantic form
	// (including any prerelease tag).
	Version string `json:"version"`
}

// ReleaseInfo is the result of a preparation run. NewBranch is present only
// when a new release branch was created (fork case); it is nil when an
// existing release branch was advanced in place. The two cases are therefore
// distinguishable without consulting any other state.
type ReleaseInfo struct {
	// CurrentBranch describes the branch that was checked out when the
	// workflow started (and is checked out again when it finishes).
	CurrentBranch BranchInfo `json:"currentBranch"`

	// NewBranch describes the freshly created release branch, or nil when
	// the workflow advanced the release branch in place.
	NewBranch *BranchInfo `json:"newBranch,omitempty"`
}
