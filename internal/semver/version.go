// Package semver implements the version arithmetic needed by the release
// workflow: parsing and rendering of semantic versions, ordering, decrement
// detection, segment increments, and the version-height reset rule.
//
// A Version is immutable — every mutator returns a new value. The package
// deliberately supports only what the workflow needs: two or three numeric
// components, one optional prerelease tag, and optional build metadata.
// It is not a general-purpose semver library.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/relprep/internal/model"
)

// ErrNoBuildSegment is returned by Increment when a build increment is
// requested for a version that only has two numeric components.
var ErrNoBuildSegment = errors.New("version has no build segment to increment")

// Version is an immutable semantic version value: major.minor[.build],
// an optional prerelease tag, and optional build metadata.
//
// Ordering: numeric components are compared lexicographically (a missing
// build component compares as zero). When the numeric parts are equal, a
// version without a prerelease tag outranks one with a prerelease tag —
// a stable release is greater than its own prereleases.
type Version struct {
	numbers    []int
	prerelease string // without the leading '-'
	metadata   string // without the leading '+'
}

// Parse converts a string like "1.2", "1.2.3", "1.2-beta" or
// "1.2.3-rc.1+build5" into a Version. The numeric part must have exactly
// two or three non-negative components.
func Parse(s string) (Version, error) {
	if s == "" {
		return Version{}, errors.New("empty version string")
	}

	rest := s
	var metadata string
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		rest, metadata = rest[:i], rest[i+1:]
		if metadata == "" {
			return Version{}, fmt.Errorf("invalid version %q: empty build metadata", s)
		}
	}

	var prerelease string
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest, prerelease = rest[:i], rest[i+1:]
		if prerelease == "" {
			return Version{}, fmt.Errorf("invalid version %q: empty prerelease tag", s)
		}
	}

	parts := strings.Split(rest, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor or major.minor.build", s)
	}

	numbers := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return Version{}, fmt.Errorf("invalid version %q: bad numeric component %q", s, p)
		}
		numbers[i] = n
	}

	return Version{numbers: numbers, prerelease: prerelease, metadata: metadata}, nil
}

// MustParse is a Parse that panics on error, for use in tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the zero Version (never produced by Parse).
func (v Version) IsZero() bool {
	return len(v.numbers) == 0
}

// String renders the full version, including prerelease tag and metadata.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(v.Numeric())
	if v.prerelease != "" {
		b.WriteByte('-')
		b.WriteString(v.prerelease)
	}
	if v.metadata != "" {
		b.WriteByte('+')
		b.WriteString(v.metadata)
	}
	return b.String()
}

// Numeric renders only the numeric components ("1.2" or "1.2.3").
func (v Version) Numeric() string {
	parts := make([]string, len(v.numbers))
	for i, n := range v.numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// MajorMinor renders the first two numeric components ("1.2"). This is the
// rendering substituted into release branch-name templates.
func (v Version) MajorMinor() string {
	if len(v.numbers) < 2 {
		return v.Numeric()
	}
	return fmt.Sprintf("%d.%d", v.numbers[0], v.numbers[1])
}

// Prerelease returns the prerelease tag without its leading separator,
// or "" when the version is stable.
func (v Version) Prerelease() string {
	return v.prerelease
}

// HasPrerelease reports whether the version carries a prerelease tag.
func (v Version) HasPrerelease() bool {
	return v.prerelease != ""
}

// BuildMetadata returns the build metadata without its leading '+', or "".
func (v Version) BuildMetadata() string {
	return v.metadata
}

// ComponentCount returns the number of numeric components (2 or 3).
func (v Version) ComponentCount() int {
	return len(v.numbers)
}

// component returns the numeric component at index i, treating a missing
// component as zero.
func (v Version) component(i int) int {
	if i < 0 || i >= len(v.numbers) {
		return 0
	}
	return v.numbers[i]
}

// StripPrerelease removes the prerelease tag, keeping the numeric version
// and build metadata.
func (v Version) StripPrerelease() Version {
	v.prerelease = ""
	return v
}

// WithFirstPrerelease sets the prerelease tag to tag, normalizing an
// optional leading '-'. An empty tag behaves like StripPrerelease.
func (v Version) WithFirstPrerelease(tag string) Version {
	v.prerelease = strings.TrimPrefix(tag, "-")
	return v
}

// WithTagsOf returns v's numeric components combined with o's prerelease
// tag and build metadata. Used when a next-version override replaces only
// the numeric part of the current version.
func (v Version) WithTagsOf(o Version) Version {
	v.prerelease = o.prerelease
	v.metadata = o.metadata
	return v
}

// compareNumbers compares only the numeric components of a and b.
func compareNumbers(a, b Version) int {
	for i := 0; i < 3; i++ {
		if d := a.component(i) - b.component(i); d != 0 {
			if d < 0 {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Compare returns -1, 0 or 1 ordering v against o. Numeric components are
// compared first; for equal numerics a stable version outranks a prerelease,
// and two prereleases are ordered by their tags.
func (v Version) Compare(o Version) int {
	if c := compareNumbers(v, o); c != 0 {
		return c
	}
	switch {
	case v.prerelease == o.prerelease:
		return 0
	case v.prerelease == "":
		return 1
	case o.prerelease == "":
		return -1
	default:
		return strings.Compare(v.prerelease, o.prerelease)
	}
}

// Equal reports whether v and o have the same numeric components and
// prerelease tag. Build metadata does not participate in equality.
func (v Version) Equal(o Version) bool {
	return compareNumbers(v, o) == 0 && v.prerelease == o.prerelease
}

// IsDecrement reports whether moving from old to new lowers the version.
// A lower numeric version is always a decrement. For equal numerics, going
// from a stable version to a prerelease of the same number is a decrement;
// every other same-number change is not.
func IsDecrement(old, new Version) bool {
	switch compareNumbers(new, old) {
	case -1:
		return true
	case 1:
		return false
	default:
		return !old.HasPrerelease() && new.HasPrerelease()
	}
}

// Increment bumps the numeric component selected by seg by one, zeroing all
// lower-order components. The prerelease tag and build metadata of v are
// preserved; callers re-apply tags afterward as needed. A build increment
// requires the version to already have three components.
func (v Version) Increment(seg model.Segment) (Version, error) {
	numbers := append([]int(nil), v.numbers...)
	if len(numbers) < 2 {
		return Version{}, errors.New("cannot increment a zero version")
	}

	switch seg {
	case model.SegmentMajor:
		numbers[0]++
		numbers[1] = 0
		if len(numbers) > 2 {
			numbers[2] = 0
		}
	case model.SegmentMinor:
		numbers[1]++
		if len(numbers) > 2 {
			numbers[2] = 0
		}
	case model.SegmentBuild:
		if len(numbers) < 3 {
			return Version{}, ErrNoBuildSegment
		}
		numbers[2]++
	default:
		return Version{}, fmt.Errorf("invalid version segment %q", seg)
	}

	v.numbers = numbers
	return v, nil
}

// WillResetVersionHeight reports whether changing from old to new changes a
// numeric component at or above pos, meaning an accumulated per-version
// build counter must be reset and its stored offset cleared. An invalid or
// unset position never resets.
func WillResetVersionHeight(old, new Version, pos model.Segment) bool {
	idx := pos.Index()
	if idx < 0 {
		return false
	}
	for i := 0; i <= idx; i++ {
		if old.component(i) != new.component(i) {
			return true
		}
	}
	return false
}

// MarshalJSON renders the version as a JSON string.
func (v Version) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(v.String())), nil
}

// UnmarshalJSON parses a JSON string into the version.
func (v *Version) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("version must be a JSON string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
