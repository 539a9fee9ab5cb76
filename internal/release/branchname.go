package release

import (
	"fmt"
	"strings"

	"github.com/mmr-tortoise/relprep/internal/config"
	"github.com/mmr-tortoise/relprep/internal/model"
	"github.com/mmr-tortoise/relprep/internal/semver"
)

// VersionPlaceholder is the token in a branch-name template that is
// replaced with the version rendering.
const VersionPlaceholder = "{version}"

// BranchName resolves the release branch name for the given policy and
// version. The template must contain the {version} placeholder, which is
// substituted with the major.minor rendering of the version — never the
// prerelease tag or build metadata. The template is validated here, lazily,
// because most policy reads never need a branch name.
func BranchName(p *config.Policy, v semver.Version) (string, error) {
	format := p.BranchNameFormat()
	if strings.TrimSpace(format) == "" {
		return "", model.NewPrepError(model.KindInvalidBranchNameSetting,
			"release branch name format is empty")
	}
	if !strings.Contains(format, VersionPlaceholder) {
		return "", model.NewPrepError(model.KindInvalidBranchNameSetting,
			fmt.Sprintf("release branch name format %q lacks the %s placeholder", format, VersionPlaceholder))
	}
	return strings.ReplaceAll(format, VersionPlaceholder, v.MajorMinor()), nil
}

// IsSameBranch compares two branch names case-insensitively.
func IsSameBranch(a, b string) bool {
	return strings.EqualFold(a, b)
}
