package release

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmr-tortoise/relprep/internal/model"
)

// Format selects how a preparation result is rendered.
type Format string

const (
	// FormatText renders one human-readable line per meaningful
	// transition.
	FormatText Format = "text"

	// FormatJSON renders the full ReleaseInfo as a single indented JSON
	// document.
	FormatJSON Format = "json"
)

// WriteResult renders info to w in the requested format. An empty format
// falls back to text.
func WriteResult(w io.Writer, format Format, info *model.ReleaseInfo) error {
	if format == FormatJSON {
		return writeJSON(w, info)
	}
	writeText(w, info)
	return nil
}

// writeText prints one line per transition: the release branch and what it
// now tracks, and, in the fork case, the development branch as well.
func writeText(w io.Writer, info *model.ReleaseInfo) {
	if info.NewBranch == nil {
		fmt.Fprintf(w, "%s branch now tracks v%s stabilization and release.\n",
			info.CurrentBranch.Name, info.CurrentBranch.Version)
		return
	}

	fmt.Fprintf(w, "%s branch now tracks v%s stabilization and release.\n",
		info.NewBranch.Name, info.NewBranch.Version)
	fmt.Fprintf(w, "%s branch now tracks v%s development.\n",
		info.CurrentBranch.Name, info.CurrentBranch.Version)
}

// writeJSON prints the structured report. The newBranch property is omitted
// entirely in the advance-in-place case.
func writeJSON(w io.Writer, info *model.ReleaseInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize release info: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
