package shortcut

import (
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
)

// SkipReason explains why a directory entry is not parsed. The zero value
// means the entry is eligible.
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipDirectory   SkipReason = "directory"
	SkipSymlink     SkipReason = "symlink"
	SkipNonFile     SkipReason = "non-file"
	SkipNotShortcut SkipReason = "non-shortcut file"
)

// Eligibility decides whether the entry called name with the given mode
// should be parsed. A filename that is not valid UTF-8 is an error rather
// than a skip.
func (l *Layout) Eligibility(name string, mode fs.FileMode) (SkipReason, error) {
	if !utf8.ValidString(name) {
		return SkipNone, apperrors.WithMetadata(
			apperrors.CodeShortcutInvalidFilename,
			fmt.Sprintf("filename contains invalid UTF-8: %q", name),
			map[string]string{"file": name},
		)
	}
	switch {
	case mode.IsDir():
		return SkipDirectory, nil
	case mode&fs.ModeSymlink != 0:
		return SkipSymlink, nil
	case !mode.IsRegular():
		return SkipNonFile, nil
	case !strings.HasSuffix(name, l.extension):
		return SkipNotShortcut, nil
	}
	return SkipNone, nil
}
