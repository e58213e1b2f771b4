package shortcut

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single shortcut line.
const maxLineSize = 1 << 20

// Shortcut is the pair extracted from one shortcut file.
type Shortcut struct {
	// Key is the digit run from the run command, kept as text.
	Key string
	// IconFilename is the declared icon basename including ".ico".
	IconFilename string
}

// ParseFile opens path and parses it. name is used in error messages.
func (l *Layout) ParseFile(path, name string) (Shortcut, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return Shortcut{}, false, readError(name, "open", err)
	}
	defer f.Close()
	return l.Parse(name, f)
}

// Parse scans r line by line and returns the shortcut it declares.
//
// It reports false with a nil error when r has content but never opens the target
// section. Inside the section a repeated field, an icon outside the expected
// directory, or a missing field is an error. Input that is empty or holds only
// blank lines is also an error.
func (l *Layout) Parse(name string, r io.Reader) (Shortcut, bool, error) {
	scanner := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(l.encoding.NewDecoder())))
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var (
		key, icon  string
		haveKey    bool
		haveIcon   bool
		inSection  bool
		sawSection bool
		content    bool
	)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			content = true
		}

		switch {
		case line == l.sectionHeader:
			inSection = true
			sawSection = true
			continue
		case !inSection:
			continue
		case strings.HasPrefix(line, "["):
			inSection = false
			continue
		}

		if m := l.runPattern.FindStringSubmatch(line); m != nil {
			if haveKey {
				return Shortcut{}, false, fileError(apperrors.CodeShortcutDuplicateKey, "duplicate key for shortcut: %s", name)
			}
			key = m[l.runPattern.SubexpIndex(groupKey)]
			haveKey = true
			continue
		}

		if m := l.iconPattern.FindStringSubmatch(line); m != nil {
			if haveIcon {
				return Shortcut{}, false, fileError(apperrors.CodeShortcutDuplicateIcon, "duplicate icon for shortcut: %s", name)
			}
			dir := m[l.iconPattern.SubexpIndex(groupDir)]
			if dir != l.iconDir {
				return Shortcut{}, false, apperrors.WithMetadata(
					apperrors.CodeShortcutUnrecognizedIconDir,
					fmt.Sprintf("unrecognized icon directory `%s` for shortcut: %s", dir, name),
					map[string]string{"file": name, "icon_dir": dir},
				)
			}
			icon = m[l.iconPattern.SubexpIndex(groupName)]
			haveIcon = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Shortcut{}, false, readError(name, "read", err)
	}

	if haveKey && haveIcon {
		return Shortcut{Key: key, IconFilename: icon}, true, nil
	}
	if content && !sawSection {
		return Shortcut{}, false, nil
	}
	return Shortcut{}, false, fileError(apperrors.CodeShortcutIncomplete, "shortcut could not be parsed or was not a recognized shortcut: %s", name)
}

func fileError(code apperrors.Code, format, name string) error {
	return apperrors.WithMetadata(code, fmt.Sprintf(format, name), map[string]string{"file": name})
}

func readError(name, op string, cause error) error {
	return apperrors.WrapWithMetadata(
		apperrors.CodeShortcutRead,
		fmt.Sprintf("%s shortcut %s", op, name),
		map[string]string{"file": name},
		cause,
	)
}
