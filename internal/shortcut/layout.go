package shortcut

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Format defaults.
const (
	DefaultSectionHeader = "[InternetShortcut]"
	DefaultExtension     = ".url"
	DefaultRunPattern    = `^URL=steam://rungameid/(?P<key>\d+)$`
	DefaultEncoding      = "utf-8"
)

// Capture group names the patterns must declare.
const (
	groupKey  = "key"
	groupDir  = "dir"
	groupName = "name"
)

// DefaultIconPattern returns the icon-declaration pattern for a path
// separator: everything through the final separator is the directory, and
// the basename holds no separator or dot before ".ico".
func DefaultIconPattern(sep rune) string {
	s := regexp.QuoteMeta(string(sep))
	return `^IconFile=(?P<dir>.*` + s + `)(?P<name>[^.` + s + `]+\.ico)$`
}

// Options configures a Layout. Empty fields take the package defaults.
type Options struct {
	SectionHeader string
	Extension     string
	RunPattern    string
	IconPattern   string
	// IconDir is the directory IconFile declarations must name. A trailing
	// separator is added when missing.
	IconDir string
	// Separator is the path separator of IconDir. Defaults to os.PathSeparator.
	Separator rune
	// Encoding is a WHATWG encoding label such as "utf-8" or "windows-1252".
	Encoding string
}

// Layout is a compiled shortcut format. It is safe for concurrent use.
type Layout struct {
	sectionHeader string
	extension     string
	iconDir       string
	runPattern    *regexp.Regexp
	iconPattern   *regexp.Regexp
	encoding      encoding.Encoding
}

// NewLayout validates opts and compiles the patterns.
func NewLayout(opts Options) (*Layout, error) {
	if opts.Separator == 0 {
		opts.Separator = os.PathSeparator
	}
	if opts.SectionHeader == "" {
		opts.SectionHeader = DefaultSectionHeader
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.RunPattern == "" {
		opts.RunPattern = DefaultRunPattern
	}
	if opts.IconPattern == "" {
		opts.IconPattern = DefaultIconPattern(opts.Separator)
	}
	if opts.Encoding == "" {
		opts.Encoding = DefaultEncoding
	}
	if opts.IconDir == "" {
		return nil, apperrors.New(apperrors.CodeConfigInvalid, "icon directory is required")
	}

	runPattern, err := compilePattern("run", opts.RunPattern, groupKey)
	if err != nil {
		return nil, err
	}
	iconPattern, err := compilePattern("icon", opts.IconPattern, groupDir, groupName)
	if err != nil {
		return nil, err
	}
	enc, err := htmlindex.Get(opts.Encoding)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigInvalid, fmt.Sprintf("unknown shortcut encoding %q", opts.Encoding), err)
	}

	iconDir := opts.IconDir
	if !strings.HasSuffix(iconDir, string(opts.Separator)) {
		iconDir += string(opts.Separator)
	}

	return &Layout{
		sectionHeader: opts.SectionHeader,
		extension:     opts.Extension,
		iconDir:       iconDir,
		runPattern:    runPattern,
		iconPattern:   iconPattern,
		encoding:      enc,
	}, nil
}

func compilePattern(kind, pattern string, groups ...string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigInvalid, fmt.Sprintf("compile %s pattern", kind), err)
	}
	for _, group := range groups {
		if re.SubexpIndex(group) < 0 {
			return nil, apperrors.New(apperrors.CodeConfigInvalid, fmt.Sprintf("%s pattern %q must declare group (?P<%s>...)", kind, pattern, group))
		}
	}
	return re, nil
}

// IconDir returns the expected icon directory, with its trailing separator.
func (l *Layout) IconDir() string {
	return l.iconDir
}

// Extension returns the shortcut filename extension.
func (l *Layout) Extension() string {
	return l.extension
}
