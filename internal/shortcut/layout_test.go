package shortcut

import (
	"io/fs"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
)

func TestDefaultIconPattern(t *testing.T) {
	if got := DefaultIconPattern('\\'); got != `^IconFile=(?P<dir>.*\\)(?P<name>[^.\\]+\.ico)$` {
		t.Fatalf("windows pattern = %q", got)
	}
	if got := DefaultIconPattern('/'); got != `^IconFile=(?P<dir>.*/)(?P<name>[^./]+\.ico)$` {
		t.Fatalf("unix pattern = %q", got)
	}
}

func TestNewLayoutAddsTrailingSeparator(t *testing.T) {
	layout, err := NewLayout(Options{IconDir: `C:\icons`, Separator: '\\'})
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	if layout.IconDir() != `C:\icons\` {
		t.Fatalf("icon dir = %q", layout.IconDir())
	}
	if layout.Extension() != DefaultExtension {
		t.Fatalf("extension = %q", layout.Extension())
	}
}

func TestNewLayoutRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "missing icon dir", opts: Options{}, want: "icon directory"},
		{name: "bad run pattern", opts: Options{IconDir: "/icons", RunPattern: "(["}, want: "compile run pattern"},
		{name: "run pattern without key", opts: Options{IconDir: "/icons", RunPattern: `^URL=(\d+)$`}, want: "(?P<key>"},
		{name: "icon pattern without dir", opts: Options{IconDir: "/icons", IconPattern: `^IconFile=(?P<name>.*)$`}, want: "(?P<dir>"},
		{name: "unknown encoding", opts: Options{IconDir: "/icons", Encoding: "klingon"}, want: "unknown shortcut encoding"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLayout(tc.opts)
			if !apperrors.HasCode(err, apperrors.CodeConfigInvalid) {
				t.Fatalf("expected config error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestNewLayoutCustomFormat(t *testing.T) {
	layout, err := NewLayout(Options{
		IconDir:       "/opt/icons",
		Separator:     '/',
		SectionHeader: "[Desktop Entry]",
		Extension:     ".desktop",
		RunPattern:    `^Exec=steam steam://rungameid/(?P<key>\d+)$`,
		IconPattern:   `^Icon=(?P<dir>.*/)(?P<name>steam_icon_\d+\.ico)$`,
	})
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	sc, ok, err := layout.Parse("game.desktop", strings.NewReader(
		"[Desktop Entry]\nExec=steam steam://rungameid/620\nIcon=/opt/icons/steam_icon_620.ico\n",
	))
	if err != nil || !ok {
		t.Fatalf("parse: ok=%v err=%v", ok, err)
	}
	if sc.Key != "620" || sc.IconFilename != "steam_icon_620.ico" {
		t.Fatalf("parse = %+v", sc)
	}
}

func TestEligibility(t *testing.T) {
	layout, err := NewLayout(Options{IconDir: "/icons", Separator: '/'})
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	tests := []struct {
		name string
		mode fs.FileMode
		want SkipReason
	}{
		{name: "game.url", mode: 0o644, want: SkipNone},
		{name: "folder.url", mode: fs.ModeDir | 0o755, want: SkipDirectory},
		{name: "link.url", mode: fs.ModeSymlink | 0o777, want: SkipSymlink},
		{name: "pipe.url", mode: fs.ModeNamedPipe, want: SkipNonFile},
		{name: "notes.txt", mode: 0o644, want: SkipNotShortcut},
		{name: "game.URL", mode: 0o644, want: SkipNotShortcut},
	}
	for _, tc := range tests {
		got, err := layout.Eligibility(tc.name, tc.mode)
		if err != nil {
			t.Fatalf("eligibility %q: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("eligibility %q = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestEligibilityRejectsInvalidUTF8(t *testing.T) {
	layout, err := NewLayout(Options{IconDir: "/icons", Separator: '/'})
	if err != nil {
		t.Fatalf("new layout: %v", err)
	}
	_, err = layout.Eligibility("bad\xffname.url", 0o644)
	if !apperrors.HasCode(err, apperrors.CodeShortcutInvalidFilename) {
		t.Fatalf("expected invalid filename error, got %v", err)
	}
}
