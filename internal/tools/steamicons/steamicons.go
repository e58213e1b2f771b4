// Package steamicons fetches missing Steam game icons for the .url shortcuts
// in a directory.
package steamicons

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/louisbranch/steamicons/internal/iconfetch"
	"github.com/louisbranch/steamicons/internal/platform/cmd"
	"github.com/louisbranch/steamicons/internal/platform/config"
	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"github.com/louisbranch/steamicons/internal/platform/logging"
	"github.com/louisbranch/steamicons/internal/platform/timeouts"
	"github.com/louisbranch/steamicons/internal/scan"
	"github.com/louisbranch/steamicons/internal/shortcut"
)

// DefaultWindowsIconDir is where the Steam client keeps shortcut icons.
const DefaultWindowsIconDir = `C:\Program Files (x86)\Steam\steam\games\`

const goosWindows = "windows"

// Config holds command configuration.
type Config struct {
	IconDir        string        `env:"STEAMICONS_ICON_DIR"`
	ShortcutDir    string        `env:"STEAMICONS_SHORTCUT_DIR"`
	SectionHeader  string        `env:"STEAMICONS_SECTION_HEADER"`
	Extension      string        `env:"STEAMICONS_SHORTCUT_EXT"`
	RunPattern     string        `env:"STEAMICONS_RUN_PATTERN"`
	IconPattern    string        `env:"STEAMICONS_ICON_PATTERN"`
	Encoding       string        `env:"STEAMICONS_SHORTCUT_ENCODING" envDefault:"utf-8"`
	URLTemplate    string        `env:"STEAMICONS_CDN_URL_TEMPLATE"`
	RequestTimeout time.Duration `env:"STEAMICONS_REQUEST_TIMEOUT"`
	LogLevel       string        `env:"STEAMICONS_LOG_LEVEL" envDefault:"info"`

	// GOOS selects platform defaults.
	GOOS string
}

// ParseConfig reads the environment (or environ, when non-nil) and then args.
func ParseConfig(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	return parseConfig(fs, args, environ, runtime.GOOS)
}

func parseConfig(fs *flag.FlagSet, args []string, environ map[string]string, goos string) (Config, error) {
	cfg := Config{GOOS: goos}
	if err := config.ParseEnvFrom(&cfg, environ); err != nil {
		return Config{}, err
	}
	if cfg.IconDir == "" && cfg.GOOS == goosWindows {
		cfg.IconDir = DefaultWindowsIconDir
	}
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = iconfetch.DefaultURLTemplate
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = timeouts.IconRequest
	}

	fs.StringVar(&cfg.IconDir, "icon-dir", cfg.IconDir, "local icon directory (default: STEAMICONS_ICON_DIR or the Steam games directory on windows)")
	fs.StringVar(&cfg.ShortcutDir, "dir", cfg.ShortcutDir, "directory holding .url shortcuts (default: STEAMICONS_SHORTCUT_DIR or the working directory)")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "timeout for a single icon download")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, apperrors.Wrap(apperrors.CodeConfigInvalid, "invalid STEAMICONS_LOG_LEVEL", err)
	}
	return cfg, nil
}

// Validate checks the parts of cfg that need no filesystem access.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.IconDir) != "" {
		return nil
	}
	if cfg.GOOS != goosWindows {
		return apperrors.WithMetadata(apperrors.CodeUnsupportedPlatform,
			fmt.Sprintf("no default icon directory on %s: set STEAMICONS_ICON_DIR or -icon-dir", cfg.GOOS),
			map[string]string{"goos": cfg.GOOS})
	}
	return apperrors.New(apperrors.CodeConfigInvalid, "icon directory is required")
}

// NewLogger builds the command logger for cfg.
func NewLogger(cfg Config, w io.Writer) *logging.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.New(w, level)
}

// Run checks preconditions and processes the shortcut directory once.
func Run(ctx context.Context, cfg Config, gate scan.Gate, logger *logging.Logger) (scan.Summary, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if err := cfg.Validate(); err != nil {
		return scan.Summary{}, err
	}

	dir := cfg.ShortcutDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return scan.Summary{}, apperrors.Wrap(apperrors.CodeShortcutRead, "resolve working directory", err)
		}
		dir = wd
	}
	logger.Infof("Processing shortcuts in %s", dir)

	if err := checkIconDir(cfg.IconDir); err != nil {
		return scan.Summary{}, err
	}

	layout, err := shortcut.NewLayout(shortcut.Options{
		SectionHeader: cfg.SectionHeader,
		Extension:     cfg.Extension,
		RunPattern:    cfg.RunPattern,
		IconPattern:   cfg.IconPattern,
		IconDir:       cfg.IconDir,
		Encoding:      cfg.Encoding,
	})
	if err != nil {
		return scan.Summary{}, err
	}
	fetcher, err := iconfetch.New(iconfetch.Config{
		IconDir:        cfg.IconDir,
		URLTemplate:    cfg.URLTemplate,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})
	if err != nil {
		return scan.Summary{}, err
	}

	summary, err := scan.New(layout, fetcher, gate, logger).Run(ctx, dir)
	if err != nil {
		return summary, err
	}
	logger.Infof("Done: %d entries, %d downloaded, %d already present, %d skipped, %d without shortcut section",
		summary.Examined, summary.Downloaded, summary.Existing, summary.Skipped, summary.NotApplicable)
	return summary, nil
}

// Report logs err according to its category and returns the process exit code.
func Report(logger *logging.Logger, err error) int {
	if logger == nil {
		logger = logging.Default()
	}
	switch apperrors.CodeOf(err).Category() {
	case apperrors.CategoryInterrupt:
		logger.Warnf("Run interrupted: %v", err)
		return config.ExitCodeInterrupted
	case apperrors.CategoryDataIntegrity:
		logger.Errorf("Shortcut data error: %v", err)
		return config.ExitCodeDataError
	case apperrors.CategoryEnvironment:
		logger.Errorf("Environment error: %v", err)
		return 1
	default:
		logger.Errorf("Run failed: %v", err)
		return 1
	}
}

func checkIconDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeIconDirMissing, "local icon directory "+dir,
			map[string]string{"dir": dir}, err)
	}
	if !info.IsDir() {
		return apperrors.WithMetadata(apperrors.CodeIconDirMissing,
			fmt.Sprintf("local icon directory %s is not actually a directory", dir),
			map[string]string{"dir": dir})
	}
	return nil
}
