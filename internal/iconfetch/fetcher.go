// Package iconfetch downloads game icons from the content host into the
// local icon directory. Files are written once and never overwritten.
package iconfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"github.com/louisbranch/steamicons/internal/platform/logging"
	"github.com/louisbranch/steamicons/internal/platform/otel"
	"github.com/louisbranch/steamicons/internal/platform/timeouts"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultURLTemplate points at the public Steam community image CDN.
const DefaultURLTemplate = "https://cdn.cloudflare.steamstatic.com/steamcommunity/public/images/apps/{key}/{icon}"

// Template placeholders.
const (
	PlaceholderKey  = "{key}"
	PlaceholderIcon = "{icon}"
)

const iconFileMode = 0o644

// Result reports what Fetch did.
type Result int

const (
	// ResultDownloaded means the icon was fetched and written.
	ResultDownloaded Result = iota + 1
	// ResultExisting means the destination already existed and nothing was fetched.
	ResultExisting
)

func (r Result) String() string {
	switch r {
	case ResultDownloaded:
		return "downloaded"
	case ResultExisting:
		return "existing"
	default:
		return "unknown"
	}
}

// Config configures a Fetcher.
type Config struct {
	// IconDir is the destination directory.
	IconDir string
	// URLTemplate must contain {key} and {icon}.
	URLTemplate string
	// RequestTimeout bounds one download. Zero uses timeouts.IconRequest.
	RequestTimeout time.Duration
	// Client performs requests. Nil uses an otelhttp-instrumented client.
	Client *http.Client
	Logger *logging.Logger
}

// Fetcher downloads icons one at a time.
type Fetcher struct {
	iconDir     string
	urlTemplate string
	timeout     time.Duration
	client      *http.Client
	logger      *logging.Logger
}

// New validates cfg and creates a Fetcher.
func New(cfg Config) (*Fetcher, error) {
	if strings.TrimSpace(cfg.IconDir) == "" {
		return nil, apperrors.New(apperrors.CodeConfigInvalid, "icon directory is required")
	}
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = DefaultURLTemplate
	}
	if !strings.Contains(cfg.URLTemplate, PlaceholderKey) || !strings.Contains(cfg.URLTemplate, PlaceholderIcon) {
		return nil, apperrors.New(apperrors.CodeConfigInvalid,
			fmt.Sprintf("url template %q must contain %s and %s", cfg.URLTemplate, PlaceholderKey, PlaceholderIcon))
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = timeouts.IconRequest
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Fetcher{
		iconDir:     cfg.IconDir,
		urlTemplate: cfg.URLTemplate,
		timeout:     cfg.RequestTimeout,
		client:      cfg.Client,
		logger:      cfg.Logger,
	}, nil
}

// URL interpolates key and icon into the template. No escaping is applied;
// the parser only yields digits and plain filenames.
func (f *Fetcher) URL(key, icon string) string {
	return strings.NewReplacer(PlaceholderKey, key, PlaceholderIcon, icon).Replace(f.urlTemplate)
}

// Destination returns the local path for icon.
func (f *Fetcher) Destination(icon string) string {
	return filepath.Join(f.iconDir, icon)
}

// Fetch downloads the icon for key unless it already exists locally.
func (f *Fetcher) Fetch(ctx context.Context, key, icon string) (Result, error) {
	ctx, span := otel.Tracer().Start(ctx, "iconfetch.Fetch", trace.WithAttributes(
		attribute.String("steamicons.key", key),
		attribute.String("steamicons.icon", icon),
	))
	defer span.End()

	result, err := f.fetch(ctx, key, icon)
	if err != nil {
		otel.RecordError(span, err)
		return 0, err
	}
	span.SetAttributes(attribute.String("steamicons.result", result.String()))
	return result, nil
}

func (f *Fetcher) fetch(ctx context.Context, key, icon string) (Result, error) {
	dest := f.Destination(icon)
	meta := map[string]string{"key": key, "icon": icon, "path": dest}

	if _, err := os.Lstat(dest); err == nil {
		f.logger.Infof("Icon already exists for game #%s", key)
		return ResultExisting, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return 0, apperrors.WrapWithMetadata(apperrors.CodeIconWriteFailed, "check icon "+dest, meta, err)
	}

	url := f.URL(key, icon)
	meta["url"] = url
	f.logger.Infof("Downloading icon for game #%s from %s", key, url)

	body, err := f.download(ctx, url)
	if err != nil {
		return 0, apperrors.WrapWithMetadata(apperrors.CodeIconFetchFailed, fmt.Sprintf("download icon for game #%s", key), meta, err)
	}
	if err := writeNew(dest, body); err != nil {
		return 0, apperrors.WrapWithMetadata(apperrors.CodeIconWriteFailed, "save icon file "+dest, meta, err)
	}
	f.logger.Debugf("Wrote %d bytes to %s", len(body), dest)
	return ResultDownloaded, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build icon request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("icon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("icon request returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read icon body: %w", err)
	}
	return body, nil
}

// writeNew creates path exclusively and writes body. A failed write removes
// the file it created.
func writeNew(path string, body []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, iconFileMode)
	if err != nil {
		return err
	}
	if _, err := file.Write(body); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("write icon contents: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close icon file: %w", err)
	}
	return nil
}
