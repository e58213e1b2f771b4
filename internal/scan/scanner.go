// Package scan walks a shortcut directory and hands every parsed shortcut to
// the icon fetcher. Entries are processed one at a time and the first error
// stops the run.
package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/louisbranch/steamicons/internal/iconfetch"
	apperrors "github.com/louisbranch/steamicons/internal/platform/errors"
	"github.com/louisbranch/steamicons/internal/platform/logging"
	"github.com/louisbranch/steamicons/internal/platform/otel"
	"github.com/louisbranch/steamicons/internal/shortcut"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IconFetcher downloads the icon for one shortcut.
type IconFetcher interface {
	Fetch(ctx context.Context, key, icon string) (iconfetch.Result, error)
}

// Gate reports a pending interrupt as an error.
type Gate interface {
	Check() error
}

// Summary counts what a run did.
type Summary struct {
	Examined      int
	Skipped       int
	NotApplicable int
	Existing      int
	Downloaded    int
}

// Scanner drives one pass over a directory.
type Scanner struct {
	layout  *shortcut.Layout
	fetcher IconFetcher
	gate    Gate
	logger  *logging.Logger
}

// New creates a Scanner. A nil logger uses the process default.
func New(layout *shortcut.Layout, fetcher IconFetcher, gate Gate, logger *logging.Logger) *Scanner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scanner{layout: layout, fetcher: fetcher, gate: gate, logger: logger}
}

// Run processes every entry of dir in name order.
func (s *Scanner) Run(ctx context.Context, dir string) (Summary, error) {
	var summary Summary
	if s.layout == nil || s.fetcher == nil || s.gate == nil {
		return summary, fmt.Errorf("scanner requires a layout, fetcher and gate")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return summary, apperrors.WrapWithMetadata(apperrors.CodeShortcutRead, "read shortcut directory "+dir,
			map[string]string{"dir": dir}, err)
	}

	for _, entry := range entries {
		if err := s.gate.Check(); err != nil {
			return summary, err
		}
		summary.Examined++
		if err := s.processEntry(ctx, dir, entry, &summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (s *Scanner) processEntry(ctx context.Context, dir string, entry os.DirEntry, summary *Summary) error {
	name := entry.Name()
	info, err := entry.Info()
	if err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeShortcutRead, "read metadata for "+name,
			map[string]string{"file": name}, err)
	}

	reason, err := s.layout.Eligibility(name, info.Mode())
	if err != nil {
		return err
	}
	if reason != shortcut.SkipNone {
		s.logger.Warnf("Skipping %s `%s`", reason, name)
		summary.Skipped++
		return nil
	}

	ctx, span := otel.Tracer().Start(ctx, "scan.Entry", trace.WithAttributes(attribute.String("steamicons.file", name)))
	defer span.End()

	sc, ok, err := s.layout.ParseFile(filepath.Join(dir, name), name)
	if err != nil {
		otel.RecordError(span, err)
		return err
	}
	if !ok {
		s.logger.Debugf("No shortcut section in `%s`", name)
		summary.NotApplicable++
		return nil
	}
	span.SetAttributes(attribute.String("steamicons.key", sc.Key))

	result, err := s.fetcher.Fetch(ctx, sc.Key, sc.IconFilename)
	if err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("shortcut %s: %w", name, err)
	}
	switch result {
	case iconfetch.ResultExisting:
		summary.Existing++
	case iconfetch.ResultDownloaded:
		summary.Downloaded++
	}
	return nil
}
