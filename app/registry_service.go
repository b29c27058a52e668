package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"registrymail/domain/registry"
	"registrymail/internal"
	"registrymail/internal/errors"
	"registrymail/models"
	"registrymail/ports"
)

// RegistryService extracts registry records from workbooks on disk
type RegistryService struct {
	opener    ports.WorkbookOpener
	extractor *registry.Extractor
	logger    *internal.Logger
}

// NewRegistryService creates a registry service
func NewRegistryService(opener ports.WorkbookOpener, columns registry.Columns, logger *internal.Logger) *RegistryService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RegistryService{
		opener:    opener,
		extractor: registry.NewExtractor(columns),
		logger:    logger.WithField("component", "registry"),
	}
}

// CheckFormat fails with UNSUPPORTED_FORMAT when no reader exists for path
func (s *RegistryService) CheckFormat(path string) error {
	if !s.opener.Supported(path) {
		ext := filepath.Ext(path)
		if ext == "" {
			ext = "extension-less"
		}
		return errors.UnsupportedFormat("no workbook reader is available for " + ext + " files")
	}
	return nil
}

// Extract reads the workbook at path and returns its deduplicated records.
// A missing file is reported before an unsupported format; the workbook
// handle is released before returning.
func (s *RegistryService) Extract(ctx context.Context, path string) ([]models.RegistryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("registry workbook " + resolved)
		}
		return nil, errors.Wrapf(err, "failed to stat %s", resolved)
	}
	if info.IsDir() {
		return nil, errors.InvalidInput("registry workbook " + resolved + " is a directory")
	}
	if err := s.CheckFormat(resolved); err != nil {
		return nil, err
	}

	return s.extractFile(resolved)
}

func (s *RegistryService) extractFile(path string) ([]models.RegistryRecord, error) {
	start := time.Now()

	rows, err := s.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, stats, err := s.extractor.ExtractWithStats(rows)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("extracted %d records from %s in %s (%d rows scanned, %d incomplete, %d duplicate)",
		stats.Records, filepath.Base(path), time.Since(start).Round(time.Millisecond),
		stats.RowsScanned, stats.RowsIncomplete, stats.RowsDuplicate)

	return records, nil
}

// ResolvePath expands a leading ~ to the user's home directory and returns
// a clean absolute path. Symlinks are resolved when the target exists.
func ResolvePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "failed to expand home directory")
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}
	if target, err := filepath.EvalSymlinks(abs); err == nil {
		return target, nil
	}
	return abs, nil
}
