package application

import (
	"log/slog"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/libreshift/libreshift/internal/domain/model"
)

// lockFileNames is the fixed set of dependency lock files. They are excluded
// from the commit tree entirely, not merely left unmodified: a stale lock
// file would contradict a manifest the rewriter changed.
var lockFileNames = map[string]struct{}{
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
	"bun.lockb":         {},
	"bun.lock":          {},
	"deno.lock":         {},
	"composer.lock":     {},
	"Gemfile.lock":      {},
	"poetry.lock":       {},
	"Cargo.lock":        {},
}

// configFileNames marks manifests and build config, surfaced first in the
// migration report. They are rewritten like any other text file.
var configFileNames = map[string]struct{}{
	"package.json":       {},
	"vite.config.ts":     {},
	"vite.config.js":     {},
	"next.config.js":     {},
	"next.config.mjs":    {},
	".env.example":       {},
	"docker-compose.yml": {},
}

// ScanResult aggregates per-file rewrite results into a project-level report.
type ScanResult struct {
	Cleaned      []model.CleanedFileRecord
	Excluded     []string
	TotalChanges int
	Changes      []model.CleaningChange
}

// Scanner iterates a project's file set, classifies each file, and runs the
// rewriter over the eligible ones.
type Scanner struct {
	rewriter *Rewriter
	logger   *slog.Logger
}

// NewScanner creates a Scanner using the given rewriter.
func NewScanner(rewriter *Rewriter, logger *slog.Logger) *Scanner {
	return &Scanner{rewriter: rewriter, logger: logger}
}

// Scan filters out lock files and binaries, rewrites the rest, and returns
// the aggregated result. Output order follows input order: tree-entry order
// has no meaning to the Git object model, but determinism aids diffing.
// When filtering leaves nothing, Scan returns *model.NoEligibleFilesError
// rather than letting the caller publish an empty tree.
func (s *Scanner) Scan(files []model.FileRecord) (*ScanResult, error) {
	result := &ScanResult{}

	for _, f := range files {
		switch Classify(f.Path, f.Content) {
		case model.FileClassLock, model.FileClassBinary:
			result.Excluded = append(result.Excluded, f.Path)
			s.logger.Debug("file excluded", "path", f.Path)
			continue
		}

		content, changes := s.rewriter.Rewrite(f.Path, f.Content)
		result.Cleaned = append(result.Cleaned, model.CleanedFileRecord{
			Path:        f.Path,
			Content:     content,
			ChangeCount: len(changes),
		})
		result.Changes = append(result.Changes, changes...)
		result.TotalChanges += len(changes)
	}

	if len(result.Cleaned) == 0 {
		return nil, &model.NoEligibleFilesError{Excluded: result.Excluded}
	}

	s.logger.Info("project scanned",
		"files_cleaned", len(result.Cleaned),
		"files_excluded", len(result.Excluded),
		"total_changes", result.TotalChanges,
	)

	return result, nil
}

// Classify assigns a file to one of the scanner's classes from its path and
// content.
func Classify(filePath, content string) model.FileClass {
	base := path.Base(filePath)
	if _, ok := lockFileNames[base]; ok {
		return model.FileClassLock
	}
	if isBinary(content) {
		return model.FileClassBinary
	}
	if _, ok := configFileNames[base]; ok {
		return model.FileClassConfig
	}
	return model.FileClassText
}

// isBinary reports whether content looks like non-text data: a NUL byte or
// invalid UTF-8.
func isBinary(content string) bool {
	if strings.IndexByte(content, 0) >= 0 {
		return true
	}
	return !utf8.ValidString(content)
}
