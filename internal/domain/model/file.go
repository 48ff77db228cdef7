package model

// FileRecord is one file of the caller-supplied project: a repo-relative
// forward-slash path plus raw text content. Identity is Path, unique within
// a project.
type FileRecord struct {
	Path    string
	Content string
}

// SizeBytes returns the content length in bytes.
func (f FileRecord) SizeBytes() int {
	return len(f.Content)
}

// CleaningChange records a single pattern-rule firing inside one file.
// The list is append-only and used for reporting, never replayed.
type CleaningChange struct {
	RuleID          string
	ServiceName     string
	FilePath        string
	Line            int // 1-based, computed from the match offset.
	OriginalExcerpt string
	Note            string
}

// CleanedFileRecord is a FileRecord after rewriting. If ChangeCount > 0 the
// content differs from the original.
type CleanedFileRecord struct {
	Path        string
	Content     string
	ChangeCount int
}

// FileClass is the scanner's classification of a project file.
type FileClass string

const (
	FileClassText   FileClass = "text"
	FileClassConfig FileClass = "config" // Manifests and build config, surfaced first in reports.
	FileClassLock   FileClass = "lock"   // Dependency lock files, excluded from the commit tree.
	FileClassBinary FileClass = "binary" // Non-text content, excluded from the commit tree.
)
