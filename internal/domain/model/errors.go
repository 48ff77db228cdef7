package model

import (
	"errors"
	"fmt"
)

// Sentinel errors used between the GitHub adapter and the pipeline services.
var (
	// ErrContentExists signals that the bootstrap content write hit an
	// already-initialized file; the resolver treats it as success.
	ErrContentExists = errors.New("content already exists")

	// ErrBranchRejected signals that the host refused the requested branch
	// name during bootstrap; the resolver retries the legacy name once.
	ErrBranchRejected = errors.New("branch name rejected")

	// ErrRefExists signals that ref creation raced with a branch that
	// appeared after bootstrap; the publisher falls back to a forced update.
	ErrRefExists = errors.New("ref already exists")
)

// ValidationError reports caller input the pipeline refuses to act on:
// a malformed destination or an unresolvable branch name. Never retried,
// no side effects.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// NoEligibleFilesError is raised when filtering leaves nothing to publish.
// Publishing an empty tree is a caller error, not a silent skip.
type NoEligibleFilesError struct {
	Excluded []string
}

func (e *NoEligibleFilesError) Error() string {
	return fmt.Sprintf("no eligible files to publish (%d excluded)", len(e.Excluded))
}

// AuthError reports a token rejected by the host. Retrying with the same
// token cannot succeed, so it is never retried.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("host rejected token (status %d): %s", e.StatusCode, e.Message)
}

// RateLimitError reports host throttling. Remaining is the host's
// remaining-quota hint when available, -1 otherwise. The pipeline does not
// sleep-and-retry; backoff is the caller's decision.
type RateLimitError struct {
	Remaining int
	Message   string
}

func (e *RateLimitError) Error() string {
	if e.Remaining >= 0 {
		return fmt.Sprintf("host rate limit hit (%d remaining): %s", e.Remaining, e.Message)
	}
	return "host rate limit hit: " + e.Message
}

// NotFoundError reports a missing repository, branch, or ref.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// TransientHostError wraps a network failure or 5xx from the host. Only the
// bootstrap convergence re-read retries on it, exactly once.
type TransientHostError struct {
	Stage string
	Err   error
}

func (e *TransientHostError) Error() string {
	return fmt.Sprintf("transient host error during %s: %v", e.Stage, e.Err)
}

func (e *TransientHostError) Unwrap() error {
	return e.Err
}

// ConflictError reports a ref update rejected because the branch moved
// concurrently. The caller must re-resolve and retry the whole publish:
// the base tree and commit it computed against are stale.
type ConflictError struct {
	Branch string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("branch %q moved concurrently; re-resolve and retry the publish", e.Branch)
}

// PartialBuildError reports a blob upload or tree/commit creation failure
// after some blobs may already have been uploaded. Orphaned objects are left
// for host-side garbage collection; nothing was published.
type PartialBuildError struct {
	FilesPlanned int
	Err          error
}

func (e *PartialBuildError) Error() string {
	return fmt.Sprintf("build aborted, %d files would have been committed: %v", e.FilesPlanned, e.Err)
}

func (e *PartialBuildError) Unwrap() error {
	return e.Err
}
