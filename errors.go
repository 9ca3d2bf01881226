package scope

import (
	"fmt"
	"strings"
)

// Code is a stable, comparable identifier for one of the error kinds
// listed in spec.md §7. Unlike the teacher's errcode package (which
// attaches an HTTP status to every code, since it serves an API), Code
// carries no transport concern — this engine has none — and exists purely
// so callers can branch with errors.As instead of string matching.
type Code string

const (
	CodeScopeNotFound       Code = "SCOPE_NOT_FOUND"
	CodeComponentNotFound   Code = "COMPONENT_NOT_FOUND"
	CodeDependencyNotFound  Code = "DEPENDENCY_NOT_FOUND"
	CodeResolutionException Code = "RESOLUTION_EXCEPTION"
	CodeRemoteScopeNotFound Code = "REMOTE_SCOPE_NOT_FOUND"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeMergeConflict       Code = "MERGE_CONFLICT"
	CodeCorruptedObject     Code = "CORRUPTED_OBJECT"
	CodeUnknownObjectType   Code = "UNKNOWN_OBJECT_TYPE"
	CodeSpecsFailed         Code = "SPECS_FAILED"
	CodeDependencyCycle     Code = "DEPENDENCY_CYCLE"
)

// Error is the common shape of every engine error: a stable Code plus
// whatever context the call site had (an id, a ref, a remote name).
type Error struct {
	Code    Code
	Subject string // id, ref, or remote name this error is about
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("scope: %s", e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("scope: %s: %s: %v", e.Code, e.Subject, e.Err)
	}
	return fmt.Sprintf("scope: %s: %s", e.Code, e.Subject)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode lets callers do `var serr *scope.Error; errors.As(err, &serr)`
// and then switch on serr.Code, or simply compare codes directly.
func (e *Error) ErrorCode() Code { return e.Code }

func newErr(code Code, subject string, cause error) error {
	return &Error{Code: code, Subject: subject, Err: cause}
}

func ErrScopeNotFound(path string) error {
	return newErr(CodeScopeNotFound, path, nil)
}

func ErrComponentNotFound(id BitId) error {
	return newErr(CodeComponentNotFound, id.String(), nil)
}

func ErrDependencyNotFound(id BitId) error {
	return newErr(CodeDependencyNotFound, id.String(), nil)
}

func ErrResolutionException(id BitId, cause error) error {
	return newErr(CodeResolutionException, id.String(), cause)
}

func ErrRemoteScopeNotFound(name string) error {
	return newErr(CodeRemoteScopeNotFound, name, nil)
}

func ErrPermissionDenied(name string) error {
	return newErr(CodePermissionDenied, name, nil)
}

func ErrMergeConflict(id BitId, version string) error {
	return newErr(CodeMergeConflict, fmt.Sprintf("%s@%s", id, version), nil)
}

func ErrCorruptedObject(ref Ref, cause error) error {
	return newErr(CodeCorruptedObject, ref.String(), cause)
}

func ErrUnknownObjectType(tag string) error {
	return newErr(CodeUnknownObjectType, tag, nil)
}

func ErrSpecsFailed(id BitId, cause error) error {
	return newErr(CodeSpecsFailed, id.String(), cause)
}

// ErrDependencyCycle reports a cycle detected over (box,name) pairs in a
// batch's intra-batch dependency graph (spec.md §8 invariant 4).
func ErrDependencyCycle(cycle []string) error {
	return newErr(CodeDependencyCycle, strings.Join(cycle, " -> "), nil)
}

// ErrObjectNotFound is returned by the object repository on a Load miss.
// It is distinct from ErrComponentNotFound: it names a Ref, not a BitId,
// and indicates a store integrity problem rather than a routine lookup
// miss when it surfaces above internal/sourcesrepo.
func ErrObjectNotFound(ref Ref) error {
	return newErr("OBJECT_NOT_FOUND", ref.String(), nil)
}
