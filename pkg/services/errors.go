package services

import (
	"fmt"
	"net/http"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindReference      ErrorKind = "reference"
	KindFormat         ErrorKind = "format"
	KindNotFound       ErrorKind = "not_found"
	KindForbidden      ErrorKind = "forbidden"
	KindInfrastructure ErrorKind = "infrastructure"
)

// CatalogError is the error type returned by every catalog operation. Message
// is safe to show to API callers; Err keeps the underlying cause.
type CatalogError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CatalogError) Error() string {
	if e.Err != nil && e.Kind == KindInfrastructure {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error { return e.Err }

var errUploadsDisabled = errors.New("media uploads are not configured")

func ValidationError(format string, args ...any) error {
	return &CatalogError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...any) error {
	return &CatalogError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func ReferenceError(format string, args ...any) error {
	return &CatalogError{Kind: KindReference, Message: fmt.Sprintf(format, args...)}
}

func FormatError(format string, args ...any) error {
	return &CatalogError{Kind: KindFormat, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...any) error {
	return &CatalogError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ForbiddenError(format string, args ...any) error {
	return &CatalogError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InfrastructureError(err error, message string) error {
	return &CatalogError{Kind: KindInfrastructure, Message: message, Err: errors.WithStack(err)}
}

// KindOf returns the kind of a CatalogError anywhere in err's chain. Errors of
// any other type are reported as infrastructure.
func KindOf(err error) ErrorKind {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInfrastructure
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsFatal reports whether err should abort a batch rather than fail one row.
func IsFatal(err error) bool {
	return IsKind(err, KindInfrastructure) && store.IsUnavailable(err)
}

// HTTPStatus maps an error to the status code a single-record endpoint
// responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindFormat, KindReference:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// storeError converts a repository error into a CatalogError. conflict is the
// message used for unique index violations.
func storeError(err error, action, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return NotFoundError("%s: not found", action)
	case store.IsDuplicateKey(err):
		return ConflictError("%s", conflict)
	default:
		return InfrastructureError(err, action)
	}
}
