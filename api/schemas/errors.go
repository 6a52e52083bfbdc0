// api/schemas/errors.go
package schemas

import (
	"errors"
	"fmt"
)

// ErrCode classifies orchestrator failures for the tool dispatcher boundary.
type ErrCode string

const (
	// CodeEnvironment means the browser or session could not be established.
	// Fatal to the whole orchestrator instance, not just one run.
	CodeEnvironment ErrCode = "environment_error"
	// CodeSurfaceNotFound means the expected editing surface never mounted.
	CodeSurfaceNotFound ErrCode = "surface_not_found"
	// CodeElementNotFound means a locator never appeared and no fallback succeeded.
	CodeElementNotFound ErrCode = "element_not_found"
	// CodeUnsupported marks operations that are intentionally not implemented.
	CodeUnsupported ErrCode = "unsupported_operation"
	// CodeRemoteInteraction is the catch-all for failures surfaced by the
	// browser driver (navigation timeout, crashed page, closed target).
	CodeRemoteInteraction ErrCode = "remote_interaction_error"
)

// OpError is the single error shape crossing the pipeline boundary. Step errors
// propagate unchanged until the pipeline wraps them once with the operation name.
type OpError struct {
	Code    ErrCode
	Op      string
	Message string
	Err     error
}

func (e *OpError) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: [%s] %s: %v", e.Op, e.Code, e.Message, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: [%s] %s", e.Op, e.Code, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

func (e *OpError) Unwrap() error { return e.Err }

// NewError builds a taxonomy error without an operation attribution. The
// pipeline attaches the operation name at its boundary via WrapOp.
func NewError(code ErrCode, format string, args ...any) *OpError {
	return &OpError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a proximate cause to a taxonomy error.
func WrapError(code ErrCode, err error, format string, args ...any) *OpError {
	return &OpError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// WrapOp stamps the operation name onto err. Existing taxonomy errors keep
// their code; anything else becomes the remote-interaction catch-all.
func WrapOp(op string, err error) *OpError {
	if err == nil {
		return nil
	}
	var oe *OpError
	if errors.As(err, &oe) {
		if oe.Op == "" {
			oe.Op = op
		}
		return oe
	}
	return &OpError{Code: CodeRemoteInteraction, Op: op, Message: "browser interaction failed", Err: err}
}

// CodeOf extracts the taxonomy code from any error chain.
func CodeOf(err error) ErrCode {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return CodeRemoteInteraction
}
