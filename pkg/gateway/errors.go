package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/platinummonkey/rococo/pkg/httputil"
	"github.com/platinummonkey/rococo/pkg/observability"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// NotFoundError is returned when a backend has no entity with the id
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Reason is the machine-readable cause, e.g. "ArtistNotFound"
func (e *NotFoundError) Reason() string {
	return title(e.Entity) + "NotFound"
}

// ConflictError is returned when a write violates a uniqueness rule
type ConflictError struct {
	Entity  string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// BadRequestError is a request a backend refused as invalid
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// UnavailableError is a backend that could not be reached in time
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// UnknownError is any other backend failure
type UnknownError struct {
	Service string
	Err     error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s service failed: %v", e.Service, e.Err)
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

// ValidationError carries every violation found in a request
type ValidationError struct {
	Violations []httputil.ErrorDetail
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		messages[i] = v.Message
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// translate maps a gRPC status from service onto a typed gateway error.
// entity and id describe what was addressed, for not-found errors.
func translate(err error, service, entity, id string) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return &UnknownError{Service: service, Err: err}
	}

	switch st.Code() {
	case codes.NotFound:
		return &NotFoundError{Entity: entity, ID: id}
	case codes.AlreadyExists:
		return &ConflictError{Entity: entity, Message: st.Message()}
	case codes.InvalidArgument:
		return &BadRequestError{Message: st.Message()}
	case codes.Unavailable, codes.DeadlineExceeded:
		return &UnavailableError{Service: service, Err: err}
	default:
		return &UnknownError{Service: service, Err: err}
	}
}

// WriteError writes the problem response for err
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation  *ValidationError
		badRequest  *BadRequestError
		notFound    *NotFoundError
		conflict    *ConflictError
		unavailable *UnavailableError
	)

	switch {
	case errors.As(err, &validation):
		httputil.WriteBadRequest(w, r, "Validation failed", validation.Violations...)
	case errors.As(err, &badRequest):
		httputil.WriteBadRequest(w, r, "Bad request",
			httputil.ErrorDetail{Reason: "InvalidArgument", Message: badRequest.Message})
	case errors.As(err, &notFound):
		httputil.WriteProblem(w, r, http.StatusNotFound, title(notFound.Entity)+" not found",
			httputil.ErrorDetail{Reason: notFound.Reason(), Message: notFound.Error()})
	case errors.As(err, &conflict):
		httputil.WriteConflict(w, r, title(conflict.Entity)+"AlreadyExists", conflict.Message)
	case errors.As(err, &unavailable):
		observability.FromContext(r.Context()).WithError(err).Warn("backend unavailable")
		httputil.WriteBadGateway(w, r, fmt.Sprintf("%s service unavailable", unavailable.Service))
	default:
		observability.FromContext(r.Context()).WithError(err).Error("request failed")
		httputil.WriteInternalError(w, r)
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
