// Package apperr defines the error-kind taxonomy used across maowbotd and
// its mapping onto gRPC status codes at the service boundary.
//
// This generalizes the teacher's per-usecase sentinel errors (e.g.
// usecase.ErrStreamNotFound in the twitchbot-service) into one typed error
// carrying a Kind, since the pipeline engine, credential store and
// platform manager all need to distinguish "not found" from "validation"
// from "internal" without one sentinel per call site.
package apperr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies an Error for logging, retry decisions and gRPC mapping.
type Kind string

const (
	KindAuth         Kind = "auth"
	KindPlatform     Kind = "platform"
	KindDatabase     Kind = "database"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindInternal     Kind = "internal"
	KindTimeout      Kind = "timeout"
	KindCancelled    Kind = "cancelled"
	KindServiceError Kind = "service_error"
	KindParse        Kind = "parse"
)

// Error is the error type returned from maowbotd's internal packages.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind wrapping a cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// ToGRPCStatus maps an Error onto a gRPC status, the way
// shared/auth.KeycloakAuth maps authentication failures onto
// status.Error(codes.Unauthenticated, ...) in the teacher codebase.
func ToGRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return status.Error(codes.Internal, err.Error())
	}
	switch e.Kind {
	case KindNotFound:
		return status.Error(codes.NotFound, e.Message)
	case KindValidation, KindParse:
		return status.Error(codes.InvalidArgument, e.Message)
	case KindAuth:
		return status.Error(codes.Unauthenticated, e.Message)
	case KindTimeout:
		return status.Error(codes.DeadlineExceeded, e.Message)
	case KindCancelled:
		return status.Error(codes.Canceled, e.Message)
	case KindPlatform, KindServiceError:
		return status.Error(codes.Unavailable, e.Message)
	case KindDatabase, KindInternal:
		return status.Error(codes.Internal, e.Message)
	default:
		return status.Error(codes.Unknown, e.Message)
	}
}
