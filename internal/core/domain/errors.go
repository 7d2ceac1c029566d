package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the optimize pipeline can report.
type ErrorKind string

const (
	KindValidation            ErrorKind = "validation_error"
	KindUpstreamRateLimited   ErrorKind = "upstream_rate_limited"
	KindUpstreamUnavailable   ErrorKind = "upstream_unavailable"
	KindInfeasible            ErrorKind = "infeasible"
	KindInternalInconsistency ErrorKind = "internal_inconsistency"
)

// Upstream names used in errors, metrics and logs.
const (
	UpstreamMatrix   = "matrix"
	UpstreamSolver   = "solver"
	UpstreamGeometry = "geometry"
)

// Error is a typed pipeline failure.
type Error struct {
	Kind     ErrorKind
	Message  string
	Upstream string // set for upstream kinds
	Timeout  bool   // upstream did not answer in time
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Upstream != "" {
		msg = e.Upstream + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, ErrInfeasible) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Kind sentinels for errors.Is.
var (
	ErrValidation            = &Error{Kind: KindValidation}
	ErrUpstreamRateLimited   = &Error{Kind: KindUpstreamRateLimited}
	ErrUpstreamUnavailable   = &Error{Kind: KindUpstreamUnavailable}
	ErrInfeasible            = &Error{Kind: KindInfeasible}
	ErrInternalInconsistency = &Error{Kind: KindInternalInconsistency}
)

// ErrNotFound is returned by repositories for unknown ids.
var ErrNotFound = errors.New("not found")

// KindOf returns the kind of err, or KindInternalInconsistency when err is
// not a pipeline error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternalInconsistency
}

// Validationf reports a caller mistake.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// RateLimited reports upstream throttling. msg is the upstream's own text when available.
func RateLimited(upstream, msg string) *Error {
	if msg == "" {
		msg = "rate limit exceeded"
	}
	return &Error{Kind: KindUpstreamRateLimited, Upstream: upstream, Message: msg}
}

// Unavailable reports a transport failure or malformed upstream payload.
func Unavailable(upstream, msg string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Upstream: upstream, Message: msg, Err: err}
}

// UpstreamTimeout reports an upstream that did not answer within its deadline.
func UpstreamTimeout(upstream string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Upstream: upstream, Message: "timed out", Timeout: true, Err: err}
}

// Infeasible reports a solver that proved no order satisfies the windows.
func Infeasible(msg string) *Error {
	if msg == "" {
		msg = "no feasible order satisfies the arrival constraints"
	}
	return &Error{Kind: KindInfeasible, Message: msg}
}

// Inconsistentf reports solver output that violates basic invariants.
func Inconsistentf(format string, args ...any) *Error {
	return &Error{Kind: KindInternalInconsistency, Message: fmt.Sprintf(format, args...)}
}
