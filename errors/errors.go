// Package errors defines the stable error taxonomy shared by all layers.
//
// Unauthenticated and Forbidden are expected, user-facing outcomes and keep a
// stable identity so callers can react to them (re-login vs give up).
// ServiceFault and StorageFault are unexpected and are reported to callers as a
// generic failure; the wrapped detail stays server-side for diagnostics.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated No session token, or an unknown/expired one.
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	// ErrForbidden Valid session but the acting identity does not match,
	// or password verification failed.
	ErrForbidden = fmt.Errorf("forbidden")
	// ErrServiceFault An external capability (account lookup, hashing) failed.
	ErrServiceFault = fmt.Errorf("service fault")
	// ErrStorageFault The message log or session store could not complete.
	ErrStorageFault = fmt.Errorf("storage fault")

	ErrAccountNotFound = fmt.Errorf("account not found")
	ErrSinkClosed      = fmt.Errorf("sink closed")
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrEmptyWords      = fmt.Errorf("no censored words have been found")
)

// HTTPStatus maps a domain error to the status code exposed by the API layer.
// Faults collapse into 500 on purpose: clients only need to know "retry later",
// never which internal collaborator broke.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
