// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr contains the core errors. Each Error carries a Kind,
// which callers match with errors.Is(err, cerr.KindX), and the HTTP
// status code which a web adapter should report for it.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies the failure of a use case.
type Kind int

// Valid values for the Kind enum. KindInternal is used for errors
// which do not wrap an *Error.
const (
	KindInternal Kind = iota

	KindInvalidTransition
	KindUnauthorized
	KindMissingResource
	KindResourceConflict
	KindLicenseExpired
	KindCapacityExceeded
	KindActiveRecordExists
	KindOdometerRegression
	KindNotFound
	KindBadRequest
	KindConflict
	KindUnauthenticated

	// KindRetryable marks a lost write-write race which was detected
	// by the storage layer. It is consumed by repo.Retry and never
	// reaches the callers of use cases.
	KindRetryable
)

// String returns the wire name of k.
func (k Kind) String() string {
	switch k {
	case KindInvalidTransition:
		return "InvalidTransition"
	case KindUnauthorized:
		return "Unauthorized"
	case KindMissingResource:
		return "MissingResource"
	case KindResourceConflict:
		return "ResourceConflict"
	case KindLicenseExpired:
		return "LicenseExpired"
	case KindCapacityExceeded:
		return "CapacityExceeded"
	case KindActiveRecordExists:
		return "ActiveRecordExists"
	case KindOdometerRegression:
		return "OdometerRegression"
	case KindNotFound:
		return "NotFound"
	case KindBadRequest:
		return "BadRequest"
	case KindConflict:
		return "Conflict"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindRetryable:
		return "Retryable"
	default:
		return "Internal"
	}
}

// Error makes a Kind usable as the target of errors.Is.
func (k Kind) Error() string {
	return k.String()
}

// Error is a core error with a Kind and an HTTP status code.
type Error struct {
	Kind           Kind
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s: %s", e.HTTPStatusCode, e.Kind, e.Err.Error())
}

// Is reports if target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of the outermost *Error in the err chain,
// or KindInternal if err does not wrap any *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status code which should be reported
// for err.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatusCode
	}
	return http.StatusInternalServerError
}

func newError(k Kind, status int, err error) *Error {
	return &Error{Kind: k, Err: err, HTTPStatusCode: status}
}

func InvalidTransition(err error) *Error {
	return newError(KindInvalidTransition, http.StatusConflict, err)
}

func Unauthorized(err error) *Error {
	return newError(KindUnauthorized, http.StatusForbidden, err)
}

func MissingResource(err error) *Error {
	return newError(
		KindMissingResource, http.StatusUnprocessableEntity, err,
	)
}

func ResourceConflict(err error) *Error {
	return newError(KindResourceConflict, http.StatusConflict, err)
}

func LicenseExpired(err error) *Error {
	return newError(
		KindLicenseExpired, http.StatusUnprocessableEntity, err,
	)
}

func CapacityExceeded(err error) *Error {
	return newError(
		KindCapacityExceeded, http.StatusUnprocessableEntity, err,
	)
}

func ActiveRecordExists(err error) *Error {
	return newError(KindActiveRecordExists, http.StatusConflict, err)
}

func OdometerRegression(err error) *Error {
	return newError(
		KindOdometerRegression, http.StatusUnprocessableEntity, err,
	)
}

func NotFound(err error) *Error {
	return newError(KindNotFound, http.StatusNotFound, err)
}

func BadRequest(err error) *Error {
	return newError(KindBadRequest, http.StatusBadRequest, err)
}

func Conflict(err error) *Error {
	return newError(KindConflict, http.StatusConflict, err)
}

func Authentication(err error) *Error {
	return newError(KindUnauthenticated, http.StatusUnauthorized, err)
}

func Retryable(err error) *Error {
	return newError(KindRetryable, http.StatusServiceUnavailable, err)
}
