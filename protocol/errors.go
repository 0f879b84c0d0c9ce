// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package protocol

import (
	"fmt"
	"net/http"
)

// Code is the taxonomy of error kinds a handler can return.
type Code string

const (
	InvalidDid       Code = "InvalidDid"
	InvalidSignature Code = "InvalidSignature"
	InvalidChallenge Code = "InvalidChallenge"
	NotFound         Code = "NotFound"
	Expired          Code = "Expired"
	Unauthorized     Code = "Unauthorized"
	SessionExpired   Code = "SessionExpired"
	HandshakeError   Code = "HandshakeError"
	Internal         Code = "Internal"
)

// httpStatus maps each taxonomy code to its HTTP status, per spec.
var httpStatus = map[Code]int{
	InvalidDid:       http.StatusBadRequest,
	InvalidSignature: http.StatusUnauthorized,
	InvalidChallenge: http.StatusBadRequest,
	NotFound:         http.StatusNotFound,
	Expired:          http.StatusGone,
	Unauthorized:     http.StatusUnauthorized,
	SessionExpired:   http.StatusUnauthorized,
	HandshakeError:   http.StatusBadRequest,
	Internal:         http.StatusInternalServerError,
}

// RegError is the structured application error shared by the server and
// client. It carries an HTTP status derived from its Code and, when
// built with Wrap, an underlying Cause that is never rendered to the
// caller.
type RegError struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RegError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *RegError) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status this error maps to.
func (e *RegError) Status() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New builds a RegError with no cause.
func New(code Code, message string) *RegError {
	return &RegError{Code: code, Message: message}
}

// Wrap builds a RegError carrying an underlying cause (not rendered to callers).
func Wrap(code Code, message string, cause error) *RegError {
	return &RegError{Code: code, Message: message, Cause: cause}
}

// AsRegError extracts a *RegError from err, falling back to a generic
// Internal error if err is not already one.
func AsRegError(err error) *RegError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RegError); ok {
		return re
	}
	return Wrap(Internal, "internal error", err)
}
