// Copyright 2020 ThouCheese
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gcs

import (
	"errors"
	"fmt"

	"github.com/ThouCheese/cloud-storage-go/oauthutil"
)

// The broad category of a failure. Nothing is retried at this layer; the
// kind tells the caller what went wrong, not what to do about it.
type ErrorKind int

const (
	// The server answered with a `{"error": ...}` envelope.
	KindGoogleAPI ErrorKind = iota

	// The HTTP transport failed before a response envelope was obtained.
	KindTransport

	// PEM parsing, signing, or key rejection.
	KindCrypto

	// The JWT assertion could not be encoded.
	KindJWT

	// A response body did not decode against the expected shape.
	KindSerialization

	// Everything else: validation failures, missing environment, and so on.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindGoogleAPI:
		return "google"
	case KindTransport:
		return "transport"
	case KindCrypto:
		return "crypto"
	case KindJWT:
		return "jwt"
	case KindSerialization:
		return "serialization"
	default:
		return "other"
	}
}

// The error type returned by every operation in this package.
type Error struct {
	Kind ErrorKind

	// A human-readable description of the failure.
	Message string

	// For KindGoogleAPI, the parsed error envelope.
	Response *ErrorResponse

	// The underlying cause, if any.
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

func newGoogleAPIError(resp *ErrorResponse) *Error {
	return &Error{
		Kind:     KindGoogleAPI,
		Message:  resp.Err.Message,
		Response: resp,
	}
}

func newTransportError(err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: "request failed",
		Wrapped: err,
	}
}

func newSerializationError(err error) *Error {
	return &Error{
		Kind:    KindSerialization,
		Message: "decoding response",
		Wrapped: err,
	}
}

func newCryptoError(msg string, err error) *Error {
	return &Error{
		Kind:    KindCrypto,
		Message: msg,
		Wrapped: err,
	}
}

func newOtherError(msg string) *Error {
	return &Error{
		Kind:    KindOther,
		Message: msg,
	}
}

// Wrap a failure from the auth layer, classifying JWT encoding problems
// separately from endpoint and network problems.
func classifyAuthError(err error) *Error {
	var jwtErr *oauthutil.JWTError
	if errors.As(err, &jwtErr) {
		return &Error{
			Kind:    KindJWT,
			Message: "encoding JWT assertion",
			Wrapped: err,
		}
	}

	return &Error{
		Kind:    KindTransport,
		Message: "acquiring token",
		Wrapped: err,
	}
}
