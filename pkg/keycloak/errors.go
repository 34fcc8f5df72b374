package keycloak

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// OAuth2 error codes Keycloak returns from the token endpoint.
const (
	ErrorCodeInvalidGrant   = "invalid_grant"
	ErrorCodeInvalidClient  = "invalid_client"
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeUnverifiedUser = "user_not_verified"
)

// Kind tags the way a call failed.
type Kind uint8

const (
	KindTransport Kind = iota + 1
	KindStatus
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method.
type Error struct {
	// Op names the failed operation, e.g. "find users by email".
	Op   string
	Kind Kind

	// StatusCode is set for KindStatus.
	StatusCode int

	// Code and Description are the OAuth2 "error" and "error_description"
	// fields, or Keycloak's "errorMessage" when that is all it sent.
	Code        string
	Description string

	// Err is the underlying transport or decode error.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "keycloak: <nil>"
	}

	var b strings.Builder
	b.WriteString("keycloak: ")
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " %d", e.StatusCode)
	}
	if e.Code != "" {
		b.WriteString(" ")
		b.WriteString(e.Code)
	}
	if e.Description != "" {
		b.WriteString(": ")
		b.WriteString(e.Description)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func transportError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindTransport, Err: err}
}

func decodeError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindDecode, Err: err}
}

// errorResponse covers both OAuth2 token errors and admin API errors.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorMessage     string `json:"errorMessage"`
}

// statusError builds a KindStatus error from an unexpected response.
func statusError(op string, resp *http.Response, body []byte) *Error {
	e := &Error{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		e.Code = er.Error
		e.Description = er.ErrorDescription
		if e.Description == "" {
			e.Description = er.ErrorMessage
		}
	}

	if e.Code == "" && e.Description == "" {
		e.Description = http.StatusText(resp.StatusCode)
	}

	return e
}
