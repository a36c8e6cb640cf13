package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed API call. Every error returned by Client methods
// is an *Error with one of these kinds, so callers can react to the class
// of failure without inspecting status codes.
type Kind int

const (
	// KindNetwork means no response was received at all.
	KindNetwork Kind = iota
	// KindValidation covers 400/409/422 responses with a structured detail
	// payload, including duplicate-email registration.
	KindValidation
	// KindAuthRejected is a 401. The transport never reacts to it itself;
	// a single top-level listener performs session teardown.
	KindAuthRejected
	// KindNotFound is a 404, used for goal lookups.
	KindNotFound
	// KindServer is a 5xx or a response the client could not interpret.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindAuthRejected:
		return "auth_rejected"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the typed failure for every API call.
type Error struct {
	Kind   Kind
	Status int
	// Detail is the user-facing message derived from the API's structured
	// error payload. Field-level validation messages arrive joined by ", ".
	Detail string
	// Fields holds per-field messages when the API returned them (422).
	Fields map[string]string
	// Err is the underlying transport error for KindNetwork.
	Err error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Detail: "could not reach the server", Err: err}
}

// ErrorKind reports the kind of an API error, or KindServer for anything
// that is not an *Error.
func ErrorKind(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

func IsAuthRejected(err error) bool { return isKind(err, KindAuthRejected) }
func IsNotFound(err error) bool     { return isKind(err, KindNotFound) }
func IsValidation(err error) bool   { return isKind(err, KindValidation) }

func isKind(err error, k Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == k
}

// detailPayload matches FastAPI error bodies: detail is either a plain
// string or, for 422 request validation, a list of {loc, msg} objects.
type detailPayload struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Status: status}
	switch {
	case status == 401:
		e.Kind = KindAuthRejected
	case status == 404:
		e.Kind = KindNotFound
	case status == 400 || status == 409 || status == 422:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}

	detail, fields := parseDetail(body)
	e.Detail = detail
	e.Fields = fields
	if e.Detail == "" {
		switch e.Kind {
		case KindAuthRejected:
			e.Detail = "authentication rejected"
		case KindNotFound:
			e.Detail = "not found"
		case KindValidation:
			e.Detail = "invalid request"
		default:
			e.Detail = "something went wrong"
		}
	}
	return e
}

func parseDetail(body []byte) (string, map[string]string) {
	var payload detailPayload
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s, nil
	}

	var list []fieldError
	if err := json.Unmarshal(payload.Detail, &list); err != nil || len(list) == 0 {
		return "", nil
	}
	fields := make(map[string]string, len(list))
	msgs := make([]string, 0, len(list))
	for _, fe := range list {
		name := fieldName(fe.Loc)
		msg := fe.Msg
		if name != "" {
			fields[name] = msg
			msg = name + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, ", "), fields
}

// fieldName extracts the last string element of a loc path, skipping the
// leading "body"/"query" segment and integer indexes.
func fieldName(loc []json.RawMessage) string {
	name := ""
	for _, raw := range loc {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if s == "body" || s == "query" || s == "path" {
			continue
		}
		name = s
	}
	return name
}
