package errors

// Helpers for turning upstream failures into display messages

import (
	"context"
	stderrs "errors"
	"net"
	"strings"
)

// Detailer is implemented by upstream errors that carry a human readable detail string
type Detailer interface {
	Detail() string
}

// Detail returns the first non-empty upstream detail found in the chain, or ""
func Detail(err error) string {
	for err != nil {
		if d, ok := err.(Detailer); ok {
			if s := strings.TrimSpace(d.Detail()); s != "" {
				return s
			}
		}
		err = stderrs.Unwrap(err)
	}
	return ""
}

// MessageOr returns the upstream detail verbatim when present, else fallback
func MessageOr(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if d := Detail(err); d != "" {
		return d
	}
	return fallback
}

// Display converts any failure into an *Error carrying a displayable message
// code is used unless err is already a network failure or a timeout
func Display(err error, code ErrorCode, fallback string) error {
	if err == nil {
		return nil
	}
	c := code
	if IsNetwork(err) {
		c = ErrorCodeNetwork
	} else if e, ok := As(err); ok && e.code == ErrorCodeUnauthorized {
		c = ErrorCodeUnauthorized
	}
	return &Error{code: c, msg: MessageOr(err, fallback), orig: err}
}

// IsNetwork reports whether err means the request never completed
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	if IsCode(err, ErrorCodeNetwork) {
		return true
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrs.As(err, &ne)
}
