package consoleapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	perr "github.com/Frey210/ergoquipt-admin-web/internal/platform/errors"
)

// StatusError wraps non-2xx HTTP responses from the admin API
type StatusError struct {
	Status int
	Body   string
	detail string
	Err    error
}

// Error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// Detail returns the upstream "detail" string, "" when absent or not a string
func (e *StatusError) Detail() string { return e.detail }

func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	se := &StatusError{Status: resp.StatusCode, Body: string(body), detail: parseDetail(body)}
	msg := fmt.Sprintf("consoleapi unexpected status %d", resp.StatusCode)
	if se.detail != "" {
		msg += ": " + se.detail
	}
	se.Err = perr.New(codeForStatus(resp.StatusCode), msg)
	return se
}

// parseDetail extracts {"detail": "..."}; structured details such as
// validation arrays are not displayable and yield ""
func parseDetail(body []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(env.Detail, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func codeForStatus(status int) perr.ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return perr.ErrorCodeUnauthorized
	case status == http.StatusForbidden:
		return perr.ErrorCodeForbidden
	case status == http.StatusNotFound:
		return perr.ErrorCodeNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return perr.ErrorCodeValidation
	case status >= 500:
		// the request completed, so a server error is not a network failure
		return perr.ErrorCodeUnavailable
	default:
		return perr.ErrorCodeUnknown
	}
}

// IsUnauthorized reports whether err is a StatusError with a 401 status
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusUnauthorized
}

// parseTime accepts RFC3339 with or without an offset; naive stamps are UTC
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
