// Package httpkit provides handler and routing helpers that alias the platform http package
// use these from modules so they do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "github.com/Frey210/ergoquipt-admin-web/internal/platform/net/http"
	"github.com/Frey210/ergoquipt-admin-web/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Page is the pagination metadata type
	Page = phttp.Page

	// Response is the HTTP response type
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response that maps an error to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// List returns a 200 response with items and offset pagination
func List(items any, total, limit, offset int) Response {
	return phttp.List(items, total, limit, offset)
}

// Param returns a chi URL parameter
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// JSON adapts a handler that takes a decoded and validated body (see bind.ParseJSON)
// a returned Response passes through untouched
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return phttp.Error(err)
		}
		return wrap(fn(r, in))
	})
}

// Bind decodes an optional JSON body, an empty body yields the zero value of T
func Bind[T any](r *http.Request) (T, error) {
	return bind.ParseJSON[T](r, bind.JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true, AllowEmptyBody: true})
}

// Call adapts a handler that takes no JSON body
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return wrap(fn(r)) })
}

// Handle lets you directly adapt a Response-returning function if you prefer
func Handle(fn func(*http.Request) Response) Handler {
	return phttp.Handle(fn)
}

func wrap(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	switch v := out.(type) {
	case Response:
		return v
	case nil:
		return phttp.NoContent()
	default:
		return phttp.OK(v)
	}
}
