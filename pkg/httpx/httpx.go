// Package httpx holds a minimal engine-neutral handler shape so the
// same application handlers can be served by net/http or fasthttp.
package httpx

import (
	"context"
	"io"
	"net/http"
)

// Request is the unified request representation used by handlers.
type Request struct {
	Ctx        context.Context
	Method     string
	Path       string
	Header     http.Header
	Body       io.ReadCloser
	RemoteAddr string
	// Raw holds the underlying transport-specific request object for
	// escape hatches.
	Raw interface{}
}

// ResponseWriter is the subset of http.ResponseWriter semantics we
// require from adapters.
type ResponseWriter interface {
	Header() http.Header
	Write([]byte) (int, error)
	WriteHeader(status int)
}

// HandlerFunc is the application handler signature used across adapters.
type HandlerFunc func(w ResponseWriter, r *Request)
