package webclient

import (
	"net/http"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	// Query is merged into the URL's existing query string. Values are scalars
	// (string, bool, number, nil); slices produce repeated keys.
	Query map[string]any
	Body  []byte
	// Auth is applied after default and caller headers are merged.
	Auth *AuthConfig
}

type Response struct {
	Request *Request
	Headers http.Header
	Body    []byte
	// Text is Body decoded to UTF-8 using the charset from Content-Type.
	Text       string
	StatusCode int
	FetchedAt  time.Time
}

// ContentType returns the raw Content-Type header and whether it was present.
func (r *Response) ContentType() (string, bool) {
	if r == nil || r.Headers == nil {
		return "", false
	}
	vs, ok := r.Headers["Content-Type"]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
