package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/raysh454/respdiff/internal/compare"
	"github.com/raysh454/respdiff/internal/webclient"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// bodyMethods are the methods whose requests carry a body.
var bodyMethods = map[string]bool{
	http.MethodPost: true,
	http.MethodPut:  true,
}

// NormalizedMethod returns the upper-cased method, GET when unset.
func (r *ComparisonRequest) NormalizedMethod() string {
	m := strings.ToUpper(strings.TrimSpace(r.Method))
	if m == "" {
		return http.MethodGet
	}
	return m
}

// Validate checks the method, both URLs, query values and auth configs.
// Every returned error wraps ErrInvalidRequest.
func (r *ComparisonRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if method := r.NormalizedMethod(); !allowedMethods[method] {
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, r.Method)
	}
	if err := validateURL("source_url", r.SourceURL); err != nil {
		return err
	}
	if err := validateURL("target_url", r.TargetURL); err != nil {
		return err
	}
	if err := validateParams("source_params", r.SourceParams); err != nil {
		return err
	}
	if err := validateParams("target_params", r.TargetParams); err != nil {
		return err
	}
	if err := r.SourceAuth.Validate(); err != nil {
		return fmt.Errorf("%w: source_auth: %v", ErrInvalidRequest, err)
	}
	if err := r.TargetAuth.Validate(); err != nil {
		return fmt.Errorf("%w: target_auth: %v", ErrInvalidRequest, err)
	}
	return nil
}

func validateURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRequest, field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %s must be an http or https URL", ErrInvalidRequest, field)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %s has no host", ErrInvalidRequest, field)
	}
	return nil
}

func validateParams(field string, params map[string]any) error {
	for k, v := range params {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				if !isScalar(item) {
					return fmt.Errorf("%w: %s.%s must hold scalar values", ErrInvalidRequest, field, k)
				}
			}
			continue
		}
		if !isScalar(v) {
			return fmt.Errorf("%w: %s.%s must be a scalar", ErrInvalidRequest, field, k)
		}
	}
	return nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, json.Number, int, int64:
		return true
	}
	return false
}

// encodedBody is a request payload ready for the transport.
type encodedBody struct {
	payload     []byte
	contentType string
}

// encodeBody classifies a raw body string. JSON is compacted, XML and text
// are sent as written. Blank bodies and methods without a body yield nil.
func encodeBody(method string, body *string) *encodedBody {
	if body == nil || strings.TrimSpace(*body) == "" || !bodyMethods[method] {
		return nil
	}
	raw := *body

	switch compare.Classify(raw) {
	case compare.ContentJSON:
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, []byte(raw)); err == nil {
			return &encodedBody{payload: compacted.Bytes(), contentType: "application/json"}
		}
	case compare.ContentXML:
		return &encodedBody{payload: []byte(raw), contentType: "application/xml"}
	}
	return &encodedBody{payload: []byte(raw), contentType: "text/plain"}
}

// buildRequest assembles the transport request for one side.
func buildRequest(method, rawURL string, params map[string]any, body *string, auth *webclient.AuthConfig) *webclient.Request {
	req := &webclient.Request{
		Method: method,
		URL:    rawURL,
		Query:  params,
		Auth:   auth,
	}
	if enc := encodeBody(method, body); enc != nil {
		req.Body = enc.payload
		req.Headers = http.Header{"Content-Type": []string{enc.contentType}}
	}
	return req
}
