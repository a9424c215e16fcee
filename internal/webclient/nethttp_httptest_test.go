package webclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/respdiff/internal/webclient"
)

func newClient(t *testing.T, ts *httptest.Server) *webclient.NetHTTPClient {
	t.Helper()
	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// ─── Do: real HTTP round-trip via httptest ──────────────────────────────

func TestNetHTTPClient_Do_GET_ReturnsBody(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"x":1}`)
	}))
	defer ts.Close()

	resp, err := newClient(t, ts).Do(context.Background(), &webclient.Request{
		Method: "get",
		URL:    ts.URL + "/test",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Text != `{"x":1}` {
		t.Errorf("expected body text, got %q", resp.Text)
	}
	ct, ok := resp.ContentType()
	if !ok || ct != "application/json" {
		t.Errorf("expected content type application/json, got %q (present=%v)", ct, ok)
	}
}

func TestNetHTTPClient_Do_MissingContentType(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = io.WriteString(w, "plain")
	}))
	defer ts.Close()

	resp, err := newClient(t, ts).Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if _, ok := resp.ContentType(); ok {
		t.Errorf("expected no content type header, got %v", resp.Headers["Content-Type"])
	}
}

func TestNetHTTPClient_Do_POST_SendsBody(t *testing.T) {
	t.Parallel()
	var receivedBody, receivedMethod, receivedCT string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		receivedCT = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "created")
	}))
	defer ts.Close()

	hdrs := http.Header{}
	hdrs.Set("Content-Type", "application/xml")
	resp, err := newClient(t, ts).Do(context.Background(), &webclient.Request{
		Method:  "POST",
		URL:     ts.URL + "/submit",
		Headers: hdrs,
		Body:    []byte("<a>1</a>"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if receivedMethod != "POST" {
		t.Errorf("expected POST, got %s", receivedMethod)
	}
	if receivedBody != "<a>1</a>" {
		t.Errorf("expected xml body, got %q", receivedBody)
	}
	if receivedCT != "application/xml" {
		t.Errorf("expected application/xml, got %q", receivedCT)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

// ─── Headers and auth ───────────────────────────────────────────────────

func TestNetHTTPClient_Do_DefaultHeaders(t *testing.T) {
	t.Parallel()
	var ua, accept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	if _, err := newClient(t, ts).Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if ua != webclient.DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", ua)
	}
	if accept != "*/*" {
		t.Errorf("expected Accept */*, got %q", accept)
	}
}

func TestNetHTTPClient_Do_CallerHeadersWin(t *testing.T) {
	t.Parallel()
	var accept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	hdrs := http.Header{}
	hdrs.Set("Accept", "application/json")
	if _, err := newClient(t, ts).Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL, Headers: hdrs}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if accept != "application/json" {
		t.Errorf("expected caller Accept to win, got %q", accept)
	}
}

func TestNetHTTPClient_Do_BasicAuth(t *testing.T) {
	t.Parallel()
	var user, pass string
	var ok bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	_, err := newClient(t, ts).Do(context.Background(), &webclient.Request{
		Method: "GET",
		URL:    ts.URL,
		Auth: &webclient.AuthConfig{
			AuthType: webclient.AuthBasic,
			Basic:    &webclient.BasicAuth{Username: "alice", Password: "s3cret"},
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ok || user != "alice" || pass != "s3cret" {
		t.Errorf("expected basic auth alice/s3cret, got %q/%q (ok=%v)", user, pass, ok)
	}
}

func TestNetHTTPClient_Do_BearerAuth(t *testing.T) {
	t.Parallel()
	var receivedAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	_, err := newClient(t, ts).Do(context.Background(), &webclient.Request{
		Method: "GET",
		URL:    ts.URL,
		Auth: &webclient.AuthConfig{
			AuthType: webclient.AuthBearer,
			Bearer:   &webclient.BearerAuth{Token: "tok"},
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if receivedAuth != "Bearer tok" {
		t.Errorf("expected bearer header, got %q", receivedAuth)
	}
}

func TestNetHTTPClient_Do_BearerKeepsCallerAuthorization(t *testing.T) {
	t.Parallel()
	var receivedAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	hdrs := http.Header{}
	hdrs.Set("Authorization", "Token caller")
	_, err := newClient(t, ts).Do(context.Background(), &webclient.Request{
		Method:  "GET",
		URL:     ts.URL,
		Headers: hdrs,
		Auth: &webclient.AuthConfig{
			AuthType: webclient.AuthBearer,
			Bearer:   &webclient.BearerAuth{Token: "tok"},
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if receivedAuth != "Token caller" {
		t.Errorf("expected caller Authorization preserved, got %q", receivedAuth)
	}
}

func TestNetHTTPClient_Do_NoAuth(t *testing.T) {
	t.Parallel()
	var receivedAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	_, err := newClient(t, ts).Do(context.Background(), &webclient.Request{
		Method: "GET",
		URL:    ts.URL,
		Auth:   &webclient.AuthConfig{AuthType: webclient.AuthNone},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if receivedAuth != "" {
		t.Errorf("expected no Authorization header, got %q", receivedAuth)
	}
}

// ─── Query parameters ───────────────────────────────────────────────────

func TestNetHTTPClient_Do_MergesQuery(t *testing.T) {
	t.Parallel()
	var rawQuery map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.Query()
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	_, err := newClient(t, ts).Do(context.Background(), &webclient.Request{
		Method: "GET",
		URL:    ts.URL + "/items?existing=1",
		Query: map[string]any{
			"page":   float64(2),
			"active": true,
			"name":   "bob",
			"tags":   []any{"a", "b"},
		},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	checks := map[string]string{"existing": "1", "page": "2", "active": "true", "name": "bob"}
	for k, want := range checks {
		if got := rawQuery[k]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s: expected %q, got %v", k, want, got)
		}
	}
	if tags := rawQuery["tags"]; len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("expected repeated tags, got %v", tags)
	}
}

// ─── Failures ───────────────────────────────────────────────────────────

func TestNetHTTPClient_Do_ErrorStatusIsHTTPError(t *testing.T) {
	t.Parallel()
	for _, code := range []int{400, 404, 500, 503} {
		code := code
		t.Run(http.StatusText(code), func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			_, err := newClient(t, ts).Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL})
			var httpErr *webclient.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *HTTPError, got %v", err)
			}
			if httpErr.StatusCode != code {
				t.Errorf("expected status %d, got %d", code, httpErr.StatusCode)
			}
		})
	}
}

func TestNetHTTPClient_Do_RedirectIsFollowed(t *testing.T) {
	t.Parallel()
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "moved here")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := newClient(t, ts).Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL + "/old"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Text != "moved here" {
		t.Errorf("expected redirected body, got %q", resp.Text)
	}
}

func TestNetHTTPClient_Do_NilRequest_ReturnsError(t *testing.T) {
	t.Parallel()
	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, nil)
	defer client.Close()

	_, err := client.Do(context.Background(), nil)
	if !errors.Is(err, webclient.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNetHTTPClient_Do_ConnectionRefused_ReturnsError(t *testing.T) {
	t.Parallel()
	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, &http.Client{Timeout: 1 * time.Second})
	defer client.Close()

	_, err := client.Do(context.Background(), &webclient.Request{
		Method: "GET",
		URL:    "http://127.0.0.1:1", // port 1 is unlikely to be open
	})
	if err == nil {
		t.Fatal("expected error for connection refused")
	}
}

func TestNetHTTPClient_Do_Timeout_ReturnsError(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	httpClient := ts.Client()
	httpClient.Timeout = 50 * time.Millisecond
	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, httpClient)
	defer client.Close()

	_, err := client.Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestNetHTTPClient_Do_ContextCanceled_ReturnsError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := newClient(t, ts).Do(ctx, &webclient.Request{Method: "GET", URL: ts.URL})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

// ─── Body decoding ──────────────────────────────────────────────────────

func TestNetHTTPClient_Do_DecodesCharset(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer ts.Close()

	resp, err := newClient(t, ts).Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Text != "café" {
		t.Errorf("expected decoded text café, got %q", resp.Text)
	}
	if len(resp.Body) != 4 {
		t.Errorf("expected raw body to stay 4 bytes, got %d", len(resp.Body))
	}
}

func TestNetHTTPClient_Do_LargeBody(t *testing.T) {
	t.Parallel()
	largeBody := strings.Repeat("X", 1<<20) // 1 MiB
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, largeBody)
	}))
	defer ts.Close()

	resp, err := newClient(t, ts).Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(resp.Text) != 1<<20 {
		t.Errorf("expected 1MiB body, got %d bytes", len(resp.Text))
	}
}

// ─── Rate limiting ──────────────────────────────────────────────────────

func TestNetHTTPClient_Do_RateLimitRespectsContext(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer ts.Close()

	client, err := webclient.NewNetHTTPClient(webclient.Config{RateLimit: 0.001, RateBurst: 1}, &noopLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	if _, err := client.Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL}); err != nil {
		t.Fatalf("first request should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Do(ctx, &webclient.Request{Method: "GET", URL: ts.URL}); err == nil {
		t.Fatal("expected second request to fail waiting for the limiter")
	}
}
