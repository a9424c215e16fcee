// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/raysh454/respdiff/internal/logging"
	"github.com/raysh454/respdiff/internal/store"
	"github.com/raysh454/respdiff/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ErrorCount returns the number of recorded error messages.
func (l *DummyLogger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Errors)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyResponse is a canned reply for one URL.
type DummyResponse struct {
	Body        string
	ContentType string
	Status      int
	Delay       time.Duration
	Err         error
}

// DummyWebClient implements webclient.WebClient.
// By default it returns body "ok:<url>" with status 200.
// Set Responses[url] to script a reply, or FailURLs[url] = true to force an error.
type DummyWebClient struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool
	Responses     map[string]DummyResponse

	mu       sync.Mutex
	Requests []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	scripted, hasScript := d.Responses[req.URL]

	delay := d.ResponseDelay
	if hasScript && scripted.Delay > 0 {
		delay = scripted.Delay
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, errors.New("dummy fetch fail for " + req.URL)
	}

	if !hasScript {
		return &webclient.Response{
			Request:    req,
			Body:       []byte("ok:" + req.URL),
			Text:       "ok:" + req.URL,
			Headers:    http.Header{},
			StatusCode: http.StatusOK,
			FetchedAt:  time.Now(),
		}, nil
	}
	if scripted.Err != nil {
		return nil, scripted.Err
	}

	status := scripted.Status
	if status == 0 {
		status = http.StatusOK
	}
	headers := http.Header{}
	if scripted.ContentType != "" {
		headers.Set("Content-Type", scripted.ContentType)
	}
	return &webclient.Response{
		Request:    req,
		Body:       []byte(scripted.Body),
		Text:       scripted.Body,
		Headers:    headers,
		StatusCode: status,
		FetchedAt:  time.Now(),
	}, nil
}

// RequestFor returns the last recorded request sent to url.
func (d *DummyWebClient) RequestFor(url string) *webclient.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.Requests) - 1; i >= 0; i-- {
		if d.Requests[i].URL == url {
			return d.Requests[i]
		}
	}
	return nil
}

func (d *DummyWebClient) Close() error { return nil }

// ─── Store ─────────────────────────────────────────────────────────────

// MemoryStore keeps comparison records in memory. InsertErr forces Insert to fail.
type MemoryStore struct {
	InsertErr error

	mu      sync.Mutex
	records []*store.Record
	nextID  int64
}

func (m *MemoryStore) Insert(_ context.Context, rec store.NewRecord) (*store.Record, error) {
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := &store.Record{
		ID:             m.nextID,
		SourceResponse: rec.SourceResponse,
		TargetResponse: rec.TargetResponse,
		Differences:    rec.Differences,
		Metrics:        rec.Metrics,
		ContentType1:   rec.ContentType1,
		ContentType2:   rec.ContentType2,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	m.records = append(m.records, stored)
	return stored, nil
}

func (m *MemoryStore) FetchRecent(_ context.Context, limit int) []*store.Record {
	if limit <= 0 {
		limit = store.DefaultRecentLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]*store.Record(nil), m.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = make([]*store.Record, 0)
	}
	return out
}

func (m *MemoryStore) FetchLatest(ctx context.Context) (*store.Record, bool) {
	recent := m.FetchRecent(ctx, 1)
	if len(recent) == 0 {
		return nil, false
	}
	return recent[0], true
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
