package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/raysh454/respdiff/internal/compare"
	"github.com/raysh454/respdiff/internal/logging"
	"github.com/raysh454/respdiff/internal/store"
	"github.com/raysh454/respdiff/internal/webclient"
)

// RecordStore is the persistence the orchestrator writes comparisons to.
type RecordStore interface {
	Insert(ctx context.Context, rec store.NewRecord) (*store.Record, error)
	FetchRecent(ctx context.Context, limit int) []*store.Record
	FetchLatest(ctx context.Context) (*store.Record, bool)
}

// Orchestrator runs comparisons: it fetches both sides concurrently, diffs
// them, stores the record and notifies subscribers.
type Orchestrator struct {
	cfg      *Config
	client   webclient.WebClient
	store    RecordStore
	comparer *compare.Comparer
	logger   logging.Logger

	subsMu sync.Mutex
	subs   map[string]chan ComparisonEvent
	closed bool
}

// NewOrchestrator ties together config, transport, store and logger.
func NewOrchestrator(cfg *Config, client webclient.WebClient, st RecordStore, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		cfg:      cfg,
		client:   client,
		store:    st,
		comparer: compare.NewComparer(),
		logger:   logger.With(logging.Field{Key: "component", Value: "orchestrator"}),
		subs:     make(map[string]chan ComparisonEvent),
	}
}

// Run executes one comparison. Every failure is a *ComparisonError; nothing
// is stored unless both sides returned a non-blank body.
func (o *Orchestrator) Run(ctx context.Context, req *ComparisonRequest) (*ComparisonResult, error) {
	runID := uuid.NewString()
	logger := o.logger.With(logging.Field{Key: "run_id", Value: runID})

	if err := req.Validate(); err != nil {
		logger.Warn("rejected comparison request", logging.Field{Key: "error", Value: err})
		return nil, &ComparisonError{Kind: KindInvalidRequest, Err: err}
	}

	method := req.NormalizedMethod()
	sourceReq := buildRequest(method, req.SourceURL, req.SourceParams, req.SourceBody, req.SourceAuth)
	targetReq := buildRequest(method, req.TargetURL, req.TargetParams, req.TargetBody, req.TargetAuth)

	logger.Info("starting comparison",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "source_url", Value: req.SourceURL},
		logging.Field{Key: "target_url", Value: req.TargetURL})
	started := time.Now()

	var sourceResp, targetResp *webclient.Response
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := o.fetch(gctx, SideSource, sourceReq)
		sourceResp = resp
		return err
	})
	g.Go(func() error {
		resp, err := o.fetch(gctx, SideTarget, targetReq)
		targetResp = resp
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn("comparison aborted", logging.Field{Key: "error", Value: err})
		return nil, err
	}

	diff, metrics := o.comparer.Compare(sourceResp.Text, targetResp.Text)

	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, &ComparisonError{Kind: KindPersistence, Err: fmt.Errorf("failed to encode metrics: %w", err)}
	}

	ct1 := contentType(sourceResp)
	ct2 := contentType(targetResp)

	rec, err := o.store.Insert(ctx, store.NewRecord{
		SourceResponse: sourceResp.Text,
		TargetResponse: targetResp.Text,
		Differences:    diff,
		Metrics:        string(metricsJSON),
		ContentType1:   ct1,
		ContentType2:   ct2,
	})
	if err != nil {
		logger.Error("failed to store comparison", logging.Field{Key: "error", Value: err})
		return nil, &ComparisonError{Kind: KindPersistence, Err: err}
	}

	logger.Info("comparison finished",
		logging.Field{Key: "id", Value: rec.ID},
		logging.Field{Key: "difference_count", Value: metrics.DifferenceCount},
		logging.Field{Key: "duration", Value: time.Since(started).String()})

	o.publish(ComparisonEvent{
		Type:      EventComparison,
		Data:      HistoryItemFromRecord(rec),
		Timestamp: time.Now().UTC(),
	})

	return &ComparisonResult{
		Status:         "success",
		ID:             rec.ID,
		DiffSummary:    truncateRunes(diff, o.cfg.DiffSummaryLength),
		Metrics:        metrics,
		SourceResponse: sourceResp.Text,
		TargetResponse: targetResp.Text,
		ContentType1:   ct1,
		ContentType2:   ct2,
	}, nil
}

func (o *Orchestrator) fetch(ctx context.Context, side Side, req *webclient.Request) (*webclient.Response, error) {
	resp, err := o.client.Do(ctx, req)
	if err != nil {
		return nil, &ComparisonError{Kind: KindTransport, Side: side, Err: err}
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, &ComparisonError{Kind: KindEmptyResponse, Side: side, Err: ErrEmptyResponse}
	}
	return resp, nil
}

// History returns up to limit stored comparisons, newest first.
func (o *Orchestrator) History(ctx context.Context, limit int) []ComparisonHistoryItem {
	records := o.store.FetchRecent(ctx, limit)
	items := make([]ComparisonHistoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, HistoryItemFromRecord(rec))
	}
	return items
}

// Latest returns the newest stored comparison, if any.
func (o *Orchestrator) Latest(ctx context.Context) (*ComparisonHistoryItem, bool) {
	rec, ok := o.store.FetchLatest(ctx)
	if !ok {
		return nil, false
	}
	item := HistoryItemFromRecord(rec)
	return &item, true
}

// Subscribe registers a listener for new comparisons. Events are dropped for
// a subscriber whose buffer is full. The returned func unsubscribes and
// closes the channel.
func (o *Orchestrator) Subscribe() (<-chan ComparisonEvent, func()) {
	buffer := o.cfg.EventBuffer
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan ComparisonEvent, buffer)
	id := uuid.NewString()

	o.subsMu.Lock()
	if o.closed {
		o.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	o.subs[id] = ch
	o.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.subsMu.Lock()
			defer o.subsMu.Unlock()
			if c, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(c)
			}
		})
	}
}

func (o *Orchestrator) publish(ev ComparisonEvent) {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for id, ch := range o.subs {
		// Non-blocking send; drop if buffer is full.
		select {
		case ch <- ev:
		default:
			o.logger.Debug("dropping event for slow subscriber", logging.Field{Key: "subscriber", Value: id})
		}
	}
}

// Close ends every subscription.
func (o *Orchestrator) Close() {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	for id, ch := range o.subs {
		delete(o.subs, id)
		close(ch)
	}
	o.closed = true
}

// contentType returns the response Content-Type header, nil when absent.
func contentType(resp *webclient.Response) *string {
	ct, ok := resp.ContentType()
	if !ok {
		return nil
	}
	return &ct
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
