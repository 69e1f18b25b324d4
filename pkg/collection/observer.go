package collection

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/getmockd/fireflow/pkg/logging"
)

// Observer defines hooks for observability and metrics collection around
// collection operations.
type Observer interface {
	// OnList is called after a successful FetchAll.
	OnList(resource string, count int, duration time.Duration)

	// OnCreate is called after a successful Insert.
	OnCreate(resource string, docID string, duration time.Duration)

	// OnUpdate is called after a successful UpdateByID.
	OnUpdate(resource string, docID string, duration time.Duration)

	// OnDelete is called after a successful DeleteByID.
	OnDelete(resource string, docID string, duration time.Duration)

	// OnError is called when an operation fails.
	OnError(resource string, operation string, err error)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (NoopObserver) OnList(string, int, time.Duration)      {}
func (NoopObserver) OnCreate(string, string, time.Duration) {}
func (NoopObserver) OnUpdate(string, string, time.Duration) {}
func (NoopObserver) OnDelete(string, string, time.Duration) {}
func (NoopObserver) OnError(string, string, error)          {}

// MetricsObserver counts collection operations.
// All counters use atomic operations so it may be shared across goroutines.
type MetricsObserver struct {
	listCount      atomic.Int64
	createCount    atomic.Int64
	updateCount    atomic.Int64
	deleteCount    atomic.Int64
	errorCount     atomic.Int64
	totalLatencyNs atomic.Int64
}

// NewMetricsObserver creates a new metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (m *MetricsObserver) OnList(_ string, _ int, d time.Duration) {
	m.listCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *MetricsObserver) OnCreate(_ string, _ string, d time.Duration) {
	m.createCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *MetricsObserver) OnUpdate(_ string, _ string, d time.Duration) {
	m.updateCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *MetricsObserver) OnDelete(_ string, _ string, d time.Duration) {
	m.deleteCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *MetricsObserver) OnError(string, string, error) {
	m.errorCount.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (m *MetricsObserver) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ListCount:    m.listCount.Load(),
		CreateCount:  m.createCount.Load(),
		UpdateCount:  m.updateCount.Load(),
		DeleteCount:  m.deleteCount.Load(),
		ErrorCount:   m.errorCount.Load(),
		TotalLatency: time.Duration(m.totalLatencyNs.Load()),
	}
}

// MetricsSnapshot is a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	ListCount    int64         `json:"listCount"`
	CreateCount  int64         `json:"createCount"`
	UpdateCount  int64         `json:"updateCount"`
	DeleteCount  int64         `json:"deleteCount"`
	ErrorCount   int64         `json:"errorCount"`
	TotalLatency time.Duration `json:"totalLatencyNs"`
}

// TotalOperations returns the number of successful operations.
func (s MetricsSnapshot) TotalOperations() int64 {
	return s.ListCount + s.CreateCount + s.UpdateCount + s.DeleteCount
}

// Observed wraps a Collection, reporting every call to an Observer and
// logging it at debug level.
type Observed struct {
	inner    Collection
	resource string
	obs      Observer
	log      *slog.Logger
}

// NewObserved wraps c. A nil observer or logger is replaced by a no-op.
func NewObserved(c Collection, resource string, obs Observer, log *slog.Logger) *Observed {
	if obs == nil {
		obs = NoopObserver{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Observed{inner: c, resource: resource, obs: obs, log: log}
}

func (o *Observed) FetchAll(ctx context.Context) ([]Document, error) {
	start := time.Now()
	docs, err := o.inner.FetchAll(ctx)
	if err != nil {
		o.fail("fetchAll", "", err)
		return nil, err
	}
	o.obs.OnList(o.resource, len(docs), time.Since(start))
	o.log.Debug("fetched documents", "resource", o.resource, "count", len(docs))
	return docs, nil
}

func (o *Observed) Insert(ctx context.Context, fields Fields) (string, error) {
	start := time.Now()
	docID, err := o.inner.Insert(ctx, fields)
	if err != nil {
		o.fail("insert", "", err)
		return "", err
	}
	o.obs.OnCreate(o.resource, docID, time.Since(start))
	o.log.Debug("inserted document", "resource", o.resource, "id", docID)
	return docID, nil
}

func (o *Observed) UpdateByID(ctx context.Context, docID string, fields Fields) error {
	start := time.Now()
	if err := o.inner.UpdateByID(ctx, docID, fields); err != nil {
		o.fail("updateById", docID, err)
		return err
	}
	o.obs.OnUpdate(o.resource, docID, time.Since(start))
	o.log.Debug("updated document", "resource", o.resource, "id", docID)
	return nil
}

func (o *Observed) DeleteByID(ctx context.Context, docID string) error {
	start := time.Now()
	if err := o.inner.DeleteByID(ctx, docID); err != nil {
		o.fail("deleteById", docID, err)
		return err
	}
	o.obs.OnDelete(o.resource, docID, time.Since(start))
	o.log.Debug("deleted document", "resource", o.resource, "id", docID)
	return nil
}

func (o *Observed) fail(op, docID string, err error) {
	o.obs.OnError(o.resource, op, err)
	o.log.Warn("collection operation failed", "resource", o.resource, "operation", op, "id", docID, "error", err)
}

var _ Collection = (*Observed)(nil)
