package userui

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/getmockd/fireflow/pkg/collection"
)

// call is one collaborator invocation seen by scriptedCollection.
type call struct {
	Op     string
	ID     string
	Fields collection.Fields
}

// scriptedCollection records calls against an in-memory collection and
// lets a test intercept each one. hook runs before the inner call; a
// non-nil error is returned instead of calling through. n counts calls of
// the same op, starting at 1.
type scriptedCollection struct {
	inner *collection.Memory

	mu     sync.Mutex
	calls  []call
	counts map[string]int
	hook   func(ctx context.Context, op string, n int) error
}

func newScripted(t *testing.T, seed ...map[string]any) *scriptedCollection {
	t.Helper()
	n := 0
	mem, err := collection.NewMemory("users",
		collection.WithSeed(seed...),
		collection.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("doc-%d", n)
		}),
	)
	require.NoError(t, err)
	return &scriptedCollection{inner: mem, counts: make(map[string]int)}
}

func (s *scriptedCollection) setHook(fn func(ctx context.Context, op string, n int) error) {
	s.mu.Lock()
	s.hook = fn
	s.mu.Unlock()
}

func (s *scriptedCollection) enter(ctx context.Context, c call) error {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.counts[c.Op]++
	n := s.counts[c.Op]
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		return hook(ctx, c.Op, n)
	}
	return nil
}

func (s *scriptedCollection) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *scriptedCollection) FetchAll(ctx context.Context) ([]collection.Document, error) {
	if err := s.enter(ctx, call{Op: "fetch"}); err != nil {
		return nil, err
	}
	return s.inner.FetchAll(ctx)
}

func (s *scriptedCollection) Insert(ctx context.Context, fields collection.Fields) (string, error) {
	if err := s.enter(ctx, call{Op: "insert", Fields: fields}); err != nil {
		return "", err
	}
	return s.inner.Insert(ctx, fields)
}

func (s *scriptedCollection) UpdateByID(ctx context.Context, docID string, fields collection.Fields) error {
	if err := s.enter(ctx, call{Op: "update", ID: docID, Fields: fields}); err != nil {
		return err
	}
	return s.inner.UpdateByID(ctx, docID, fields)
}

func (s *scriptedCollection) DeleteByID(ctx context.Context, docID string) error {
	if err := s.enter(ctx, call{Op: "delete", ID: docID}); err != nil {
		return err
	}
	return s.inner.DeleteByID(ctx, docID)
}

// gate blocks a collaborator call until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

// wait is used inside a hook.
func (g *gate) wait() {
	close(g.entered)
	<-g.release
}
