package collection

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("doc-%d", n)
	}
}

func TestNewMemory_Seed(t *testing.T) {
	m, err := NewMemory("users", WithSeed(
		map[string]any{"id": "1", "name": "Ann", "age": "30"},
		map[string]any{"name": "Bob", "age": "41"},
	), WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)

	docs, err := m.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "Ann", docs[0].Data["name"])
	assert.Equal(t, "doc-1", docs[1].ID)
	assert.False(t, docs[0].CreatedAt.IsZero())
}

func TestNewMemory_DuplicateSeed(t *testing.T) {
	_, err := NewMemory("users", WithSeed(
		map[string]any{"id": "1", "name": "Ann"},
		map[string]any{"id": "1", "name": "Bob"},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate ID "1"`)
}

func TestMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory("users", WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)

	id1, err := m.Insert(ctx, Fields{Name: "Ann", Age: "30"})
	require.NoError(t, err)
	id2, err := m.Insert(ctx, Fields{Name: "Bob", Age: "41"})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id1)
	assert.Equal(t, "doc-2", id2)
	assert.Equal(t, 2, m.Count())

	require.NoError(t, m.UpdateByID(ctx, id1, Fields{Name: "Ann", Age: "31"}))

	docs, err := m.FetchAll(ctx)
	require.NoError(t, err)
	records := DefaultMapper().Records(docs)
	assert.Equal(t, []Record{
		{ID: "doc-1", Name: "Ann", Age: "31"},
		{ID: "doc-2", Name: "Bob", Age: "41"},
	}, records)

	require.NoError(t, m.DeleteByID(ctx, id1))
	docs, err = m.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id2, docs[0].ID)
}

func TestMemory_UpdateKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory("users", WithSeed(map[string]any{"id": "1", "name": "Ann", "age": "30", "email": "ann@example.com"}))
	require.NoError(t, err)

	require.NoError(t, m.UpdateByID(ctx, "1", Fields{Name: "Anne", Age: "30"}))

	docs, err := m.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anne", docs[0].Data["name"])
	assert.Equal(t, "ann@example.com", docs[0].Data["email"])
}

func TestMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory("users")
	require.NoError(t, err)

	err = m.UpdateByID(ctx, "missing", Fields{Name: "x", Age: "1"})
	assert.True(t, IsNotFound(err))

	err = m.DeleteByID(ctx, "missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "users", nf.Resource)
	assert.Equal(t, "missing", nf.ID)
}

func TestMemory_FetchAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory("users", WithSeed(map[string]any{"id": "1", "name": "Ann", "age": "30"}))
	require.NoError(t, err)

	docs, err := m.FetchAll(ctx)
	require.NoError(t, err)
	docs[0].Data["name"] = "mutated"

	docs, err = m.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", docs[0].Data["name"])
}

func TestMemory_Reset(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory("users", WithSeed(map[string]any{"id": "1", "name": "Ann", "age": "30"}))
	require.NoError(t, err)

	_, err = m.Insert(ctx, Fields{Name: "Bob", Age: "41"})
	require.NoError(t, err)
	require.NoError(t, m.DeleteByID(ctx, "1"))

	require.NoError(t, m.Reset())
	docs, err := m.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "1", docs[0].ID)
}

func TestMemory_FailedResetKeepsContents(t *testing.T) {
	ctx := context.Background()
	ids := []string{"g1", "g2"}
	calls := 0
	gen := func() string {
		id := ids[calls%len(ids)]
		calls++
		return id
	}

	// The first load assigns g1 to Ann; the reset assigns g2, which the
	// second seed document claims explicitly.
	m, err := NewMemory("users",
		WithIDGenerator(gen),
		WithSeed(
			map[string]any{"name": "Ann", "age": "30"},
			map[string]any{"id": "g2", "name": "Bob", "age": "41"},
		),
	)
	require.NoError(t, err)

	require.Error(t, m.Reset())

	docs, err := m.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "g1", docs[0].ID)
	assert.Equal(t, "g2", docs[1].ID)
	assert.Equal(t, 2, m.Count())
}

func TestMemory_CancelledContext(t *testing.T) {
	m, err := NewMemory("users")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = m.Insert(ctx, Fields{Name: "a", Age: "1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Count())
}
