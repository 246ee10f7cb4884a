package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreAppendAndReadAllPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.NoError(t, s.Append(ctx, CollectionProducts, Record{ID: "a", Data: []byte(`{"n":1}`)}))
	assert.NoError(t, s.Append(ctx, CollectionProducts, Record{ID: "b", Data: []byte(`{"n":2}`)}))
	assert.NoError(t, s.Append(ctx, CollectionProducts, Record{ID: "c", Data: []byte(`{"n":3}`)}))

	records, err := s.ReadAll(ctx, CollectionProducts)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "c", records[2].ID)
}

func TestMemoryStoreReadByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.NoError(t, s.Append(ctx, CollectionOrders, Record{ID: "order-1", Data: []byte(`{}`)}))

	rec, err := s.ReadByID(ctx, CollectionOrders, "order-1")
	assert.NoError(t, err)
	assert.Equal(t, "order-1", rec.ID)

	_, err = s.ReadByID(ctx, CollectionOrders, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.NoError(t, s.Append(ctx, CollectionProducts, Record{ID: "a", Data: []byte(`{"stock":5}`)}))
	assert.NoError(t, s.Replace(ctx, CollectionProducts, "a", Record{ID: "a", Data: []byte(`{"stock":3}`)}))

	rec, err := s.ReadByID(ctx, CollectionProducts, "a")
	assert.NoError(t, err)
	assert.JSONEq(t, `{"stock":3}`, string(rec.Data))

	err = s.Replace(ctx, CollectionProducts, "missing", Record{ID: "missing", Data: []byte(`{}`)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.NoError(t, s.Append(ctx, CollectionProducts, Record{ID: "a", Data: []byte(`{}`)}))
	assert.NoError(t, s.Append(ctx, CollectionProducts, Record{ID: "b", Data: []byte(`{}`)}))

	assert.NoError(t, s.Delete(ctx, CollectionProducts, "a"))

	records, err := s.ReadAll(ctx, CollectionProducts)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)

	// deleting a missing id is a no-op
	assert.NoError(t, s.Delete(ctx, CollectionProducts, "missing"))
}

func TestMemoryStoreCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	assert.NoError(t, s.Append(ctx, CollectionProducts, Record{ID: "a", Data: []byte(`{}`)}))

	records, err := s.ReadAll(ctx, CollectionOrders)
	assert.NoError(t, err)
	assert.Empty(t, records)
}
