package store_test

import (
	"context"
	"testing"

	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit(dim, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1
	return v
}

func mix(dim int, weights map[int]float32) []float32 {
	v := make([]float32, dim)
	for i, w := range weights {
		v[i] = w
	}
	return v
}

// testVectorStore exercises the behaviour every VectorStore must share.
func testVectorStore(t *testing.T, newStore func(t *testing.T, dim int) store.VectorStore) {
	const dim = 4

	t.Run("upsert validation", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		err := s.Upsert(ctx, "", unit(dim, 0), "doc", nil)
		assert.ErrorIs(t, err, errors.ErrValidation)

		err = s.Upsert(ctx, "a", nil, "doc", nil)
		assert.ErrorIs(t, err, errors.ErrValidation)

		err = s.Upsert(ctx, "a", unit(dim, 0), "doc", map[string]any{"media": []string{"x"}})
		assert.ErrorIs(t, err, errors.ErrValidation)
	})

	t.Run("metadata keys are free form", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		require.NoError(t, s.Upsert(ctx, "a", unit(dim, 0), "doc", map[string]any{"user_id": "alice", "reading time": "5 min"}))

		records, err := s.GetByFilter(ctx, store.Where(store.Eq("user_id", "alice")))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "5 min", records[0].Metadata["reading time"])
	})

	t.Run("query orders by distance and filters before ranking", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		require.NoError(t, s.Upsert(ctx, "near", unit(dim, 0), "near doc", map[string]any{"user_id": "alice", "content_type": "note"}))
		require.NoError(t, s.Upsert(ctx, "mid", mix(dim, map[int]float32{0: 1, 1: 1}), "mid doc", map[string]any{"user_id": "alice", "content_type": "article"}))
		require.NoError(t, s.Upsert(ctx, "far", unit(dim, 2), "far doc", map[string]any{"user_id": "alice", "content_type": "note"}))
		require.NoError(t, s.Upsert(ctx, "other", unit(dim, 0), "other doc", map[string]any{"user_id": "bob", "content_type": "note"}))

		matches, err := s.QueryByVector(ctx, unit(dim, 0), 10, store.Where(store.Eq("user_id", "alice")))
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "near", matches[0].ID)
		assert.Equal(t, "mid", matches[1].ID)
		assert.Equal(t, "far", matches[2].ID)
		assert.InDelta(t, 0, matches[0].Distance, 1e-5)
		assert.InDelta(t, 1, matches[2].Distance, 1e-5)
		assert.Equal(t, "near doc", matches[0].Document)
		assert.Equal(t, "alice", matches[0].Metadata["user_id"])

		matches, err = s.QueryByVector(ctx, unit(dim, 0), 1, store.Where(store.Eq("user_id", "alice"), store.Eq("content_type", "note")))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "near", matches[0].ID)

		matches, err = s.QueryByVector(ctx, unit(dim, 0), 10, store.Where(store.Eq("user_id", "carol")))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("gte compares timestamps lexicographically", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		require.NoError(t, s.Upsert(ctx, "old", unit(dim, 0), "old", map[string]any{"timestamp": "2024-01-01T00:00:00.000000Z"}))
		require.NoError(t, s.Upsert(ctx, "new", unit(dim, 1), "new", map[string]any{"timestamp": "2024-06-01T00:00:00.000000Z"}))

		matches, err := s.QueryByVector(ctx, unit(dim, 0), 10, store.Where(store.Gte("timestamp", "2024-03-01T00:00:00.000000Z")))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "new", matches[0].ID)
	})

	t.Run("gte compares numbers numerically", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		require.NoError(t, s.Upsert(ctx, "cheap", unit(dim, 0), "cheap", map[string]any{"rank": 9}))
		require.NoError(t, s.Upsert(ctx, "pricey", unit(dim, 1), "pricey", map[string]any{"rank": 10}))

		records, err := s.GetByFilter(ctx, store.Where(store.Gte("rank", 10)))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "pricey", records[0].ID)
	})

	t.Run("upsert overwrites", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		require.NoError(t, s.Upsert(ctx, "a", unit(dim, 0), "first", map[string]any{"title": "one"}))
		require.NoError(t, s.Upsert(ctx, "a", unit(dim, 1), "second", map[string]any{"title": "two"}))

		records, err := s.GetByFilter(ctx, nil, "a")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "second", records[0].Document)
		assert.Equal(t, "two", records[0].Metadata["title"])

		matches, err := s.QueryByVector(ctx, unit(dim, 1), 1, nil)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "a", matches[0].ID)
		assert.InDelta(t, 0, matches[0].Distance, 1e-5)
	})

	t.Run("get by filter and delete", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		require.NoError(t, s.Upsert(ctx, "a", unit(dim, 0), "a", map[string]any{"user_id": "alice"}))
		require.NoError(t, s.Upsert(ctx, "b", unit(dim, 1), "b", map[string]any{"user_id": "alice"}))
		require.NoError(t, s.Upsert(ctx, "c", unit(dim, 2), "c", map[string]any{"user_id": "bob"}))

		records, err := s.GetByFilter(ctx, store.Where(store.Eq("user_id", "alice")))
		require.NoError(t, err)
		assert.Len(t, records, 2)

		records, err = s.GetByFilter(ctx, store.Where(store.Eq("user_id", "alice")), "c")
		require.NoError(t, err)
		assert.Empty(t, records)

		require.NoError(t, s.DeleteByID(ctx, "a", "missing"))

		records, err = s.GetByFilter(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, records, 2)

		matches, err := s.QueryByVector(ctx, unit(dim, 0), 10, nil)
		require.NoError(t, err)
		for _, m := range matches {
			assert.NotEqual(t, "a", m.ID)
		}
	})

	t.Run("invalid filter is rejected", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, dim)

		_, err := s.QueryByVector(ctx, unit(dim, 0), 10, store.Where(store.Eq("user id", "x")))
		assert.ErrorIs(t, err, errors.ErrValidation)

		_, err = s.GetByFilter(ctx, store.Where(store.Eq("user_id", []string{"x"})))
		assert.ErrorIs(t, err, errors.ErrValidation)
	})
}
