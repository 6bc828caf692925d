// Package store defines the vector store the memories are persisted in and
// provides in-memory, SQLite and Postgres implementations.
package store

import (
	"context"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
)

type (
	Record struct {
		ID        string
		Document  string
		Embedding []float32
		Metadata  map[string]any
	}

	// Match is a query result. Distance is the cosine distance to the query
	// vector, so 1 - Distance is the cosine similarity.
	Match struct {
		Record
		Distance float32
	}

	// VectorStore persists records keyed by id. Metadata values must be
	// scalars; filters are evaluated by the store before ranking.
	VectorStore interface {
		Upsert(ctx context.Context, id string, vector []float32, document string, metadata map[string]any) error
		// QueryByVector returns at most k records matching filter, by
		// ascending distance
		QueryByVector(ctx context.Context, vector []float32, k int, filter Filter) ([]Match, error)
		// GetByFilter returns the records matching filter, restricted to ids
		// when any are given
		GetByFilter(ctx context.Context, filter Filter, ids ...string) ([]Record, error)
		DeleteByID(ctx context.Context, ids ...string) error
		Close() error
	}
)

func validateUpsert(id string, vector []float32, metadata map[string]any) error {
	if id == "" {
		return errors.Wrapf(errors.ErrValidation, "record id is required")
	}
	if len(vector) == 0 {
		return errors.Wrapf(errors.ErrValidation, "record %s has an empty embedding", id)
	}
	for k, v := range metadata {
		if !entity.IsScalar(v) {
			return errors.Wrapf(errors.ErrValidation, "metadata %q of record %s must be a scalar, got %T", k, id, v)
		}
	}
	return nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFloat32Slice(s []float32) []float32 {
	if s == nil {
		return nil
	}
	out := make([]float32, len(s))
	copy(out, s)
	return out
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
