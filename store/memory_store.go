package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/habiliai/recallhub/errors"
	"gonum.org/v1/gonum/mat"
)

type (
	InMemoryStore struct {
		mu      sync.RWMutex
		records map[string]*memoryRecord
		seq     int64
	}

	memoryRecord struct {
		Record
		seq int64
	}
)

var _ VectorStore = (*InMemoryStore)(nil)

// NewInMemoryStore creates a store that lives as long as the process.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string]*memoryRecord),
	}
}

func (s *InMemoryStore) Upsert(_ context.Context, id string, vector []float32, document string, metadata map[string]any) error {
	if err := validateUpsert(id, vector, metadata); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq
	if prev, ok := s.records[id]; ok {
		seq = prev.seq
	} else {
		s.seq++
	}

	s.records[id] = &memoryRecord{
		Record: Record{
			ID:        id,
			Document:  document,
			Embedding: copyFloat32Slice(vector),
			Metadata:  copyMap(metadata),
		},
		seq: seq,
	}

	return nil
}

func (s *InMemoryStore) QueryByVector(_ context.Context, vector []float32, k int, filter Filter) ([]Match, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 || len(vector) == 0 {
		return []Match{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	query := toVecDense(vector)
	queryNorm := mat.Norm(query, 2)

	matches := make([]Match, 0, len(s.records))
	for _, r := range s.records {
		if !filter.Match(r.Metadata) {
			continue
		}
		if len(r.Embedding) != len(vector) {
			return nil, errors.Wrapf(errors.ErrValidation, "query dimension %d does not match record %s dimension %d", len(vector), r.ID, len(r.Embedding))
		}
		matches = append(matches, Match{
			Record:   r.copy(),
			Distance: cosineDistance(query, queryNorm, toVecDense(r.Embedding)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance == matches[j].Distance {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

func (s *InMemoryStore) GetByFilter(_ context.Context, filter Filter, ids ...string) ([]Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*memoryRecord
	if len(ids) > 0 {
		for _, id := range ids {
			if r, ok := s.records[id]; ok {
				candidates = append(candidates, r)
			}
		}
	} else {
		for _, r := range s.records {
			candidates = append(candidates, r)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].seq < candidates[j].seq
	})

	records := make([]Record, 0, len(candidates))
	for _, r := range candidates {
		if filter.Match(r.Metadata) {
			records = append(records, r.copy())
		}
	}

	return records, nil
}

func (s *InMemoryStore) DeleteByID(_ context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.records, id)
	}
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

func (r *memoryRecord) copy() Record {
	return Record{
		ID:        r.ID,
		Document:  r.Document,
		Embedding: copyFloat32Slice(r.Embedding),
		Metadata:  copyMap(r.Metadata),
	}
}

func toVecDense(v []float32) *mat.VecDense {
	data := make([]float64, len(v))
	for i, x := range v {
		data[i] = float64(x)
	}
	return mat.NewVecDense(len(data), data)
}

// cosineDistance is 1 - cos(a, b); zero vectors are at distance 1 from
// everything.
func cosineDistance(a *mat.VecDense, aNorm float64, b *mat.VecDense) float32 {
	bNorm := mat.Norm(b, 2)
	if aNorm == 0 || bNorm == 0 {
		return 1
	}
	cos := mat.Dot(a, b) / (aNorm * bNorm)
	cos = math.Max(-1, math.Min(1, cos))
	return float32(1 - cos)
}
