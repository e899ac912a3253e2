package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"phonebook/internal/directory/models"
	"phonebook/pkg/platform/sentinel"
)

// InMemoryStore keeps user documents in memory, serialised as the postgres
// store would store them. It backs local runs and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	docs     map[string][]byte
	throttle *Throttle
}

type Option func(*storeOptions)

type storeOptions struct {
	throttle *Throttle
}

// WithThrottle limits the request units spent per second.
func WithThrottle(t *Throttle) Option {
	return func(o *storeOptions) {
		o.throttle = t
	}
}

func NewInMemory(opts ...Option) *InMemoryStore {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &InMemoryStore{
		docs:     make(map[string][]byte),
		throttle: o.throttle,
	}
}

// ReadAll returns every stored record ordered by id.
func (s *InMemoryStore) ReadAll(ctx context.Context) ([]models.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.UserRecord, 0, len(ids))
	for _, id := range ids {
		var rec models.UserRecord
		if err := json.Unmarshal(s.docs[id], &rec); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", id, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns the stored record with the given id.
func (s *InMemoryStore) Get(ctx context.Context, id string) (models.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.UserRecord{}, err
	}

	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return models.UserRecord{}, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}

	var rec models.UserRecord
	if err := json.Unmarshal(doc, &rec); err != nil {
		return models.UserRecord{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return rec, nil
}

// Bulk upserts each operation independently and answers per item.
func (s *InMemoryStore) Bulk(ctx context.Context, ops []models.BulkOperation) ([]models.BulkResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.BulkResult, len(ops))
	for i, op := range ops {
		if res, ok := checkOperation(op); !ok {
			results[i] = res
			continue
		}

		doc, err := encode(op.Body)
		if err != nil {
			results[i] = models.BulkResult{ID: op.Body.ID, StatusCode: http.StatusBadRequest, Message: err.Error()}
			continue
		}

		charge := RequestCharge(doc)
		if !s.throttle.Allow(charge) {
			results[i] = models.BulkResult{ID: op.Body.ID, StatusCode: http.StatusTooManyRequests, Message: "request rate is large"}
			continue
		}

		status := http.StatusOK
		if _, exists := s.docs[op.Body.ID]; !exists {
			status = http.StatusCreated
		}
		s.docs[op.Body.ID] = doc
		results[i] = models.BulkResult{ID: op.Body.ID, StatusCode: status, RequestCharge: charge}
	}
	return results, nil
}

// Len returns the number of stored records.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
