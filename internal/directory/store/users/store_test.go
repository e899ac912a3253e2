package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"phonebook/internal/directory/models"
	"phonebook/pkg/platform/sentinel"
)

// =============================================================================
// In-Memory Store Test Suite
// =============================================================================

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func upsert(rec models.UserRecord) models.BulkOperation {
	return models.BulkOperation{Type: models.OperationUpsert, PartitionKey: rec.ID, Body: rec}
}

func (s *InMemoryStoreSuite) TestBulk() {
	rec := models.UserRecord{
		ID:           "a@a.com",
		Active:       true,
		ImportDate:   100,
		PhoneNumbers: []models.PhoneNumber{{ID: "p1", Number: "07700900123", Type: models.PhoneNumberTypeCorporate, SubscribedTo: []string{"UNK:Unknown"}}},
		Attributes:   map[string]any{"surname": "Smith"},
	}

	s.Run("first write creates", func() {
		res, err := s.store.Bulk(s.ctx, []models.BulkOperation{upsert(rec)})
		s.Require().NoError(err)
		s.Require().Len(res, 1)
		s.Equal(http.StatusCreated, res[0].StatusCode)
		s.Equal(float64(1), res[0].RequestCharge)
	})

	s.Run("second write replaces", func() {
		rec.Active = false
		res, err := s.store.Bulk(s.ctx, []models.BulkOperation{upsert(rec)})
		s.Require().NoError(err)
		s.Equal(http.StatusOK, res[0].StatusCode)

		stored, err := s.store.Get(s.ctx, "a@a.com")
		s.Require().NoError(err)
		s.False(stored.Active)
		s.Equal(rec.PhoneNumbers, stored.PhoneNumbers)
		s.Equal("Smith", stored.Attribute("surname"))
	})

	s.Run("invalid operations are answered per item", func() {
		ops := []models.BulkOperation{
			{Type: "Delete", PartitionKey: "b@b.com", Body: models.UserRecord{ID: "b@b.com"}},
			{Type: models.OperationUpsert, PartitionKey: "x", Body: models.UserRecord{ID: "c@c.com"}},
			{Type: models.OperationUpsert, Body: models.UserRecord{}},
			upsert(models.UserRecord{ID: "d@d.com"}),
		}
		res, err := s.store.Bulk(s.ctx, ops)
		s.Require().NoError(err)
		s.Require().Len(res, 4)
		s.Equal(http.StatusBadRequest, res[0].StatusCode)
		s.Equal(http.StatusBadRequest, res[1].StatusCode)
		s.Equal(http.StatusBadRequest, res[2].StatusCode)
		s.Equal(http.StatusCreated, res[3].StatusCode)
		s.Equal(2, s.store.Len())
	})
}

func (s *InMemoryStoreSuite) TestLargeIntegerAttributes() {
	var incoming models.RawUser
	s.Require().NoError(json.Unmarshal([]byte(`{"emailAddress":"b@b.com","employeeNumber":12345678901234567}`), &incoming))
	rec := models.UserRecord{ID: incoming.ID(), Active: true, Attributes: models.RecordAttributes(incoming.Attributes)}

	_, err := s.store.Bulk(s.ctx, []models.BulkOperation{upsert(rec)})
	s.Require().NoError(err)

	stored, err := s.store.Get(s.ctx, "b@b.com")
	s.Require().NoError(err)
	data, err := json.Marshal(stored)
	s.Require().NoError(err)
	s.Contains(string(data), `"employeeNumber":12345678901234567`)
}

func (s *InMemoryStoreSuite) TestReadAll() {
	_, err := s.store.Bulk(s.ctx, []models.BulkOperation{
		upsert(models.UserRecord{ID: "b@b.com", ImportDate: 2}),
		upsert(models.UserRecord{ID: "a@a.com", ImportDate: 1}),
	})
	s.Require().NoError(err)

	records, err := s.store.ReadAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal("a@a.com", records[0].ID)
	s.Equal("b@b.com", records[1].ID)
	s.Equal(int64(2), records[1].ImportDate)
}

func (s *InMemoryStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, "nobody@example.com")
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *InMemoryStoreSuite) TestThrottle() {
	throttle := NewThrottle(2)
	now := time.Unix(1_700_000_000, 0)
	throttle.now = func() time.Time { return now }
	s.store = NewInMemory(WithThrottle(throttle))

	ops := []models.BulkOperation{
		upsert(models.UserRecord{ID: "a@a.com"}),
		upsert(models.UserRecord{ID: "b@b.com"}),
		upsert(models.UserRecord{ID: "c@c.com"}),
	}

	res, err := s.store.Bulk(s.ctx, ops)
	s.Require().NoError(err)
	s.Equal(http.StatusCreated, res[0].StatusCode)
	s.Equal(http.StatusCreated, res[1].StatusCode)
	s.Equal(http.StatusTooManyRequests, res[2].StatusCode)
	s.Zero(res[2].RequestCharge)
	s.Equal(2, s.store.Len())

	now = now.Add(time.Second)
	res, err = s.store.Bulk(s.ctx, ops[2:])
	s.Require().NoError(err)
	s.Equal(http.StatusCreated, res[0].StatusCode, "budget refills")
}

func (s *InMemoryStoreSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.store.Bulk(ctx, []models.BulkOperation{upsert(models.UserRecord{ID: "a@a.com"})})
	s.True(errors.Is(err, context.Canceled))
}

// =============================================================================
// Pricing and Classification
// =============================================================================

func TestRequestCharge(t *testing.T) {
	cases := map[string]struct {
		size int
		want float64
	}{
		"empty":           {0, 1},
		"small":           {10, 1},
		"exactly one KiB": {1024, 1},
		"just over":       {1025, 2},
		"ten KiB":         {10 * 1024, 10},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := RequestCharge([]byte(strings.Repeat("x", tc.size))); got != tc.want {
				t.Errorf("RequestCharge(%d bytes) = %v, want %v", tc.size, got, tc.want)
			}
		})
	}
}

func TestNilThrottleAdmitsEverything(t *testing.T) {
	var throttle *Throttle
	if !throttle.Allow(1e9) {
		t.Fatal("nil throttle refused a request")
	}
	if NewThrottle(0) != nil {
		t.Fatal("zero rate should disable throttling")
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]struct {
		err        error
		wantStatus int
		wantErr    error
	}{
		"unique violation":  {&pq.Error{Code: "23505"}, http.StatusConflict, nil},
		"invalid json":      {&pq.Error{Code: "22P02"}, http.StatusBadRequest, nil},
		"undefined table":   {&pq.Error{Code: "42P01"}, http.StatusInternalServerError, nil},
		"admin shutdown":    {&pq.Error{Code: "57P01"}, 0, sentinel.ErrUnavailable},
		"connection failed": {errors.New("dial tcp: connection refused"), 0, sentinel.ErrUnavailable},
		"cancelled":         {context.Canceled, 0, context.Canceled},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, err := classify(tc.err)
			if status != tc.wantStatus {
				t.Errorf("status = %d, want %d", status, tc.wantStatus)
			}
			if tc.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
