package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"phonebook/internal/directory/models"
)

func result(active, inactive int) models.ReconciliationResult {
	return models.ReconciliationResult{
		Active:   make([]models.UserRecord, active),
		Inactive: make([]models.UserRecord, inactive),
	}
}

func TestGenerate(t *testing.T) {
	t.Run("singular and plural counts", func(t *testing.T) {
		got := Generate(result(1, 2))
		assert.Equal(t, "Import was successful.\n1 user was set active.\n2 users were set inactive.", got)
	})

	t.Run("zero counts are plural", func(t *testing.T) {
		got := Generate(result(0, 0))
		assert.Equal(t, "Import was successful.\n0 users were set active.\n0 users were set inactive.", got)
	})

	t.Run("detailed variant", func(t *testing.T) {
		r := result(3, 1)
		r.Created = 1
		r.Updated = 2
		got := Generate(r, Detailed())
		assert.Equal(t, "Import was successful.\n1 user was created.\n2 users were updated.\n1 user was set inactive.", got)
	})

	t.Run("convergence outcome", func(t *testing.T) {
		outcome := &models.ConvergenceOutcome{Attempts: 10, Remaining: 1, Cost: 12.5}
		got := Generate(result(2, 0), WithOutcome(outcome))
		assert.Equal(t, "Import was successful.\n2 users were set active.\n0 users were set inactive.\n"+
			"After 10 attempts, 1 user is still to be updated.\nTotal cost (RUs): 12.5.", got)
	})

	t.Run("dropped records are reported", func(t *testing.T) {
		outcome := &models.ConvergenceOutcome{Attempts: 1, Dropped: []string{"a@a.com"}, Cost: 3}
		got := Generate(result(1, 0), WithOutcome(outcome))
		assert.Contains(t, got, "After 1 attempt, 0 users are still to be updated.")
		assert.Contains(t, got, "1 user was rejected by the store.")
	})

	t.Run("nil outcome is ignored", func(t *testing.T) {
		assert.Equal(t, Generate(result(1, 1)), Generate(result(1, 1), WithOutcome(nil)))
	})
}

func TestFailure(t *testing.T) {
	assert.Equal(t, "Import failed.\nReason: snapshot unreadable", Failure(errors.New("snapshot unreadable")))
	assert.Equal(t, "Import failed.\nReason: unknown error", Failure(nil))
}
