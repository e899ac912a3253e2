// Package reconcile diffs an incoming snapshot of users against the stored
// population and classifies every record as active or inactive.
package reconcile

import (
	"fmt"
	"maps"
	"time"

	"phonebook/internal/directory/models"
	"phonebook/internal/directory/phones"
	"phonebook/pkg/platform/sentinel"
)

// Reconciler is stateless between runs; one instance can serve many runs.
type Reconciler struct {
	now           func() time.Time
	newID         phones.IDFunc
	defaultActive bool
}

type Option func(*Reconciler)

// WithClock overrides the clock used to stamp importDate.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// WithIDGenerator overrides the id generator for new corporate numbers.
func WithIDGenerator(newID phones.IDFunc) Option {
	return func(r *Reconciler) {
		r.newID = newID
	}
}

// WithDefaultActive sets the active flag used when no organisation status map
// is supplied to Reconcile.
func WithDefaultActive(active bool) Option {
	return func(r *Reconciler) {
		r.defaultActive = active
	}
}

func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		now:           time.Now,
		defaultActive: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile classifies incoming against existing. orgStatus may be nil; when
// present it decides the active flag by organisation code and an unlisted code
// is inactive. Existing records absent from incoming come back inactive with
// every other field untouched. Neither input is modified.
func (r *Reconciler) Reconcile(incoming []models.RawUser, existing []models.UserRecord, orgStatus map[string]bool) (*models.ReconciliationResult, error) {
	users, err := dedupeIncoming(incoming)
	if err != nil {
		return nil, err
	}

	index := make(map[string]models.UserRecord, len(existing))
	order := make([]string, 0, len(existing))
	for _, rec := range existing {
		if _, seen := index[rec.ID]; !seen {
			order = append(order, rec.ID)
		}
		index[rec.ID] = rec
	}

	result := &models.ReconciliationResult{
		ImportDate: r.now().UnixMilli(),
		Active:     make([]models.UserRecord, 0, len(users)),
		Inactive:   make([]models.UserRecord, 0),
	}

	for _, raw := range users {
		rec, matched := r.build(raw, index, result.ImportDate)
		if matched {
			delete(index, rec.ID)
		}
		rec.Active = r.resolveActive(rec.Attribute(models.AttrOrgCode), orgStatus)

		if !rec.Active {
			result.Inactive = append(result.Inactive, rec)
			continue
		}
		result.Active = append(result.Active, rec)
		if matched {
			result.Updated++
		} else {
			result.Created++
		}
	}

	for _, id := range order {
		rec, unclaimed := index[id]
		if !unclaimed {
			continue
		}
		leaver := rec.Clone()
		leaver.Active = false
		result.Inactive = append(result.Inactive, leaver)
		result.Deactivated++
	}

	return result, nil
}

// build constructs the output record for one incoming user, merging it over
// the stored record when one shares its id.
func (r *Reconciler) build(raw models.RawUser, index map[string]models.UserRecord, importDate int64) (models.UserRecord, bool) {
	incoming := models.UserRecord{
		ID:           raw.ID(),
		ImportDate:   importDate,
		PhoneNumbers: phones.MapIncomingWith(raw, r.newID),
		Attributes:   models.RecordAttributes(raw.Attributes),
	}

	stored, ok := index[incoming.ID]
	if !ok {
		return incoming, false
	}

	merged := stored.Clone()
	maps.Copy(merged.Attributes, incoming.Attributes)
	merged.ImportDate = incoming.ImportDate
	merged.PhoneNumbers = phones.Merge(stored, incoming)
	return merged, true
}

func (r *Reconciler) resolveActive(orgCode string, orgStatus map[string]bool) bool {
	if orgStatus == nil {
		return r.defaultActive
	}
	return orgStatus[orgCode]
}

// dedupeIncoming keys the snapshot by derived id. A later record with the same
// id replaces the earlier one but keeps its position.
func dedupeIncoming(incoming []models.RawUser) ([]models.RawUser, error) {
	positions := make(map[string]int, len(incoming))
	out := make([]models.RawUser, 0, len(incoming))
	for i, raw := range incoming {
		id := raw.ID()
		if id == "" {
			return nil, fmt.Errorf("%w: record %d has no emailAddress", sentinel.ErrInvalidInput, i)
		}
		if pos, ok := positions[id]; ok {
			out[pos] = raw
			continue
		}
		positions[id] = len(out)
		out = append(out, raw)
	}
	return out, nil
}
