// Package phones merges a user's stored phone numbers with the numbers
// supplied by the incoming snapshot.
//
// Personal numbers belong to the user and are carried through untouched.
// Corporate numbers are recomputed from the snapshot on every run; a number
// that was already on the stored record keeps its stored id and
// subscriptions.
package phones

import (
	"github.com/google/uuid"

	"phonebook/internal/directory/models"
)

// IDFunc generates identifiers for newly imported corporate numbers.
type IDFunc func() string

// MapIncoming builds corporate phone numbers for a raw snapshot record using
// random UUIDs.
func MapIncoming(user models.RawUser) []models.PhoneNumber {
	return MapIncomingWith(user, uuid.NewString)
}

// MapIncomingWith builds one corporate phone number per raw number on user,
// subscribed to the user's office code or to the unknown office. A user
// without phone numbers yields an empty slice.
func MapIncomingWith(user models.RawUser, newID IDFunc) []models.PhoneNumber {
	if newID == nil {
		newID = uuid.NewString
	}

	office := user.OfficeCode()
	if office == "" {
		office = models.UnknownOffice
	}

	out := make([]models.PhoneNumber, 0, len(user.PhoneNumbers))
	for _, number := range user.PhoneNumbers {
		out = append(out, models.PhoneNumber{
			ID:           newID(),
			Number:       number,
			Type:         models.PhoneNumberTypeCorporate,
			SubscribedTo: []string{office},
		})
	}
	return out
}

// Merge returns existing's personal numbers followed by incoming's corporate
// numbers, substituting the stored entry for every corporate number already
// present on existing. Stored corporate numbers missing from incoming are
// dropped.
func Merge(existing, incoming models.UserRecord) []models.PhoneNumber {
	stored := make(map[string]models.PhoneNumber)
	out := make([]models.PhoneNumber, 0, len(existing.PhoneNumbers)+len(incoming.PhoneNumbers))

	for _, pn := range existing.PhoneNumbers {
		switch pn.Type {
		case models.PhoneNumberTypePersonal:
			out = append(out, pn.Clone())
		case models.PhoneNumberTypeCorporate:
			if _, ok := stored[pn.Number]; !ok {
				stored[pn.Number] = pn
			}
		}
	}

	for _, pn := range incoming.PhoneNumbers {
		if pn.Type != models.PhoneNumberTypeCorporate {
			continue
		}
		if prior, ok := stored[pn.Number]; ok {
			out = append(out, prior.Clone())
			continue
		}
		out = append(out, pn.Clone())
	}
	return out
}
