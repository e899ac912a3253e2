package sentinel

import "errors"

// Sentinel errors for facts about an import run. Stores, sources and the
// engine return these (optionally wrapped) so the run service can classify a
// failure and callers can test with errors.Is.
//
//   - ErrInvalidInput: the incoming snapshot is unreadable or malformed
//   - ErrReferenceDataMissing: organisation status data was expected but absent
//   - ErrInvalidPhoneNumber: a stored or incoming number cannot be parsed
//   - ErrUnavailable: the store or a collaborator cannot be reached
//   - ErrNotFound: entity does not exist in store
//   - ErrConflict: the write collided with existing state
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrReferenceDataMissing = errors.New("reference data missing")
	ErrInvalidPhoneNumber   = errors.New("invalid phone number")
	ErrUnavailable          = errors.New("unavailable")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
)
