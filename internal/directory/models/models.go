// Package models holds the records exchanged between the reconciler, the
// convergence engine and the user store.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PhoneNumberType classifies a phone number as organisation-issued or user-owned.
type PhoneNumberType string

const (
	PhoneNumberTypeCorporate PhoneNumberType = "corporate"
	PhoneNumberTypePersonal  PhoneNumberType = "personal"
)

// IsValid checks if the phone number type is one of the supported enum values.
func (t PhoneNumberType) IsValid() bool {
	return t == PhoneNumberTypeCorporate || t == PhoneNumberTypePersonal
}

// UnknownOffice is the subscription tag used when a user has no office code.
const UnknownOffice = "UNK:Unknown"

// Well-known attribute keys read from incoming records.
const (
	AttrOrgCode    = "orgCode"
	AttrOfficeCode = "officeCode"
)

// Reserved document keys. They are owned by UserRecord and never stored as attributes.
const (
	keyID           = "id"
	keyActive       = "active"
	keyImportDate   = "importDate"
	keyPhoneNumbers = "phoneNumbers"
	keyEmailAddress = "emailAddress"
)

// PhoneNumber is a single number held on a user record.
type PhoneNumber struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	Type         PhoneNumberType `json:"type"`
	SubscribedTo []string        `json:"subscribedTo,omitempty"`
}

// Clone returns a copy that shares no slices with p.
func (p PhoneNumber) Clone() PhoneNumber {
	p.SubscribedTo = cloneStrings(p.SubscribedTo)
	return p
}

// UserRecord is the unit of reconciliation, stored as one document keyed by ID.
// Attributes carries every other document field (names, organisation code,
// office code, store metadata) opaquely.
type UserRecord struct {
	ID           string
	Active       bool
	ImportDate   int64
	PhoneNumbers []PhoneNumber
	Attributes   map[string]any
}

// Clone returns a deep copy of the phone numbers and a shallow copy of the
// attribute map, so callers can modify the result without touching r.
func (r UserRecord) Clone() UserRecord {
	out := UserRecord{
		ID:         r.ID,
		Active:     r.Active,
		ImportDate: r.ImportDate,
		Attributes: maps.Clone(r.Attributes),
	}
	if r.PhoneNumbers != nil {
		out.PhoneNumbers = make([]PhoneNumber, len(r.PhoneNumbers))
		for i, pn := range r.PhoneNumbers {
			out.PhoneNumbers[i] = pn.Clone()
		}
	}
	if out.Attributes == nil {
		out.Attributes = map[string]any{}
	}
	return out
}

// Attribute returns the string value of an attribute, or "" when absent or not a string.
func (r UserRecord) Attribute(key string) string {
	v, _ := r.Attributes[key].(string)
	return v
}

// MarshalJSON flattens the record into a single document.
func (r UserRecord) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(r.Attributes)+4)
	for k, v := range r.Attributes {
		if isReserved(k) {
			continue
		}
		doc[k] = v
	}
	phoneNumbers := r.PhoneNumbers
	if phoneNumbers == nil {
		phoneNumbers = []PhoneNumber{}
	}
	doc[keyID] = r.ID
	doc[keyActive] = r.Active
	doc[keyImportDate] = r.ImportDate
	doc[keyPhoneNumbers] = phoneNumbers
	return json.Marshal(doc)
}

// UnmarshalJSON reads a stored document, keeping unknown fields as attributes.
func (r *UserRecord) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	out := UserRecord{Attributes: map[string]any{}}
	if raw, ok := doc[keyID]; ok {
		if err := json.Unmarshal(raw, &out.ID); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
	}
	if raw, ok := doc[keyActive]; ok {
		if err := json.Unmarshal(raw, &out.Active); err != nil {
			return fmt.Errorf("decode active: %w", err)
		}
	}
	if raw, ok := doc[keyImportDate]; ok {
		if err := json.Unmarshal(raw, &out.ImportDate); err != nil {
			return fmt.Errorf("decode importDate: %w", err)
		}
	}
	if raw, ok := doc[keyPhoneNumbers]; ok {
		if err := json.Unmarshal(raw, &out.PhoneNumbers); err != nil {
			return fmt.Errorf("decode phoneNumbers: %w", err)
		}
	}
	for k, raw := range doc {
		if isReserved(k) {
			continue
		}
		v, err := decodeAttribute(raw)
		if err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		out.Attributes[k] = v
	}

	*r = out
	return nil
}

// RawUser is one record of the incoming snapshot as produced by the extraction stage.
type RawUser struct {
	EmailAddress string
	// PhoneNumbers is nil when the field was absent from the payload.
	PhoneNumbers []string
	Attributes   map[string]any
}

// OrgCode returns the organisation code attribute.
func (u RawUser) OrgCode() string {
	v, _ := u.Attributes[AttrOrgCode].(string)
	return v
}

// OfficeCode returns the office code attribute.
func (u RawUser) OfficeCode() string {
	v, _ := u.Attributes[AttrOfficeCode].(string)
	return v
}

// ID derives the record identifier from the e-mail address.
func (u RawUser) ID() string {
	return NormalizeID(u.EmailAddress)
}

func (u RawUser) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(u.Attributes)+2)
	for k, v := range u.Attributes {
		if k == keyEmailAddress || k == keyPhoneNumbers {
			continue
		}
		doc[k] = v
	}
	doc[keyEmailAddress] = u.EmailAddress
	if u.PhoneNumbers != nil {
		doc[keyPhoneNumbers] = u.PhoneNumbers
	}
	return json.Marshal(doc)
}

func (u *RawUser) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	out := RawUser{Attributes: map[string]any{}}
	if raw, ok := doc[keyEmailAddress]; ok {
		if err := json.Unmarshal(raw, &out.EmailAddress); err != nil {
			return fmt.Errorf("decode emailAddress: %w", err)
		}
	}
	if raw, ok := doc[keyPhoneNumbers]; ok && string(raw) != "null" {
		out.PhoneNumbers = []string{}
		if err := json.Unmarshal(raw, &out.PhoneNumbers); err != nil {
			return fmt.Errorf("decode phoneNumbers: %w", err)
		}
	}
	for k, raw := range doc {
		if k == keyEmailAddress || k == keyPhoneNumbers {
			continue
		}
		v, err := decodeAttribute(raw)
		if err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		out.Attributes[k] = v
	}

	*u = out
	return nil
}

// RecordAttributes copies attrs without the keys owned by UserRecord itself.
// The result is never nil.
func RecordAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if !isReserved(k) {
			out[k] = v
		}
	}
	return out
}

// NormalizeID case-folds an e-mail address into the stable record identifier.
// A Caser is not safe for concurrent use, so one is built per call.
func NormalizeID(emailAddress string) string {
	return cases.Lower(language.Und).String(emailAddress)
}

// decodeAttribute keeps numbers as json.Number so integers beyond float64
// precision survive a round trip.
func decodeAttribute(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func isReserved(key string) bool {
	switch key {
	case keyID, keyActive, keyImportDate, keyPhoneNumbers, keyEmailAddress:
		return true
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
