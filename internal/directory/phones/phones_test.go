package phones

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"phonebook/internal/directory/models"
)

// =============================================================================
// Phone Number Merge Test Suite
// =============================================================================

type PhonesSuite struct {
	suite.Suite
	seq int
}

func TestPhonesSuite(t *testing.T) {
	suite.Run(t, new(PhonesSuite))
}

func (s *PhonesSuite) SetupTest() {
	s.seq = 0
}

func (s *PhonesSuite) nextID() string {
	s.seq++
	return fmt.Sprintf("generated-%d", s.seq)
}

func corporate(id, number string, subscribedTo ...string) models.PhoneNumber {
	return models.PhoneNumber{ID: id, Number: number, Type: models.PhoneNumberTypeCorporate, SubscribedTo: subscribedTo}
}

func personal(id, number string) models.PhoneNumber {
	return models.PhoneNumber{ID: id, Number: number, Type: models.PhoneNumberTypePersonal}
}

// =============================================================================
// MapIncoming Tests
// =============================================================================

func (s *PhonesSuite) TestMapIncoming() {
	s.Run("absent phone numbers yield an empty slice", func() {
		out := MapIncomingWith(models.RawUser{EmailAddress: "a@a.com"}, s.nextID)
		s.NotNil(out)
		s.Empty(out)
	})

	s.Run("numbers without office code subscribe to the unknown office", func() {
		user := models.RawUser{EmailAddress: "a@a.com", PhoneNumbers: []string{"07700900123"}}

		out := MapIncomingWith(user, s.nextID)

		s.Require().Len(out, 1)
		s.Equal("07700900123", out[0].Number)
		s.Equal(models.PhoneNumberTypeCorporate, out[0].Type)
		s.Equal([]string{models.UnknownOffice}, out[0].SubscribedTo)
		s.NotEmpty(out[0].ID)
	})

	s.Run("office code becomes the subscription tag", func() {
		user := models.RawUser{
			EmailAddress: "a@a.com",
			PhoneNumbers: []string{"07700900123", "07700900124"},
			Attributes:   map[string]any{models.AttrOfficeCode: "LDN:London"},
		}

		out := MapIncomingWith(user, s.nextID)

		s.Require().Len(out, 2)
		for _, pn := range out {
			s.Equal([]string{"LDN:London"}, pn.SubscribedTo)
		}
		s.NotEqual(out[0].ID, out[1].ID)
	})

	s.Run("default generator produces unique ids", func() {
		out := MapIncoming(models.RawUser{PhoneNumbers: []string{"1", "2"}})
		s.Require().Len(out, 2)
		s.NotEqual(out[0].ID, out[1].ID)
	})
}

// =============================================================================
// Merge Tests
// =============================================================================

func (s *PhonesSuite) TestMerge() {
	s.Run("personal numbers are carried forward next to new corporate numbers", func() {
		existing := models.UserRecord{PhoneNumbers: []models.PhoneNumber{personal("p1", "07000000001")}}
		incoming := models.UserRecord{PhoneNumbers: []models.PhoneNumber{corporate("c-new", "07700900123", models.UnknownOffice)}}

		out := Merge(existing, incoming)

		s.Require().Len(out, 2)
		s.Equal(personal("p1", "07000000001"), out[0])
		s.Equal(corporate("c-new", "07700900123", models.UnknownOffice), out[1])
	})

	s.Run("stored corporate metadata wins over freshly generated metadata", func() {
		existing := models.UserRecord{PhoneNumbers: []models.PhoneNumber{corporate("c-old", "N", "HERE")}}
		incoming := models.UserRecord{PhoneNumbers: []models.PhoneNumber{corporate("c-new", "N", models.UnknownOffice)}}

		out := Merge(existing, incoming)

		s.Require().Len(out, 1)
		s.Equal("c-old", out[0].ID)
		s.Equal([]string{"HERE"}, out[0].SubscribedTo)
	})

	s.Run("removed corporate numbers are dropped", func() {
		existing := models.UserRecord{PhoneNumbers: []models.PhoneNumber{
			corporate("c1", "111", "HERE"),
			corporate("c2", "222", "HERE"),
		}}
		incoming := models.UserRecord{PhoneNumbers: []models.PhoneNumber{corporate("c3", "222", "THERE")}}

		out := Merge(existing, incoming)

		s.Require().Len(out, 1)
		s.Equal("c2", out[0].ID)
	})

	s.Run("personal numbers come first and corporate follow incoming order", func() {
		existing := models.UserRecord{PhoneNumbers: []models.PhoneNumber{
			corporate("c1", "111", "HERE"),
			personal("p1", "999"),
			personal("p2", "998"),
		}}
		incoming := models.UserRecord{PhoneNumbers: []models.PhoneNumber{
			corporate("n1", "333"),
			corporate("n2", "111"),
		}}

		out := Merge(existing, incoming)

		s.Require().Len(out, 4)
		s.Equal([]string{"p1", "p2", "n1", "c1"}, ids(out))
	})

	s.Run("merged output does not alias the stored record", func() {
		existing := models.UserRecord{PhoneNumbers: []models.PhoneNumber{corporate("c1", "111", "HERE")}}
		incoming := models.UserRecord{PhoneNumbers: []models.PhoneNumber{corporate("n1", "111")}}

		out := Merge(existing, incoming)
		out[0].SubscribedTo[0] = "MUTATED"

		s.Equal("HERE", existing.PhoneNumbers[0].SubscribedTo[0])
	})
}

func ids(pns []models.PhoneNumber) []string {
	out := make([]string, len(pns))
	for i, pn := range pns {
		out[i] = pn.ID
	}
	return out
}
