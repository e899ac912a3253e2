package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeID("A@X.COM"))
	assert.Equal(t, "a@x.com", NormalizeID("a@x.com"))
	assert.Equal(t, NormalizeID("Jane.Doe@Example.org"), NormalizeID("jane.doe@example.ORG"))
}

func TestUserRecordJSON(t *testing.T) {
	t.Run("unknown fields are kept as attributes", func(t *testing.T) {
		doc := `{"id":"a@a.com","active":true,"importDate":100,"givenName":"Ann","_etag":"x",
			"phoneNumbers":[{"id":"p1","number":"07700900123","type":"personal"}]}`

		var rec UserRecord
		require.NoError(t, json.Unmarshal([]byte(doc), &rec))

		assert.Equal(t, "a@a.com", rec.ID)
		assert.True(t, rec.Active)
		assert.Equal(t, int64(100), rec.ImportDate)
		require.Len(t, rec.PhoneNumbers, 1)
		assert.Equal(t, PhoneNumberTypePersonal, rec.PhoneNumbers[0].Type)
		assert.Equal(t, "Ann", rec.Attribute("givenName"))
		assert.Equal(t, "x", rec.Attributes["_etag"])
		assert.NotContains(t, rec.Attributes, "id")
	})

	t.Run("reserved attributes never shadow record fields", func(t *testing.T) {
		rec := UserRecord{
			ID:         "a@a.com",
			Attributes: map[string]any{"id": "other", "emailAddress": "A@A.com", "surname": "Smith"},
		}
		data, err := json.Marshal(rec)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, "a@a.com", doc["id"])
		assert.Equal(t, "Smith", doc["surname"])
		assert.NotContains(t, doc, "emailAddress")
		assert.Equal(t, []any{}, doc["phoneNumbers"])
	})
}

func TestLargeIntegerAttributes(t *testing.T) {
	t.Run("user record", func(t *testing.T) {
		var rec UserRecord
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a@a.com","employeeNumber":12345678901234567}`), &rec))
		assert.Equal(t, json.Number("12345678901234567"), rec.Attributes["employeeNumber"])

		data, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"employeeNumber":12345678901234567`)
	})

	t.Run("raw user", func(t *testing.T) {
		var u RawUser
		require.NoError(t, json.Unmarshal([]byte(`{"emailAddress":"a@a.com","employeeNumber":12345678901234567}`), &u))

		data, err := json.Marshal(u)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"employeeNumber":12345678901234567`)
	})
}

func TestUserRecordClone(t *testing.T) {
	rec := UserRecord{
		ID:           "a@a.com",
		PhoneNumbers: []PhoneNumber{{ID: "1", Number: "1", Type: PhoneNumberTypeCorporate, SubscribedTo: []string{"HERE"}}},
		Attributes:   map[string]any{"surname": "Smith"},
	}

	clone := rec.Clone()
	clone.PhoneNumbers[0].SubscribedTo[0] = "THERE"
	clone.Attributes["surname"] = "Jones"

	assert.Equal(t, "HERE", rec.PhoneNumbers[0].SubscribedTo[0])
	assert.Equal(t, "Smith", rec.Attribute("surname"))
}

func TestRawUserJSON(t *testing.T) {
	t.Run("absent phone numbers stay nil", func(t *testing.T) {
		var u RawUser
		require.NoError(t, json.Unmarshal([]byte(`{"emailAddress":"A@X.com","orgCode":"ORG1"}`), &u))
		assert.Nil(t, u.PhoneNumbers)
		assert.Equal(t, "ORG1", u.OrgCode())
		assert.Equal(t, "a@x.com", u.ID())
	})

	t.Run("empty phone numbers are distinguished from absent", func(t *testing.T) {
		var u RawUser
		require.NoError(t, json.Unmarshal([]byte(`{"emailAddress":"a@x.com","phoneNumbers":[],"officeCode":"LDN"}`), &u))
		assert.NotNil(t, u.PhoneNumbers)
		assert.Empty(t, u.PhoneNumbers)
		assert.Equal(t, "LDN", u.OfficeCode())
	})
}
