package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/internal/platform/config"
)

func TestOpenWithoutURL(t *testing.T) {
	db, err := Open(context.Background(), config.Database{})
	require.NoError(t, err)
	assert.Nil(t, db)
}
