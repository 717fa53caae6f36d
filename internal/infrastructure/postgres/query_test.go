package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vaccine-accounts/internal/domain/repository"
)

func TestBuildWhere(t *testing.T) {
	where, args, err := buildWhere(repository.Filter{}, 1)
	require.NoError(t, err)
	assert.Equal(t, "deleted_at IS NULL", where)
	assert.Empty(t, args)

	where, args, err = buildWhere(repository.Filter{"gender": "F", "age": 30, "vaccine_name": nil}, 3)
	require.NoError(t, err)
	assert.Equal(t, "deleted_at IS NULL AND age = $3 AND gender = $4 AND vaccine_name IS NULL", where)
	assert.Equal(t, []any{30, "F"}, args)
}

func TestBuildWhere_UnknownColumn(t *testing.T) {
	_, _, err := buildWhere(repository.Filter{"password": "x"}, 1)
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)

	_, _, err = buildWhere(repository.Filter{"1=1; --": "x"}, 1)
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)
}

func TestBuildSet(t *testing.T) {
	set, args, err := buildSet(repository.Changes{"name": "B", "password": "hash"})
	require.NoError(t, err)
	assert.Equal(t, "name = $1, password = $2, updated_at = now()", set)
	assert.Equal(t, []any{"B", "hash"}, args)

	_, _, err = buildSet(repository.Changes{"id": 4})
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)

	_, _, err = buildSet(repository.Changes{"deleted_at": nil})
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)
}
