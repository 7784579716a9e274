package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldEq struct{ field, value string }

func (f fieldEq) ToConditions() []Criterion {
	return []Criterion{{Field: f.field, Op: OpEq, Value: f.value}}
}

type fieldIn struct {
	field  string
	values []string
}

func (f fieldIn) ToConditions() []Criterion {
	return []Criterion{{Field: f.field, Op: OpIn, Value: f.values}}
}

func TestPagination_Normalize(t *testing.T) {
	assert.Equal(t, Pagination{Limit: DefaultLimit}, Pagination{}.Normalize())
	assert.Equal(t, Pagination{Limit: MaxLimit, Offset: 0}, Pagination{Limit: 10_000, Offset: -3}.Normalize())
	assert.Equal(t, Pagination{Limit: 5, Offset: 10}, Pagination{Limit: 5, Offset: 10}.Normalize())
}

func TestWhere(t *testing.T) {
	// ARRANGE
	c := All{fieldEq{"meetup_id", "m-1"}, nil, fieldIn{"moderation_status", []string{"approved", "pending"}}}

	// ACT
	where, args, err := Where(c)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "WHERE meetup_id = ? AND moderation_status IN (?, ?)", where)
	assert.Equal(t, []interface{}{"m-1", "approved", "pending"}, args)
}

func TestWhere_EmptyInMatchesNothing(t *testing.T) {
	where, args, err := Where(fieldIn{"moderation_status", nil})

	require.NoError(t, err)
	assert.Equal(t, "WHERE 1 = 0", where)
	assert.Empty(t, args)
}

func TestWhere_NoCriteria(t *testing.T) {
	where, args, err := Where(nil)

	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Nil(t, args)
}
