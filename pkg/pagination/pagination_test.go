package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func identity(v int64) int64 { return v }

func TestPageWalksAllItems(t *testing.T) {
	items := ids(7)
	var (
		seen  []int64
		token string
	)
	for {
		page, info, err := Page(items, Pagination{PageSize: 3, PageToken: token}, identity)
		require.NoError(t, err)
		seen = append(seen, page...)
		if !info.HasMore {
			assert.Empty(t, info.NextPageToken)
			break
		}
		token = info.NextPageToken
	}
	assert.Equal(t, items, seen)
}

func TestPageDefaultsAndLimits(t *testing.T) {
	page, info, err := Page(ids(3), Pagination{}, identity)
	require.NoError(t, err)
	assert.Len(t, page, 3)
	assert.False(t, info.HasMore)

	_, _, err = Page(ids(3), Pagination{PageSize: MaxPageSize + 1}, identity)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	_, _, err = Page(ids(3), Pagination{PageSize: -1}, identity)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	page, _, err = Page([]int64{}, Pagination{}, identity)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestPageRejectsBadTokens(t *testing.T) {
	_, _, err := Page(ids(3), Pagination{PageToken: "%%%"}, identity)
	assert.ErrorIs(t, err, ErrInvalidPageToken)

	_, _, err = Page(ids(3), Pagination{PageToken: EncodeCursor(Cursor{ID: 99})}, identity)
	assert.ErrorIs(t, err, ErrInvalidPageToken)

	cursor, err := DecodeCursor(EncodeCursor(Cursor{ID: 4}))
	require.NoError(t, err)
	assert.Equal(t, int64(4), cursor.ID)
}
