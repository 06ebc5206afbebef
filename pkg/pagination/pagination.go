// Package pagination implements opaque cursor paging over ordered slices.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 250
)

var (
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidPageSize  = errors.New("invalid_page_size")
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Cursor points at the last item of the previous page.
type Cursor struct {
	ID int64 `json:"id"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

// Size returns the effective page size. Zero selects DefaultPageSize.
func (p Pagination) Size() (int, error) {
	switch {
	case p.PageSize == 0:
		return DefaultPageSize, nil
	case p.PageSize < 1 || p.PageSize > MaxPageSize:
		return 0, ErrInvalidPageSize
	default:
		return p.PageSize, nil
	}
}

func EncodeCursor(c Cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeCursor(token string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidPageToken
	}
	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil || cursor.ID <= 0 {
		return nil, ErrInvalidPageToken
	}
	return &cursor, nil
}

// Page cuts one page out of items, which must already be in their final
// order. The page starts right after the item whose id matches the token's
// cursor; a token naming an id that is not in items is rejected.
func Page[T any](items []T, p Pagination, idOf func(T) int64) ([]T, PageInfo, error) {
	size, err := p.Size()
	if err != nil {
		return nil, PageInfo{}, err
	}

	start := 0
	if p.PageToken != "" {
		cursor, err := DecodeCursor(p.PageToken)
		if err != nil {
			return nil, PageInfo{}, err
		}
		start = -1
		for i, item := range items {
			if idOf(item) == cursor.ID {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, PageInfo{}, ErrInvalidPageToken
		}
	}

	end := start + size
	if end >= len(items) {
		return items[start:], PageInfo{}, nil
	}
	page := items[start:end]
	return page, PageInfo{
		NextPageToken: EncodeCursor(Cursor{ID: idOf(page[len(page)-1])}),
		HasMore:       true,
	}, nil
}
