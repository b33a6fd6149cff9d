package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
)

// DefaultLimit is the default number of items per page.
const DefaultLimit = 20

// MaxLimit is the maximum allowed items per page.
const MaxLimit = 100

// cursorFieldPosition marks cursors that hold a chronological position.
const cursorFieldPosition = "position"

// Cursor errors.
var (
	// ErrInvalidCursor is returned when cursor decoding fails.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first page request.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest represents pagination parameters from the request.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor" json:"cursor"`

	// Limit is the maximum number of items to return (1-100, default 20).
	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns the limit with defaults applied.
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}

	return min(p.Limit, MaxLimit)
}

// DecodeCursor decodes the cursor string into CursorData.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Total      int    `json:"total"`
}

// CursorData is what an opaque cursor decodes to.
type CursorData struct {
	Field string `json:"f"`
	Value string `json:"v"`
	ID    string `json:"id,omitempty"`
}

// EncodeCursor encodes cursor data to a base64 string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string. Returns ErrNoCursor for "".
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	jsonBytes, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(jsonBytes, &data); err != nil {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// NewestFirst pages through items stored oldest first, returning the newest
// page first. The cursor holds the chronological position of the last item
// served, so quotes appended between requests do not shift later pages.
func NewestFirst[T any](items []T, req *PaginationRequest) (*PaginatedResponse[T], error) {
	end := len(items)

	cursor, err := req.DecodeCursor()
	switch {
	case errors.Is(err, ErrNoCursor):
	case err != nil:
		return nil, err
	default:
		pos, convErr := strconv.Atoi(cursor.Value)
		if cursor.Field != cursorFieldPosition || convErr != nil || pos < 0 || pos > len(items) {
			return nil, ErrInvalidCursor
		}
		end = pos
	}

	start := max(end-req.GetLimit(), 0)

	page := make([]T, 0, end-start)
	for i := end - 1; i >= start; i-- {
		page = append(page, items[i])
	}

	resp := &PaginatedResponse[T]{
		Items:   page,
		HasMore: start > 0,
		Total:   len(items),
	}

	if resp.HasMore {
		resp.NextCursor = EncodeCursor(&CursorData{Field: cursorFieldPosition, Value: strconv.Itoa(start)})
	}

	return resp, nil
}
