package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCursor        = errors.New("invalid page cursor")
	ErrCursorSourceMismatch = errors.New("page cursor belongs to a different order source")
)

// Cursor is an upstream page_info token tagged with the source that issued it.
// Shopify cursors are only valid for the resource that produced them.
type Cursor struct {
	Source   OrderType
	PageInfo string
}

// String encodes the cursor as "<source>:<page_info>"
func (c Cursor) String() string {
	if c.PageInfo == "" {
		return ""
	}
	return string(c.Source) + ":" + c.PageInfo
}

// ParseCursor decodes a cursor produced by String. An empty token is the zero cursor.
func ParseCursor(token string) (Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, nil
	}
	source, pageInfo, ok := strings.Cut(token, ":")
	if !ok || pageInfo == "" {
		return Cursor{}, fmt.Errorf("%w: %q", ErrInvalidCursor, token)
	}
	t := OrderType(source)
	if !t.IsValid() {
		return Cursor{}, fmt.Errorf("%w: unknown source %q", ErrInvalidCursor, source)
	}
	return Cursor{Source: t, PageInfo: pageInfo}, nil
}

// For returns the page_info to send to the given source, rejecting cursors
// issued by the other one.
func (c Cursor) For(source OrderType) (string, error) {
	if c.PageInfo == "" {
		return "", nil
	}
	if c.Source != source {
		return "", fmt.Errorf("%w: cursor from %s orders used for %s orders", ErrCursorSourceMismatch, c.Source, source)
	}
	return c.PageInfo, nil
}
