package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Pager то, что нужно Drain от клиента
type Pager interface {
	Get(ctx context.Context, path string, out any) error
	MaxPages() int
}

type page[T any] struct {
	Results []T     `json:"results"`
	Next    *string `json:"next"`
}

// Drain проходит по всем страницам списка, следуя за next, и склеивает results
// в порядке сервера. Голый JSON-массив считается единственной страницей.
func Drain[T any](ctx context.Context, c Pager, path string) ([]T, error) {
	const op = "client.Drain"

	items := make([]T, 0)
	next := path
	limit := c.MaxPages()

	for pages := 0; next != ""; pages++ {
		if pages >= limit {
			return nil, fmt.Errorf("%s: %w (%d)", op, ErrTooManyPages, limit)
		}

		var raw json.RawMessage
		if err := c.Get(ctx, next, &raw); err != nil {
			return nil, err
		}

		results, nextURL, err := decodePage[T](raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		items = append(items, results...)
		next = nextURL
	}

	return items, nil
}

func decodePage[T any](raw json.RawMessage) ([]T, string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, "", nil
	}

	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, "", err
		}
		return list, "", nil
	}

	var p page[T]
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, "", err
	}

	if p.Next == nil {
		return p.Results, "", nil
	}
	return p.Results, *p.Next, nil
}

// WithQuery добавляет фильтры к пути списка
func WithQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
