package mocks

import (
	"encoding/json"

	mock "github.com/stretchr/testify/mock"
)

// Fill кладёт v в аргумент out под номером idx, как если бы его декодировал клиент
func Fill(idx int, v any) func(mock.Arguments) {
	return func(args mock.Arguments) {
		out := args.Get(idx)
		if out == nil {
			return
		}
		data, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			panic(err)
		}
	}
}

// Page ответ списка в конверте DRF
func Page(next string, results any) map[string]any {
	page := map[string]any{"results": results, "next": nil}
	if next != "" {
		page["next"] = next
	}
	return page
}
