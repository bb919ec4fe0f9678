package view

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Query параметры списка на экране: поиск, фильтры, сортировка, страница
type Query[T any] struct {
	Search string
	// Fields текстовые поля, по которым идёт поиск
	Fields  func(T) []string
	Filters []func(T) bool
	Compare func(a, b T) int
	Page    int
	PerPage int
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Apply всегда в одном порядке: поиск, фильтр, сортировка, страница.
// Исходный срез не меняется.
func Apply[T any](items []T, q Query[T]) Page[T] {
	out := Search(items, q.Search, q.Fields)
	out = Filter(out, q.Filters...)
	out = Sort(out, q.Compare)

	return Paginate(out, q.Page, q.PerPage)
}

// Search регистронезависимый поиск подстроки по полям fields
func Search[T any](items []T, text string, fields func(T) []string) []T {
	needle := strings.TrimSpace(text)
	if needle == "" || fields == nil {
		return slices.Clone(nonNil(items))
	}

	fold := cases.Fold()
	needle = fold.String(needle)

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(fold.String(f), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func Filter[T any](items []T, preds ...func(T) bool) []T {
	out := make([]T, 0, len(items))
outer:
	for _, item := range items {
		for _, p := range preds {
			if p != nil && !p(item) {
				continue outer
			}
		}
		out = append(out, item)
	}
	return out
}

// Sort устойчивая сортировка копии: при равенстве сохраняется порядок загрузки
func Sort[T any](items []T, cmp func(a, b T) int) []T {
	out := slices.Clone(nonNil(items))
	if cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

// Paginate режет список на страницы с номерами от 1. Номер за пределами
// прижимается к краю, perPage <= 0 отдаёт всё одной страницей.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	total := len(items)

	if perPage <= 0 {
		pages := 0
		if total > 0 {
			pages = 1
		}
		return Page[T]{
			Items:      slices.Clone(nonNil(items)),
			Page:       1,
			Total:      total,
			TotalPages: pages,
		}
	}

	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*perPage, total)
	end := start + min(perPage, total-start)

	return Page[T]{
		Items:      slices.Clone(nonNil(items)[start:end]),
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
