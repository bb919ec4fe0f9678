package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	ID    int64
	Title string
}

func (i item) Key() int64 { return i.ID }

func titles(items []item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestCollection(t *testing.T) {
	tests := []struct {
		name   string
		start  []item
		change func(c *Collection[item]) bool
		want   []string
		ok     bool
	}{
		{
			name:   "add appends",
			start:  []item{{1, "a"}, {2, "b"}},
			change: func(c *Collection[item]) bool { return c.Add(item{3, "c"}) },
			want:   []string{"a", "b", "c"},
			ok:     true,
		},
		{
			name:   "add known id replaces in place",
			start:  []item{{1, "a"}, {2, "b"}},
			change: func(c *Collection[item]) bool { return c.Add(item{1, "A"}) },
			want:   []string{"A", "b"},
			ok:     false,
		},
		{
			name:   "replace known id",
			start:  []item{{1, "a"}, {2, "b"}, {3, "c"}},
			change: func(c *Collection[item]) bool { return c.Replace(item{2, "B"}) },
			want:   []string{"a", "B", "c"},
			ok:     true,
		},
		{
			name:   "replace unknown id is a no-op",
			start:  []item{{1, "a"}},
			change: func(c *Collection[item]) bool { return c.Replace(item{9, "z"}) },
			want:   []string{"a"},
			ok:     false,
		},
		{
			name:   "remove keeps relative order",
			start:  []item{{1, "a"}, {2, "b"}, {3, "c"}},
			change: func(c *Collection[item]) bool { return c.Remove(2) },
			want:   []string{"a", "c"},
			ok:     true,
		},
		{
			name:   "remove unknown id",
			start:  []item{{1, "a"}},
			change: func(c *Collection[item]) bool { return c.Remove(5) },
			want:   []string{"a"},
			ok:     false,
		},
		{
			name:  "patch touches one entity",
			start: []item{{1, "a"}, {2, "b"}},
			change: func(c *Collection[item]) bool {
				return c.Patch(2, func(i *item) { i.Title = "patched" })
			},
			want: []string{"a", "patched"},
			ok:   true,
		},
		{
			name:  "patch unknown id",
			start: []item{{1, "a"}},
			change: func(c *Collection[item]) bool {
				return c.Patch(7, func(i *item) { i.Title = "x" })
			},
			want: []string{"a"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollection(tt.start)
			assert.Equal(t, tt.ok, tt.change(c))
			assert.Equal(t, tt.want, titles(c.Items()))
			assert.Equal(t, len(tt.want), c.Len())
		})
	}
}

func TestCollection_ResetDuplicates(t *testing.T) {
	c := NewCollection([]item{{1, "a"}, {2, "b"}, {1, "a2"}})

	assert.Equal(t, []string{"a2", "b"}, titles(c.Items()))
}

func TestCollection_ItemsNeverNil(t *testing.T) {
	c := NewCollection[item](nil)

	assert.NotNil(t, c.Items())
	assert.Empty(t, c.Items())
}

func TestCollection_ItemsIsCopy(t *testing.T) {
	c := NewCollection([]item{{1, "a"}})

	got := c.Items()
	got[0].Title = "mutated"

	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v.Title)
}
