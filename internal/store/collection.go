package store

import "slices"

type Entity interface {
	Key() int64
}

// Collection сущности по id плюс явный порядок последней загрузки
type Collection[T Entity] struct {
	byID  map[int64]T
	order []int64
}

func NewCollection[T Entity](items []T) *Collection[T] {
	c := &Collection[T]{}
	c.Reset(items)
	return c
}

// Reset заменяет содержимое целиком. При повторе id остаётся первая позиция и последнее значение.
func (c *Collection[T]) Reset(items []T) {
	c.byID = make(map[int64]T, len(items))
	c.order = make([]int64, 0, len(items))

	for _, item := range items {
		id := item.Key()
		if _, ok := c.byID[id]; !ok {
			c.order = append(c.order, id)
		}
		c.byID[id] = item
	}
}

// Add добавляет в конец; уже известный id заменяется на месте
func (c *Collection[T]) Add(item T) bool {
	id := item.Key()
	_, exists := c.byID[id]
	if !exists {
		c.order = append(c.order, id)
	}
	c.byID[id] = item
	return !exists
}

func (c *Collection[T]) Replace(item T) bool {
	id := item.Key()
	if _, ok := c.byID[id]; !ok {
		return false
	}
	c.byID[id] = item
	return true
}

func (c *Collection[T]) Patch(id int64, apply func(*T)) bool {
	item, ok := c.byID[id]
	if !ok {
		return false
	}
	apply(&item)
	c.byID[id] = item
	return true
}

func (c *Collection[T]) Remove(id int64) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return true
}

func (c *Collection[T]) Get(id int64) (T, bool) {
	item, ok := c.byID[id]
	return item, ok
}

func (c *Collection[T]) Len() int {
	return len(c.order)
}

// Items копия в порядке коллекции, никогда не nil
func (c *Collection[T]) Items() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
