package models

import "time"

// Project совместный проект участников клуба
type Project struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartDate   Date            `json:"start_date"`
	EndDate     Date            `json:"end_date"`
	Members     []int64         `json:"members"`
	Image       string          `json:"image,omitempty"`
	IsCompleted bool            `json:"is_completed"`
	Updates     []ProjectUpdate `json:"updates"`
	Creator     int64           `json:"creator"`
}

func (p Project) Key() int64 { return p.ID }

// ProjectUpdate запись о ходе работы над проектом
type ProjectUpdate struct {
	ID          int64     `json:"id,omitempty"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
