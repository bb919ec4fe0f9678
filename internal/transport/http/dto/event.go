package dto

import (
	"strconv"

	"artclub/internal/client"
)

type EventRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,max=255"`
	Description string  `json:"description" form:"description"`
	Location    string  `json:"location" form:"location" validate:"required"`
	Date        string  `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	Attendees   []int64 `json:"attendees" form:"attendees"`
	IsCompleted bool    `json:"is_completed" form:"is_completed"`
	Cover       *Upload `json:"-" form:"-"`
}

func (r EventRequest) Body() any {
	if r.Attendees == nil {
		r.Attendees = []int64{}
	}
	if r.Cover == nil {
		return r
	}
	m := client.NewMultipart().
		Set("title", r.Title).
		Set("description", r.Description).
		Set("location", r.Location).
		Set("date", r.Date).
		Set("is_completed", strconv.FormatBool(r.IsCompleted))
	for _, id := range r.Attendees {
		m.Add("attendees", strconv.FormatInt(id, 10))
	}
	return attach(m, "event_cover", r.Cover)
}

// EventPatch частичное изменение: отправляются только заданные поля
type EventPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Date        *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

type AttendeesRequest struct {
	Attendees []int64 `json:"attendees"`
}
