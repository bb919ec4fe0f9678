package dto

import (
	"strconv"

	"artclub/internal/client"
)

// ProjectRequest форма проекта. id проекта передаётся только в пути запроса.
type ProjectRequest struct {
	Title       string  `json:"title" form:"title" validate:"required,max=255"`
	Description string  `json:"description" form:"description" validate:"required"`
	StartDate   string  `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date,omitempty" form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Members     []int64 `json:"members" form:"members"`
	Image       *Upload `json:"-" form:"-"`
}

func (r ProjectRequest) Body() any {
	if r.Members == nil {
		r.Members = []int64{}
	}
	if r.Image == nil {
		return r
	}
	m := client.NewMultipart().
		Set("title", r.Title).
		Set("description", r.Description).
		Set("start_date", r.StartDate)
	if r.EndDate != "" {
		m.Set("end_date", r.EndDate)
	}
	for _, id := range r.Members {
		m.Add("members", strconv.FormatInt(id, 10))
	}
	return attach(m, "image", r.Image)
}

type ProjectUpdateRequest struct {
	Description string  `json:"description" form:"description" validate:"required"`
	Image       *Upload `json:"-" form:"-"`
}

func (r ProjectUpdateRequest) Body() any {
	if r.Image == nil {
		return r
	}
	return attach(client.NewMultipart().Set("description", r.Description), "image", r.Image)
}
