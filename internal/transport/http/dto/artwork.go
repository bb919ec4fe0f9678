package dto

import (
	"net/url"
	"strconv"

	"artclub/internal/client"
	"artclub/internal/domain/models"
)

// ArtworkRequest форма загрузки или правки работы
type ArtworkRequest struct {
	Title       string          `json:"title" form:"title" validate:"required,max=255"`
	Description string          `json:"description" form:"description"`
	Category    models.Category `json:"category" form:"category" validate:"required,oneof=sketch canvas wallart digital photography"`
	Image       *Upload         `json:"-" form:"-"`
}

// Body JSON без изображения, multipart с ним
func (r ArtworkRequest) Body() any {
	if r.Image == nil {
		return r
	}
	m := client.NewMultipart().
		Set("title", r.Title).
		Set("description", r.Description).
		Set("category", string(r.Category))
	return attach(m, "image", r.Image)
}

type RejectArtworkRequest struct {
	Feedback string `json:"feedback" form:"feedback"`
}

// ArtworkFilters фильтры списка, которые понимает сервер
type ArtworkFilters struct {
	Category models.Category       `query:"category"`
	Status   models.ApprovalStatus `query:"approval_status"`
	ArtistID int64                 `query:"artist"`
}

func (f ArtworkFilters) Values() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Status != "" {
		q.Set("approval_status", string(f.Status))
	}
	if f.ArtistID != 0 {
		q.Set("artist", strconv.FormatInt(f.ArtistID, 10))
	}
	return q
}
