package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Category string

const (
	CategorySketch      Category = "sketch"
	CategoryCanvas      Category = "canvas"
	CategoryWallArt     Category = "wallart"
	CategoryDigital     Category = "digital"
	CategoryPhotography Category = "photography"
)

// Categories перечисляет категории в порядке, в котором их показывает форма
var Categories = []Category{
	CategorySketch,
	CategoryCanvas,
	CategoryWallArt,
	CategoryDigital,
	CategoryPhotography,
}

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Artwork работа участника клуба в том виде, в котором её отдаёт API
type Artwork struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       Category       `json:"category"`
	Image          string         `json:"image"`
	Artist         ArtistRef      `json:"artist"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	Feedback       string         `json:"feedback,omitempty"`
	SubmissionDate time.Time      `json:"submission_date"`
	LikesCount     int            `json:"likes_count"`
	IsLiked        bool           `json:"is_liked"`
}

func (a Artwork) Key() int64 { return a.ID }

// ArtistRef ссылка на автора. API отдаёт либо голый id, либо вложенный объект.
type ArtistRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

func (r *ArtistRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = ArtistRef{}
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ArtistRef{ID: id}
		return nil
	}

	var obj struct {
		ID        int64  `json:"id"`
		PK        int64  `json:"pk"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("artist: %w", err)
	}

	r.ID = obj.ID
	if r.ID == 0 {
		r.ID = obj.PK
	}
	r.FirstName = obj.FirstName
	r.LastName = obj.LastName
	r.Email = obj.Email

	return nil
}

// Embedded сообщает, пришла ли вместе с id сводка об авторе
func (r ArtistRef) Embedded() bool {
	return r.FirstName != "" || r.LastName != "" || r.Email != ""
}
