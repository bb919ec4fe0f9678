package dto

import (
	"io"

	"artclub/internal/client"
)

// Upload файл изображения, приложенный к форме
type Upload struct {
	Name   string
	Reader io.Reader
}

func attach(m *client.Multipart, field string, u *Upload) *client.Multipart {
	if u != nil && u.Reader != nil {
		m.Attach(field, u.Name, u.Reader)
	}
	return m
}
