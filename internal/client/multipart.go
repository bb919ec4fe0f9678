package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"sort"
)

// File вложение multipart-запроса
type File struct {
	Field  string
	Name   string
	Reader io.Reader
}

// Multipart тело запроса с файлом. Используется вместо JSON, когда приложено изображение.
type Multipart struct {
	Fields url.Values
	Files  []File
}

func NewMultipart() *Multipart {
	return &Multipart{Fields: url.Values{}}
}

func (m *Multipart) Set(key, value string) *Multipart {
	m.Fields.Set(key, value)
	return m
}

func (m *Multipart) Add(key, value string) *Multipart {
	m.Fields.Add(key, value)
	return m
}

func (m *Multipart) Attach(field, name string, r io.Reader) *Multipart {
	m.Files = append(m.Files, File{Field: field, Name: name, Reader: r})
	return m
}

func (m *Multipart) encode() (io.Reader, string, error) {
	const op = "client.Multipart.encode"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range m.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return &buf, w.FormDataContentType(), nil
}
