package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	ErrTooManyPages = errors.New("pagination exceeded page limit")
	ErrBadBaseURL   = errors.New("invalid api base url")
)

type Kind string

const (
	KindNetwork      Kind = "network"
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
	KindUnknown      Kind = "unknown"
)

const maxMessageLen = 512

// APIError структурированная ошибка API: сетевой сбой или ответ не 2xx
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(strings.Join(e.Fields[k], ", "))
		}
		b.WriteString("]")
	}

	return b.String()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

func networkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: err.Error(),
		Err:     err,
	}
}

func kindOf(status int, hasFields bool) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 400 && hasFields:
		return KindValidation
	}
	return KindUnknown
}

// messageKeys ключи тела с общим сообщением, в порядке приоритета
var messageKeys = []string{"non_field_errors", "detail", "message", "error"}

// parseError разбирает тело ответа DRF: detail, non_field_errors или карту полей
func parseError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	trimmed := strings.TrimSpace(string(body))

	switch {
	case trimmed == "":
		apiErr.Message = http.StatusText(status)
	case strings.HasPrefix(trimmed, "{"):
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			apiErr.Message = truncate(trimmed)
			break
		}

		for key, raw := range obj {
			if slices.Contains(messageKeys, key) {
				continue
			}
			if apiErr.Fields == nil {
				apiErr.Fields = make(map[string][]string)
			}
			apiErr.Fields[key] = flatten(raw)
		}

		for _, key := range messageKeys {
			if raw, ok := obj[key]; ok {
				apiErr.Message = strings.Join(flatten(raw), " ")
				break
			}
		}
	case strings.HasPrefix(trimmed, "["):
		apiErr.Message = strings.Join(flatten([]byte(trimmed)), " ")
	default:
		apiErr.Message = truncate(trimmed)
	}

	if apiErr.Message == "" && len(apiErr.Fields) == 0 {
		apiErr.Message = http.StatusText(status)
	}

	apiErr.Kind = kindOf(status, len(apiErr.Fields) > 0)

	return apiErr
}

func flatten(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, flatten(item)...)
		}
		return out
	}

	return []string{truncate(string(raw))}
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := maxMessageLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
