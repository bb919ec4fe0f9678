package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"artclub/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxPages = 100
)

// API контракт адаптера, от которого зависят сервисы
//
//go:generate go run github.com/vektra/mockery/v2@v2.53.3 --name=API
type API interface {
	Pager
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxPages   int
	RateLimit  float64
	Burst      int
	HTTPClient *http.Client
}

// Client единая точка выхода в REST API клуба
type Client struct {
	log      *slog.Logger
	baseURL  *url.URL
	http     *http.Client
	limiter  *rate.Limiter
	maxPages int
}

func New(log *slog.Logger, opts Options) (*Client, error) {
	const op = "client.New"

	base := strings.TrimSpace(opts.BaseURL)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrBadBaseURL, opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		log:      log,
		baseURL:  u,
		http:     httpClient,
		limiter:  limiter,
		maxPages: maxPages,
	}, nil
}

func (c *Client) MaxPages() int {
	return c.maxPages
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do выполняет запрос и декодирует тело ответа в out.
// Сетевые ошибки и ответы не 2xx возвращаются как *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	const op = "client.Do"

	log := c.log.With(
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
	)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(err)
		}
	}

	target, err := c.resolve(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := TokenFrom(ctx); ok {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		log.Warn("request failed", slog.String("error", err.Error()))
		return networkError(err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseError(resp.StatusCode, data)
		log.Debug("api error",
			slog.Int("status", resp.StatusCode),
			slog.String("kind", string(apiErr.Kind)),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{
			Kind:    KindUnknown,
			Status:  resp.StatusCode,
			Message: "cannot decode response: " + err.Error(),
			Err:     err,
		}
	}

	return nil
}

// resolve склеивает относительный путь с базовым URL, абсолютные ссылки (next) оставляет как есть.
// Путь от корня, уже начинающийся с пути базового URL, считается ссылкой от корня сервера.
func (c *Client) resolve(path string) (string, error) {
	if !strings.HasPrefix(path, "//") && !strings.HasPrefix(path, c.baseURL.Path) {
		path = strings.TrimPrefix(path, "/")
	}

	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
