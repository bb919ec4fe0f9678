package client

import "context"

type tokenKey struct{}

// WithToken кладёт токен сессии в контекст запроса. Пустой токен ничего не добавляет.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// WithoutToken затирает токен, унаследованный от родительского контекста
func WithoutToken(ctx context.Context) context.Context {
	return context.WithValue(ctx, tokenKey{}, "")
}

func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
