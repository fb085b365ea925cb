// Package middleware содержит HTTP middleware шлюза витрины.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const tokenKey contextKey = "authToken"

// Auth извлекает bearer-токен из заголовка Authorization и кладёт его в
// контекст запроса. Токен непрозрачен для шлюза: он не проверяется локально,
// а передаётся бэкенду явным параметром в каждом вызове.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), tokenKey, strings.TrimSpace(token))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromContext извлекает bearer-токен пользователя из контекста запроса.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
