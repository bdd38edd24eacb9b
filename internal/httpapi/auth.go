package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyOwner ctxKey = "owner"

// requireOwner gates the API surface behind an authenticated actor. With a
// secret configured, the Authorization bearer token must be a valid HS256
// JWT whose sub claim is the owner UUID. Without one (dev and tests) the
// X-Owner-ID header names the actor. Either way, handlers downstream can
// rely on a non-nil owner in the request context.
func requireOwner(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, ok := resolveOwner(r, secret)
			if !ok || owner == uuid.Nil {
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyOwner, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveOwner(r *http.Request, secret string) (uuid.UUID, bool) {
	if secret == "" {
		id, err := uuid.Parse(strings.TrimSpace(r.Header.Get("X-Owner-ID")))
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	}
	raw, ok := parseBearerToken(r)
	if !ok {
		return uuid.Nil, false
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return uuid.Nil, false
	}
	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func parseBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", false
	}
	return strings.TrimSpace(h[len("Bearer "):]), true
}

// ownerFrom returns the authenticated owner set by requireOwner.
func ownerFrom(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(ctxKeyOwner).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
