package jwt

import (
	"context"
	"net/http"
	"strings"

	"dcg/internal/pkg/errs"
	"dcg/internal/pkg/logx"
	"dcg/internal/pkg/resp"
)

// contextKey is a private type for context keys, preventing collisions with other packages.
type contextKey string

const (
	// ContextAuthPayloadKey is the key used to store the parsed Payload (session identity) in the request context.
	ContextAuthPayloadKey contextKey = "auth_payload"
)

// IdentityExtractorMiddleware attempts to extract and validate a JWT from the
// Authorization header. It injects the Payload into the context upon success.
// It does NOT interrupt the request on failure or missing token; the caller is
// simply treated as anonymous.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				next.ServeHTTP(w, r)
				return
			}
			tokenString := parts[1]

			payload, err := ParseToken(tokenString, secretKey)

			if err != nil {
				// Token exists but is invalid (e.g., expired, signed by a
				// previous boot). Treat the caller as anonymous and continue.
				logx.Warn("Invalid or expired JWT provided, treating as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware that rejects requests whose session is
// missing (401) or whose role does not match (403). It must be mounted below
// IdentityExtractorMiddleware.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload := GetPayloadFromContext(r)
			if payload == nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			if payload.Role != role {
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetPayloadFromContext safely extracts the authenticated Payload from the request context.
// In contexts where IdentityExtractorMiddleware is used, a nil return means the caller is anonymous.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
