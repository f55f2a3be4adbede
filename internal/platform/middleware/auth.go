package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"whitelist/internal/identity"
	"whitelist/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the requester it
// represents together with the token id.
type TokenValidator interface {
	Validate(ctx context.Context, tokenString string) (identity.Requester, string, error)
}

// Authenticate resolves the Authorization header into a requester on the
// context. A request without a token proceeds unauthenticated — the lifecycle
// engine treats a missing requester as "no capabilities", so rejecting here
// would duplicate an engine rule. A present-but-invalid token is rejected at
// this boundary because it signals a broken client, not a capability gap.
func Authenticate(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			requester, jti, err := validator.Validate(ctx, tokenString)
			if err != nil {
				logger.WarnContext(ctx, "invalid bearer token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"invalid or expired token"}`))
				return
			}

			ctx = requestcontext.WithRequester(ctx, requester)
			ctx = requestcontext.WithTokenID(ctx, jti)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
