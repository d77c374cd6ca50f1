// Package auth guards routes with service bearer tokens.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	jwttoken "trustgate/internal/jwt_token"
	dErrors "trustgate/pkg/domain-errors"
	"trustgate/pkg/platform/httputil"
	"trustgate/pkg/requestcontext"
)

// TokenValidator validates a raw bearer token.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireScope rejects requests without a valid token carrying scope and
// stores the caller name in the request context.
func RequireScope(validator TokenValidator, scope string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, err)
				return
			}
			if !claims.HasScope(scope) {
				logger.WarnContext(ctx, "forbidden - missing scope",
					"caller", claims.Caller,
					"scope", scope,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "token lacks scope "+scope))
				return
			}

			ctx = requestcontext.WithCaller(ctx, claims.Caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
