package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mentorship-api/shared/auth"
	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
)

type contextKey struct{}

var UserClaimsKey = contextKey{}

// NewJWTMiddleware rejects requests that do not carry a valid bearer token and
// stores the parsed claims in the request context.
func NewJWTMiddleware(jwtAuth auth.JWTAuthenticator, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractAndValidateJWT(r, jwtAuth)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected unauthenticated request")
				httpx.WriteError(w, http.StatusUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserClaims(r.Context(), claims)))
		})
	}
}

// WithUserClaims returns a copy of ctx carrying claims.
func WithUserClaims(ctx context.Context, claims *auth.UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// UserClaimsFromContext returns the claims stored by NewJWTMiddleware.
func UserClaimsFromContext(ctx context.Context) (*auth.UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*auth.UserClaims)
	return claims, ok
}

func extractAndValidateJWT(r *http.Request, jwtAuth auth.JWTAuthenticator) (*auth.UserClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("invalid authorization header format")
	}

	claims, err := jwtAuth.ParseUserClaims(parts[1])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	return claims, nil
}
