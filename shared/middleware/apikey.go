package middleware

import (
	"net/http"

	"github.com/matthewhartstonge/argon2"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mentorship-api/shared/httpx"
)

// APIKeyHeader carries the service key callers present to the relays.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey accepts a request only when its X-API-Key verifies against the
// argon2 encoded hash. An empty hash disables the check.
func RequireAPIKey(encodedHash string, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if encodedHash == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "missing API key")
				return
			}

			ok, err := argon2.VerifyEncoded([]byte(key), []byte(encodedHash))
			if err != nil {
				logger.Error().Err(err).Msg("failed to verify API key")
				httpx.WriteError(w, http.StatusInternalServerError, "something went wrong")
				return
			}
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
