package utilities

import (
	"context"
	"net/http"
)

var defaultHeadersToForward = []string{
	"Authorization",
	"User-Agent",
	"X-Request-ID",
	"X-Forwarded-For",
	"X-Forwarded-Host",
	"X-Forwarded-Proto",
	"X-Real-IP",
}

type forwardedHeadersKey struct{}

// ForwardHeaders is a middleware that captures inbound headers so outbound
// relay calls made while serving the request can carry them.
func ForwardHeaders(headersToForward ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithForwardedHeaders(r.Context(), r.Header, headersToForward)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithForwardedHeaders returns a context holding the selected headers of src.
// The default set is always included; duplicates are ignored.
func WithForwardedHeaders(ctx context.Context, src http.Header, headersToForward []string) context.Context {
	allHeaders := make([]string, len(defaultHeadersToForward))
	copy(allHeaders, defaultHeadersToForward)
	allHeaders = append(allHeaders, headersToForward...)

	forwarded := make(http.Header)
	seen := make(map[string]bool)
	for _, header := range allHeaders {
		canonical := http.CanonicalHeaderKey(header)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		if values := src.Values(canonical); len(values) > 0 {
			forwarded[canonical] = append([]string(nil), values...)
		}
	}

	return context.WithValue(ctx, forwardedHeadersKey{}, forwarded)
}

// ApplyForwardedHeaders copies the captured headers onto an outbound request
// without overriding headers the caller already set.
func ApplyForwardedHeaders(ctx context.Context, req *http.Request) {
	forwarded, ok := ctx.Value(forwardedHeadersKey{}).(http.Header)
	if !ok {
		return
	}

	for key, values := range forwarded {
		if req.Header.Get(key) != "" {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
}
