package discovery

import (
	"context"
	"strings"
)

// URLFunc returns the base URL a client should call right now.
type URLFunc func(ctx context.Context) (string, error)

// StaticURL returns a URLFunc that always yields url.
func StaticURL(url string) URLFunc {
	url = strings.TrimRight(url, "/")
	return func(context.Context) (string, error) {
		return url, nil
	}
}

// Resolver returns a URLFunc that asks Consul for a healthy instance of name on
// every call, so instances that start or move after boot are picked up.
func (r *Registry) Resolver(name, scheme string) URLFunc {
	return func(ctx context.Context) (string, error) {
		return r.ResolveURL(ctx, name, scheme)
	}
}
