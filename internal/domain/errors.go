package domain

import "errors"

var (
	// ErrNotFound is a catalog 404 for a concrete resource.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the session cookie is missing or expired;
	// callers recover by redirecting to the login surface.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrCatalogUnavailable covers network failures and non-2xx responses
	// from the catalog; read paths recover by rendering an empty result.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrClassifierUnavailable means the sentiment endpoint was unreachable
	// or returned non-2xx; no comment is created.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)
