package interfaces

import (
	"context"
	"net/http"
)

// Server is the HTTP front of the service. Routes are registered before
// ListenAndServe and Shutdown drains in-flight requests.
type Server interface {
	AddRoute(route string, handler http.Handler) error
	Handler() http.Handler
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}
