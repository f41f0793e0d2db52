package ports

import "context"

// TransportPort is the raw HTTP capability the repository adapters are
// built on. Paths are relative to the transport's base URL; an empty path
// addresses the base URL itself.
type TransportPort interface {
	Get(ctx context.Context, path string) (int, []byte, error)
	Post(ctx context.Context, path string, body []byte) (int, []byte, error)
	BaseURL() string
}
