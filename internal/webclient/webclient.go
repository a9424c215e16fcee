package webclient

import (
	"context"
)

// WebClient issues a single outbound HTTP request per call. Implementations
// must be safe for concurrent use.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
