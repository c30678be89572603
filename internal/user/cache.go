package user

import (
	"context"
	"time"
)

// Cache holds serialized query results for read-heavy endpoints. A miss and
// an unavailable cache look the same to the service.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}
