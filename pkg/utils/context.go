package utils

import (
	"context"
	"time"
)

// DetachedContext keeps the values of parent but not its cancellation, so
// work shared by several callers outlives the one that started it. A
// positive timeout bounds it.
func DetachedContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
