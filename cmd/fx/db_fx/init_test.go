package db_fx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectContext(t *testing.T) {
	for _, tc := range []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"configured", 3 * time.Second, 6 * time.Second},
		{"zero falls back", 0, 2 * defaultConnectTimeout},
		{"negative falls back", -time.Second, 2 * defaultConnectTimeout},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := connectContext(tc.timeout)
			defer cancel()

			require.NoError(t, ctx.Err())
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(tc.want), deadline, time.Second)
		})
	}
}
