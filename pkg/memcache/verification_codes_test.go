package mem

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"cogniseguros/pkg/utils"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newStore(clock *fakeClock, codes ...string) *VerificationCodes {
	i := 0
	gen := func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
	return NewVerificationCodes(10*time.Minute, WithClock(clock.Now), WithGenerator(gen))
}

func TestVerify_MismatchThenValidThenConsumed(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := newStore(clock, "123456")

	code, err := store.Issue("x@y.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	assert.Equal(t, Mismatch, store.Verify("x@y.com", "654321"))

	clock.Advance(9 * time.Minute)
	assert.Equal(t, Valid, store.Verify("x@y.com", code))

	assert.Equal(t, NoPendingCode, store.Verify("x@y.com", code))
}

func TestVerify_ExpiredRemovesEntryEvenWhenCodeMatches(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	store := newStore(clock, "111111")

	code, err := store.Issue("a@b.com")
	require.NoError(t, err)

	clock.Advance(10*time.Minute + time.Second)
	assert.Equal(t, Expired, store.Verify("a@b.com", code))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, NoPendingCode, store.Verify("a@b.com", code))
}

func TestVerify_ExpiredWithWrongCode(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	store := newStore(clock, "111111")

	_, err := store.Issue("a@b.com")
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	assert.Equal(t, Expired, store.Verify("a@b.com", "999999"))
}

func TestIssue_OverwritesPendingCodeAndNormalizesEmail(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	store := newStore(clock, "111111", "222222")

	first, err := store.Issue("  User@Example.COM ")
	require.NoError(t, err)
	second, err := store.Issue("user@example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, Mismatch, store.Verify("USER@example.com", first))
	assert.Equal(t, Valid, store.Verify("user@example.com", second))
}

func TestIssue_GeneratorError(t *testing.T) {
	boom := errors.New("entropy")
	store := NewVerificationCodes(time.Minute, WithGenerator(func() (string, error) { return "", boom }))

	_, err := store.Issue("a@b.com")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())
}

func TestSweep(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	store := newStore(clock, "111111")

	_, _ = store.Issue("old@b.com")
	clock.Advance(6 * time.Minute)
	_, _ = store.Issue("new@b.com")
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestOutcomeErr(t *testing.T) {
	assert.NoError(t, Valid.Err())
	assert.ErrorIs(t, Expired.Err(), utils.ErrCodeExpired)
	assert.ErrorIs(t, Mismatch.Err(), utils.ErrCodeMismatch)
	assert.ErrorIs(t, NoPendingCode.Err(), utils.ErrNoPendingCode)
}

func TestJanitor_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewVerificationCodes(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := store.StartJanitor(ctx, time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	cancel()
	<-done
}
