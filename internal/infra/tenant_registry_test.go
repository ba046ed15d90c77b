package infra

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cogniseguros/internal/testutil"
	"cogniseguros/pkg/utils"
)

type countingOpener struct {
	t     *testing.T
	calls atomic.Int32
	delay time.Duration

	mu    sync.Mutex
	mocks map[string]sqlmock.Sqlmock
}

func newCountingOpener(t *testing.T, delay time.Duration) *countingOpener {
	return &countingOpener{t: t, delay: delay, mocks: map[string]sqlmock.Sqlmock{}}
}

func (o *countingOpener) Open(ctx context.Context, dbName string) (*gorm.DB, error) {
	o.calls.Add(1)
	time.Sleep(o.delay)

	db, mock := testutil.NewMockDB(o.t)
	mock.ExpectClose()

	o.mu.Lock()
	o.mocks[dbName] = mock
	o.mu.Unlock()
	return db, nil
}

func TestTenantRegistry_ConcurrentFirstAccessOpensOnePool(t *testing.T) {
	opener := newCountingOpener(t, 20*time.Millisecond)
	registry := NewTenantRegistry(opener.Open, 0, zap.NewNop())

	const n = 32
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		got   = make([]*gorm.DB, n)
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			got[i], errs[i] = registry.Get(context.Background(), "tenant_X")
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), opener.calls.Load())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, got[0], got[i])
	}
	assert.Equal(t, 1, registry.Len())
	require.NoError(t, registry.Close())
}

func TestTenantRegistry_ReusesPoolPerName(t *testing.T) {
	opener := newCountingOpener(t, 0)
	registry := NewTenantRegistry(opener.Open, 0, zap.NewNop())
	ctx := context.Background()

	a1, err := registry.Get(ctx, "cogniseguros_tenant_1")
	require.NoError(t, err)
	b, err := registry.Get(ctx, "cogniseguros_tenant_2")
	require.NoError(t, err)
	a2, err := registry.Get(ctx, "cogniseguros_tenant_1")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, int32(2), opener.calls.Load())
	assert.Equal(t, []string{"cogniseguros_tenant_1", "cogniseguros_tenant_2"}, registry.Names())
	require.NoError(t, registry.Close())
}

func TestTenantRegistry_OpenErrorIsNotCached(t *testing.T) {
	boom := errors.New("connection refused")
	var calls atomic.Int32
	registry := NewTenantRegistry(func(ctx context.Context, dbName string) (*gorm.DB, error) {
		calls.Add(1)
		return nil, boom
	}, 0, zap.NewNop())

	_, err := registry.Get(context.Background(), "tenant_a")
	assert.ErrorIs(t, err, boom)
	_, err = registry.Get(context.Background(), "tenant_a")
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, registry.Len())
}

func TestTenantRegistry_RejectsInvalidNames(t *testing.T) {
	registry := NewTenantRegistry(func(ctx context.Context, dbName string) (*gorm.DB, error) {
		t.Fatalf("opener must not be called for %q", dbName)
		return nil, nil
	}, 0, zap.NewNop())

	for _, name := range []string{"", "1tenant", "tenant-x", `tenant"; DROP`} {
		_, err := registry.Get(context.Background(), name)
		assert.ErrorIs(t, err, utils.ErrInvalidDatabaseName, name)
	}
}

func TestTenantRegistry_CloseClosesPoolsAndRejectsGet(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	opener := newCountingOpener(t, 0)
	registry := NewTenantRegistry(opener.Open, 0, zap.NewNop())

	_, err := registry.Get(context.Background(), "tenant_a")
	require.NoError(t, err)

	require.NoError(t, registry.Close())
	assert.NoError(t, opener.mocks["tenant_a"].ExpectationsWereMet())

	_, err = registry.Get(context.Background(), "tenant_a")
	assert.ErrorIs(t, err, ErrRegistryClosed)

	// idempotent
	assert.NoError(t, registry.Close())
}

func TestTenantRegistry_CanceledCallerDoesNotFailWaiters(t *testing.T) {
	started := make(chan struct{})
	var calls atomic.Int32
	registry := NewTenantRegistry(func(ctx context.Context, dbName string) (*gorm.DB, error) {
		calls.Add(1)
		close(started)
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		db, mock := testutil.NewMockDB(t)
		mock.ExpectClose()
		return db, nil
	}, time.Second, zap.NewNop())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := registry.Get(ctxA, "tenant_X")
		errA <- err
	}()

	<-started
	type result struct {
		db  *gorm.DB
		err error
	}
	resB := make(chan result, 1)
	go func() {
		db, err := registry.Get(context.Background(), "tenant_X")
		resB <- result{db, err}
	}()

	time.Sleep(10 * time.Millisecond)
	cancelA()

	assert.ErrorIs(t, <-errA, context.Canceled)
	b := <-resB
	require.NoError(t, b.err)
	assert.NotNil(t, b.db)

	db, err := registry.Get(context.Background(), "tenant_X")
	require.NoError(t, err)
	assert.Same(t, b.db, db)
	assert.Equal(t, int32(1), calls.Load())
	require.NoError(t, registry.Close())
}
