package infra

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"cogniseguros/internal/config"
	"cogniseguros/pkg/utils"
)

var ErrRegistryClosed = errors.New("tenant registry closed")

// PoolOpener opens a new pool for the named database.
type PoolOpener func(ctx context.Context, dbName string) (*gorm.DB, error)

// PostgresOpener opens pools with the shared credentials in cfg.
func PostgresOpener(cfg config.DatabaseConfig) PoolOpener {
	return func(ctx context.Context, dbName string) (*gorm.DB, error) {
		return OpenPostgres(ctx, cfg, dbName)
	}
}

// TenantRegistry caches one pool per database name for the life of the
// process. Concurrent first access to a name opens exactly one pool.
type TenantRegistry struct {
	mu     sync.RWMutex
	pools  map[string]*gorm.DB
	closed bool

	group       singleflight.Group
	open        PoolOpener
	openTimeout time.Duration
	logger      *zap.Logger
}

// NewTenantRegistry returns an empty registry. openTimeout bounds a single
// pool open; zero leaves it to the opener.
func NewTenantRegistry(open PoolOpener, openTimeout time.Duration, logger *zap.Logger) *TenantRegistry {
	return &TenantRegistry{
		pools:       make(map[string]*gorm.DB),
		open:        open,
		openTimeout: openTimeout,
		logger:      logger,
	}
}

func (r *TenantRegistry) lookup(dbName string) (*gorm.DB, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, false, ErrRegistryClosed
	}
	db, ok := r.pools[dbName]
	return db, ok, nil
}

// Get returns the cached pool for dbName, opening it on first use.
func (r *TenantRegistry) Get(ctx context.Context, dbName string) (*gorm.DB, error) {
	if err := ValidateDatabaseName(dbName); err != nil {
		return nil, err
	}
	if db, ok, err := r.lookup(dbName); err != nil || ok {
		return db, err
	}

	// The open is shared by every caller waiting on dbName, so it runs
	// detached from ctx. A caller that gives up only stops waiting.
	ch := r.group.DoChan(dbName, func() (interface{}, error) {
		// another caller may have finished opening between lookup and DoChan
		if db, ok, err := r.lookup(dbName); err != nil || ok {
			return db, err
		}

		openCtx, cancel := utils.DetachedContext(ctx, r.openTimeout)
		defer cancel()
		db, err := r.open(openCtx, dbName)
		if err != nil {
			return nil, fmt.Errorf("open pool %s: %w", dbName, err)
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed {
			closePool(db)
			return nil, ErrRegistryClosed
		}
		r.pools[dbName] = db
		r.logger.Info("Opened tenant pool", zap.String("database", dbName))
		return db, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *TenantRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pools)
}

// Names returns the cached database names in sorted order.
func (r *TenantRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.pools))
	for name := range r.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every cached pool. Later calls to Get fail.
func (r *TenantRegistry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for name, db := range r.pools {
		if err := closePoolErr(db); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(r.pools, name)
	}
	r.logger.Info("Closed tenant pools")
	return errors.Join(errs...)
}

func closePool(db *gorm.DB) {
	_ = closePoolErr(db)
}

func closePoolErr(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
