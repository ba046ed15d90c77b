package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/internal/schema"
	"cogniseguros/pkg/utils"
)

type TenantPools interface {
	Get(ctx context.Context, dbName string) (*gorm.DB, error)
}

type DatabaseCreator interface {
	EnsureDatabase(ctx context.Context, dbName string) (bool, error)
}

type SchemaApplier interface {
	Ensure(ctx context.Context, db *gorm.DB, s schema.Schema) error
	ApplyScript(ctx context.Context, db *gorm.DB, script string) (int, error)
}

type TenantLister interface {
	FindByID(ctx context.Context, id int64) (*db_models.Account, error)
	ListTenantRefs(ctx context.Context) ([]db_models.TenantRef, error)
}

// Migration selects what a fan-out applies to each tenant. An empty SQL
// applies the declared tenant schema.
type Migration struct {
	SQL           string
	CreateMissing bool
	// Concurrency overrides the configured worker count when > 0.
	Concurrency int
}

type TenantResult struct {
	AccountID  int64
	Database   string
	Statements int
	Duration   time.Duration
	Err        error
}

func (r TenantResult) OK() bool { return r.Err == nil }

type MigrationReport struct {
	OK      int
	Failed  int
	Results []TenantResult
}

type TenantServiceInterface interface {
	DatabaseFor(ctx context.Context, accountID int64) (*gorm.DB, error)
	Provision(ctx context.Context, accountID int64) error
	MigrateTenant(ctx context.Context, accountID int64, m Migration) (TenantResult, error)
	MigrateAllTenants(ctx context.Context, m Migration) (*MigrationReport, error)
}

type TenantServiceConfig struct {
	Prefix      string
	AutoCreate  bool
	Concurrency int
	// ProvisionTimeout bounds the lazy provisioning shared by concurrent
	// first requests. Zero means no bound.
	ProvisionTimeout time.Duration
}

type TenantService struct {
	accounts TenantLister
	resolver *TenantResolver
	pools    TenantPools
	creator  DatabaseCreator
	applier  SchemaApplier
	cfg      TenantServiceConfig
	logger   *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	ready map[string]bool
}

func NewTenantService(
	accounts TenantLister,
	pools TenantPools,
	creator DatabaseCreator,
	applier SchemaApplier,
	cfg TenantServiceConfig,
	logger *zap.Logger,
) *TenantService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &TenantService{
		accounts: accounts,
		resolver: NewTenantResolver(accounts, cfg.Prefix),
		pools:    pools,
		creator:  creator,
		applier:  applier,
		cfg:      cfg,
		logger:   logger,
		ready:    make(map[string]bool),
	}
}

func (s *TenantService) isReady(dbName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready[dbName]
}

func (s *TenantService) markReady(dbName string) {
	s.mu.Lock()
	s.ready[dbName] = true
	s.mu.Unlock()
}

// DatabaseFor returns the pool of the account's tenant database. The first
// call per tenant in this process creates the database when allowed and
// ensures its schema; a failed attempt is retried on the next call. Blocked
// accounts and accounts that are no longer aseguradoras are refused.
func (s *TenantService) DatabaseFor(ctx context.Context, accountID int64) (*gorm.DB, error) {
	account, dbName, err := s.resolver.ResolveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsBlocked() {
		return nil, utils.ErrAccountBlocked
	}
	if account.Role != db_models.RoleAseguradora {
		return nil, utils.ErrNoTenant
	}
	if s.isReady(dbName) {
		return s.pools.Get(ctx, dbName)
	}

	// Provisioning is shared by every request waiting on dbName and must not
	// be rolled back because the first of them went away.
	ch := s.group.DoChan(dbName, func() (interface{}, error) {
		if s.isReady(dbName) {
			return s.pools.Get(ctx, dbName)
		}
		provisionCtx, cancel := utils.DetachedContext(ctx, s.cfg.ProvisionTimeout)
		defer cancel()
		db, _, err := s.ensure(provisionCtx, dbName, Migration{CreateMissing: s.cfg.AutoCreate})
		if err != nil {
			return nil, err
		}
		return db, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		s.logger.Error("Tenant database not available",
			zap.Int64("account_id", accountID),
			zap.String("database", dbName),
			zap.Error(res.Err))
		return nil, res.Err
	}
	return res.Val.(*gorm.DB), nil
}

// Provision creates the tenant database if needed and ensures its schema.
func (s *TenantService) Provision(ctx context.Context, accountID int64) error {
	_, err := s.MigrateTenant(ctx, accountID, Migration{CreateMissing: true})
	return err
}

// ensure runs one migration against dbName. Successful schema runs mark the
// tenant ready for DatabaseFor.
func (s *TenantService) ensure(ctx context.Context, dbName string, m Migration) (*gorm.DB, int, error) {
	if m.CreateMissing {
		created, err := s.creator.EnsureDatabase(ctx, dbName)
		if err != nil {
			return nil, 0, err
		}
		if created {
			s.logger.Info("Created tenant database", zap.String("database", dbName))
		}
	}

	db, err := s.pools.Get(ctx, dbName)
	if err != nil {
		return nil, 0, err
	}

	if m.SQL != "" {
		n, err := s.applier.ApplyScript(ctx, db, m.SQL)
		return db, n, err
	}

	tenant := schema.TenantSchema()
	if err := s.applier.Ensure(ctx, db, tenant); err != nil {
		return nil, 0, err
	}
	s.markReady(dbName)
	return db, len(tenant.Statements()), nil
}

func (s *TenantService) migrate(ctx context.Context, ref db_models.TenantRef, m Migration) TenantResult {
	res := TenantResult{AccountID: ref.ID, Database: s.resolver.NameFor(ref)}
	start := time.Now()
	_, res.Statements, res.Err = s.ensure(ctx, res.Database, m)
	res.Duration = time.Since(start)
	return res
}

// MigrateTenant applies m to a single tenant and surfaces its error.
func (s *TenantService) MigrateTenant(ctx context.Context, accountID int64, m Migration) (TenantResult, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return TenantResult{AccountID: accountID, Err: err}, err
	}
	if account == nil {
		return TenantResult{AccountID: accountID, Err: utils.ErrAccountNotFound}, utils.ErrAccountNotFound
	}

	res := s.migrate(ctx, db_models.TenantRef{ID: account.ID, Email: account.Email, TenantDB: account.TenantDB}, m)
	s.logResult(res)
	return res, res.Err
}

// MigrateAllTenants applies m to every aseguradora independently. A failing
// tenant never stops the batch; only failing to enumerate tenants is an
// error. Results are in account id order.
func (s *TenantService) MigrateAllTenants(ctx context.Context, m Migration) (*MigrationReport, error) {
	refs, err := s.accounts.ListTenantRefs(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.cfg.Concurrency
	if m.Concurrency > 0 {
		limit = m.Concurrency
	}

	results := make([]TenantResult, len(refs))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = TenantResult{AccountID: ref.ID, Database: s.resolver.NameFor(ref), Err: err}
				return nil
			}
			results[i] = s.migrate(ctx, ref, m)
			s.logResult(results[i])
			return nil
		})
	}
	_ = g.Wait()

	report := &MigrationReport{Results: results}
	for _, r := range results {
		if r.OK() {
			report.OK++
		} else {
			report.Failed++
		}
	}
	s.logger.Info("Tenant migration finished",
		zap.Int("tenants", len(results)),
		zap.Int("ok", report.OK),
		zap.Int("failed", report.Failed))
	return report, nil
}

func (s *TenantService) logResult(r TenantResult) {
	fields := []zap.Field{
		zap.Int64("account_id", r.AccountID),
		zap.String("database", r.Database),
		zap.Duration("took", r.Duration),
	}
	if r.Err != nil {
		fields = append(fields, zap.String("sqlstate", utils.SQLState(r.Err)), zap.Error(r.Err))
		if errors.Is(r.Err, utils.ErrTransientConnection) {
			s.logger.Warn("Tenant unreachable", fields...)
			return
		}
		s.logger.Error("Tenant migration failed", fields...)
		return
	}
	s.logger.Info("Tenant migrated", append(fields, zap.Int("statements", r.Statements))...)
}
