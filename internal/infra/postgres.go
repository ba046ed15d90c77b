package infra

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cogniseguros/internal/config"
	"cogniseguros/pkg/utils"
)

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateDatabaseName rejects names that cannot be used unquoted as a
// PostgreSQL identifier.
func ValidateDatabaseName(name string) error {
	if !databaseNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", utils.ErrInvalidDatabaseName, name)
	}
	return nil
}

// DSN builds a keyword/value connection string for dbName using the shared
// credentials in cfg.
func DSN(cfg config.DatabaseConfig, dbName string) string {
	parts := []string{
		"host=" + quoteDSNValue(cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + quoteDSNValue(cfg.User),
		"password=" + quoteDSNValue(cfg.Password),
		"dbname=" + quoteDSNValue(dbName),
		"sslmode=" + quoteDSNValue(cfg.SSLMode),
	}
	if secs := int(cfg.ConnectTimeout.Seconds()); secs > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", secs))
	}
	if ms := cfg.StatementTimeout.Milliseconds(); ms > 0 {
		parts = append(parts, fmt.Sprintf("statement_timeout=%d", ms))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// OpenPostgres opens a pooled gorm handle on dbName and checks it with a ping.
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig, dbName string) (*gorm.DB, error) {
	if err := ValidateDatabaseName(dbName); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg, dbName)), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, utils.WrapDBError("open "+dbName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, utils.WrapDBError("ping "+dbName, err)
	}
	return db, nil
}

// InitPostgresql opens the master database.
func InitPostgresql(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := OpenPostgres(ctx, cfg.Database, cfg.Database.MasterDB)
	if err != nil {
		logger.Error("Error connecting to master database",
			zap.String("database", cfg.Database.MasterDB), zap.Error(err))
		return nil, err
	}
	logger.Info("Connected to master database", zap.String("database", cfg.Database.MasterDB))
	return db, nil
}

func ClosePostgresql(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("Error getting database instance", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("Error closing database connection", zap.Error(err))
	} else {
		logger.Info("PostgreSQL database connection closed")
	}
}

// EnsureDatabase creates dbName through a maintenance connection when it does
// not exist yet. PostgreSQL has no CREATE DATABASE IF NOT EXISTS, so a
// concurrent creator is tolerated via SQLSTATE 42P04.
func EnsureDatabase(ctx context.Context, maintenance *gorm.DB, dbName string) (bool, error) {
	if err := ValidateDatabaseName(dbName); err != nil {
		return false, err
	}

	var exists bool
	err := maintenance.WithContext(ctx).
		Raw("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)", dbName).
		Scan(&exists).Error
	if err != nil {
		return false, utils.WrapDBError("lookup database "+dbName, err)
	}
	if exists {
		return false, nil
	}

	if err := maintenance.WithContext(ctx).Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName)).Error; err != nil {
		if utils.SQLState(err) == utils.SQLStateDuplicateDatabase {
			return false, nil
		}
		return false, utils.WrapDBError("create database "+dbName, err)
	}
	return true, nil
}

// DatabaseCreator creates tenant databases through its own pool on the
// maintenance database. The pool is opened on first use and is not one of
// the tenant pools.
type DatabaseCreator struct {
	open          PoolOpener
	maintenanceDB string

	mu   sync.Mutex
	pool *gorm.DB
}

func NewDatabaseCreator(open PoolOpener, maintenanceDB string) *DatabaseCreator {
	return &DatabaseCreator{open: open, maintenanceDB: maintenanceDB}
}

func (c *DatabaseCreator) maintenance(ctx context.Context) (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		return c.pool, nil
	}
	db, err := c.open(ctx, c.maintenanceDB)
	if err != nil {
		return nil, fmt.Errorf("open maintenance database %s: %w", c.maintenanceDB, err)
	}
	c.pool = db
	return db, nil
}

func (c *DatabaseCreator) EnsureDatabase(ctx context.Context, dbName string) (bool, error) {
	maintenance, err := c.maintenance(ctx)
	if err != nil {
		return false, err
	}
	return EnsureDatabase(ctx, maintenance, dbName)
}

// Close closes the maintenance pool if it was opened.
func (c *DatabaseCreator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool == nil {
		return nil
	}
	err := closePoolErr(c.pool)
	c.pool = nil
	return err
}
