package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/pkg/utils"
)

type AccountRepository interface {
	WithTx(tx *gorm.DB) AccountRepository
	Insert(ctx context.Context, account *db_models.Account) error
	FindByID(ctx context.Context, id int64) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	ListAccounts(ctx context.Context, page, pageSize int) ([]db_models.Account, int64, error)
	ListTenantRefs(ctx context.Context) ([]db_models.TenantRef, error)
	UpdateRole(ctx context.Context, id int64, role db_models.Role) error
	SetBlocked(ctx context.Context, id int64, reason string, at time.Time) error
	ClearBlocked(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) WithTx(tx *gorm.DB) AccountRepository {
	return &accountRepository{db: tx}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return utils.WrapDBError("insert account", a.db.WithContext(ctx).Create(account).Error)
}

func (a *accountRepository) FindByID(ctx context.Context, id int64) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.WrapDBError("find account", err)
	}

	return &account, nil
}

// FindByEmail matches case-insensitively, like the unique index on lower(email).
func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "lower(email) = lower(?)", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, utils.WrapDBError("find account by email", err)
	}

	return &account, nil
}

func (a *accountRepository) ListAccounts(ctx context.Context, page, pageSize int) ([]db_models.Account, int64, error) {
	if page < 1 {
		return nil, 0, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 200 {
		return nil, 0, utils.ErrInvalidPageSize
	}

	var total int64
	if err := a.db.WithContext(ctx).Model(&db_models.Account{}).Count(&total).Error; err != nil {
		return nil, 0, utils.WrapDBError("count accounts", err)
	}

	var accounts []db_models.Account
	err := a.db.WithContext(ctx).
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, utils.WrapDBError("list accounts", err)
	}
	return accounts, total, nil
}

// ListTenantRefs returns every aseguradora in id order.
func (a *accountRepository) ListTenantRefs(ctx context.Context) ([]db_models.TenantRef, error) {
	var refs []db_models.TenantRef
	err := a.db.WithContext(ctx).
		Raw("SELECT id, email, tenant_db FROM usuarios WHERE role = ? ORDER BY id", db_models.RoleAseguradora).
		Scan(&refs).Error
	if err != nil {
		return nil, utils.WrapDBError("list tenants", err)
	}
	return refs, nil
}

func (a *accountRepository) update(ctx context.Context, op string, id int64, values map[string]any) error {
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return utils.WrapDBError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

func (a *accountRepository) UpdateRole(ctx context.Context, id int64, role db_models.Role) error {
	return a.update(ctx, "update role", id, map[string]any{"role": role})
}

func (a *accountRepository) SetBlocked(ctx context.Context, id int64, reason string, at time.Time) error {
	var r *string
	if reason != "" {
		r = &reason
	}
	return a.update(ctx, "block account", id, map[string]any{"blocked_at": at, "blocked_reason": r})
}

func (a *accountRepository) ClearBlocked(ctx context.Context, id int64) error {
	return a.update(ctx, "unblock account", id, map[string]any{"blocked_at": nil, "blocked_reason": nil})
}

func (a *accountRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return a.update(ctx, "update password", id, map[string]any{"password_hash": hash})
}
