package services

import (
	"context"
	"strconv"
	"strings"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/pkg/utils"
)

// TenantDatabaseName is the naming rule for tenant databases: a non-blank
// override wins, otherwise prefix followed by the account id.
func TenantDatabaseName(prefix string, accountID int64, override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	return prefix + strconv.FormatInt(accountID, 10)
}

type accountFinder interface {
	FindByID(ctx context.Context, id int64) (*db_models.Account, error)
}

type TenantResolver struct {
	accounts accountFinder
	prefix   string
}

func NewTenantResolver(accounts accountFinder, prefix string) *TenantResolver {
	return &TenantResolver{accounts: accounts, prefix: prefix}
}

// Resolve maps an account id to its tenant database name.
func (r *TenantResolver) Resolve(ctx context.Context, accountID int64) (string, error) {
	_, name, err := r.ResolveAccount(ctx, accountID)
	return name, err
}

// ResolveAccount is Resolve that also returns the loaded account.
func (r *TenantResolver) ResolveAccount(ctx context.Context, accountID int64) (*db_models.Account, string, error) {
	account, err := r.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		return nil, "", utils.ErrAccountNotFound
	}
	return account, TenantDatabaseName(r.prefix, account.ID, account.TenantOverride()), nil
}

func (r *TenantResolver) NameFor(ref db_models.TenantRef) string {
	override := ""
	if ref.TenantDB != nil {
		override = *ref.TenantDB
	}
	return TenantDatabaseName(r.prefix, ref.ID, override)
}
