package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cogniseguros/internal/models/db_models"
	"cogniseguros/internal/models/request_models"
	"cogniseguros/internal/models/response_models"
	"cogniseguros/internal/repositories"
	"cogniseguros/internal/schema"
	mem "cogniseguros/pkg/memcache"
	"cogniseguros/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error)
	CreateAdmin(ctx context.Context, email, name, password string) (*response_models.AccountResponse, error)
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, request request_models.VerifyCodeRequest) (*response_models.AccountLoginResponse, error)
	ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error
	GetAccount(ctx context.Context, id int64) (*response_models.AccountResponse, error)
	ListAccounts(ctx context.Context, page, pageSize int) ([]response_models.AccountResponse, int64, error)
	ChangeRole(ctx context.Context, id int64, role string) error
	Block(ctx context.Context, id int64, reason string) error
	Unblock(ctx context.Context, id int64) error
}

// TenantProvisioner prepares the tenant database of a new aseguradora.
type TenantProvisioner interface {
	Provision(ctx context.Context, accountID int64) error
}

type AccountServiceConfig struct {
	JWTSecret []byte
	JWTTTL    time.Duration
	TrialDays int
}

type AccountService struct {
	db          *gorm.DB
	accountRepo repositories.AccountRepository
	subRepo     repositories.SubscriptionRepository
	planRepo    repositories.IPlanRepository
	codes       mem.VerificationCodeStore
	mailer      IMailService
	tenants     TenantProvisioner
	cfg         AccountServiceConfig
	logger      *zap.Logger
	now         func() time.Time
}

func NewAccountService(
	db *gorm.DB,
	accountRepo repositories.AccountRepository,
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.IPlanRepository,
	codes mem.VerificationCodeStore,
	mailer IMailService,
	tenants TenantProvisioner,
	cfg AccountServiceConfig,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		db:          db,
		accountRepo: accountRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		codes:       codes,
		mailer:      mailer,
		tenants:     tenants,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AccountLoginResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, mem.NormalizeEmail(request.Email))
	if err != nil {
		return nil, err
	}
	if account == nil || account.PasswordHash == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(*account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	resp, err := a.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Login completed", zap.Int64("account_id", account.ID), zap.Duration("took", time.Since(startTime)))
	return resp, nil
}

// issueSession enforces the access rules and signs a token.
func (a *AccountService) issueSession(ctx context.Context, account *db_models.Account) (*response_models.AccountLoginResponse, error) {
	if account.IsBlocked() {
		return nil, utils.ErrAccountBlocked
	}

	hasActive := true
	if account.Role == db_models.RoleAseguradora {
		sub, err := a.subRepo.FindByAccountID(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		hasActive = sub != nil && sub.IsActive(a.now())
		if !hasActive && account.TrialExpired(a.now()) {
			return nil, utils.ErrTrialExpired
		}
	}

	token, err := utils.CreateToken(a.cfg.JWTSecret, account.ID, string(account.Role), a.cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	return &response_models.AccountLoginResponse{
		Token:                 token,
		AccountID:             account.ID,
		Role:                  string(account.Role),
		HasActiveSubscription: hasActive,
	}, nil
}

// CreateAccount signs up an aseguradora with a trial FREE subscription and
// provisions its tenant database. A provisioning failure does not undo the
// signup; the tenant is provisioned lazily on first use instead.
func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error) {
	email := mem.NormalizeEmail(request.Email)

	existingAccount, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	trialEnds := now.AddDate(0, 0, a.cfg.TrialDays)
	newAccount := &db_models.Account{
		Email:          email,
		PasswordHash:   &hashedPassword,
		Name:           strings.TrimSpace(request.DisplayName),
		Role:           db_models.RoleAseguradora,
		TrialStartedAt: &now,
		TrialExpiresAt: &trialEnds,
	}
	var sub *db_models.Subscription

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := a.accountRepo.WithTx(tx).Insert(ctx, newAccount); err != nil {
			if utils.IsUniqueViolation(err) {
				return utils.ErrEmailAlreadyExists
			}
			return err
		}

		plan, err := a.planRepo.FindByName(ctx, schema.PlanFree)
		if err != nil {
			return err
		}
		if plan == nil {
			return utils.ErrPlanNotFound
		}

		sub = &db_models.Subscription{
			AccountID:     newAccount.ID,
			PlanID:        &plan.ID,
			Plan:          plan,
			Status:        db_models.SubStatusTrial,
			StartsAt:      now,
			EndsAt:        &trialEnds,
			NextPaymentAt: &trialEnds,
		}
		return a.subRepo.WithTx(tx).Upsert(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	if err := a.tenants.Provision(ctx, newAccount.ID); err != nil {
		a.logger.Warn("Tenant provisioning deferred",
			zap.Int64("account_id", newAccount.ID), zap.Error(err))
	}
	if err := a.mailer.SendWelcome(newAccount.Email, newAccount.Name); err != nil {
		a.logger.Warn("Welcome mail failed",
			zap.Int64("account_id", newAccount.ID), zap.Error(err))
	}

	return toAccountResponse(newAccount, sub), nil
}

// CreateAdmin inserts an admin account. Admins have no tenant database.
func (a *AccountService) CreateAdmin(ctx context.Context, email, name, password string) (*response_models.AccountResponse, error) {
	email = mem.NormalizeEmail(email)
	existing, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	account := &db_models.Account{Email: email, Name: name, Role: db_models.RoleAdmin}
	if password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = &hash
	}
	if err := a.accountRepo.Insert(ctx, account); err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return toAccountResponse(account, nil), nil
}

// RequestCode always succeeds from the caller's point of view so the
// endpoint cannot be used to discover registered emails.
func (a *AccountService) RequestCode(ctx context.Context, email string) error {
	email = mem.NormalizeEmail(email)

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil || account.IsBlocked() {
		a.logger.Info("Verification code requested for unknown or blocked email")
		return nil
	}

	code, err := a.codes.Issue(email)
	if err != nil {
		return err
	}

	if err := a.mailer.SendVerificationCode(account.Email, code); err != nil {
		a.logger.Error("Failed to send verification code",
			zap.Int64("account_id", account.ID), zap.Error(err))
	}
	return nil
}

func (a *AccountService) VerifyCode(ctx context.Context, request request_models.VerifyCodeRequest) (*response_models.AccountLoginResponse, error) {
	email := mem.NormalizeEmail(request.Email)

	if outcome := a.codes.Verify(email, request.Code); outcome != mem.Valid {
		return nil, outcome.Err()
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}
	return a.issueSession(ctx, account)
}

func (a *AccountService) ResetPassword(ctx context.Context, request request_models.ResetPasswordRequest) error {
	email := mem.NormalizeEmail(request.Email)

	if outcome := a.codes.Verify(email, request.Code); outcome != mem.Valid {
		return outcome.Err()
	}

	account, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return utils.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(request.NewPassword)
	if err != nil {
		return err
	}
	return a.accountRepo.UpdatePassword(ctx, account.ID, hash)
}

func (a *AccountService) GetAccount(ctx context.Context, id int64) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	sub, err := a.subRepo.FindByAccountID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account, sub), nil
}

func (a *AccountService) ListAccounts(ctx context.Context, page, pageSize int) ([]response_models.AccountResponse, int64, error) {
	accounts, total, err := a.accountRepo.ListAccounts(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]response_models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, *toAccountResponse(&accounts[i], nil))
	}
	return out, total, nil
}

func (a *AccountService) ChangeRole(ctx context.Context, id int64, role string) error {
	r := db_models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return utils.ErrInvalidRole
	}
	return a.accountRepo.UpdateRole(ctx, id, r)
}

func (a *AccountService) Block(ctx context.Context, id int64, reason string) error {
	return a.accountRepo.SetBlocked(ctx, id, strings.TrimSpace(reason), a.now().UTC())
}

func (a *AccountService) Unblock(ctx context.Context, id int64) error {
	return a.accountRepo.ClearBlocked(ctx, id)
}

func toAccountResponse(account *db_models.Account, sub *db_models.Subscription) *response_models.AccountResponse {
	resp := &response_models.AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		Role:           string(account.Role),
		TenantDB:       account.TenantOverride(),
		TrialExpiresAt: account.TrialExpiresAt,
		BlockedAt:      account.BlockedAt,
		CreatedAt:      account.CreatedAt,
	}
	if account.BlockedReason != nil {
		resp.BlockedReason = *account.BlockedReason
	}
	if sub != nil {
		resp.Subscription = toSubscriptionResponse(sub)
	}
	return resp
}

func toSubscriptionResponse(sub *db_models.Subscription) *response_models.SubscriptionResponse {
	out := &response_models.SubscriptionResponse{
		AccountID:     sub.AccountID,
		Status:        string(sub.Status),
		StartsAt:      sub.StartsAt,
		EndsAt:        sub.EndsAt,
		NextPaymentAt: sub.NextPaymentAt,
	}
	if sub.Plan != nil {
		out.Plan = sub.Plan.Name
	}
	return out
}

var _ AccountServiceInterface = (*AccountService)(nil)
