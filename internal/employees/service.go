package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/auth"
	"github.com/kiranapos/backend/pkg/config"
	"github.com/kiranapos/backend/pkg/db"
	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
	"github.com/kiranapos/backend/pkg/validate"
)

const minPasswordLength = 8

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionManager interface {
	Start(ctx context.Context, jti, employeeID string) error
	End(ctx context.Context, jti string) error
}

type loginLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// ServiceParams groups dependencies for the employee service.
type ServiceParams struct {
	Repo     *Repository
	DB       txRunner
	Sessions sessionManager
	Limiter  loginLimiter
	JWT      config.JWTConfig
	Auth     config.AuthConfig
	Now      func() time.Time
}

// Service exposes operator management and authentication.
type Service interface {
	Create(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error)
	Get(ctx context.Context, id string) (EmployeeDTO, error)
	List(ctx context.Context) ([]EmployeeDTO, error)
	Login(ctx context.Context, input LoginInput, remoteIP string) (LoginResult, error)
	Logout(ctx context.Context, jti string) error
	EnsureSeedAdmin(ctx context.Context) error
}

type service struct {
	repo     *Repository
	db       txRunner
	sessions sessionManager
	limiter  loginLimiter
	jwt      config.JWTConfig
	auth     config.AuthConfig
	now      func() time.Time
}

// NewService builds an employee service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee repo is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db runner is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	if params.Limiter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "login limiter is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt config is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		db:       params.DB,
		sessions: params.Sessions,
		limiter:  params.Limiter,
		jwt:      params.JWT,
		auth:     params.Auth,
		now:      now,
	}, nil
}

// Create registers a new operator with a bcrypt-hashed password.
func (s *service) Create(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error) {
	if err := validate.PersonName("employee name", input.Name); err != nil {
		return EmployeeDTO{}, err
	}
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return EmployeeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if len(input.Password) < minPasswordLength {
		return EmployeeDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	role, err := enums.ParseEmployeeRole(strings.ToLower(strings.TrimSpace(input.Role)))
	if err != nil {
		return EmployeeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "role must be admin or staff")
	}
	if err := validate.OptionalPhone("employee phone", input.Phone); err != nil {
		return EmployeeDTO{}, err
	}
	if err := validate.OptionalEmail("employee email", input.Email); err != nil {
		return EmployeeDTO{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	record := models.Employee{
		Name:         strings.TrimSpace(input.Name),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        optionalString(input.Phone),
		Email:        optionalString(input.Email),
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, &record)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "username") {
			return EmployeeDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "creating employee")
	}

	return toDTO(record), nil
}

// Get loads one operator.
func (s *service) Get(ctx context.Context, id string) (EmployeeDTO, error) {
	if strings.TrimSpace(id) == "" {
		return EmployeeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "employee not found")
		}
		return EmployeeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	return toDTO(*record), nil
}

// List returns all operators.
func (s *service) List(ctx context.Context) ([]EmployeeDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing employees")
	}
	dtos := make([]EmployeeDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

// Login verifies credentials, stamps last-login and issues a JWT backed by a
// redis session. Unknown username and wrong password return the same error.
func (s *service) Login(ctx context.Context, input LoginInput, remoteIP string) (LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" || input.Password == "" {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	if err := s.checkLoginRate(ctx, username, remoteIP); err != nil {
		return LoginResult{}, err
	}

	record, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
		}
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load employee")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(input.Password)); err != nil {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.jwt, now, auth.AccessTokenPayload{
		EmployeeID: record.ID,
		Username:   record.Username,
		Role:       record.Role,
	})
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}
	claims, err := auth.ParseAccessToken(s.jwt, token)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading minted token")
	}
	if err := s.sessions.Start(ctx, claims.ID, record.ID); err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "starting session")
	}

	if err := s.repo.TouchLastLogin(ctx, record.ID, now); err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "recording login time")
	}
	record.LastLoginAt = &now

	return LoginResult{Token: token, Employee: toDTO(*record)}, nil
}

// Logout revokes the session behind the token's JTI.
func (s *service) Logout(ctx context.Context, jti string) error {
	if err := s.sessions.End(ctx, jti); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ending session")
	}
	return nil
}

// EnsureSeedAdmin creates the configured admin account when the employees
// table is empty, so a fresh install can log in.
func (s *service) EnsureSeedAdmin(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "counting employees")
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.auth.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing seed password")
	}
	record := models.Employee{
		Name:         "Store Admin",
		Username:     strings.ToLower(strings.TrimSpace(s.auth.SeedAdminUsername)),
		PasswordHash: string(hash),
		Role:         enums.EmployeeRoleAdmin,
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, &record)
	})
}

func (s *service) checkLoginRate(ctx context.Context, username, remoteIP string) error {
	window := s.auth.LoginWindow
	if window <= 0 {
		return nil
	}
	if s.auth.LoginUsernameLimit > 0 {
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:user:"+username, int64(s.auth.LoginUsernameLimit), window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking login rate")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts for this username")
		}
	}
	if s.auth.LoginIPLimit > 0 && strings.TrimSpace(remoteIP) != "" {
		allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:ip:"+remoteIP, int64(s.auth.LoginIPLimit), window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking login rate")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts from this address")
		}
	}
	return nil
}

func toDTO(record models.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:          record.ID,
		Name:        record.Name,
		Username:    record.Username,
		Role:        record.Role,
		Phone:       record.Phone,
		Email:       record.Email,
		JoinedAt:    record.JoinedAt,
		LastLoginAt: record.LastLoginAt,
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
