package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/pkg/crypto"
	"github.com/hirepath/hirepath/pkg/metrics"
)

// ErrInvalidCredentials is returned for unknown emails, wrong passwords, and
// deactivated accounts alike so callers cannot probe which one failed.
var ErrInvalidCredentials = errors.New("user service: invalid credentials")

// CreateUserInput captures the attributes of a new account.
type CreateUserInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Phone          string
	Role           models.Role
	OrganizationID *string
}

// UpdateUserInput carries optional account updates. Nil fields are left
// untouched.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Role      *models.Role
	IsActive  *bool
}

// UserListOptions controls pagination and filtering of account listings.
type UserListOptions struct {
	Page     int
	PageSize int
	Role     models.Role
	Search   string
}

// UserService manages accounts within an organization's seat quota.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// Create registers a new account. Organization members count against the
// tenant's max_users quota; the check and the insert share one transaction.
func (s *UserService) Create(ctx context.Context, scope AccessScope, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, errors.New("user service: email is required")
	}
	if len(input.Password) < 8 {
		return nil, errors.New("user service: password must be at least 8 characters")
	}

	role := input.Role
	if role == "" {
		role = models.RoleRecruiter
	}
	if !role.Valid() {
		return nil, fmt.Errorf("user service: unknown role %q", role)
	}
	if role == models.RolePlatformAdmin && !scope.IsPlatformAdmin() {
		return nil, errors.New("user service: only platform admins may create platform admins")
	}

	orgID := input.OrganizationID
	if !scope.IsPlatformAdmin() {
		id := scope.OrganizationID
		orgID = &id
	}
	if role != models.RolePlatformAdmin && (orgID == nil || *orgID == "") {
		return nil, errors.New("user service: organization is required for this role")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := &models.User{
		Email:          email,
		Password:       hashed,
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Phone:          strings.TrimSpace(input.Phone),
		Role:           role,
		IsActive:       true,
		OrganizationID: orgID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if orgID != nil && *orgID != "" {
			var org models.Organization
			if err := tx.First(&org, "id = ?", *orgID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOrganizationNotFound
				}
				return fmt.Errorf("user service: load organization: %w", err)
			}

			var seats int64
			if err := tx.Model(&models.User{}).
				Where("organization_id = ?", *orgID).
				Count(&seats).Error; err != nil {
				return fmt.Errorf("user service: count seats: %w", err)
			}
			if seats >= int64(org.MaxUsers) {
				return ErrPlanLimitReached
			}
		}

		if err := tx.Create(user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("user service: email %q already registered", email)
			}
			return fmt.Errorf("user service: create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials and records the login.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !user.IsActive || !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).
		Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("user service: record login: %w", err)
	}
	user.LastLoginAt = &now

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &user, nil
}

// GetByID loads an account visible to the caller.
func (s *UserService) GetByID(ctx context.Context, scope AccessScope, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.scoped(s.db.WithContext(ctx), scope).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// List returns accounts within the caller's organization.
func (s *UserService) List(ctx context.Context, scope AccessScope, opts UserListOptions) ([]models.User, int64, error) {
	ctx = ensureContext(ctx)

	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := s.scoped(s.db.WithContext(ctx).Model(&models.User{}), scope)
	if opts.Role != "" {
		query = query.Where("role = ?", opts.Role)
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: count users: %w", err)
	}

	var users []models.User
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: list users: %w", err)
	}

	return users, total, nil
}

// Update applies partial updates. Role and activation changes require an
// admin caller.
func (s *UserService) Update(ctx context.Context, scope AccessScope, id string, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, fmt.Errorf("user service: unknown role %q", *input.Role)
		}
		if *input.Role == models.RolePlatformAdmin && !scope.IsPlatformAdmin() {
			return nil, errors.New("user service: only platform admins may grant platform admin")
		}
		updates["role"] = *input.Role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("user service: update user: %w", err)
	}

	return s.GetByID(ctx, scope, id)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, scope AccessScope, id, current, next string) error {
	ctx = ensureContext(ctx)

	user, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if !crypto.VerifyPassword(user.Password, current) {
		return ErrInvalidCredentials
	}
	if len(next) < 8 {
		return errors.New("user service: password must be at least 8 characters")
	}

	hashed, err := crypto.HashPassword(next)
	if err != nil {
		return fmt.Errorf("user service: hash password: %w", err)
	}

	return s.db.WithContext(ctx).Model(user).Update("password", hashed).Error
}

func (s *UserService) scoped(db *gorm.DB, scope AccessScope) *gorm.DB {
	if scope.IsPlatformAdmin() {
		return db
	}
	return db.Where("organization_id = ?", scope.OrganizationID)
}
