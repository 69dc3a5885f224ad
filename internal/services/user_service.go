package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lofohq/lofo-server/internal/models"
	apperrors "github.com/lofohq/lofo-server/pkg/errors"
)

// RegisterInput captures the signup form.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	FathersName string
	Age         string
	City        string
	Phone       string
	Avatar      string
}

// UpdateProfileInput carries editable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateProfileInput struct {
	Name        *string
	FathersName *string
	Age         *string
	City        *string
	Phone       *string
	Avatar      *string
}

// UserService owns account lifecycle: registration, credential checks,
// profile edits and admin moderation toggles.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// Register creates an account with a bcrypt-hashed password. Email addresses
// are stored lowercased so lookups are case-insensitive.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewBadRequest("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := models.User{
		Name:        strings.TrimSpace(input.Name),
		Email:       email,
		Password:    string(hash),
		FathersName: strings.TrimSpace(input.FathersName),
		Age:         strings.TrimSpace(input.Age),
		City:        strings.TrimSpace(input.City),
		Phone:       strings.TrimSpace(input.Phone),
		Avatar:      strings.TrimSpace(input.Avatar),
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies credentials. Blocked accounts are rejected even with
// a correct password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, apperrors.ErrAccountBlocked
	}
	return &user, nil
}

// Get loads one user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile edits the caller's own profile. Changing the home city takes
// effect on the next alert computation; no stored alert state moves with it.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	assign := func(column string, value *string) {
		if value != nil {
			updates[column] = strings.TrimSpace(*value)
		}
	}
	assign("name", input.Name)
	assign("fathers_name", input.FathersName)
	assign("age", input.Age)
	assign("city", input.City)
	assign("phone", input.Phone)
	assign("avatar", input.Avatar)

	if name, ok := updates["name"]; ok && name == "" {
		return nil, apperrors.NewBadRequest("name cannot be empty")
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("user service: update profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	ctx = ensureContext(ctx)

	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return apperrors.ErrInvalidCredentials
	}
	if len(next) < 8 {
		return apperrors.NewBadRequest("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("user service: hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("user service: update password: %w", err)
	}
	return nil
}

// SetBlocked toggles the moderation block flag on an account.
func (s *UserService) SetBlocked(ctx context.Context, userID string, blocked bool) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBlocked == blocked {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Update("is_blocked", blocked).Error; err != nil {
		return nil, fmt.Errorf("user service: set blocked: %w", err)
	}
	user.IsBlocked = blocked
	return user, nil
}

// List returns all accounts ordered by creation time, for the admin screen.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	ctx = ensureContext(ctx)

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: list users: %w", err)
	}
	return users, nil
}
