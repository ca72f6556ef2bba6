package users

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vapecloud/miniapp/pkg/db/models"
	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

// UserRepository defines the persistence surface required by the user service.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
}

// TelegramProfile carries the identity fields taken from a verified launch payload.
type TelegramProfile struct {
	TelegramID int64
	Username   string
	FirstName  string
	PhotoURL   string
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	UserRepo UserRepository
}

// Service exposes business rules for shop accounts.
type Service interface {
	GetOrCreate(ctx context.Context, profile TelegramProfile) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
}

type service struct {
	userRepo UserRepository
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{userRepo: params.UserRepo}, nil
}

// GetOrCreate resolves the account for a Telegram identity, creating it on
// first launch and refreshing the profile fields on subsequent ones.
func (s *service) GetOrCreate(ctx context.Context, profile TelegramProfile) (*models.User, error) {
	if profile.TelegramID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "telegram ID is required")
	}

	user, err := s.userRepo.FindByTelegramID(ctx, profile.TelegramID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		created, createErr := s.userRepo.Create(ctx, &models.User{
			TelegramID: profile.TelegramID,
			Username:   optionalString(profile.Username),
			FirstName:  profile.FirstName,
			PhotoURL:   profile.PhotoURL,
			Balance:    decimal.Zero,
		})
		if createErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create user")
		}
		return created, nil
	}

	if profileChanged(user, profile) {
		user.Username = optionalString(profile.Username)
		user.FirstName = profile.FirstName
		user.PhotoURL = profile.PhotoURL
		if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user profile")
		}
	}
	return user, nil
}

// Get loads the account by primary key.
func (s *service) Get(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user ID is required")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func profileChanged(user *models.User, profile TelegramProfile) bool {
	current := ""
	if user.Username != nil {
		current = *user.Username
	}
	return current != profile.Username ||
		user.FirstName != profile.FirstName ||
		user.PhotoURL != profile.PhotoURL
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
