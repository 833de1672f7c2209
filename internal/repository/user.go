// Package repository provides the gorm data access layer of the development backend.
package repository

import (
	"context"
	"errors"
	"strings"

	"uniconnect/internal/models"
	"uniconnect/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines the interface for account data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.UserRecord) error
	GetByID(ctx context.Context, id uint) (*models.UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*models.UserRecord, error)
	ListOthers(ctx context.Context, excludeID uint, limit int) ([]models.UserRecord, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.UserRecord) error {
	defer observability.TrackQuery("create", "users")()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return models.NewDuplicateIDError("user", user.Email)
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.UserRecord, error) {
	defer observability.TrackQuery("get_by_id", "users")()
	var user models.UserRecord
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	defer observability.TrackQuery("get_by_email", "users")()
	var user models.UserRecord
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return &user, nil
}

// ListOthers returns up to limit users other than excludeID, newest first.
func (r *userRepository) ListOthers(ctx context.Context, excludeID uint, limit int) ([]models.UserRecord, error) {
	defer observability.TrackQuery("list_others", "users")()
	var users []models.UserRecord
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// notFound maps gorm's missing-row error onto the NOT_FOUND AppError.
func notFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
