package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CreateUserIfNotExists inserts u unless the email is taken. The unique
// index still catches a concurrent insert of the same email.
func (r *GormRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExist
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExist
	}
	return nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SetUserRole(ctx context.Context, email, role string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("role", role).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}
