package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

// GetUser loads a user by id.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user %d", id)
	}
	return &user, nil
}

// GetUserByUsername loads a user by its unique username.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "user %q", username)
	}
	return &user, nil
}

// GetGroupBySlug loads a group by its unique slug.
func GetGroupBySlug(ctx context.Context, db *gorm.DB, slug string) (*models.Group, error) {
	var group models.Group
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, notFoundOr(err, "group %q", slug)
	}
	return &group, nil
}

// requireRow fails with ErrNotFound unless a row of model with the given id exists.
func requireRow(tx *gorm.DB, model interface{}, what string, id uint) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return nil
}

func notFoundOr(err error, format string, args ...interface{}) error {
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	}
	return translateStoreError(err)
}
