package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

type userInput struct {
	Username string `validate:"required,min=3,max=64,username"`
	Email    string `validate:"omitempty,email,max=255"`
}

// CreateUser stores a new account. A taken username fails with ErrConstraintViolation.
func CreateUser(ctx context.Context, db *gorm.DB, username, email, passwordHash string) (*models.User, error) {
	in := userInput{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email)}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	user := models.User{Username: in.Username, Email: in.Email, PasswordHash: passwordHash}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &user, nil
}

// DeleteUser removes an account together with its posts, every comment on or by
// it and every follow in either direction.
func DeleteUser(ctx context.Context, db *gorm.DB, userID uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, "user", userID); err != nil {
			return err
		}
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", userID)
		if err := tx.Where("author_id = ? OR post_id IN (?)", userID, ownPosts).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	return translateStoreError(err)
}
