package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// Follow subscribes userID to authorID. Following an author twice is a no-op;
// following yourself fails with ErrInvalidOperation.
func Follow(ctx context.Context, db *gorm.DB, userID, authorID uint) error {
	if userID == authorID {
		return fmt.Errorf("%w: user %d cannot follow themselves", ErrInvalidOperation, userID)
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, "user", authorID); err != nil {
			return err
		}
		exists, err := followExists(tx, userID, authorID)
		if err != nil || exists {
			return err
		}
		return tx.Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error
	})
	return resolveFollowConflict(err, userID, authorID)
}

// Unfollow removes the subscription of userID to authorID if there is one.
func Unfollow(ctx context.Context, db *gorm.DB, userID, authorID uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{}).Error
	})
	return translateStoreError(err)
}

// IsFollowing reports whether userID follows authorID. A zero id never follows.
func IsFollowing(ctx context.Context, db *gorm.DB, userID, authorID uint) (bool, error) {
	if userID == 0 || authorID == 0 {
		return false, nil
	}
	exists, err := followExists(db.WithContext(ctx), userID, authorID)
	if err != nil {
		return false, translateStoreError(err)
	}
	return exists, nil
}

func followExists(tx *gorm.DB, userID, authorID uint) (bool, error) {
	var n int64
	if err := tx.Model(&models.Follow{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// resolveFollowConflict turns the unique violation of a concurrent identical
// follow into success. The other request already created the row.
func resolveFollowConflict(err error, userID, authorID uint) error {
	if err == nil {
		return nil
	}
	if isDuplicateKey(err) {
		utils.Logger.Debug("follow already created concurrently",
			zap.Uint("user_id", userID), zap.Uint("author_id", authorID))
		return nil
	}
	return translateStoreError(err)
}
