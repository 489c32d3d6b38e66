package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

type commentInput struct {
	Text string `validate:"required,max=200"`
}

// AddComment appends a comment by authorID to postID. The text is sanitized and
// must hold between 1 and models.CommentMaxLength characters.
func AddComment(ctx context.Context, db *gorm.DB, postID, authorID uint, text string) (*models.Comment, error) {
	in := commentInput{Text: utils.Sanitize(text)}
	comment := models.Comment{PostID: postID, AuthorID: authorID, Text: in.Text}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, "post", postID); err != nil {
			return err
		}
		if err := validateInput(in); err != nil {
			return err
		}
		if err := requireRow(tx, &models.User{}, "user", authorID); err != nil {
			return err
		}
		comment.CreatedAt = time.Now()
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Preload("Author").First(&comment, comment.ID).Error
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &comment, nil
}

// ListComments returns the comments of a post, oldest first.
func ListComments(ctx context.Context, db *gorm.DB, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := db.WithContext(ctx).Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translateStoreError(err)
	}
	return comments, nil
}
