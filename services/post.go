package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// PostInput carries the editable fields of a post. A nil GroupID leaves the
// post outside any group; an empty Image keeps the current image on edit.
type PostInput struct {
	Text    string `validate:"required"`
	GroupID *uint
	Image   string `validate:"max=512"`
}

func (in PostInput) normalized() PostInput {
	in.Text = utils.Sanitize(in.Text)
	if in.GroupID != nil && *in.GroupID == 0 {
		in.GroupID = nil
	}
	return in
}

// CreatePost publishes a post by authorID, stamped with the current time.
func CreatePost(ctx context.Context, db *gorm.DB, authorID uint, in PostInput) (*models.Post, error) {
	in = in.normalized()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	post := models.Post{AuthorID: authorID, Text: in.Text, GroupID: in.GroupID, Image: in.Image}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.User{}, "user", authorID); err != nil {
			return err
		}
		if in.GroupID != nil {
			if err := requireRow(tx, &models.Group{}, "group", *in.GroupID); err != nil {
				return err
			}
		}
		post.CreatedAt = time.Now()
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return tx.Preload("Author").Preload("Group").First(&post, post.ID).Error
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &post, nil
}

// EditPost replaces text, group and optionally image of a post. Only the author
// may edit; CreatedAt and AuthorID never change.
func EditPost(ctx context.Context, db *gorm.DB, requestorID, postID uint, in PostInput) (*models.Post, error) {
	in = in.normalized()
	var post models.Post
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadOwnedPost(tx, requestorID, postID, &post); err != nil {
			return err
		}
		if err := validateInput(in); err != nil {
			return err
		}
		if in.GroupID != nil {
			if err := requireRow(tx, &models.Group{}, "group", *in.GroupID); err != nil {
				return err
			}
		}

		columns := []interface{}{"group_id", "updated_at"}
		changes := models.Post{Text: in.Text, GroupID: in.GroupID, UpdatedAt: time.Now()}
		if in.Image != "" {
			columns = append(columns, "image")
			changes.Image = in.Image
		}
		if err := tx.Model(&post).Select("text", columns...).Updates(changes).Error; err != nil {
			return err
		}
		return tx.Preload("Author").Preload("Group").First(&post, post.ID).Error
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &post, nil
}

// DeletePost removes a post and its comments. Only the author may delete.
func DeletePost(ctx context.Context, db *gorm.DB, requestorID, postID uint) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := loadOwnedPost(tx, requestorID, postID, &post); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	return translateStoreError(err)
}

// GetPost loads a post with its author, group and comments.
func GetPost(ctx context.Context, db *gorm.DB, postID uint) (*models.Post, error) {
	var post models.Post
	if err := db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, postID).Error; err != nil {
		return nil, notFoundOr(err, "post %d", postID)
	}
	comments, err := ListComments(ctx, db, postID)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return &post, nil
}

// loadOwnedPost reads the post and checks that requestorID wrote it.
func loadOwnedPost(tx *gorm.DB, requestorID, postID uint, post *models.Post) error {
	if err := tx.First(post, postID).Error; err != nil {
		return notFoundOr(err, "post %d", postID)
	}
	if post.AuthorID != requestorID {
		return fmt.Errorf("%w: post %d belongs to another author", ErrForbidden, postID)
	}
	return nil
}
