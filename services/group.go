package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/utils"
)

// GroupInput describes a new group.
type GroupInput struct {
	Title       string `validate:"required,max=200"`
	Slug        string `validate:"required,max=50,slug"`
	Description string
}

// CreateGroup stores a group. A taken slug fails with ErrConstraintViolation.
func CreateGroup(ctx context.Context, db *gorm.DB, in GroupInput) (*models.Group, error) {
	in.Title = utils.Sanitize(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = utils.Sanitize(in.Description)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	group := models.Group{Title: in.Title, Slug: in.Slug, Description: in.Description}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&group).Error
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return &group, nil
}

// ListGroups returns every group ordered by title.
func ListGroups(ctx context.Context, db *gorm.DB) ([]models.Group, error) {
	groups := []models.Group{}
	if err := db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&groups).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return groups, nil
}

// DeleteGroup removes a group. Its posts stay and lose their group.
func DeleteGroup(ctx context.Context, db *gorm.DB, slug string) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Where("slug = ?", slug).First(&group).Error; err != nil {
			return notFoundOr(err, "group %q", slug)
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", group.ID).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, group.ID).Error
	})
	return translateStoreError(err)
}
