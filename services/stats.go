package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

// Stats holds site-wide entity counts.
type Stats struct {
	Users    int64 `json:"user_count"`
	Posts    int64 `json:"post_count"`
	Groups   int64 `json:"group_count"`
	Comments int64 `json:"comment_count"`
	Follows  int64 `json:"follow_count"`
}

// CountAll counts every entity table.
func CountAll(ctx context.Context, db *gorm.DB) (Stats, error) {
	var s Stats
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &s.Users},
		{&models.Post{}, &s.Posts},
		{&models.Group{}, &s.Groups},
		{&models.Comment{}, &s.Comments},
		{&models.Follow{}, &s.Follows},
	}
	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.model).Count(c.dst).Error; err != nil {
			return Stats{}, translateStoreError(err)
		}
	}
	return s, nil
}
