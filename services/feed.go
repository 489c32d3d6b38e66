package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/yatube/models"
)

// Feed is one page of posts, newest first.
type Feed = Page[models.Post]

// GroupView is the feed of one group.
type GroupView struct {
	Group models.Group `json:"group"`
	Posts Feed         `json:"posts"`
}

// ProfileView is the feed of one author. Following tells whether the viewer
// already follows that author.
type ProfileView struct {
	Author    models.User `json:"author"`
	Posts     Feed        `json:"posts"`
	Following bool        `json:"following"`
}

// GlobalFeed lists every post.
func GlobalFeed(ctx context.Context, db *gorm.DB, page, pageSize int) (Feed, error) {
	return composeFeed(ctx, db, nil, page, pageSize)
}

// GroupFeed lists the posts of the group identified by slug.
func GroupFeed(ctx context.Context, db *gorm.DB, slug string, page, pageSize int) (*GroupView, error) {
	group, err := GetGroupBySlug(ctx, db, slug)
	if err != nil {
		return nil, err
	}
	feed, err := composeFeed(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("group_id = ?", group.ID)
	}, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &GroupView{Group: *group, Posts: feed}, nil
}

// ProfileFeed lists the posts written by username. viewerID 0 is an anonymous viewer.
func ProfileFeed(ctx context.Context, db *gorm.DB, username string, viewerID uint, page, pageSize int) (*ProfileView, error) {
	author, err := GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, err
	}
	feed, err := composeFeed(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("author_id = ?", author.ID)
	}, page, pageSize)
	if err != nil {
		return nil, err
	}
	following, err := IsFollowing(ctx, db, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Author: *author, Posts: feed, Following: following}, nil
}

// FollowedFeed lists the posts of every author viewerID follows. Following
// nobody yields an empty page.
func FollowedFeed(ctx context.Context, db *gorm.DB, viewerID uint, page, pageSize int) (Feed, error) {
	authors := db.WithContext(ctx).Model(&models.Follow{}).Select("author_id").Where("user_id = ?", viewerID)
	return composeFeed(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("author_id IN (?)", authors)
	}, page, pageSize)
}

// composeFeed plucks the ordered ids matching scope, paginates them and loads
// only the posts of the requested page.
func composeFeed(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB, page, pageSize int) (Feed, error) {
	q := db.WithContext(ctx).Model(&models.Post{})
	if scope != nil {
		q = scope(q)
	}
	var ids []uint
	if err := q.Order("created_at DESC").Order("id DESC").Pluck("id", &ids).Error; err != nil {
		return Feed{}, translateStoreError(err)
	}

	idPage := Paginate(ids, pageSize, page)
	posts, err := loadPosts(ctx, db, idPage.Items)
	if err != nil {
		return Feed{}, err
	}
	return withItems(idPage, posts), nil
}

// loadPosts fetches posts with author and group, in the order of ids. Posts
// deleted since the ids were read are skipped.
func loadPosts(ctx context.Context, db *gorm.DB, ids []uint) ([]models.Post, error) {
	out := make([]models.Post, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Post
	if err := db.WithContext(ctx).Preload("Author").Preload("Group").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateStoreError(err)
	}
	byID := make(map[uint]models.Post, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
