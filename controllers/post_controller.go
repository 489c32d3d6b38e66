package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/utils"
)

const (
	feedCachePrefix  = "cache:feed:"
	indexCachePrefix = feedCachePrefix + "index:"
)

// PostController serves the post feeds, post lifecycle and comments.
type PostController struct {
	db      *gorm.DB
	cache   utils.Cache
	feedTTL time.Duration
}

// NewPostController creates a new PostController. cache may be nil.
func NewPostController(db *gorm.DB, cache utils.Cache, feedTTL time.Duration) *PostController {
	return &PostController{db: db, cache: cache, feedTTL: feedTTL}
}

type postRequest struct {
	Text    string `json:"text" binding:"required"`
	GroupID *uint  `json:"group_id"`
	Image   string `json:"image"`
}

func (r postRequest) input() services.PostInput {
	return services.PostInput{Text: r.Text, GroupID: r.GroupID, Image: r.Image}
}

// ListPosts returns the global feed. Pages are cached briefly.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, pageSize := pageParams(ctx)
	cacheKey := fmt.Sprintf("%spage=%d:size=%d", indexCachePrefix, page, pageSize)
	if p.cache != nil {
		if b, ok := p.cache.Get(ctx.Request.Context(), cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	feed, err := services.GlobalFeed(ctx.Request.Context(), p.db, page, pageSize)
	if err != nil {
		respondServiceError(ctx, err, 20, "failed to list posts")
		return
	}
	b := utils.SuccessBytes(ctx, feed)
	if p.cache != nil && b != nil {
		p.cache.Set(ctx.Request.Context(), cacheKey, b, p.feedTTL)
	}
}

// GetPost returns a single post with comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}
	post, err := services.GetPost(ctx.Request.Context(), p.db, postID)
	if err != nil {
		respondServiceError(ctx, err, 21, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post, err := services.CreatePost(ctx.Request.Context(), p.db, userID, req.input())
	if err != nil {
		respondServiceError(ctx, err, 22, "failed to create post")
		return
	}
	p.invalidateFeeds(ctx)
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost allows the author to update their post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}

	post, err := services.EditPost(ctx.Request.Context(), p.db, userID, postID, req.input())
	if err != nil {
		respondServiceError(ctx, err, 23, "failed to update post")
		return
	}
	p.invalidateFeeds(ctx)
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the author to delete their post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
		return
	}
	if err := services.DeletePost(ctx.Request.Context(), p.db, userID, postID); err != nil {
		respondServiceError(ctx, err, 24, "failed to delete post")
		return
	}
	p.invalidateFeeds(ctx)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment allows authenticated users to comment on posts.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid request payload")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40405, "post not found")
		return
	}

	comment, err := services.AddComment(ctx.Request.Context(), p.db, postID, userID, req.Text)
	if err != nil {
		respondServiceError(ctx, err, 25, "failed to create comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// ListGroupPosts returns the feed of one group.
func (p *PostController) ListGroupPosts(ctx *gin.Context) {
	page, pageSize := pageParams(ctx)
	view, err := services.GroupFeed(ctx.Request.Context(), p.db, ctx.Param("slug"), page, pageSize)
	if err != nil {
		respondServiceError(ctx, err, 26, "failed to list group posts")
		return
	}
	utils.Success(ctx, view)
}

// ListProfilePosts returns the feed of one author and whether the viewer follows them.
func (p *PostController) ListProfilePosts(ctx *gin.Context) {
	page, pageSize := pageParams(ctx)
	viewerID, _ := middleware.UserID(ctx)
	view, err := services.ProfileFeed(ctx.Request.Context(), p.db, ctx.Param("username"), viewerID, page, pageSize)
	if err != nil {
		respondServiceError(ctx, err, 27, "failed to list user posts")
		return
	}
	utils.Success(ctx, view)
}

// ListFollowedPosts returns posts of the authors the current user follows.
func (p *PostController) ListFollowedPosts(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}
	page, pageSize := pageParams(ctx)
	feed, err := services.FollowedFeed(ctx.Request.Context(), p.db, userID, page, pageSize)
	if err != nil {
		respondServiceError(ctx, err, 28, "failed to list followed posts")
		return
	}
	utils.Success(ctx, feed)
}

func (p *PostController) invalidateFeeds(ctx *gin.Context) {
	if p.cache != nil {
		p.cache.InvalidatePrefix(ctx.Request.Context(), feedCachePrefix)
	}
}
