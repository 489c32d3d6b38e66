package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/utils"
)

// GroupController lists groups and lets administrators manage them.
type GroupController struct {
	db    *gorm.DB
	cfg   config.AppConfig
	cache utils.Cache
}

// NewGroupController creates a GroupController. cache may be nil.
func NewGroupController(db *gorm.DB, cfg config.AppConfig, cache utils.Cache) *GroupController {
	return &GroupController{db: db, cfg: cfg, cache: cache}
}

// ListGroups returns every group.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := services.ListGroups(ctx.Request.Context(), g.db)
	if err != nil {
		respondServiceError(ctx, err, 40, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"items": groups})
}

// CreateGroup adds a group. Administrators only.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	if !g.isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40341, "only administrators can manage groups")
		return
	}
	var req struct {
		Title       string `json:"title" binding:"required"`
		Slug        string `json:"slug" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}
	group, err := services.CreateGroup(ctx.Request.Context(), g.db, services.GroupInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(ctx, err, 42, "failed to create group")
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group; its posts remain without a group. Administrators only.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if !g.isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40343, "only administrators can manage groups")
		return
	}
	if err := services.DeleteGroup(ctx.Request.Context(), g.db, ctx.Param("slug")); err != nil {
		respondServiceError(ctx, err, 43, "failed to delete group")
		return
	}
	if g.cache != nil {
		g.cache.InvalidatePrefix(ctx.Request.Context(), feedCachePrefix)
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}

func (g *GroupController) isAdmin(ctx *gin.Context) bool {
	if _, ok := middleware.UserID(ctx); !ok {
		return false
	}
	return g.cfg.IsAdmin(ctx.GetString(middleware.ContextUsernameKey))
}
