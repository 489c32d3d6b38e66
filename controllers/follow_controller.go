package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/utils"
)

// FollowController subscribes and unsubscribes the current user to authors.
type FollowController struct {
	db *gorm.DB
}

// NewFollowController creates a FollowController.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{db: db}
}

// Follow subscribes the current user to :username. Repeating it is harmless.
func (f *FollowController) Follow(ctx *gin.Context) {
	userID, authorID, ok := f.resolve(ctx)
	if !ok {
		return
	}
	if err := services.Follow(ctx.Request.Context(), f.db, userID, authorID); err != nil {
		respondServiceError(ctx, err, 30, "failed to follow")
		return
	}
	utils.Success(ctx, gin.H{"following": true})
}

// Unfollow removes the subscription of the current user to :username, if any.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	userID, authorID, ok := f.resolve(ctx)
	if !ok {
		return
	}
	if err := services.Unfollow(ctx.Request.Context(), f.db, userID, authorID); err != nil {
		respondServiceError(ctx, err, 31, "failed to unfollow")
		return
	}
	utils.Success(ctx, gin.H{"following": false})
}

func (f *FollowController) resolve(ctx *gin.Context) (uint, uint, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return 0, 0, false
	}
	author, err := services.GetUserByUsername(ctx.Request.Context(), f.db, ctx.Param("username"))
	if err != nil {
		respondServiceError(ctx, err, 32, "failed to load user")
		return 0, 0, false
	}
	return userID, author.ID, true
}
