package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/utils"
)

// AuthController handles registration, login and the current account.
type AuthController struct {
	db        *gorm.DB
	cfg       config.AppConfig
	blacklist *utils.TokenBlacklist
	cache     utils.Cache
	guard     *utils.RegisterGuard
}

// NewAuthController creates an AuthController. cache may be nil.
func NewAuthController(db *gorm.DB, cfg config.AppConfig, blacklist *utils.TokenBlacklist, cache utils.Cache) *AuthController {
	return &AuthController{
		db:        db,
		cfg:       cfg,
		blacklist: blacklist,
		cache:     cache,
		guard:     utils.NewRegisterGuard(time.Duration(cfg.RegisterCooldownSec)*time.Second, cache),
	}
}

// Register handles local account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
		Confirm  string `json:"confirm"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	if req.Confirm != "" && req.Confirm != req.Password {
		utils.Error(ctx, http.StatusBadRequest, 40002, "passwords do not match")
		return
	}

	if !a.guard.Try(ctx.Request.Context(), ctx.ClientIP()) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "too many registrations, please retry later")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user, err := services.CreateUser(ctx.Request.Context(), a.db, req.Username, req.Email, hash)
	if err != nil {
		if errors.Is(err, services.ErrConstraintViolation) {
			utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
			return
		}
		respondServiceError(ctx, err, 2, "failed to create user")
		return
	}

	a.issueToken(ctx, *user)
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := services.GetUserByUsername(ctx.Request.Context(), a.db, strings.TrimSpace(req.Username))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	a.issueToken(ctx, *user)
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	claims, err := utils.ParseToken(a.cfg.JWTSecret, token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(a.tokenTTL())
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	a.blacklist.Revoke(ctx.Request.Context(), token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	user, err := services.GetUser(ctx.Request.Context(), a.db, userID)
	if err != nil {
		respondServiceError(ctx, err, 10, "failed to load user")
		return
	}
	utils.Success(ctx, a.userResponse(*user))
}

// DeleteAccount removes the current user with their posts, comments and follows,
// then revokes the token used for the request.
func (a *AuthController) DeleteAccount(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40109, "unauthorized")
		return
	}
	if err := services.DeleteUser(ctx.Request.Context(), a.db, userID); err != nil {
		respondServiceError(ctx, err, 11, "failed to delete account")
		return
	}
	if a.cache != nil {
		a.cache.InvalidatePrefix(ctx.Request.Context(), feedCachePrefix)
	}
	if token := ctx.GetString(middleware.ContextTokenKey); token != "" {
		a.blacklist.Revoke(ctx.Request.Context(), token, time.Now().Add(a.tokenTTL()))
	}
	utils.Success(ctx, gin.H{"message": "account deleted"})
}

func (a *AuthController) issueToken(ctx *gin.Context, user models.User) {
	token, err := utils.GenerateToken(a.cfg.JWTSecret, user.ID, user.Username, a.tokenTTL())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{
		"token": token,
		"user":  a.userResponse(user),
	})
}

func (a *AuthController) tokenTTL() time.Duration {
	if a.cfg.TokenTTLHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(a.cfg.TokenTTLHours) * time.Hour
}

func (a *AuthController) userResponse(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt,
		"is_admin":   a.cfg.IsAdmin(user.Username),
	}
}
