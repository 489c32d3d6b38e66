package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/utils"
)

// StatsController provides site statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns entity counts.
func (s *StatsController) GetStats(ctx *gin.Context) {
	stats, err := services.CountAll(ctx.Request.Context(), s.db)
	if err != nil {
		respondServiceError(ctx, err, 50, "failed to load stats")
		return
	}
	utils.Success(ctx, stats)
}
