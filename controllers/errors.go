package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/utils"
)

// respondServiceError maps a service error onto status and an aibbs-style code
// (status*100 + sub). Unexpected errors are logged and reported with fallback.
func respondServiceError(ctx *gin.Context, err error, sub int, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConstraintViolation):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		utils.Logger.Error(fallback, zap.Error(err), zap.String("request_id", ctx.GetString(utils.RequestIDKey)))
		utils.Error(ctx, status, status*100+sub, fallback)
		return
	}
	utils.Error(ctx, status, status*100+sub, err.Error())
}

// parseID reads a positive numeric path parameter.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pageParams(ctx *gin.Context) (int, int) {
	return services.ParsePage(ctx.Query("page")), services.ParsePageSize(ctx.Query("page_size"))
}
