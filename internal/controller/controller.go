package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/dto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// respondError translates service failures to the wire: apperr codes carry
// their own status, anything else is an internal error that must not leak.
func respondError(ctx *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Not found"})
		return
	}
	appErr := apperr.From(err)
	if appErr.Code == apperr.CodeInternal {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("request failed")
	}
	ctx.JSON(appErr.HTTPStatus(), dto.ErrorResponse{Message: appErr.Message, Details: appErr.Details})
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(value), true
}

func pageQuery(ctx *gin.Context) int {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
