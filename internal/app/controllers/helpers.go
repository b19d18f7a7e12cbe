// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/auth"
)

// parseID reads a positive integer path parameter. On failure it writes a
// 400 naming label and returns false.
func parseID(ctx *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id <= 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid "+label+" ID"))
		return 0, false
	}
	return id, true
}

// queryID reads an optional positive integer query parameter
func queryID(ctx *gin.Context, key string) *int64 {
	raw := ctx.Query(key)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// identity returns the authenticated caller. Routes using it sit behind JWTAuth.
func identity(ctx *gin.Context) auth.Identity {
	id, _ := middleware.CurrentIdentity(ctx)
	return id
}

// bindFields decodes a partial update body. Unknown keys are dropped later
// by the allow-list.
func bindFields(ctx *gin.Context) (map[string]any, bool) {
	var fields dto.UpdateFields
	if err := ctx.ShouldBindJSON(&fields); err != nil || fields == nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse("Request body must be a JSON object"))
		return nil, false
	}
	return fields, true
}

func deleted(ctx *gin.Context, what string) {
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: what + " deleted successfully"})
}
