package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ypropel/backend/internal/app/models/dto"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/dberrors"
	"github.com/ypropel/backend/internal/pkg/logger"
)

// InternalServerErrorMessage is the only message clients see for unexpected failures
const InternalServerErrorMessage = "Internal Server Error"

// HandleAPIError translates a service error into a status code and an
// {"error": "..."} body. Unknown errors are logged and become a 500.
func HandleAPIError(c *gin.Context, err error) {
	status, fallback := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		c.AbortWithStatusJSON(status, dto.NewErrorResponse(InternalServerErrorMessage))
		return
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(apperrors.PublicMessage(err, fallback)))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound), errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusBadRequest, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusBadRequest, "Invalid token"
	case errors.Is(err, apperrors.ErrNoFieldsToUpdate):
		return http.StatusBadRequest, "No valid fields to update"
	case errors.Is(err, apperrors.ErrInvalidReference):
		return http.StatusBadRequest, "Invalid reference"
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, apperrors.ErrTooManyRequests):
		return http.StatusTooManyRequests, "Too many requests"
	case dberrors.IsInvalidInputError(err):
		return http.StatusBadRequest, "Invalid field value"
	default:
		return http.StatusInternalServerError, InternalServerErrorMessage
	}
}

// ErrorHandler is the terminal stage of the chain. It converts panics and any
// error a handler left in c.Errors without writing a response into a 500.
func ErrorHandler(lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				lgr.Error().
					Interface("panic", recovered).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Msg("Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(InternalServerErrorMessage))
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			lgr.Error().
				Err(c.Errors.Last().Err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("Request failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(InternalServerErrorMessage))
		}
	}
}
