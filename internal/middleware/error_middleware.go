package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classforge/classforge/internal/app/models/dto"
	"github.com/classforge/classforge/internal/pkg/apperrors"
	"github.com/classforge/classforge/internal/pkg/logger"
)

// HandleAPIError maps application errors onto HTTP responses. Controllers
// funnel every service error through here so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := err.Error()
	var details interface{}
	if errors.As(err, &customErr) {
		message = customErr.Error()
		if len(customErr.Details) > 0 {
			details = customErr.Details
		}
	}

	respond := func(status int, code dto.ErrorCode) {
		errorDetail := dto.NewErrorDetail(code, message)
		if details != nil {
			errorDetail = errorDetail.WithDetails(details)
		}
		c.JSON(status, dto.APIResponse{Error: errorDetail})
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed)
	case errors.Is(err, apperrors.ErrBadRequest):
		respond(http.StatusBadRequest, dto.ErrorCodeInvalidRequest)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials)
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(http.StatusUnauthorized, dto.ErrorCodeAccountDisabled)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken)
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken)
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(http.StatusUnauthorized, dto.ErrorCodeTokenNotFound)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden)
	case errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrModuleNotFound),
		errors.Is(err, apperrors.ErrMaterialNotFound),
		errors.Is(err, apperrors.ErrTutorNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrEnrollmentNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound)
	case errors.Is(err, apperrors.ErrNotATutor),
		errors.Is(err, apperrors.ErrCoursePublished):
		respond(http.StatusConflict, dto.ErrorCodeResourceInvalid)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrAlreadyEnrolled),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists)
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		message = "Internal server error"
		details = nil
		respond(http.StatusInternalServerError, dto.ErrorCodeInternalServer)
	}
}
