package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/electivehub/internal/app/models/dto"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
	"github.com/yigit/electivehub/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. All controllers
// funnel their service errors through here so the error taxonomy stays in one
// place.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrOfferingClosed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeOfferingClosed, "Offering is closed for requests")
	case errors.Is(err, apperrors.ErrDuplicateActiveRequest):
		respond(c, http.StatusBadRequest, dto.ErrorCodeDuplicateRequest, "Student already has an active request in this container")
	case errors.Is(err, apperrors.ErrCapacityBelowMinimum):
		respond(c, http.StatusBadRequest, dto.ErrorCodeCapacityBelowMinimum, "Capacity cannot be lower than the deanery minimum")
	case errors.Is(err, apperrors.ErrAlreadyAcceptedInContainer):
		respond(c, http.StatusConflict, dto.ErrorCodeAlreadyAccepted, "Student is already accepted into a course of this container")
	case errors.Is(err, apperrors.ErrNotRequestOwner):
		respond(c, http.StatusForbidden, dto.ErrorCodeNotRequestOwner, "Request belongs to another student")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrRequestNotFound),
		errors.Is(err, apperrors.ErrOfferingNotFound),
		errors.Is(err, apperrors.ErrContainerNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error())
	case errors.Is(err, apperrors.ErrCourseExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrValidationFailed):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())
	case errors.Is(err, apperrors.ErrSerializationFailure):
		// The transaction lost a concurrency race; the client may retry.
		respond(c, http.StatusConflict, dto.ErrorCodeTransactionConflict, "Concurrent update, please retry")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.APIResponse{
		Error:     dto.NewErrorDetail(code, message),
		Timestamp: time.Now(),
	})
}
