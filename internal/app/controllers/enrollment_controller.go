package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/app/models/dto"
	"github.com/yigit/electivehub/internal/app/services"
	"github.com/yigit/electivehub/internal/middleware"
)

// EnrollmentController exposes the request lifecycle: submit, withdraw,
// accept, reject and the role-scoped listings.
type EnrollmentController struct {
	allocationService *services.AllocationService
	catalogService    *services.CatalogService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(allocationService *services.AllocationService, catalogService *services.CatalogService) *EnrollmentController {
	return &EnrollmentController{
		allocationService: allocationService,
		catalogService:    catalogService,
	}
}

// SubmitRequest files a new enrollment request for the calling student
// @Summary Submit an enrollment request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.SubmitRequestRequest true "Target offering"
// @Success 201 {object} dto.APIResponse{data=models.EnrollmentRequest}
// @Failure 400 {object} dto.ErrorResponse "Offering closed or duplicate request"
// @Router /requests [post]
func (c *EnrollmentController) SubmitRequest(ctx *gin.Context) {
	var body dto.SubmitRequestRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	studentID, _ := middleware.CurrentUserID(ctx)

	request, err := c.allocationService.SubmitRequest(ctx, studentID, body.OfferingID, body.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      request,
		Timestamp: time.Now(),
	})
}

// WithdrawRequest deletes the calling student's own request
// @Summary Withdraw an enrollment request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Request belongs to another student"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id} [delete]
func (c *EnrollmentController) WithdrawRequest(ctx *gin.Context) {
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	studentID, _ := middleware.CurrentUserID(ctx)

	if err := c.allocationService.WithdrawRequest(ctx, requestID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Request withdrawn"},
		Timestamp: time.Now(),
	})
}

// AcceptRequest manually admits a request (professor head or staff)
// @Summary Accept an enrollment request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.RequestActionRequest true "Request to accept"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentRequest}
// @Failure 409 {object} dto.ErrorResponse "Student already accepted in this container"
// @Router /requests/accept [post]
func (c *EnrollmentController) AcceptRequest(ctx *gin.Context) {
	requestID, ok := c.bindActionAndAuthorize(ctx)
	if !ok {
		return
	}

	request, err := c.allocationService.AcceptRequest(ctx, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      request,
		Timestamp: time.Now(),
	})
}

// RejectRequest rejects a request (professor head or staff)
// @Summary Reject an enrollment request
// @Tags requests
// @Accept json
// @Produce json
// @Param request body dto.RequestActionRequest true "Request to reject"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentRequest}
// @Router /requests/reject [post]
func (c *EnrollmentController) RejectRequest(ctx *gin.Context) {
	requestID, ok := c.bindActionAndAuthorize(ctx)
	if !ok {
		return
	}

	request, err := c.allocationService.RejectRequest(ctx, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      request,
		Timestamp: time.Now(),
	})
}

// ListRequests returns the caller's view of the request list: students see
// their own requests, professors see requests against offerings they head.
// @Summary List enrollment requests visible to the caller
// @Tags requests
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.EnrollmentRequest}
// @Router /requests [get]
func (c *EnrollmentController) ListRequests(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentRole(ctx)

	var requests []*models.EnrollmentRequest
	var err error
	switch role {
	case models.RoleStudent:
		requests, err = c.catalogService.ListRequestsForStudent(ctx, userID)
	case models.RoleProfessor:
		requests, err = c.catalogService.ListRequestsForProfessor(ctx, userID)
	default:
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "No request listing for this role")))
		return
	}

	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      requests,
		Timestamp: time.Now(),
	})
}

// GetRequest returns one request if the caller may see it
// @Summary Get an enrollment request
// @Tags requests
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentRequest}
// @Router /requests/{id} [get]
func (c *EnrollmentController) GetRequest(ctx *gin.Context) {
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.catalogService.GetRequest(ctx, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if !c.mayActOn(ctx, request) {
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Not allowed to view this request")))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      request,
		Timestamp: time.Now(),
	})
}

// bindActionAndAuthorize parses an accept/reject body and checks the caller
// may manage the targeted request's offering.
func (c *EnrollmentController) bindActionAndAuthorize(ctx *gin.Context) (int64, bool) {
	var body dto.RequestActionRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return 0, false
	}

	request, err := c.catalogService.GetRequest(ctx, body.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, false
	}

	role, _ := middleware.CurrentRole(ctx)
	if role == models.RoleProfessor {
		userID, _ := middleware.CurrentUserID(ctx)
		isHead, err := c.catalogService.IsOfferingHead(ctx, request.OfferingID, userID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return 0, false
		}
		if !isHead {
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, "Professor does not head this offering")))
			return 0, false
		}
	}

	return body.ID, true
}

// mayActOn decides read visibility of one request for the caller
func (c *EnrollmentController) mayActOn(ctx *gin.Context, request *models.EnrollmentRequest) bool {
	userID, _ := middleware.CurrentUserID(ctx)
	role, _ := middleware.CurrentRole(ctx)

	switch role {
	case models.RoleStaff:
		return true
	case models.RoleStudent:
		return request.StudentID == userID
	case models.RoleProfessor:
		isHead, err := c.catalogService.IsOfferingHead(ctx, request.OfferingID, userID)
		return err == nil && isHead
	default:
		return false
	}
}

// parseIDParam parses a path parameter as an id, answering 400 on garbage
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
