package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/app/models/dto"
	"github.com/yigit/electivehub/internal/app/services"
	"github.com/yigit/electivehub/internal/middleware"
)

// OfferingController serves offering cards and the capacity/policy update
type OfferingController struct {
	allocationService *services.AllocationService
	catalogService    *services.CatalogService
}

// NewOfferingController creates a new OfferingController
func NewOfferingController(allocationService *services.AllocationService, catalogService *services.CatalogService) *OfferingController {
	return &OfferingController{
		allocationService: allocationService,
		catalogService:    catalogService,
	}
}

// GetOffering returns an offering card with its course and request counts
// @Summary Get an offering card
// @Tags offerings
// @Produce json
// @Param id path int true "Offering ID"
// @Success 200 {object} dto.APIResponse{data=models.Offering}
// @Failure 404 {object} dto.ErrorResponse "Offering not found"
// @Router /offerings/{id} [get]
func (c *OfferingController) GetOffering(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	offering, err := c.catalogService.GetOfferingCard(ctx, offeringID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      offering,
		Timestamp: time.Now(),
	})
}

// ListByContainer returns the offering cards of one container
// @Summary List a container's offerings
// @Tags offerings
// @Produce json
// @Param id path int true "Container ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Offering}
// @Failure 404 {object} dto.ErrorResponse "Container not found"
// @Router /containers/{id}/offerings [get]
func (c *OfferingController) ListByContainer(ctx *gin.Context) {
	containerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	offerings, err := c.catalogService.ListOfferings(ctx, containerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      offerings,
		Timestamp: time.Now(),
	})
}

// UpdateOffering changes capacity and instant accept. Professors must head
// the offering; staff may update any. Status and min quantity are not
// reachable through this endpoint.
// @Summary Update offering capacity and admission policy
// @Tags offerings
// @Accept json
// @Produce json
// @Param id path int true "Offering ID"
// @Param request body dto.UpdateOfferingRequest true "New policy"
// @Success 200 {object} dto.APIResponse{data=models.Offering}
// @Failure 400 {object} dto.ErrorResponse "Capacity below the deanery minimum"
// @Router /offerings/{id} [patch]
func (c *OfferingController) UpdateOffering(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var body dto.UpdateOfferingRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	role, _ := middleware.CurrentRole(ctx)
	if role == models.RoleProfessor {
		userID, _ := middleware.CurrentUserID(ctx)
		isHead, err := c.catalogService.IsOfferingHead(ctx, offeringID, userID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if !isHead {
			ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, "Professor does not head this offering")))
			return
		}
	}

	offering, err := c.allocationService.UpdateOfferingCapacity(ctx, offeringID, body.Quantity, body.InstantAccept)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      offering,
		Timestamp: time.Now(),
	})
}

// AssignHead makes a professor manager of an offering (staff only)
// @Summary Assign an offering head
// @Tags offerings
// @Accept json
// @Produce json
// @Param id path int true "Offering ID"
// @Param request body dto.AssignHeadRequest true "Professor user id"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /offerings/{id}/heads [post]
func (c *OfferingController) AssignHead(ctx *gin.Context) {
	offeringID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var body dto.AssignHeadRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	if err := c.catalogService.AssignOfferingHead(ctx, offeringID, body.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Head assigned"},
		Timestamp: time.Now(),
	})
}
