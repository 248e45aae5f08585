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

// ContainerController covers the staff workflow of building and closing
// recruitment containers, plus the course catalog.
type ContainerController struct {
	catalogService *services.CatalogService
}

// NewContainerController creates a new ContainerController
func NewContainerController(catalogService *services.CatalogService) *ContainerController {
	return &ContainerController{catalogService: catalogService}
}

// CreateContainer opens a new recruitment container with its offerings
// @Summary Create a container
// @Tags containers
// @Accept json
// @Produce json
// @Param request body dto.CreateContainerRequest true "Container and offerings"
// @Success 201 {object} dto.APIResponse{data=models.Container}
// @Router /containers [post]
func (c *ContainerController) CreateContainer(ctx *gin.Context) {
	var body dto.CreateContainerRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid container data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	userID, _ := middleware.CurrentUserID(ctx)

	container := &models.Container{
		Name:           body.Name,
		Status:         models.ContainerOpen,
		StartDate:      body.StartDate,
		ExpirationDate: body.ExpirationDate,
		CreatedBy:      userID,
	}

	offerings := make([]*models.Offering, 0, len(body.Offerings))
	for _, o := range body.Offerings {
		offerings = append(offerings, &models.Offering{
			CourseID:      o.CourseID,
			MinQuantity:   o.MinQuantity,
			Quantity:      o.Quantity,
			InstantAccept: o.InstantAccept,
		})
	}

	if err := c.catalogService.CreateContainer(ctx, container, offerings); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      container,
		Timestamp: time.Now(),
	})
}

// ListContainers returns all containers, newest first
// @Summary List containers
// @Tags containers
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Container}
// @Router /containers [get]
func (c *ContainerController) ListContainers(ctx *gin.Context) {
	containers, err := c.catalogService.ListContainers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      containers,
		Timestamp: time.Now(),
	})
}

// GetContainer returns a container with its offering cards
// @Summary Get a container
// @Tags containers
// @Produce json
// @Param id path int true "Container ID"
// @Success 200 {object} dto.APIResponse{data=models.Container}
// @Router /containers/{id} [get]
func (c *ContainerController) GetContainer(ctx *gin.Context) {
	containerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	container, err := c.catalogService.GetContainer(ctx, containerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      container,
		Timestamp: time.Now(),
	})
}

// CloseContainer ends the recruitment campaign
// @Summary Close a container
// @Tags containers
// @Produce json
// @Param id path int true "Container ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /containers/{id}/close [post]
func (c *ContainerController) CloseContainer(ctx *gin.Context) {
	containerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.CloseContainer(ctx, containerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Container closed"},
		Timestamp: time.Now(),
	})
}

// DeleteContainer tears a container down, cascading offerings and requests
// @Summary Delete a container
// @Tags containers
// @Produce json
// @Param id path int true "Container ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /containers/{id} [delete]
func (c *ContainerController) DeleteContainer(ctx *gin.Context) {
	containerID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteContainer(ctx, containerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Container deleted"},
		Timestamp: time.Now(),
	})
}

// CreateCourse adds a course to the catalog
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Router /courses [post]
func (c *ContainerController) CreateCourse(ctx *gin.Context) {
	var body dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail.WithDetails(err.Error())))
		return
	}

	course := &models.Course{
		Name:         body.Name,
		Description:  body.Description,
		Requirements: body.Requirements,
	}

	if err := c.catalogService.CreateCourse(ctx, course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// ListCourses returns the course catalog
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (c *ContainerController) ListCourses(ctx *gin.Context) {
	courses, err := c.catalogService.ListCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      courses,
		Timestamp: time.Now(),
	})
}
