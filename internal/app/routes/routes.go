package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/electivehub/internal/app/controllers"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	containerController *controllers.ContainerController,
	offeringController *controllers.OfferingController,
	enrollmentController *controllers.EnrollmentController,
	identity *middleware.IdentityMiddleware,
) {
	// API version group; everything requires a gateway-asserted identity
	v1 := router.Group("/api/v1")
	v1.Use(identity.Trusted())

	// Containers: read for everyone, lifecycle for deanery staff
	containers := v1.Group("/containers")
	{
		containers.GET("", containerController.ListContainers)
		containers.GET("/:id", containerController.GetContainer)
		containers.GET("/:id/offerings", offeringController.ListByContainer)

		containersStaff := containers.Group("")
		containersStaff.Use(identity.RoleRequired(models.RoleStaff))
		{
			containersStaff.POST("", containerController.CreateContainer)
			containersStaff.POST("/:id/close", containerController.CloseContainer)
			containersStaff.DELETE("/:id", containerController.DeleteContainer)
		}
	}

	// Course catalog
	courses := v1.Group("/courses")
	{
		courses.GET("", containerController.ListCourses)

		coursesStaff := courses.Group("")
		coursesStaff.Use(identity.RoleRequired(models.RoleStaff))
		{
			coursesStaff.POST("", containerController.CreateCourse)
		}
	}

	// Offerings: cards for everyone, policy updates for heads and staff
	offerings := v1.Group("/offerings")
	{
		offerings.GET("/:id", offeringController.GetOffering)

		offeringsManaged := offerings.Group("")
		offeringsManaged.Use(identity.RoleRequired(models.RoleProfessor, models.RoleStaff))
		{
			offeringsManaged.PATCH("/:id", offeringController.UpdateOffering)
		}

		offeringsStaff := offerings.Group("")
		offeringsStaff.Use(identity.RoleRequired(models.RoleStaff))
		{
			offeringsStaff.POST("/:id/heads", offeringController.AssignHead)
		}
	}

	// Requests: the allocation entry points
	requests := v1.Group("/requests")
	{
		requests.GET("", identity.RoleRequired(models.RoleStudent, models.RoleProfessor), enrollmentController.ListRequests)
		requests.GET("/:id", enrollmentController.GetRequest)

		requestsStudent := requests.Group("")
		requestsStudent.Use(identity.RoleRequired(models.RoleStudent))
		{
			requestsStudent.POST("", enrollmentController.SubmitRequest)
			requestsStudent.DELETE("/:id", enrollmentController.WithdrawRequest)
		}

		requestsManaged := requests.Group("")
		requestsManaged.Use(identity.RoleRequired(models.RoleProfessor, models.RoleStaff))
		{
			requestsManaged.POST("/accept", enrollmentController.AcceptRequest)
			requestsManaged.POST("/reject", enrollmentController.RejectRequest)
		}
	}
}
