package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/app/models/dto"
)

// Context keys set by the identity middleware
const (
	ContextUserID = "userID"
	ContextRole   = "roleType"
)

// IdentityMiddleware reads the caller identity the upstream gateway injects
// into trusted headers. Authentication itself happens at the gateway; this
// service only consumes the asserted user id and role.
type IdentityMiddleware struct {
	userIDHeader string
	roleHeader   string
}

// NewIdentityMiddleware creates a new IdentityMiddleware
func NewIdentityMiddleware(userIDHeader, roleHeader string) *IdentityMiddleware {
	return &IdentityMiddleware{
		userIDHeader: userIDHeader,
		roleHeader:   roleHeader,
	}
}

// Trusted extracts the gateway identity headers and puts them on the context
func (m *IdentityMiddleware) Trusted() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader(m.userIDHeader)
		rawRole := c.GetHeader(m.roleHeader)

		if rawID == "" || rawRole == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Missing gateway identity headers")))
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Invalid user id header")))
			return
		}

		role := models.Role(rawRole)
		switch role {
		case models.RoleStudent, models.RoleProfessor, models.RoleStaff:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Unknown role")))
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RoleRequired only lets the listed roles through
func (m *IdentityMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Missing identity")))
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Role not allowed for this operation")))
	}
}

// CurrentUserID returns the caller's user id from the context
func CurrentUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// CurrentRole returns the caller's role from the context
func CurrentRole(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}
