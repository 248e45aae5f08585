package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/electivehub/internal/app/models"
)

func newIdentityRouter(handler gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewIdentityMiddleware("X-User-Id", "X-User-Role")

	router := gin.New()
	chain := append([]gin.HandlerFunc{m.Trusted()}, extra...)
	chain = append(chain, handler)
	router.GET("/probe", chain...)
	return router
}

func TestTrusted_ValidHeadersPopulateContext(t *testing.T) {
	var gotID int64
	var gotRole models.Role
	router := newIdentityRouter(func(c *gin.Context) {
		gotID, _ = CurrentUserID(c)
		gotRole, _ = CurrentRole(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Role", "STUDENT")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), gotID)
	assert.Equal(t, models.RoleStudent, gotRole)
}

func TestTrusted_MissingHeadersRejected(t *testing.T) {
	router := newIdentityRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTrusted_BadUserIDRejected(t *testing.T) {
	router := newIdentityRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "not-a-number")
	req.Header.Set("X-User-Role", "STUDENT")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTrusted_UnknownRoleRejected(t *testing.T) {
	router := newIdentityRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Role", "SUPERUSER")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequired_BlocksOtherRoles(t *testing.T) {
	m := NewIdentityMiddleware("X-User-Id", "X-User-Role")
	router := newIdentityRouter(
		func(c *gin.Context) { c.Status(http.StatusOK) },
		m.RoleRequired(models.RoleStaff),
	)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "42")
	req.Header.Set("X-User-Role", "STUDENT")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleRequired_AllowsListedRole(t *testing.T) {
	m := NewIdentityMiddleware("X-User-Id", "X-User-Role")
	router := newIdentityRouter(
		func(c *gin.Context) { c.Status(http.StatusOK) },
		m.RoleRequired(models.RoleProfessor, models.RoleStaff),
	)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-Id", "7")
	req.Header.Set("X-User-Role", "PROFESSOR")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
