package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderdesk/internal/model"
	"orderdesk/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func buildRouter(jwtUtil *utils.JWTUtil, allowed ...model.Role) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthMiddleware(jwtUtil)}
	if len(allowed) > 0 {
		handlers = append(handlers, RoleMiddleware(allowed...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := c.Get(AuthRoleKey)
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(AuthUserKey), "role": role})
	})
	r.GET("/protected", handlers...)
	return r
}

func tokenFor(t *testing.T, jwtUtil *utils.JWTUtil, role string) string {
	t.Helper()
	tok, err := jwtUtil.GenerateToken(testUserID, "Test User", role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtUtil := utils.NewJWTUtil(testSecret, "orderdesk", 1)
	other := utils.NewJWTUtil("another-secret", "orderdesk", 1)
	r := buildRouter(jwtUtil)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", tokenFor(t, jwtUtil, "WarehouseStaff"), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"foreign signature", tokenFor(t, other, "Owner"), http.StatusUnauthorized},
		{"unknown role claim", tokenFor(t, jwtUtil, "Janitor"), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "UNAUTHORIZED", body["code"])
			}
		})
	}
}

func TestJWTAuthMiddleware_SetsContext(t *testing.T) {
	jwtUtil := utils.NewJWTUtil(testSecret, "orderdesk", 1)
	w := doRequest(buildRouter(jwtUtil), tokenFor(t, jwtUtil, "LogisticsLead"))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, testUserID, body["user"])
	assert.Equal(t, "LogisticsLead", body["role"])
}

func TestOwnerMiddleware(t *testing.T) {
	jwtUtil := utils.NewJWTUtil(testSecret, "orderdesk", 1)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(jwtUtil), OwnerMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, doRequest(r, tokenFor(t, jwtUtil, "Owner")).Code)

	for _, role := range []string{"OperationsLead", "WarehouseStaff", "LogisticsLead"} {
		w := doRequest(r, tokenFor(t, jwtUtil, role))
		assert.Equal(t, http.StatusForbidden, w.Code, role)
		assert.Contains(t, w.Body.String(), `"code":"FORBIDDEN"`)
	}
}

func TestRoleMiddleware_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/protected", RoleMiddleware(model.RoleOwner), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, doRequest(r, "").Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/protected", func(c *gin.Context) {
		c.Set(AuthUserKey, "u-1")
		c.Status(http.StatusTeapot)
	})

	doRequest(r, "")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/protected", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "u-1", line["user_id"])
	assert.Equal(t, "warn", line["level"])
}
