package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmmpclub/prep-backend/internal/response"
	"github.com/pmmpclub/prep-backend/internal/service"
)

// CheckActiveLogin validates the JWT's JTI against the learner's
// single active login slot. A token superseded by a newer login is
// rejected.
func CheckActiveLogin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := authService.ValidateLoginSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
