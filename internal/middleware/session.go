package middleware

import (
	"net/http"

	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// CheckSingleDeviceLogin validates the JWT's JTI against the active login
// session in Redis. A mismatch means the login was reset by an operator or
// superseded elsewhere; the request is rejected.
func CheckSingleDeviceLogin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		// Only enforced for participant tokens.
		if claims.TokenType != service.TokenTypeParticipant {
			c.Next()
			return
		}

		if err := authService.ValidateParticipantLogin(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
