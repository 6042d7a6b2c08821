package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConsultationChecker reports whether a user still has consultation
// allowance (free credit or active subscription).
type ConsultationChecker interface {
	CanConsult(ctx context.Context, userID string) (bool, error)
}

// RequireConsultationCredit blocks consultation endpoints for users whose
// free credit is spent and who hold no active subscription. Blocked
// requests get 402 with the upgrade hint; the request never reaches the
// analysis engine.
func RequireConsultationCredit(checker ConsultationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
			return
		}

		allowed, err := checker.CanConsult(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "consultation check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":   "consultation limit reached",
				"message": "Your free consultation has been used. Please purchase a plan to continue.",
			})
			return
		}
		c.Next()
	}
}
