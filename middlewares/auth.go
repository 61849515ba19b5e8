package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"devevent/utils"
)

const AdminEmailKey = "adminEmail"

// RequireAdmin accepts "Authorization: Bearer <jwt>" signed with secret and
// stores the admin email in the context. With an empty secret the guard is off.
func RequireAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Not authorized",
			})
			return
		}
		email, err := utils.VerifyToken(strings.TrimSpace(token), secret)
		if err != nil {
			log.WithError(err).Debug("admin token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Not authorized",
			})
			return
		}
		c.Set(AdminEmailKey, email)
		c.Next()
	}
}
