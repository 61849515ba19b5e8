package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devevent/models"
	"devevent/utils"
)

// POST /login issues an admin token when the credentials match the configured
// admin account.
func (d *deps) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	admin := models.Admin{Email: d.auth.AdminEmail, PasswordHash: d.auth.AdminPasswordHash}
	if d.auth.Secret == "" || !admin.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "Admin login is not configured",
		})
		return
	}

	if err := admin.ValidateCredentials(req.Email, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Could not authenticate user",
		})
		return
	}

	token, err := utils.GenerateToken(models.NormalizeEmail(admin.Email), d.auth.Secret, d.auth.TokenTTL)
	if err != nil {
		respondError(c, err, "Could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful!",
		"data":    gin.H{"token": token},
	})
}
