package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"devevent/models"
)

// respondError maps a domain error onto the JSON envelope. failure names the
// operation and is only used for unclassified errors.
func respondError(c *gin.Context, err error, failure string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validation failed",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Booking not found"})
	case errors.Is(err, models.ErrReferencedEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Event not found",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Event not found"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Booking already exists",
			"message": err.Error(),
		})
	default:
		_ = c.Error(err)
		log.WithError(err).Error(failure)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   failure,
			"message": err.Error(),
		})
	}
}

func badJSON(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Could not parse request data",
		"message": err.Error(),
	})
}
