package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devevent/models"
)

// GET /bookings?eventId=&email=
func (d *deps) getBookings(c *gin.Context) {
	var filter models.BookingFilter
	if raw := c.Query("eventId"); raw != "" {
		id, err := models.ParseEventID(raw)
		if err != nil {
			respondError(c, err, "Failed to fetch bookings")
			return
		}
		filter.EventID = id
	}
	filter.Email = c.Query("email")

	ctx := c.Request.Context()
	bookings, err := d.bookings.Find(ctx, filter)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}
	views, err := d.bookingSvc.Populate(ctx, bookings)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(views), "data": views})
}

type createBookingRequest struct {
	EventID string `json:"eventId"`
	Email   string `json:"email"`
}

// POST /bookings
func (d *deps) createBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	if strings.TrimSpace(req.EventID) == "" || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields",
			"message": "eventId and email are required",
		})
		return
	}
	eventID, err := models.ParseEventID(req.EventID)
	if err != nil {
		respondError(c, err, "Booking creation failed")
		return
	}

	ctx := c.Request.Context()
	// lookup-then-insert; two concurrent requests can both pass this check
	exists, err := d.bookings.Exists(ctx, eventID, req.Email)
	if err != nil {
		respondError(c, err, "Booking creation failed")
		return
	}
	if exists {
		respondError(c, models.ErrAlreadyBooked, "Booking creation failed")
		return
	}

	booking, err := d.bookingSvc.Create(ctx, eventID, req.Email)
	if err != nil {
		respondError(c, err, "Booking creation failed")
		return
	}
	views, err := d.bookingSvc.Populate(ctx, []models.Booking{booking})
	if err != nil {
		respondError(c, err, "Booking creation failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking created successfully",
		"data":    views[0],
	})
}

// GET /bookings/:id
func (d *deps) getBooking(c *gin.Context) {
	id, err := models.ParseBookingID(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	ctx := c.Request.Context()
	booking, err := d.bookings.GetByID(ctx, id)
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	views, err := d.bookingSvc.Populate(ctx, []models.Booking{booking})
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": views[0]})
}

// DELETE /bookings/:id
func (d *deps) deleteBooking(c *gin.Context) {
	id, err := models.ParseBookingID(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}
	booking, err := d.bookings.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
		"data":    booking,
	})
}
