package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"devevent/models"
)

// GET /events
func (d *deps) getEvents(c *gin.Context) {
	events, err := d.events.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch events")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(events), "data": events})
}

// GET /events/:slug
func (d *deps) getEvent(c *gin.Context) {
	event, err := d.events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to fetch event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": event})
}

// GET /events/:slug/similar never fails; unknown slugs get an empty list.
func (d *deps) getSimilarEvents(c *gin.Context) {
	similar := models.SimilarEventsBySlug(c.Request.Context(), d.events, c.Param("slug"))
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(similar), "data": similar})
}

// POST /events
func (d *deps) createEvent(c *gin.Context) {
	var patch models.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badJSON(c, err)
		return
	}
	event, err := d.eventSvc.Create(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err, "Event creation failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Event created successfully",
		"data":    event,
	})
}

// PUT /events/:slug
func (d *deps) updateEvent(c *gin.Context) {
	var patch models.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badJSON(c, err)
		return
	}
	event, err := d.eventSvc.Update(c.Request.Context(), c.Param("slug"), patch)
	if err != nil {
		respondError(c, err, "Failed to update event")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event updated successfully",
		"data":    event,
	})
}

// DELETE /events/:slug leaves the event's bookings in place.
func (d *deps) deleteEvent(c *gin.Context) {
	event, err := d.events.DeleteBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Failed to delete event")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event deleted successfully",
		"data":    event,
	})
}
