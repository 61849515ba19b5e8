// routes/routes.go
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"devevent/config"
	"devevent/middlewares"
	"devevent/models"
)

// Options carries everything main wires into the HTTP layer.
type Options struct {
	Events    models.EventRepository
	Bookings  models.BookingRepository
	Redis     *redis.Client // nil disables the booking quota
	Auth      config.Auth
	RateLimit config.RateLimit
	Quota     config.Quota
	Analytics config.Analytics
	// Health reports store reachability for /healthz. Nil means always healthy.
	Health func(ctx context.Context) error
}

type deps struct {
	events     models.EventRepository
	bookings   models.BookingRepository
	eventSvc   *models.EventService
	bookingSvc *models.BookingService
	auth       config.Auth
	health     func(ctx context.Context) error
}

func RegisterRoutes(server *gin.Engine, o Options) error {
	d := &deps{
		events:     o.Events,
		bookings:   o.Bookings,
		eventSvc:   models.NewEventService(o.Events),
		bookingSvc: models.NewBookingService(o.Events, o.Bookings),
		auth:       o.Auth,
		health:     o.Health,
	}

	server.Use(middlewares.RequestID(), middlewares.AccessLog())

	// global per-IP limit
	globalLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     o.RateLimit.RPS,
		Burst:   o.RateLimit.Burst,
		IdleTTL: o.RateLimit.IdleTTL,
	})
	server.Use(globalLimiter.Middleware(middlewares.ClientIPKey("ip:")))

	// login is limited harder: one attempt every 2s per IP
	authLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     0.5,
		Burst:   2,
		IdleTTL: 10 * time.Minute,
	})
	server.POST("/login", authLimiter.Middleware(middlewares.ClientIPKey("login:")), d.login)

	server.GET("/healthz", d.healthz)

	server.GET("/events", d.getEvents)
	server.GET("/events/:slug", d.getEvent)
	server.GET("/events/:slug/similar", d.getSimilarEvents)

	admin := server.Group("/")
	admin.Use(middlewares.RequireAdmin(o.Auth.Secret))
	admin.POST("/events", d.createEvent)
	admin.PUT("/events/:slug", d.updateEvent)
	admin.DELETE("/events/:slug", d.deleteEvent)

	server.GET("/bookings", d.getBookings)
	server.POST("/bookings",
		middlewares.Quota(o.Redis, middlewares.QuotaRule{
			Limit:  o.Quota.Limit,
			Window: o.Quota.Window,
			KeyFn:  middlewares.BookingQuotaKey,
		}),
		d.createBooking,
	)
	server.GET("/bookings/:id", d.getBooking)
	server.DELETE("/bookings/:id", d.deleteBooking)

	if o.Analytics.Enabled {
		ingest, err := newIngestProxy(o.Analytics)
		if err != nil {
			return err
		}
		server.Any("/ingest/*path", ingest)
		log.Infof("analytics proxy enabled: %s", o.Analytics.Host)
	}
	return nil
}

// GET /healthz
func (d *deps) healthz(c *gin.Context) {
	if d.health != nil {
		if err := d.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "Database unavailable",
				"message": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}
