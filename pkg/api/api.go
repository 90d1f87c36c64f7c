package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/service"
)

const enrichTimeout = 10 * time.Second

// Enricher supplies best-effort ride text.
type Enricher interface {
	SafetyBrief(ctx context.Context, origin, destination string) string
}

type MapURLer interface {
	URL(address string) string
}

type Handler struct {
	svc   service.IServiceManager
	genai Enricher
	maps  MapURLer
	log   logger.ILogger
}

func NewRouter(svc service.IServiceManager, genai Enricher, maps MapURLer, log logger.ILogger) *gin.Engine {
	h := &Handler{svc: svc, genai: genai, maps: maps, log: log}

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := r.Group("/api")
	{
		api.GET("/rides", h.searchRides)
		api.GET("/rides/:id", h.getRide)
		api.GET("/rides/:id/brief", h.rideBrief)
		api.POST("/rides/:id/bookings", h.bookRide)
		api.GET("/passengers/:id/bookings", h.passengerBookings)
		api.GET("/drivers/pending", h.pendingDrivers)
		api.GET("/maps/static", h.staticMap)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, port int, handler http.Handler, log logger.ILogger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http api listening", logger.Int("port", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type bookRequest struct {
	PassengerID string `json:"passengerId" binding:"required"`
	Seats       int    `json:"seats" binding:"required"`
}

func (h *Handler) searchRides(c *gin.Context) {
	filter := service.SearchFilter{
		Origin:      c.Query("from"),
		Destination: c.Query("to"),
	}
	if seats := c.Query("seats"); seats != "" {
		if _, err := fmt.Sscan(seats, &filter.Seats); err != nil {
			h.fail(c, apperrors.Validation("seats must be a number"))
			return
		}
	}

	rides, err := h.svc.Ride().Search(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rides)
}

func (h *Handler) getRide(c *gin.Context) {
	ride, err := h.svc.Ride().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ride)
}

func (h *Handler) rideBrief(c *gin.Context) {
	ride, err := h.svc.Ride().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), enrichTimeout)
	defer cancel()
	c.JSON(http.StatusOK, gin.H{
		"rideId": ride.ID,
		"brief":  h.genai.SafetyBrief(ctx, ride.Origin, ride.Destination),
	})
}

func (h *Handler) bookRide(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.Validation("invalid booking request: %v", err))
		return
	}

	booking, err := h.svc.Booking().Book(c.Request.Context(), c.Param("id"), req.PassengerID, req.Seats)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *Handler) passengerBookings(c *gin.Context) {
	bookings, err := h.svc.Booking().PassengerBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) pendingDrivers(c *gin.Context) {
	users, err := h.svc.Driver().PendingReview(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) staticMap(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"url": h.maps.URL(c.Query("address"))})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("api request failed", logger.String("path", c.FullPath()), logger.Error(err))
	}
	c.JSON(status, gin.H{
		"error": apperrors.MessageOf(err),
		"kind":  apperrors.KindOf(err),
	})
}

func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInsufficientSeats, apperrors.KindAlreadyExists:
		return http.StatusConflict
	case apperrors.KindInvalidState:
		return http.StatusUnprocessableEntity
	case apperrors.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
