package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/Domenick1991/airline/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	logger  *slog.Logger
}

func NewFlightHandler(service flights.FlightUseCase, logger *slog.Logger) *FlightHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlightHandler{service: service, logger: logger}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.index)
	router.GET("/:id", h.flight)
	router.POST("/:id/book", h.book)
}

type bookForm struct {
	Passenger int64 `form:"passenger" binding:"required,gt=0"`
}

func (h *FlightHandler) index(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.HTML(http.StatusOK, "flights/index.html", gin.H{"flights": flights})
}

func (h *FlightHandler) flight(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		notFound(c, "Flight not found.")
		return
	}

	detail, err := h.service.Detail(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c, "Flight not found.")
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.HTML(http.StatusOK, "flights/flight.html", gin.H{
		"flight":         detail.Flight,
		"passengers":     detail.Passengers,
		"non_passengers": detail.NonPassengers,
	})
}

// book always lands back on the flight page, including when the flight is
// already full and the booking was refused.
func (h *FlightHandler) book(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		notFound(c, "Flight not found.")
		return
	}

	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "Bad Request: no passenger chosen")
		return
	}

	ctx := c.Request.Context()
	_, err = h.service.Book(ctx, id, form.Passenger)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrFlightFull):
		h.logger.InfoContext(ctx, "booking refused, flight full", "flight_id", id, "passenger_id", form.Passenger)
	case errors.Is(err, domain.ErrPassengerNotFound):
		c.String(http.StatusBadRequest, "Bad Request: passenger does not exist")
		return
	case errors.Is(err, domain.ErrNotFound):
		notFound(c, "Flight not found.")
		return
	default:
		internalError(c, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s%d", flightsPath, id))
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
