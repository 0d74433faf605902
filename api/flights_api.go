package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/airline/internal/domain"
	"github.com/Domenick1991/airline/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightAPIHandler struct {
	service flights.FlightUseCase
}

func NewFlightAPIHandler(service flights.FlightUseCase) *FlightAPIHandler {
	return &FlightAPIHandler{service: service}
}

// Register mounts the JSON endpoints. auth guards the mutating ones.
func (h *FlightAPIHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/flights", h.list)
	router.GET("/flights/:id", h.get)
	router.POST("/flights/:id/passengers", h.book)
	router.PATCH("/flights/:id", auth, h.updateCapacity)
}

type airportResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	City string `json:"city"`
}

type flightResponse struct {
	ID          int64           `json:"id"`
	Origin      airportResponse `json:"origin"`
	Destination airportResponse `json:"destination"`
	Duration    int             `json:"duration"`
	Capacity    int             `json:"capacity"`
	Passengers  int             `json:"passengers"`
	SeatsLeft   int             `json:"seats_left"`
}

type flightDetailResponse struct {
	Flight        flightResponse     `json:"flight"`
	Passengers    []domain.Passenger `json:"passengers"`
	NonPassengers []domain.Passenger `json:"non_passengers"`
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:          f.ID,
		Origin:      airportResponse{ID: f.Origin.ID, Code: f.Origin.Code, City: f.Origin.City},
		Destination: airportResponse{ID: f.Destination.ID, Code: f.Destination.Code, City: f.Destination.City},
		Duration:    f.Duration,
		Capacity:    f.Capacity,
		Passengers:  f.Passengers,
		SeatsLeft:   f.SeatsLeft(),
	}
}

type bookRequest struct {
	PassengerID int64 `json:"passenger_id" binding:"required,gt=0"`
}

type capacityRequest struct {
	Capacity *int `json:"capacity" binding:"required"`
}

func (h *FlightAPIHandler) list(c *gin.Context) {
	flights, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	resp := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightAPIHandler) get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flightDetailResponse{
		Flight:        toFlightResponse(detail.Flight),
		Passengers:    detail.Passengers,
		NonPassengers: detail.NonPassengers,
	})
}

func (h *FlightAPIHandler) book(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passenger_id is required"})
		return
	}

	flight, err := h.service.Book(c.Request.Context(), id, req.PassengerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(*flight))
}

func (h *FlightAPIHandler) updateCapacity(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req capacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity is required"})
		return
	}

	flight, err := h.service.UpdateCapacity(c.Request.Context(), id, *req.Capacity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrPassengerNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrPassengerNotFound.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
	case errors.Is(err, domain.ErrFlightFull):
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrFlightFull.Error()})
	case errors.Is(err, domain.ErrInvalidCapacity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
