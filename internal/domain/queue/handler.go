package queue

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/igd/triage/internal/platform/auth"
)

// Metrics is the subset of the metrics surface the handler reports to.
type Metrics interface {
	ObserveTransition(status string)
}

type Handler struct {
	mgr     *Manager
	metrics Metrics
}

func NewHandler(mgr *Manager) *Handler {
	return &Handler{mgr: mgr}
}

// SetMetrics attaches an optional metrics sink to the handler.
func (h *Handler) SetMetrics(m Metrics) { h.metrics = m }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	read.GET("/queue", h.Snapshot)
	read.GET("/queue/next", h.Next)
	read.GET("/queue/:patientRef", h.Entry)

	write := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	write.POST("/queue/arrivals", h.Enqueue)
	write.POST("/queue/:patientRef/transition", h.Transition)
}

type arrivalRequest struct {
	PatientRef     uuid.UUID `json:"patient_ref"`
	ArrivalTime    time.Time `json:"arrival_time"`
	ChiefComplaint string    `json:"chief_complaint"`
}

func (h *Handler) Enqueue(c echo.Context) error {
	var req arrivalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientRef == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_ref is required")
	}
	if req.ArrivalTime.IsZero() {
		req.ArrivalTime = time.Now()
	}
	if err := h.mgr.Enqueue(req.PatientRef, req.ArrivalTime, req.ChiefComplaint); err != nil {
		return queueHTTPError(err)
	}
	entry, err := h.mgr.Entry(req.PatientRef)
	if err != nil {
		return queueHTTPError(err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) Entry(c echo.Context) error {
	ref, err := uuid.Parse(c.Param("patientRef"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient ref")
	}
	entry, err := h.mgr.Entry(ref)
	if err != nil {
		return queueHTTPError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) Snapshot(c echo.Context) error {
	var statuses []Status
	if raw := c.QueryParam("status"); raw != "" {
		s := Status(raw)
		if !s.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status filter")
		}
		statuses = append(statuses, s)
	}
	return c.JSON(http.StatusOK, h.mgr.Snapshot(statuses...))
}

func (h *Handler) Next(c echo.Context) error {
	entry, ok := h.mgr.Next()
	if !ok {
		// Empty queue is a normal condition, not an error.
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, entry)
}

type transitionRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) Transition(c echo.Context) error {
	ref, err := uuid.Parse(c.Param("patientRef"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient ref")
	}
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.mgr.Transition(ref, req.Status)
	if err != nil {
		return queueHTTPError(err)
	}
	if h.metrics != nil {
		h.metrics.ObserveTransition(string(req.Status))
	}
	return c.JSON(http.StatusOK, entry)
}

func queueHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrUnknownPatient):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateEntry),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConcurrentModification):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
