package triage

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/igd/triage/internal/domain/queue"
	"github.com/igd/triage/internal/platform/auth"
	"github.com/igd/triage/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	station := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	station.POST("/triage/:patientRef/begin", h.BeginAssessment)
	station.POST("/triage/:patientRef/assess", h.CompleteAssessment)
	station.GET("/triage/:patientRef/latest", h.LatestRecord)
	station.GET("/triage-records", h.ListRecords)
	station.GET("/triage-records/:id", h.GetRecord)
}

func (h *Handler) BeginAssessment(c echo.Context) error {
	ref, err := uuid.Parse(c.Param("patientRef"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient ref")
	}
	entry, err := h.svc.BeginAssessment(c.Request().Context(), ref)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) CompleteAssessment(c echo.Context) error {
	ref, err := uuid.Parse(c.Param("patientRef"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient ref")
	}
	var in AssessmentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in.PatientRef = ref
	if in.AssessedBy == "" {
		in.AssessedBy = auth.UserIDFromContext(c.Request().Context())
	}

	rec, entry, err := h.svc.CompleteAssessment(c.Request().Context(), in)
	if err != nil {
		return domainHTTPError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"record": rec,
		"entry":  entry,
	})
}

func (h *Handler) LatestRecord(c echo.Context) error {
	ref, err := uuid.Parse(c.Param("patientRef"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient ref")
	}
	rec, err := h.svc.LatestRecord(c.Request().Context(), ref)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no triage record for patient")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Record(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "triage record not found")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListRecords(c echo.Context) error {
	pg := pagination.FromContext(c)
	if patientRef := c.QueryParam("patient_ref"); patientRef != "" {
		ref, err := uuid.Parse(patientRef)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_ref")
		}
		items, total, err := h.svc.ListRecordsByPatient(c.Request().Context(), ref, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	items, total, err := h.svc.ListRecords(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// domainHTTPError maps the engine's recoverable error kinds onto HTTP
// statuses so stations can tell "re-check vitals" from "another station
// already triaged this patient".
func domainHTTPError(err error) *echo.HTTPError {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, queue.ErrUnknownPatient):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, queue.ErrConcurrentModification),
		errors.Is(err, queue.ErrInvalidTransition),
		errors.Is(err, queue.ErrDuplicateEntry):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
