package lab

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wardboard/wardboard/internal/platform/auth"
	"github.com/wardboard/wardboard/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "doctor", "nurse", "clerk"))
	readGroup.GET("/patients/:id/labs", h.ListPanels)
	readGroup.GET("/patients/:id/labs/trend", h.Trend)
	readGroup.GET("/labs/:panelId", h.GetPanel)
	readGroup.GET("/labs/critical", h.ListCritical)

	writeGroup := api.Group("", auth.RequireRole("admin", "doctor", "nurse"))
	writeGroup.POST("/patients/:id/labs", h.RecordPanel)
}

func (h *Handler) RecordPanel(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	var p Panel
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.PatientID = patientID

	if err := h.svc.RecordPanel(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPanel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("panelId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid panel id")
	}
	p, err := h.svc.GetPanel(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "panel not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPanels(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	pg := pagination.FromContext(c)
	panels, total, err := h.svc.ListPanels(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(panels, total, pg.Limit, pg.Offset))
}

func (h *Handler) Trend(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	analyteName := c.QueryParam("analyte")
	analyteKey := c.QueryParam("analyte_key")
	windowDays, _ := strconv.Atoi(c.QueryParam("window_days"))

	trend, err := h.svc.Trend(c.Request().Context(), patientID, analyteName, analyteKey, windowDays)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if trend == nil {
		return echo.NewHTTPError(http.StatusNotFound, "not enough data for a trend")
	}
	return c.JSON(http.StatusOK, trend)
}

func (h *Handler) ListCritical(c echo.Context) error {
	var patientID *uuid.UUID
	if raw := c.QueryParam("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		patientID = &id
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	criticals, err := h.svc.ListCritical(c.Request().Context(), patientID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, criticals)
}
