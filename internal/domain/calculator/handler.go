// Package calculator exposes the bedside score calculators as stateless
// endpoints, for tools that need a single score without recording an
// observation set.
package calculator

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wardboard/wardboard/internal/clinical/score"
	"github.com/wardboard/wardboard/internal/platform/auth"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/calculators", auth.RequireRole("admin", "doctor", "nurse"))
	g.POST("/mean-arterial-pressure", h.MeanArterialPressure)
	g.POST("/glasgow-coma-scale", h.GlasgowComa)
	g.POST("/early-warning", h.EarlyWarning)
	g.POST("/pneumonia-severity", h.PneumoniaSeverity)
	g.POST("/corrected-calcium", h.CorrectedCalcium)
	g.POST("/corrected-qt", h.CorrectedQT)
}

func respond(c echo.Context, result score.Result, err error) error {
	switch {
	case errors.Is(err, score.ErrInsufficientInput):
		return echo.NewHTTPError(http.StatusBadRequest, "insufficient input")
	case errors.Is(err, score.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) MeanArterialPressure(c echo.Context) error {
	var in struct {
		Systolic  *float64 `json:"systolic"`
		Diastolic *float64 `json:"diastolic"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := score.MeanArterialPressure(in.Systolic, in.Diastolic)
	return respond(c, result, err)
}

func (h *Handler) GlasgowComa(c echo.Context) error {
	var in score.GlasgowComaInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := score.GlasgowComa(in)
	return respond(c, result, err)
}

func (h *Handler) EarlyWarning(c echo.Context) error {
	var in score.EarlyWarningInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := score.EarlyWarning(in)
	return respond(c, result, err)
}

func (h *Handler) PneumoniaSeverity(c echo.Context) error {
	var in score.PneumoniaInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := score.PneumoniaSeverity(in)
	return respond(c, result, err)
}

func (h *Handler) CorrectedCalcium(c echo.Context) error {
	var in struct {
		Calcium *float64 `json:"calcium"`
		Albumin *float64 `json:"albumin"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := score.CorrectedCalcium(in.Calcium, in.Albumin)
	return respond(c, result, err)
}

func (h *Handler) CorrectedQT(c echo.Context) error {
	var in struct {
		QTMs      *float64 `json:"qt_ms"`
		HeartRate *float64 `json:"heart_rate"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := score.CorrectedQT(in.QTMs, in.HeartRate)
	return respond(c, result, err)
}
