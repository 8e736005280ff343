package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"mizan/internal/settings"
)

func (handler *Handler) GetSettingsHandler(c echo.Context) error {
	current, err := handler.Settings.Get(c.Request().Context())
	if err != nil {
		handler.Logger.Error("Reading font settings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ReturnType{Message: "Could not read settings.", Data: current})
	}
	return c.JSON(http.StatusOK, ReturnType{Data: current})
}

// UpdateSettingsHandler - PATCH semantics: fields missing from the body are left as they are
func (handler *Handler) UpdateSettingsHandler(c echo.Context) error {
	var patch settings.FontSettingsPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ReturnType{Message: "Invalid request body. Error: " + err.Error()})
	}

	updated, err := handler.Settings.Update(c.Request().Context(), patch)
	if errors.Is(err, settings.ErrInvalidSettings) {
		return c.JSON(http.StatusBadRequest, ReturnType{Message: err.Error(), Data: updated})
	}
	if err != nil {
		handler.Logger.Error("Saving font settings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ReturnType{Message: "Could not save settings.", Data: updated})
	}
	return c.JSON(http.StatusOK, ReturnType{Data: updated})
}

func (handler *Handler) ResetSettingsHandler(c echo.Context) error {
	defaults, err := handler.Settings.Reset(c.Request().Context())
	if err != nil {
		handler.Logger.Error("Resetting font settings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ReturnType{Message: "Could not reset settings.", Data: defaults})
	}
	return c.JSON(http.StatusOK, ReturnType{Data: defaults})
}
