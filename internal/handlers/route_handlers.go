package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"mizan/internal/search"
	"mizan/internal/settings"
	"mizan/internal/share"
	"mizan/internal/vector"
	"mizan/internal/volume"
)

type ReturnType struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// StreamReturnType - one frame of the live search socket
type StreamReturnType struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Done    bool        `json:"done"` // so the client knows the socket is going away
}

type ImageExporter interface {
	Export(ctx context.Context, card share.Card) ([]byte, error)
}

type SemanticSearcher interface {
	Search(ctx context.Context, query string, limit uint64) ([]vector.SemanticMatch, error)
}

// Handler - Everything the routes need. Semantic may be nil when the vector db is switched off.
type Handler struct {
	Store       *volume.Store
	Engine      *search.Engine
	Settings    *settings.Service
	Exporter    ImageExporter
	Semantic    SemanticSearcher
	Debounce    time.Duration
	FrontendURL string
	Logger      *zap.Logger
}

func NewHandler(store *volume.Store, engine *search.Engine, settingsSvc *settings.Service, exporter ImageExporter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		Engine:   engine,
		Settings: settingsSvc,
		Exporter: exporter,
		Debounce: search.DefaultDebounce,
		Logger:   logger,
	}
}

// intParam - positive integer route param, 400 otherwise
func intParam(c echo.Context, name string) (int, error) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, echo.NewHTTPError(400, ReturnType{Message: fmt.Sprintf("Invalid %s: %q", name, raw)})
	}
	return n, nil
}
