package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"mizan/internal/vector"
)

const maxQueryLength = 500

func queryParam(c echo.Context) (string, error) {
	q := c.QueryParam("q")
	if len(q) > maxQueryLength {
		return "", echo.NewHTTPError(http.StatusBadRequest, ReturnType{Message: "Max query length is 500 characters."})
	}
	return q, nil
}

func (handler *Handler) SearchHandler(c echo.Context) error {
	q, err := queryParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReturnType{Data: handler.Engine.SearchHadiths(c.Request().Context(), q)})
}

func (handler *Handler) SearchHeadingsHandler(c echo.Context) error {
	q, err := queryParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ReturnType{Data: handler.Engine.SearchHeadings(c.Request().Context(), q)})
}

func (handler *Handler) SemanticSearchHandler(c echo.Context) error {
	if handler.Semantic == nil {
		return c.JSON(http.StatusServiceUnavailable, ReturnType{Message: "Semantic search is not enabled."})
	}
	q, err := queryParam(c)
	if err != nil {
		return err
	}

	var limit uint64
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ReturnType{Message: "Invalid limit."})
		}
	}

	matches, err := handler.Semantic.Search(c.Request().Context(), q, limit)
	if errors.Is(err, vector.ErrEmptyQuery) {
		return c.JSON(http.StatusBadRequest, ReturnType{Message: "Query is required."})
	}
	if err != nil {
		handler.Logger.Error("Semantic search failed", zap.String("query", q), zap.Error(err))
		return c.JSON(http.StatusBadGateway, ReturnType{Message: "Semantic search failed."})
	}
	return c.JSON(http.StatusOK, ReturnType{Data: matches})
}
