package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"mizan/internal/search"
)

// liveQuery - what the client sends on every keystroke
type liveQuery struct {
	Query string `json:"query"`
}

func (handler *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || handler.FrontendURL == "" || origin == handler.FrontendURL
		},
	}
}

// LiveSearchHandler - Search-as-you-type over a websocket. Only the newest query's results are ever sent.
func (handler *Handler) LiveSearchHandler(c echo.Context) error {
	conn, err := handler.upgrader().Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the error response
		handler.Logger.Debug("Live search upgrade failed", zap.Error(err))
		return nil
	}
	defer conn.Close()

	id := uuid.NewString()
	logger := handler.Logger.With(zap.String("session", id))
	session := search.NewSession(c.Request().Context(), handler.Engine, handler.Debounce, logger)
	defer session.Close()
	logger.Debug("Live search session opened")

	// reader: gorilla allows one concurrent reader and one concurrent writer, so reads get their own goroutine
	go func() {
		defer session.Close()
		for {
			var msg liveQuery
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Debug("Live search read ended", zap.Error(err))
				}
				return
			}
			if len(msg.Query) > maxQueryLength {
				continue
			}
			session.Submit(msg.Query)
		}
	}()

	for {
		select {
		case <-session.Done():
			if err := conn.WriteJSON(StreamReturnType{Done: true}); err != nil {
				logger.Debug("Live search done frame not sent", zap.Error(err))
			}
			logger.Debug("Live search session closed")
			return nil
		case res := <-session.Results():
			// a newer query may have come in while this one was queued
			if !session.Current(res.Seq) {
				continue
			}
			if err := conn.WriteJSON(StreamReturnType{Data: res}); err != nil {
				logger.Debug("Live search write failed", zap.Error(err))
				return nil
			}
		}
	}
}
