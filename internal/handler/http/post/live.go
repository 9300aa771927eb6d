package post

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"postpulse/internal/common/pagination"
	"postpulse/internal/observability/logging"
	"postpulse/internal/usecase/listing"
	"postpulse/internal/usecase/query"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxCommandSize = 512
)

// Command is a navigation request sent by a live view client.
type Command struct {
	Action string `json:"action" enums:"next,previous,goto"`
	Page   int    `json:"page,omitempty"`
}

// LiveMessage is pushed to the client. Type is "state" or "error".
type LiveMessage struct {
	Type  string      `json:"type"`
	State *ListingDTO `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// LiveHandler keeps one listing view per websocket connection and pushes its
// state on every change. The view is torn down when the connection closes.
type LiveHandler struct {
	Cache           *query.Cache
	PaginationCfg   pagination.Config
	SummaryWords    int
	RefreshInterval time.Duration
	RefreshSchedule string
	Upgrader        websocket.Upgrader
	Logger          *slog.Logger
}

// ServeHTTP upgrades the connection and runs the live view
// @Summary      Live listing
// @Description  Websocket. The server pushes {"type":"state"} on every change; the client sends {"action":"next"|"previous"|"goto","page":n}.
// @Tags         posts
// @Success      101  {object}  LiveMessage
// @Router       /posts/live [get]
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), loggerOrDefault(h.Logger))

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	states := make(chan listing.State, 1)
	view, err := listing.NewView(h.Cache, listing.Options{
		PageSize:        h.PaginationCfg.PageSize,
		RefreshInterval: h.RefreshInterval,
		RefreshSchedule: h.RefreshSchedule,
		Surface:         "websocket",
		Logger:          logger,
		OnChange: func(st listing.State) {
			// Latest state wins; OnChange calls are serialized.
			select {
			case <-states:
			default:
			}
			states <- st
		},
	})
	if err != nil {
		logger.Error("live view setup failed", slog.String("error", err.Error()))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "view setup failed"),
			time.Now().Add(writeWait))
		return
	}
	defer view.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notices := make(chan string, 4)
	go h.readCommands(conn, view, notices, cancel, logger)

	view.Mount(ctx)
	logger.Info("live view opened", slog.String("view_id", view.ID()))
	defer logger.Info("live view closed", slog.String("view_id", view.ID()))

	words := summaryWordsOrDefault(h.SummaryWords)
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		var msg LiveMessage
		select {
		case <-ctx.Done():
			return
		case st := <-states:
			dto := FromState(st, words)
			msg = LiveMessage{Type: "state", State: &dto}
		case notice := <-notices:
			msg = LiveMessage{Type: "error", Error: notice}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("live view write failed", slog.String("error", err.Error()))
			return
		}
	}
}

// readCommands applies client commands until the connection fails, then cancels.
func (h *LiveHandler) readCommands(conn *websocket.Conn, view *listing.View, notices chan<- string, cancel context.CancelFunc, logger *slog.Logger) {
	defer cancel()

	conn.SetReadLimit(maxCommandSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("live view read failed", slog.String("error", err.Error()))
			}
			if !isDecodeError(err) {
				return
			}
			notify(notices, "invalid command: must be JSON")
			continue
		}

		switch cmd.Action {
		case listing.ActionNext:
			view.Next()
		case listing.ActionPrevious:
			view.Previous()
		case listing.ActionGoTo:
			view.GoTo(cmd.Page)
		default:
			notify(notices, "unsupported action: "+cmd.Action)
		}
	}
}

func notify(notices chan<- string, msg string) {
	select {
	case notices <- msg:
	default:
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
