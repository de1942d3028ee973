// internal/handlers/handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RikuRonka/LoveLetter/internal/auth"
	"github.com/RikuRonka/LoveLetter/internal/game"
	"github.com/RikuRonka/LoveLetter/internal/models"
	"github.com/RikuRonka/LoveLetter/internal/session"
)

// Handler serves the match HTTP and websocket endpoints.
type Handler struct {
	Sessions       *session.Manager
	Rules          game.HouseRules
	AllowedOrigins []string
	log            *logrus.Entry
}

// New creates a Handler. rules are applied to every match it creates.
func New(sessions *session.Manager, rules game.HouseRules, origins []string, logger *logrus.Entry) *Handler {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handler{
		Sessions:       sessions,
		Rules:          rules,
		AllowedOrigins: origins,
		log:            logger.WithField("component", "http"),
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /matches", h.CreateMatch)
	mux.HandleFunc("GET /ws", h.ServeWS)
	return mux
}

// Health reports that the process is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type createMatchRequest struct {
	Players []string `json:"players"`
	Host    int      `json:"host"`
}

type createMatchResponse struct {
	MatchID uuid.UUID           `json:"matchId"`
	Players []session.SeatToken `json:"players"`
}

// CreateMatch starts a match for a fixed roster and returns a token per seat.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	g, tokens, err := h.Sessions.Create(req.Players, req.Host, h.Rules)
	switch {
	case errors.Is(err, game.ErrNotEnoughPlayers), errors.Is(err, game.ErrTableFull), errors.Is(err, session.ErrBadHost):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.WithError(err).Error("Failed to create match.")
		writeError(w, http.StatusInternalServerError, "could not create match")
		return
	}
	writeJSON(w, http.StatusCreated, createMatchResponse{MatchID: g.ID, Players: tokens})
}

// ServeWS attaches an authenticated player's websocket to their seat and
// dispatches their actions until the connection drops.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID, gameID, err := auth.AuthenticateJWT(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	g, err := h.Sessions.Get(gameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "match not found")
		return
	}
	g.Mu.Lock()
	seated := g.IsSeated(playerID)
	g.Mu.Unlock()
	if !seated {
		writeError(w, http.StatusForbidden, "not seated in this match")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.AllowedOrigins})
	if err != nil {
		h.log.WithError(err).Warn("Websocket accept failed.")
		return
	}
	logger := h.log.WithFields(logrus.Fields{"game_id": gameID, "player_id": playerID})

	g.Mu.Lock()
	if old := g.ConnectionOf(playerID); old != nil {
		_ = old.CloseNow()
	}
	g.HandleReconnect(playerID, conn)
	g.Mu.Unlock()

	ctx := r.Context()
	for {
		var action models.GameAction
		if err := wsjson.Read(ctx, conn, &action); err != nil {
			if websocket.CloseStatus(err) == -1 {
				logger.WithError(err).Debug("Websocket read ended.")
			}
			break
		}
		g.Mu.Lock()
		g.HandlePlayerAction(playerID, action)
		g.Mu.Unlock()
	}

	g.Mu.Lock()
	if g.ConnectionOf(playerID) == conn {
		g.HandleDisconnect(playerID)
	}
	abandoned := g.Abandoned()
	g.Mu.Unlock()
	h.Sessions.Detach(conn)
	conn.Close(websocket.StatusNormalClosure, "")

	if abandoned {
		h.Sessions.Remove(gameID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
