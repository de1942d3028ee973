// internal/session/manager.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RikuRonka/LoveLetter/internal/auth"
	"github.com/RikuRonka/LoveLetter/internal/game"
	"github.com/RikuRonka/LoveLetter/internal/models"
)

// WriteTimeout bounds a single websocket write.
const WriteTimeout = 2 * time.Second

var (
	ErrGameNotFound = errors.New("game not found")
	ErrBadHost      = errors.New("host index out of range")
)

// SeatToken is what a client needs to join its seat.
type SeatToken struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Token string    `json:"token"`
}

// Manager is the registry of live games and of the writers feeding their
// connections.
type Manager struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*game.LoveLetterGame
	log   *logrus.Entry

	outMu    sync.Mutex
	outboxes map[*websocket.Conn]*outbox
}

// NewManager creates an empty registry.
func NewManager(logger *logrus.Entry) *Manager {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Manager{
		games:    make(map[uuid.UUID]*game.LoveLetterGame),
		log:      logger.WithField("component", "session"),
		outboxes: make(map[*websocket.Conn]*outbox),
	}
}

// Create seats names in order, makes names[hostIndex] the host, starts the
// match and issues one token per seat. Players start disconnected until
// their websocket arrives.
func (m *Manager) Create(names []string, hostIndex int, rules game.HouseRules) (*game.LoveLetterGame, []SeatToken, error) {
	if hostIndex < 0 || hostIndex >= len(names) {
		return nil, nil, ErrBadHost
	}
	g := game.NewLoveLetterGame(rules, m.log)
	g.BroadcastFn = m.broadcastFn(g)
	g.BroadcastToPlayerFn = m.broadcastToPlayerFn(g)

	tokens := make([]SeatToken, 0, len(names))
	for _, name := range names {
		name = models.SanitizeName(name)
		p := &models.Player{ID: uuid.New(), User: &models.User{ID: uuid.New(), Username: name}}
		if err := g.AddPlayer(p); err != nil {
			return nil, nil, err
		}
		token, err := auth.CreateJWT(p.ID, g.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("issuing token: %w", err)
		}
		tokens = append(tokens, SeatToken{ID: p.ID, Name: name, Token: token})
	}
	g.HostID = tokens[hostIndex].ID

	if err := g.Start(); err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()
	m.log.WithFields(logrus.Fields{"game_id": g.ID, "players": len(names)}).Info("Match created.")
	return g, tokens, nil
}

// Get looks up a live game.
func (m *Manager) Get(id uuid.UUID) (*game.LoveLetterGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Remove drops a game from the registry.
func (m *Manager) Remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; ok {
		delete(m.games, id)
		m.log.WithField("game_id", id).Info("Match removed.")
	}
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// broadcastFn queues ev for every connected player of g. It runs under the
// game lock, so the player list is stable.
func (m *Manager) broadcastFn(g *game.LoveLetterGame) func(game.GameEvent) {
	return func(ev game.GameEvent) {
		for _, p := range g.Players {
			m.write(g.ID, p, ev)
		}
	}
}

func (m *Manager) broadcastToPlayerFn(g *game.LoveLetterGame) func(uuid.UUID, game.GameEvent) {
	return func(playerID uuid.UUID, ev game.GameEvent) {
		for _, p := range g.Players {
			if p.ID == playerID {
				m.write(g.ID, p, ev)
				return
			}
		}
	}
}

// write queues ev for p without blocking. A connection whose queue is full
// is closed; the client resyncs when it reconnects.
func (m *Manager) write(gameID uuid.UUID, p *models.Player, ev game.GameEvent) {
	if !p.Connected || p.Conn == nil {
		return
	}
	if m.outboxFor(gameID, p.ID, p.Conn).enqueue(ev) {
		return
	}
	m.log.WithFields(logrus.Fields{
		"game_id":   gameID,
		"player_id": p.ID,
		"event":     ev.Type,
	}).Warn("Send queue full, closing connection.")
	m.Detach(p.Conn)
	_ = p.Conn.CloseNow()
}

func (m *Manager) outboxFor(gameID, playerID uuid.UUID, conn *websocket.Conn) *outbox {
	m.outMu.Lock()
	defer m.outMu.Unlock()
	if ob, ok := m.outboxes[conn]; ok {
		return ob
	}
	ob := newOutbox(func(ctx context.Context, ev game.GameEvent) error {
		return wsjson.Write(ctx, conn, ev)
	}, m.log.WithFields(logrus.Fields{"game_id": gameID, "player_id": playerID}))
	m.outboxes[conn] = ob
	return ob
}

// Detach stops the writer for conn once its queued events are sent. Call it
// when the connection's read loop ends.
func (m *Manager) Detach(conn *websocket.Conn) {
	m.outMu.Lock()
	ob, ok := m.outboxes[conn]
	delete(m.outboxes, conn)
	m.outMu.Unlock()
	if ok {
		ob.close()
	}
}
