// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/RikuRonka/LoveLetter/engine"
	"github.com/RikuRonka/LoveLetter/engine/agent"
	"github.com/RikuRonka/LoveLetter/internal/cache"
	"github.com/RikuRonka/LoveLetter/internal/database"
	"github.com/RikuRonka/LoveLetter/internal/models"
)

// MinPlayersToStart is the smallest roster a match can be started with.
const MinPlayersToStart = 2

var (
	ErrAlreadyStarted   = errors.New("game already started")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrTableFull        = errors.New("table is full")
)

// HouseRules are the per-match options exposed to clients.
type HouseRules struct {
	TurnTimerSec           int  `json:"turnTimerSec"` // 0 disables the timer
	PointsToWin            int  `json:"pointsToWin"`  // 0 derives it from the player count
	AutoSelectSingleTarget bool `json:"autoSelectSingleTarget"`
	PrinceDrawsBurnedCard  bool `json:"princeDrawsBurnedCard"`
}

// DefaultHouseRules returns the standard rules with the turn timer off.
func DefaultHouseRules() HouseRules {
	return HouseRules{AutoSelectSingleTarget: true}
}

func (r HouseRules) engineRules() engine.HouseRules {
	er := engine.DefaultHouseRules()
	if r.PointsToWin > 0 && r.PointsToWin < 256 {
		er.PointsToWin = uint8(r.PointsToWin)
	}
	er.AutoSelectSingleTarget = r.AutoSelectSingleTarget
	er.PrinceDrawsBurnedCard = r.PrinceDrawsBurnedCard
	return er
}

// OnRoundEndFunc is called after every finished round.
type OnRoundEndFunc func(gameID uuid.UUID, result RoundResult)

// OnMatchEndFunc is called once a player reaches the winning score.
type OnMatchEndFunc func(gameID uuid.UUID, winners []uuid.UUID, scores map[uuid.UUID]int)

// LoveLetterGame is one running match and everything needed to talk to its
// players. All exported methods except Start and AddPlayer expect the caller
// to hold Mu.
type LoveLetterGame struct {
	ID     uuid.UUID
	HostID uuid.UUID // only the host may start the next round or a rematch

	HouseRules HouseRules
	Players    []*models.Player

	Engine         engine.GameState
	PlayerToEngine map[uuid.UUID]uint8
	EngineToPlayer [engine.MaxPlayers]uuid.UUID

	// Seed fixes the shuffle; 0 seeds from the clock.
	Seed uint64

	// One belief tracker per seat, fed every engine event. The turn timer
	// plays a stalled seat from its tracker.
	agents [engine.MaxPlayers]agent.AgentState

	TurnID       int
	TurnDuration time.Duration
	turnTimer    *time.Timer
	actionIndex  int

	Started  bool
	GameOver bool

	Mu  sync.Mutex
	log *logrus.Entry

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnRoundEnd          OnRoundEndFunc
	OnMatchEnd          OnMatchEndFunc
}

// NewLoveLetterGame creates an empty game. A nil logger falls back to the
// logrus standard logger.
func NewLoveLetterGame(rules HouseRules, logger *logrus.Entry) *LoveLetterGame {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	id := uuid.New()
	g := &LoveLetterGame{
		ID:             id,
		HouseRules:     rules,
		PlayerToEngine: make(map[uuid.UUID]uint8),
		log:            logger.WithField("game_id", id),
	}
	if rules.TurnTimerSec > 0 {
		g.TurnDuration = time.Duration(rules.TurnTimerSec) * time.Second
	}
	return g
}

// AddPlayer seats p. The first player added becomes the host unless HostID
// is already set.
func (g *LoveLetterGame) AddPlayer(p *models.Player) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started {
		return ErrAlreadyStarted
	}
	if len(g.Players) >= engine.MaxPlayers {
		return ErrTableFull
	}
	g.Players = append(g.Players, p)
	if g.HostID == uuid.Nil {
		g.HostID = p.ID
	}
	return nil
}

// Start builds the engine from the roster and deals the first round.
func (g *LoveLetterGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started {
		return ErrAlreadyStarted
	}
	if len(g.Players) < MinPlayersToStart {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPlayers, len(g.Players), MinPlayersToStart)
	}

	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = displayName(p)
		g.PlayerToEngine[p.ID] = uint8(i)
		g.EngineToPlayer[i] = p.ID
	}
	seed := g.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	eng, err := engine.NewGame(seed, names, g.HouseRules.engineRules())
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	g.Engine = eng
	for i := range g.Players {
		g.agents[i] = agent.NewAgentState(uint8(i), eng.NumPlayers)
	}

	g.Started = true
	g.log.WithField("players", len(g.Players)).Info("Match started.")
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{"players": names, "pointsToWin": g.Engine.PointsToWin})
	g.persistMatchStart()

	return g.startRound()
}

// startRound deals a round and dispatches its opening events.
// Assumes lock is held by caller.
func (g *LoveLetterGame) startRound() error {
	evs, err := g.Engine.StartRound()
	if err != nil {
		return err
	}
	for i := uint8(0); i < g.Engine.NumPlayers; i++ {
		g.agents[i].Initialize(&g.Engine)
	}
	g.log.WithField("round", g.Engine.Round).Info("Round started.")
	g.logAction(uuid.Nil, "round_start", map[string]interface{}{"round": g.Engine.Round})
	g.dispatch(evs)
	return nil
}

func displayName(p *models.Player) string {
	if p.User != nil {
		return models.SanitizeName(p.User.Username)
	}
	return models.DefaultName
}

// fireEvent broadcasts an event to all connected players.
// Assumes lock is held by caller.
func (g *LoveLetterGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn == nil {
		g.log.WithField("event", ev.Type).Warn("BroadcastFn is nil, dropping event.")
		return
	}
	g.BroadcastFn(ev)
}

// fireEventToPlayer sends an event to one player if they are connected.
// Assumes lock is held by caller.
func (g *LoveLetterGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.log.WithFields(logrus.Fields{"event": ev.Type, "player_id": playerID}).Warn("BroadcastToPlayerFn is nil, dropping private event.")
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && p.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// HandleDisconnect marks a player as absent. The seat is kept; a running
// turn timer still resolves their turns.
// Assumes lock is held by caller.
func (g *LoveLetterGame) HandleDisconnect(playerID uuid.UUID) {
	p := g.getPlayerByID(playerID)
	if p == nil {
		g.log.WithField("player_id", playerID).Warn("Disconnected player not found.")
		return
	}
	if !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	g.log.WithField("player_id", playerID).Info("Player disconnected.")
	g.logAction(playerID, "player_disconnect", nil)
	g.broadcastSyncStateToAll()
}

// HandleReconnect reattaches conn to a seated player and sends them the
// current state.
// Assumes lock is held by caller.
func (g *LoveLetterGame) HandleReconnect(playerID uuid.UUID, conn *websocket.Conn) {
	p := g.getPlayerByID(playerID)
	if p == nil {
		g.log.WithField("player_id", playerID).Warn("Reconnecting player not found.")
		g.logAction(playerID, "player_reconnect_fail", map[string]interface{}{"reason": "player not found"})
		if conn != nil {
			conn.Close(websocket.StatusPolicyViolation, "You are not seated in this match.")
		}
		return
	}
	p.Connected = true
	p.Conn = conn
	g.log.WithField("player_id", playerID).Info("Player connected.")
	g.logAction(playerID, "player_reconnect", map[string]interface{}{"username": displayName(p)})

	g.sendSyncState(playerID)
	g.broadcastSyncStateToAll()
}

// sendSyncState sends the obfuscated state for one player.
// Assumes lock is held by caller.
func (g *LoveLetterGame) sendSyncState(playerID uuid.UUID) {
	state := g.GetCurrentObfuscatedGameState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends each connected player their own view.
// Assumes lock is held by caller.
func (g *LoveLetterGame) broadcastSyncStateToAll() {
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// countConnectedPlayers returns the number of connected players.
// Assumes lock is held by caller.
func (g *LoveLetterGame) countConnectedPlayers() int {
	n := 0
	for _, p := range g.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// Abandoned reports whether a finished or never-started match has nobody
// left connected.
// Assumes lock is held by caller.
func (g *LoveLetterGame) Abandoned() bool {
	return (g.GameOver || !g.Started) && g.countConnectedPlayers() == 0
}

// IsSeated reports whether playerID belongs to this match.
// Assumes lock is held by caller.
func (g *LoveLetterGame) IsSeated(playerID uuid.UUID) bool {
	return g.getPlayerByID(playerID) != nil
}

// ConnectionOf returns the connection currently attached to playerID.
// Assumes lock is held by caller.
func (g *LoveLetterGame) ConnectionOf(playerID uuid.UUID) *websocket.Conn {
	if p := g.getPlayerByID(playerID); p != nil {
		return p.Conn
	}
	return nil
}

func (g *LoveLetterGame) getPlayerByID(playerID uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// seatPlayer maps an engine seat to its player id, uuid.Nil for NoSeat.
func (g *LoveLetterGame) seatPlayer(seat uint8) uuid.UUID {
	if int(seat) >= len(g.EngineToPlayer) {
		return uuid.Nil
	}
	return g.EngineToPlayer[seat]
}

// logAction sends an action record to the historian via Redis.
// Assumes lock is held by caller.
func (g *LoveLetterGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	if cache.Rdb == nil {
		return
	}
	logger := g.log
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			logger.WithError(err).WithField("action", rec.ActionType).Error("Failed publishing action to Redis.")
		}
	}(record)
}

// persistMatchStart records the match and its roster.
// Assumes lock is held by caller.
func (g *LoveLetterGame) persistMatchStart() {
	if database.DB == nil {
		return
	}
	roster := make([]database.MatchPlayer, len(g.Players))
	for i, p := range g.Players {
		roster[i] = database.MatchPlayer{ID: p.ID, Name: g.Engine.Players[i].Name, Seat: i}
	}
	id, points, logger := g.ID, int(g.Engine.PointsToWin), g.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.UpsertMatch(ctx, id, points, roster); err != nil {
			logger.WithError(err).Error("Failed to persist match.")
		}
	}()
}

// persistRound stores and announces a round result.
// Assumes lock is held by caller.
func (g *LoveLetterGame) persistRound(res RoundResult) {
	if database.DB == nil && cache.Rdb == nil {
		return
	}
	id, logger := g.ID, g.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreRoundResult(ctx, id, res.Round, res); err != nil {
			logger.WithError(err).WithField("round", res.Round).Error("Failed to persist round result.")
		}
		if err := cache.PublishRoundSummary(ctx, id, res); err != nil {
			logger.WithError(err).WithField("round", res.Round).Error("Failed to publish round result.")
		}
	}()
}

// persistMatchEnd marks the match finished.
// Assumes lock is held by caller.
func (g *LoveLetterGame) persistMatchEnd(winners []uuid.UUID) {
	if database.DB == nil {
		return
	}
	id, logger := g.ID, g.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreMatchResult(ctx, id, winners); err != nil {
			logger.WithError(err).Error("Failed to persist match result.")
		}
	}()
}
