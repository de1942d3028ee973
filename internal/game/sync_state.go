// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	engine "github.com/RikuRonka/LoveLetter/engine"
)

// ObfPlayerState is one player as seen by a particular observer.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	Seat          int       `json:"seat"`
	Connected     bool      `json:"connected"`
	IsHost        bool      `json:"isHost"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	Eliminated    bool      `json:"eliminated"`
	Protected     bool      `json:"protected"`
	Score         int       `json:"score"`
	HandSize      int       `json:"handSize"`
	Discards      []string  `json:"discards"`
	// Hand is populated only for the observer's own seat.
	Hand []string `json:"hand,omitempty"`
}

// ObfGameState is the match state for one observer. It never contains
// another player's hand, the deck order or the burned cards.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"gameId"`
	Started         bool             `json:"started"`
	GameOver        bool             `json:"gameOver"`
	Round           int              `json:"round"`
	RoundActive     bool             `json:"roundActive"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	PendingPlayerID uuid.UUID        `json:"pendingPlayerId,omitempty"`
	TurnID          int              `json:"turnId"`
	DeckSize        int              `json:"deckSize"`
	BurnedCount     int              `json:"burnedCount"`
	PointsToWin     int              `json:"pointsToWin"`
	Players         []ObfPlayerState `json:"players"`
	HouseRules      HouseRules       `json:"houseRules"`

	// Observer-only fields.
	Playable         []string `json:"playable,omitempty"`
	MustPlayCountess bool     `json:"mustPlayCountess,omitempty"`
	ChoiceOptions    []string `json:"choiceOptions,omitempty"`
}

// GetCurrentObfuscatedGameState snapshots the match for forUser. uuid.Nil
// yields the spectator view.
// Assumes lock is held by caller.
func (g *LoveLetterGame) GetCurrentObfuscatedGameState(forUser uuid.UUID) ObfGameState {
	return g.obfuscate(g.Engine.Public(), forUser)
}

// obfuscate builds an observer view from a public snapshot, adding the
// observer's own hand and choices from the live engine.
func (g *LoveLetterGame) obfuscate(pub engine.PublicState, forUser uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:      g.ID,
		Started:     g.Started,
		GameOver:    g.GameOver,
		Round:       int(pub.Round),
		RoundActive: pub.Active,
		TurnID:      g.TurnID,
		DeckSize:    int(pub.DeckCount),
		BurnedCount: int(pub.BurnedCount),
		PointsToWin: int(pub.PointsToWin),
		Players:     make([]ObfPlayerState, 0, len(g.Players)),
		HouseRules:  g.HouseRules,
	}
	if pub.Active {
		obf.CurrentPlayerID = g.seatPlayer(pub.CurrentPlayer)
	}
	if pub.PendingSeat != engine.NoSeat {
		obf.PendingPlayerID = g.seatPlayer(pub.PendingSeat)
	}

	for i, p := range g.Players {
		ps := ObfPlayerState{
			PlayerID:  p.ID,
			Username:  displayName(p),
			Seat:      i,
			Connected: p.Connected,
			IsHost:    p.ID == g.HostID,
			Discards:  []string{},
		}
		if i < len(pub.Players) {
			pp := pub.Players[i]
			ps.Username = pp.Name
			ps.IsCurrentTurn = pub.Active && pub.CurrentPlayer == uint8(i)
			ps.Eliminated = pp.Eliminated
			ps.Protected = pp.Protected
			ps.Score = int(pp.Score)
			ps.HandSize = int(pp.HandSize)
			ps.Discards = cardNames(pp.Discards)
		}
		if p.ID == forUser && forUser != uuid.Nil && i < int(g.Engine.NumPlayers) {
			ps.Hand = cardNames(g.Engine.Players[i].HandCards())
		}
		obf.Players = append(obf.Players, ps)
	}

	if seat, ok := g.PlayerToEngine[forUser]; ok && forUser != uuid.Nil && g.Engine.IsRoundActive() {
		switch {
		case g.Engine.Pending.Type != engine.PendingNone && g.Engine.Pending.PlayerID == seat:
			obf.ChoiceOptions = cardNames(g.Engine.Pending.OptionList())
		case g.Engine.CurrentPlayer == seat:
			obf.Playable = cardNames(g.Engine.LegalPlays(seat))
			obf.MustPlayCountess = g.Engine.MustPlayCountess(seat)
		}
	}
	return obf
}
