// internal/game/events.go
package game

import (
	"github.com/google/uuid"
)

// GameEventType represents the type of a game-related event sent over WebSockets.
type GameEventType string

// Public events go to every connected player; private_* events only to the
// players they concern.
const (
	EventGameState        GameEventType = "game_state"        // Public: snapshot without any hand contents.
	EventGameLog          GameEventType = "game_log"          // Public: human-readable game text.
	EventRoundStart       GameEventType = "round_start"       // Public: a round was dealt.
	EventPlayerTurn       GameEventType = "player_turn"       // Public: whose turn it is.
	EventCardPlayed       GameEventType = "card_played"       // Public: a card was played, with target and guess.
	EventPlayerEliminated GameEventType = "player_eliminated" // Public: a player is out of the round.
	EventRoundEnd         GameEventType = "round_end"         // Public: round summary.
	EventMatchEnd         GameEventType = "match_end"         // Public: final summary.

	EventPrivateHand           GameEventType = "private_hand"            // Private: the recipient's hand changed.
	EventPrivateYourTurn       GameEventType = "private_your_turn"       // Private: hand, playable cards and the Countess flag.
	EventPrivateReveal         GameEventType = "private_reveal"          // Private: Priest result.
	EventPrivateCompare        GameEventType = "private_compare"         // Private: Baron result for both players.
	EventPrivateChoiceOffered  GameEventType = "private_choice_offered"  // Private: Chancellor candidates.
	EventPrivateSyncState      GameEventType = "private_sync_state"      // Private: full state for one player.
	EventPrivateActionRejected GameEventType = "private_action_rejected" // Private: why an action was refused.
)

// EventUser identifies a player within a GameEvent.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// GameEvent is the standard structure for broadcasting game changes.
type GameEvent struct {
	Type   GameEventType `json:"type"`
	User   *EventUser    `json:"user,omitempty"`   // The acting or affected player.
	Target *EventUser    `json:"target,omitempty"` // The player a card was aimed at.
	Card   string        `json:"card,omitempty"`   // Card name, when one is involved.

	Payload map[string]interface{} `json:"payload,omitempty"`

	State *ObfGameState `json:"state,omitempty"` // Set for game_state and private_sync_state.
}

// ResultRow is one player's line in a RoundResult.
type ResultRow struct {
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	Winner   bool      `json:"winner"`
	Bonus    bool      `json:"bonus"`
	Survived bool      `json:"survived"`
}

// RoundResult is the client and storage form of a finished round.
type RoundResult struct {
	Round       int         `json:"round"`
	Title       string      `json:"title"`
	Winners     []uuid.UUID `json:"winners"`
	BonusPlayer *uuid.UUID  `json:"bonusPlayer,omitempty"`
	Reason      string      `json:"reason"`
	PointsToWin int         `json:"pointsToWin"`
	MatchOver   bool        `json:"matchOver"`
	Rows        []ResultRow `json:"rows"`
}
