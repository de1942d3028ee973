// internal/game/player_actions.go
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/RikuRonka/LoveLetter/engine"
	"github.com/RikuRonka/LoveLetter/internal/models"
)

// Action types accepted from clients.
const (
	ActionPlay      = "action_play"
	ActionChoose    = "action_choose"
	ActionNextRound = "action_next_round"
	ActionRematch   = "action_rematch"
	ActionSync      = "action_sync"
)

var (
	errUnknownCard   = errors.New("unknown card")
	errUnknownTarget = errors.New("unknown target")
	errHostOnly      = errors.New("only the host can do that")
	errMatchRunning  = errors.New("the match is not over yet")
	errUnknownAction = errors.New("unknown action type")
)

// HandlePlayerAction validates and routes one client action. Rejected
// actions leave the match untouched and are answered privately.
// Assumes lock is held by the caller.
func (g *LoveLetterGame) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	logger := g.log.WithFields(logrus.Fields{"player_id": playerID, "action": action.ActionType})
	if !g.Started {
		logger.Debug("Action ignored, match not started.")
		return
	}
	player := g.getPlayerByID(playerID)
	if player == nil || !player.Connected {
		logger.Debug("Action from unknown or disconnected player ignored.")
		return
	}
	seat, ok := g.PlayerToEngine[playerID]
	if !ok {
		logger.Warn("Player has no engine seat.")
		return
	}

	var err error
	switch action.ActionType {
	case ActionPlay:
		err = g.handlePlay(playerID, seat, action.Payload)
	case ActionChoose:
		err = g.handleChoose(playerID, seat, action.Payload)
	case ActionNextRound:
		err = g.handleNextRound(playerID)
	case ActionRematch:
		err = g.handleRematch(playerID)
	case ActionSync:
		g.sendSyncState(playerID)
	default:
		err = errUnknownAction
	}
	if err != nil {
		logger.WithError(err).Debug("Action rejected.")
		g.rejectAction(playerID, action.ActionType, err)
	}
}

// handlePlay applies action_play: {card, target?, guess?}.
func (g *LoveLetterGame) handlePlay(playerID uuid.UUID, seat uint8, payload map[string]interface{}) error {
	card, err := cardField(payload, "card", true)
	if err != nil {
		return err
	}
	guess, err := cardField(payload, "guess", false)
	if err != nil {
		return err
	}
	target := engine.NoSeat
	if raw, ok := payload["target"].(string); ok && raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errUnknownTarget
		}
		t, ok := g.PlayerToEngine[id]
		if !ok {
			return errUnknownTarget
		}
		target = t
	}

	evs, err := g.Engine.PlayCard(seat, card, target, guess)
	if err != nil {
		return err
	}
	logPayload := map[string]interface{}{"card": card.String()}
	if target != engine.NoSeat {
		logPayload["target"] = g.seatPlayer(target)
	}
	if guess.Valid() {
		logPayload["guess"] = guess.String()
	}
	g.logAction(playerID, ActionPlay, logPayload)
	g.dispatch(evs)
	return nil
}

// handleChoose applies action_choose: {card}, the Chancellor keep.
func (g *LoveLetterGame) handleChoose(playerID uuid.UUID, seat uint8, payload map[string]interface{}) error {
	keep, err := cardField(payload, "card", true)
	if err != nil {
		return err
	}
	evs, err := g.Engine.ResolvePendingChoice(seat, keep)
	if err != nil {
		return err
	}
	g.logAction(playerID, ActionChoose, map[string]interface{}{"card": keep.String()})
	g.dispatch(evs)
	return nil
}

// handleNextRound deals the next round of a running match.
func (g *LoveLetterGame) handleNextRound(playerID uuid.UUID) error {
	if playerID != g.HostID {
		return errHostOnly
	}
	return g.startRound()
}

// handleRematch resets the scores of a finished match and deals again.
func (g *LoveLetterGame) handleRematch(playerID uuid.UUID) error {
	if playerID != g.HostID {
		return errHostOnly
	}
	if !g.GameOver {
		return errMatchRunning
	}
	if err := g.Engine.ResetMatch(); err != nil {
		return err
	}
	g.GameOver = false
	g.log.Info("Rematch started.")
	g.logAction(playerID, ActionRematch, nil)
	g.persistMatchStart()
	return g.startRound()
}

// rejectAction tells playerID why their action was refused.
// Assumes lock is held by caller.
func (g *LoveLetterGame) rejectAction(playerID uuid.UUID, actionType string, err error) {
	payload := map[string]interface{}{
		"action":  actionType,
		"message": err.Error(),
	}
	var ip *engine.IllegalPlayError
	if errors.As(err, &ip) {
		payload["reason"] = ip.Reason.String()
		if ip.Reason == engine.ReasonInvalidTarget {
			payload["target"] = ip.Target.String()
		}
	}
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateActionRejected, Payload: payload})
	g.logAction(playerID, string(EventPrivateActionRejected), payload)
}

// cardField reads a card name from payload. A missing optional field
// yields NoCard.
func cardField(payload map[string]interface{}, key string, required bool) (engine.CardKind, error) {
	raw, ok := payload[key].(string)
	if !ok || raw == "" {
		if required {
			return engine.NoCard, fmt.Errorf("%w: %s is required", errUnknownCard, key)
		}
		return engine.NoCard, nil
	}
	k, ok := engine.ParseCardKind(raw)
	if !ok {
		return engine.NoCard, fmt.Errorf("%w: %q", errUnknownCard, raw)
	}
	return k, nil
}
