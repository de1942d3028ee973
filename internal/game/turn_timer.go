// internal/game/turn_timer.go
package game

import (
	"time"

	"github.com/sirupsen/logrus"

	engine "github.com/RikuRonka/LoveLetter/engine"
	"github.com/RikuRonka/LoveLetter/engine/agent"
)

// scheduleNextTurnTimer arms the timer for whoever must act now.
// Assumes lock is held by caller.
func (g *LoveLetterGame) scheduleNextTurnTimer() {
	g.stopTurnTimer()
	if g.TurnDuration <= 0 || g.GameOver || !g.Started || !g.Engine.IsRoundActive() {
		return
	}
	seat := g.Engine.ActingPlayer()
	if seat == engine.NoSeat {
		return
	}
	turnID := g.TurnID
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.Mu.Lock()
		defer g.Mu.Unlock()
		if g.GameOver || !g.Started || g.TurnID != turnID {
			return
		}
		g.handleTimeout(seat)
	})
}

func (g *LoveLetterGame) stopTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
}

// handleTimeout plays the stalled seat's turn, or resolves its pending
// choice, from the seat's own belief tracker.
// Assumes lock is held by caller.
func (g *LoveLetterGame) handleTimeout(seat uint8) {
	playerID := g.seatPlayer(seat)
	logger := g.log.WithFields(logrus.Fields{"player_id": playerID, "turn": g.TurnID})

	a := &g.agents[seat]
	a.SyncHand(&g.Engine)

	var (
		evs     []engine.Event
		err     error
		payload map[string]interface{}
	)
	if g.Engine.Pending.Type != engine.PendingNone && g.Engine.Pending.PlayerID == seat {
		keep := agent.ChooseKeep(g.Engine.Pending.OptionList())
		payload = map[string]interface{}{"choose": keep.String()}
		evs, err = g.Engine.ResolvePendingChoice(seat, keep)
	} else {
		play, ok := a.ChoosePlay(&g.Engine)
		if !ok {
			logger.Warn("Timed out seat has nothing to play.")
			return
		}
		payload = map[string]interface{}{"card": play.Card.String()}
		if play.Target != engine.NoSeat {
			payload["target"] = g.seatPlayer(play.Target)
		}
		if play.Guess.Valid() {
			payload["guess"] = play.Guess.String()
		}
		evs, err = g.Engine.PlayCard(seat, play.Card, play.Target, play.Guess)
	}
	if err != nil {
		logger.WithError(err).Error("Automatic play rejected.")
		return
	}
	logger.Info("Player timed out, playing automatically.")
	g.logAction(playerID, "player_timeout", payload)
	g.dispatch(evs)
}
