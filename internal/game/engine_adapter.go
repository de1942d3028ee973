// internal/game/engine_adapter.go
package game

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/RikuRonka/LoveLetter/engine"
)

// dispatch feeds engine events to the seat trackers, sends them to clients
// and applies their side effects on the service state.
// Assumes lock is held by caller.
func (g *LoveLetterGame) dispatch(evs []engine.Event) {
	for _, ev := range evs {
		for i := uint8(0); i < g.Engine.NumPlayers; i++ {
			g.agents[i].Observe(ev)
		}

		out := g.translate(ev)
		if ev.Public() {
			g.fireEvent(out)
		} else {
			for _, seat := range ev.Recipients {
				g.fireEventToPlayer(g.seatPlayer(seat), out)
			}
		}

		switch p := ev.Payload.(type) {
		case engine.TurnPayload:
			g.onTurnStarted(p.Seat)
		case engine.ChoicePayload:
			g.onTurnStarted(p.Seat)
		case engine.RoundSummary:
			g.onRoundEnded(p)
		}
	}
}

// translate converts one engine event into its wire form.
func (g *LoveLetterGame) translate(ev engine.Event) GameEvent {
	switch p := ev.Payload.(type) {
	case engine.PublicState:
		state := g.obfuscate(p, uuid.Nil)
		return GameEvent{Type: EventGameState, State: &state}

	case engine.LogPayload:
		return GameEvent{Type: EventGameLog, Payload: map[string]interface{}{"message": p.Message}}

	case engine.RoundStartedPayload:
		return GameEvent{
			Type: EventRoundStart,
			User: g.eventUser(p.FirstPlayer),
			Payload: map[string]interface{}{
				"round":       int(p.Round),
				"burnedCount": int(p.BurnedCount),
			},
		}

	case engine.TurnPayload:
		return GameEvent{
			Type:    EventPlayerTurn,
			User:    g.eventUser(p.Seat),
			Payload: map[string]interface{}{"turn": int(g.Engine.TurnNumber)},
		}

	case engine.CardPlayedPayload:
		payload := map[string]interface{}{"noEffect": p.NoEffect}
		if p.Guess.Valid() {
			payload["guess"] = p.Guess.String()
		}
		return GameEvent{
			Type:    EventCardPlayed,
			User:    g.eventUser(p.Seat),
			Target:  g.eventUser(p.Target),
			Card:    p.Card.String(),
			Payload: payload,
		}

	case engine.EliminatedPayload:
		return GameEvent{
			Type:    EventPlayerEliminated,
			User:    g.eventUser(p.Seat),
			Payload: map[string]interface{}{"cause": p.Cause.String()},
		}

	case engine.HandPayload:
		return GameEvent{
			Type:    EventPrivateHand,
			User:    g.eventUser(p.Seat),
			Payload: map[string]interface{}{"hand": cardNames(p.Hand)},
		}

	case engine.PrivateTurnPayload:
		return GameEvent{
			Type: EventPrivateYourTurn,
			User: g.eventUser(p.Seat),
			Payload: map[string]interface{}{
				"hand":             cardNames(p.Hand),
				"playable":         cardNames(p.Playable),
				"mustPlayCountess": p.MustPlayCountess,
			},
		}

	case engine.RevealPayload:
		return GameEvent{
			Type:   EventPrivateReveal,
			User:   g.eventUser(p.Viewer),
			Target: g.eventUser(p.Target),
			Card:   p.Card.String(),
		}

	case engine.ComparePayload:
		payload := map[string]interface{}{
			"actorCard":  p.ActorCard.String(),
			"targetCard": p.TargetCard.String(),
			"tie":        p.Loser == engine.NoSeat,
		}
		if p.Loser != engine.NoSeat {
			payload["loser"] = g.seatPlayer(p.Loser)
		}
		return GameEvent{
			Type:    EventPrivateCompare,
			User:    g.eventUser(p.Actor),
			Target:  g.eventUser(p.Target),
			Payload: payload,
		}

	case engine.ChoicePayload:
		return GameEvent{
			Type:    EventPrivateChoiceOffered,
			User:    g.eventUser(p.Seat),
			Payload: map[string]interface{}{"options": cardNames(p.Options)},
		}

	case engine.RoundSummary:
		return GameEvent{
			Type:    EventRoundEnd,
			Payload: map[string]interface{}{"summary": g.roundResult(p)},
		}
	}

	g.log.WithField("kind", ev.Kind).Warn("Unhandled engine event.")
	return GameEvent{Type: EventGameLog}
}

func (g *LoveLetterGame) eventUser(seat uint8) *EventUser {
	if seat == engine.NoSeat || !g.Engine.ValidSeat(seat) {
		return nil
	}
	return &EventUser{ID: g.seatPlayer(seat)}
}

func cardNames(ks []engine.CardKind) []string {
	out := make([]string, 0, len(ks))
	for _, k := range ks {
		out = append(out, k.String())
	}
	return out
}

var winReasonNames = [...]string{
	engine.WinNone:         "none",
	engine.WinLastStanding: "last_standing",
	engine.WinHighCard:     "high_card",
	engine.WinDiscardSum:   "discard_sum",
	engine.WinShared:       "shared",
}

func winReasonName(r engine.WinReason) string {
	if int(r) < len(winReasonNames) {
		return winReasonNames[r]
	}
	return "unknown"
}

// roundResult maps seats in an engine summary to player ids.
func (g *LoveLetterGame) roundResult(s engine.RoundSummary) RoundResult {
	res := RoundResult{
		Round:       int(s.Round),
		Title:       s.Title(),
		Winners:     make([]uuid.UUID, 0, len(s.Winners)),
		Reason:      winReasonName(s.Reason),
		PointsToWin: int(s.PointsToWin),
		MatchOver:   s.MatchOver,
		Rows:        make([]ResultRow, 0, len(s.Rows)),
	}
	for _, w := range s.Winners {
		res.Winners = append(res.Winners, g.seatPlayer(w))
	}
	if s.BonusSeat != engine.NoSeat {
		id := g.seatPlayer(s.BonusSeat)
		res.BonusPlayer = &id
	}
	for _, r := range s.Rows {
		res.Rows = append(res.Rows, ResultRow{
			PlayerID: g.seatPlayer(r.Seat),
			Name:     r.Name,
			Score:    int(r.Score),
			Winner:   r.Winner,
			Bonus:    r.Bonus,
			Survived: r.Survived,
		})
	}
	return res
}

// onTurnStarted advances the turn counter and rearms the timer for seat.
// Assumes lock is held by caller.
func (g *LoveLetterGame) onTurnStarted(seat uint8) {
	g.TurnID++
	g.logAction(g.seatPlayer(seat), string(EventPlayerTurn), map[string]interface{}{"turn": g.TurnID})
	g.scheduleNextTurnTimer()
}

// onRoundEnded records a finished round and, when the match is decided,
// closes it.
// Assumes lock is held by caller.
func (g *LoveLetterGame) onRoundEnded(s engine.RoundSummary) {
	g.stopTurnTimer()
	res := g.roundResult(s)

	g.log.WithFields(logrus.Fields{"round": res.Round, "reason": res.Reason, "winners": res.Winners}).Info("Round ended.")
	g.logAction(uuid.Nil, string(EventRoundEnd), map[string]interface{}{"round": res.Round, "winners": res.Winners, "reason": res.Reason})
	g.persistRound(res)
	if g.OnRoundEnd != nil {
		g.OnRoundEnd(g.ID, res)
	}

	if !s.MatchOver {
		return
	}
	g.GameOver = true
	scores := make(map[uuid.UUID]int, g.Engine.NumPlayers)
	for i := uint8(0); i < g.Engine.NumPlayers; i++ {
		scores[g.seatPlayer(i)] = int(g.Engine.Players[i].Score)
	}
	g.fireEvent(GameEvent{
		Type:    EventMatchEnd,
		Payload: map[string]interface{}{"summary": res, "scores": scores},
	})
	g.log.WithField("winners", res.Winners).Info("Match over.")
	g.logAction(uuid.Nil, string(EventMatchEnd), map[string]interface{}{"winners": res.Winners})
	g.persistMatchEnd(res.Winners)
	if g.OnMatchEnd != nil {
		g.OnMatchEnd(g.ID, res.Winners, scores)
	}
}
