// Package agent implements card-counting belief tracking and a simple play
// policy for seats that must be played automatically.
package agent

import (
	engine "github.com/RikuRonka/LoveLetter/engine"
)

// AgentState holds what one seat knows beyond the public snapshot.
// It is a flat value type so it can be copied with =.
type AgentState struct {
	PlayerID   uint8
	NumPlayers uint8

	// Own hand as last reported by a private event.
	OwnHand    [engine.MaxHandSize]engine.CardKind
	OwnHandLen uint8

	// Known[s] is the card seat s is believed to hold, NoCard if unknown.
	Known [engine.MaxPlayers]engine.CardKind
}

// NewAgentState creates an AgentState with nothing known.
func NewAgentState(playerID, numPlayers uint8) AgentState {
	a := AgentState{PlayerID: playerID, NumPlayers: numPlayers}
	a.forgetAll()
	return a
}

func (a *AgentState) forgetAll() {
	for i := range a.Known {
		a.Known[i] = engine.NoCard
	}
}

// Initialize syncs the own hand from the engine at the start of a round.
func (a *AgentState) Initialize(g *engine.GameState) {
	a.forgetAll()
	a.setOwnHand(g.Players[a.PlayerID].HandCards())
}

// SyncHand refreshes the own hand straight from the engine.
func (a *AgentState) SyncHand(g *engine.GameState) {
	a.setOwnHand(g.Players[a.PlayerID].HandCards())
}

// Clone returns an independent copy.
func (a *AgentState) Clone() AgentState { return *a }

func (a *AgentState) setOwnHand(hand []engine.CardKind) {
	a.OwnHandLen = 0
	for _, k := range hand {
		if int(a.OwnHandLen) == len(a.OwnHand) {
			break
		}
		a.OwnHand[a.OwnHandLen] = k
		a.OwnHandLen++
	}
}

// ownOther returns the own card that is not played, assuming a two-card hand.
func (a *AgentState) ownOther(played engine.CardKind) engine.CardKind {
	skipped := false
	for i := uint8(0); i < a.OwnHandLen; i++ {
		if !skipped && a.OwnHand[i] == played {
			skipped = true
			continue
		}
		return a.OwnHand[i]
	}
	return engine.NoCard
}

func (a *AgentState) learn(seat uint8, k engine.CardKind) {
	if int(seat) >= len(a.Known) || seat == a.PlayerID {
		return
	}
	a.Known[seat] = k
}

func (a *AgentState) forget(seat uint8) {
	if int(seat) < len(a.Known) {
		a.Known[seat] = engine.NoCard
	}
}

// Observe updates beliefs from one event. Events addressed to other seats
// are ignored, so callers may feed the full event stream.
func (a *AgentState) Observe(ev engine.Event) {
	if !ev.Public() && !addressedTo(ev, a.PlayerID) {
		return
	}
	switch p := ev.Payload.(type) {
	case engine.RoundStartedPayload:
		a.forgetAll()
	case engine.HandPayload:
		if p.Seat == a.PlayerID {
			a.setOwnHand(p.Hand)
		}
	case engine.PrivateTurnPayload:
		if p.Seat == a.PlayerID {
			a.setOwnHand(p.Hand)
		}
	case engine.RevealPayload:
		a.learn(p.Target, p.Card)
	case engine.ComparePayload:
		if p.Actor == a.PlayerID {
			a.learn(p.Target, p.TargetCard)
		} else {
			a.learn(p.Actor, p.ActorCard)
		}
	case engine.EliminatedPayload:
		a.forget(p.Seat)
	case engine.CardPlayedPayload:
		a.observePlay(p)
	}
}

func (a *AgentState) observePlay(p engine.CardPlayedPayload) {
	if a.Known[p.Seat] == p.Card {
		// They played the card we knew about; the other one is new to us.
		a.forget(p.Seat)
	}
	if p.NoEffect {
		return
	}
	switch p.Card {
	case engine.Prince:
		a.forget(p.Target)
	case engine.Chancellor:
		a.forget(p.Seat)
	case engine.King:
		switch a.PlayerID {
		case p.Seat:
			a.learn(p.Target, a.ownOther(engine.King))
		case p.Target:
			if a.OwnHandLen > 0 {
				a.learn(p.Seat, a.OwnHand[0])
			}
		default:
			a.Known[p.Seat], a.Known[p.Target] = a.Known[p.Target], a.Known[p.Seat]
		}
	}
}

func addressedTo(ev engine.Event, seat uint8) bool {
	for _, r := range ev.Recipients {
		if r == seat {
			return true
		}
	}
	return false
}

// Unseen counts, per kind, the copies this seat has not seen: the full deck
// minus its own hand and every public discard.
func (a *AgentState) Unseen(pub engine.PublicState) [engine.NumKinds]int {
	var out [engine.NumKinds]int
	for _, k := range engine.AllKinds {
		out[k] = int(k.Count())
	}
	for i := uint8(0); i < a.OwnHandLen; i++ {
		if a.OwnHand[i].Valid() {
			out[a.OwnHand[i]]--
		}
	}
	for _, p := range pub.Players {
		for _, d := range p.Discards {
			if d.Valid() {
				out[d]--
			}
		}
	}
	for k := range out {
		if out[k] < 0 {
			out[k] = 0
		}
	}
	return out
}
