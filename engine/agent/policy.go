package agent

import (
	engine "github.com/RikuRonka/LoveLetter/engine"
)

// Play is one complete PlayCard argument set.
type Play struct {
	Card   engine.CardKind
	Target uint8
	Guess  engine.CardKind
}

// ChooseGuess names the kind target most likely holds. A known card wins;
// otherwise the most common unseen non-Guard kind, higher rank on ties.
func (a *AgentState) ChooseGuess(pub engine.PublicState, target uint8) engine.CardKind {
	if int(target) < len(a.Known) {
		if k := a.Known[target]; k.Valid() && k != engine.Guard {
			return k
		}
	}
	unseen := a.Unseen(pub)
	best, bestN := engine.Priest, -1
	for _, k := range engine.AllKinds {
		if k == engine.Guard {
			continue
		}
		if unseen[k] >= bestN {
			best, bestN = k, unseen[k]
		}
	}
	return best
}

// ChooseKeep picks the Chancellor card to keep: the highest rank, passing
// over the Princess when anything else is on offer.
func ChooseKeep(options []engine.CardKind) engine.CardKind {
	keep := engine.NoCard
	for _, k := range options {
		if k == engine.Princess && len(options) > 1 {
			continue
		}
		if keep == engine.NoCard || k.Rank() > keep.Rank() {
			keep = k
		}
	}
	if keep == engine.NoCard && len(options) > 0 {
		keep = options[0]
	}
	return keep
}

// ChoosePlay picks a legal play for the seat whose turn it is. It returns
// false when that seat has nothing to play.
func (a *AgentState) ChoosePlay(g *engine.GameState) (Play, bool) {
	seat := a.PlayerID
	plays := g.LegalPlays(seat)
	if len(plays) == 0 {
		return Play{}, false
	}
	pub := g.Public()

	// A Guard at a known card, or a Baron against a known weaker hand.
	for _, k := range plays {
		switch k {
		case engine.Guard:
			for _, t := range g.LegalTargets(seat, k) {
				if kn := a.Known[t]; kn.Valid() && kn != engine.Guard {
					return Play{Card: k, Target: t, Guess: kn}, true
				}
			}
		case engine.Baron:
			mine := a.ownOther(engine.Baron)
			for _, t := range g.LegalTargets(seat, k) {
				if kn := a.Known[t]; kn.Valid() && mine.Rank() > kn.Rank() {
					return Play{Card: k, Target: t, Guess: engine.NoCard}, true
				}
			}
		}
	}

	card := plays[0]
	for _, k := range plays[1:] {
		if card == engine.Princess || (k != engine.Princess && k.Rank() < card.Rank()) {
			card = k
		}
	}
	return a.aim(g, pub, card), true
}

// aim fills in the target and guess for card, preferring opponents.
func (a *AgentState) aim(g *engine.GameState, pub engine.PublicState, card engine.CardKind) Play {
	p := Play{Card: card, Target: engine.NoSeat, Guess: engine.NoCard}
	targets := g.LegalTargets(a.PlayerID, card)
	for _, t := range targets {
		if t != a.PlayerID {
			p.Target = t
			break
		}
	}
	if p.Target == engine.NoSeat && len(targets) > 0 {
		p.Target = targets[0]
	}
	if card.NeedsGuess() && p.Target != engine.NoSeat {
		p.Guess = a.ChooseGuess(pub, p.Target)
	}
	return p
}
