package engine

import "fmt"

// PlayCard plays card from seat's hand. target is NoSeat when the card takes
// no target (or to let the engine pick the only legal one); guess is NoCard
// unless card is a Guard.
//
// A rejected play returns an *IllegalPlayError and leaves the state untouched.
// When the card needs a target but none is legal, the card is still spent and
// the play succeeds with no effect.
func (g *GameState) PlayCard(seat uint8, card CardKind, target uint8, guess CardKind) ([]Event, error) {
	if !g.IsRoundActive() {
		return nil, illegal(ReasonRoundInactive)
	}
	if !g.ValidSeat(seat) {
		return nil, illegal(ReasonUnknownPlayer)
	}
	if g.Pending.Type != PendingNone {
		return nil, illegal(ReasonChoicePending)
	}
	if seat != g.CurrentPlayer {
		return nil, illegal(ReasonNotYourTurn)
	}
	p := &g.Players[seat]
	if p.Eliminated {
		return nil, illegal(ReasonEliminated)
	}
	if !card.Valid() || !p.Holds(card) {
		return nil, illegal(ReasonCardNotHeld)
	}
	if card != Countess && g.MustPlayCountess(seat) {
		return nil, illegal(ReasonCountessLock)
	}
	if card.NeedsGuess() && guess == Guard {
		return nil, illegal(ReasonInvalidGuess)
	}

	noEffect := false
	if card.NeedsTarget() {
		legal := g.LegalTargets(seat, card)
		switch {
		case len(legal) == 0:
			noEffect = true
			target = NoSeat
		case target == NoSeat && len(legal) == 1 && g.Rules.AutoSelectSingleTarget:
			target = legal[0]
		}
		if !noEffect {
			shape := kindTargeting[card]
			if r := g.ValidateTarget(seat, target, shape.allowSelf, shape.requireNotProtected); r != TargetOK {
				return nil, &IllegalPlayError{Reason: ReasonInvalidTarget, Target: r}
			}
			if card.NeedsGuess() && !guess.Valid() {
				return nil, illegal(ReasonInvalidGuess)
			}
		}
	} else {
		target = NoSeat
	}
	if !card.NeedsGuess() || noEffect {
		guess = NoCard
	}

	// Validation is done; from here the play always completes.
	var ev events
	p.removeCard(card)
	ev.public(EventCardPlayed, CardPlayedPayload{
		Seat:     seat,
		Card:     card,
		Target:   target,
		Guess:    guess,
		NoEffect: noEffect,
	})
	g.discard(seat, card, card, &ev)

	if noEffect {
		ev.log(fmt.Sprintf("%s played the %s, but there was no one to target.", p.Name, card))
	} else {
		g.resolveEffect(seat, card, target, guess, &ev)
	}

	if g.Pending.Type != PendingNone {
		ev.public(EventStateChanged, g.Public())
		return ev, nil
	}
	g.finishPlay(&ev)
	return ev, nil
}

// ResolvePendingChoice completes a Chancellor play: seat keeps one copy of
// keep and the remaining candidates go to the bottom of the deck in
// ascending rank, the lowest placed first.
func (g *GameState) ResolvePendingChoice(seat uint8, keep CardKind) ([]Event, error) {
	if !g.IsRoundActive() || g.Pending.Type == PendingNone || seat != g.Pending.PlayerID {
		return nil, ErrStalePendingChoice
	}
	if !g.Pending.hasOption(keep) {
		return nil, illegal(ReasonCardNotHeld)
	}

	p := &g.Players[seat]
	var returned [MaxChoiceOptions]CardKind
	nRet := 0
	kept := false
	for i := uint8(0); i < p.HandLen; i++ {
		c := p.Hand[i]
		if !kept && c == keep {
			kept = true
			continue
		}
		returned[nRet] = c
		nRet++
	}
	sortKinds(returned[:nRet])
	for _, c := range returned[:nRet] {
		g.putBottom(c)
	}
	p.clearHand()
	p.addCard(keep)
	g.Pending = PendingAction{}

	var ev events
	ev.private(EventPrivateHand, HandPayload{Seat: seat, Hand: p.HandCards()}, seat)
	ev.log(fmt.Sprintf("%s placed %d card(s) at the bottom of the deck.", p.Name, nRet))
	g.finishPlay(&ev)
	return ev, nil
}

// sortKinds is an insertion sort by rank; the slices hold at most three cards.
func sortKinds(ks []CardKind) {
	for i := 1; i < len(ks); i++ {
		for j := i; j > 0 && ks[j].Rank() < ks[j-1].Rank(); j-- {
			ks[j], ks[j-1] = ks[j-1], ks[j]
		}
	}
}

// discard moves k onto seat's discard pile. Discarding the Princess, for
// any reason, knocks the holder out; cause names the card responsible.
func (g *GameState) discard(seat uint8, k CardKind, cause CardKind, ev *events) {
	p := &g.Players[seat]
	p.Discards[p.DiscardLen] = k
	p.DiscardLen++
	if k.IsBonusCard() {
		p.PlayedSpy = true
	}
	if k == Princess {
		g.eliminate(seat, cause, ev)
	}
}

// eliminate knocks seat out of the round. The hand stays hidden.
func (g *GameState) eliminate(seat uint8, cause CardKind, ev *events) {
	p := &g.Players[seat]
	if p.Eliminated {
		return
	}
	p.Eliminated = true
	p.Protected = false
	ev.public(EventPlayerEliminated, EliminatedPayload{Seat: seat, Cause: cause})
	ev.log(fmt.Sprintf("%s is out of the round.", p.Name))
}
