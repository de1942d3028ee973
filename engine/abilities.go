package engine

import "fmt"

// resolveEffect dispatches the effect of a validated play. The played card
// has already left the actor's hand.
func (g *GameState) resolveEffect(actor uint8, card CardKind, target uint8, guess CardKind, ev *events) {
	switch card {
	case Guard:
		g.guardEffect(actor, target, guess, ev)
	case Priest:
		g.priestEffect(actor, target, ev)
	case Baron:
		g.baronEffect(actor, target, ev)
	case Handmaid:
		g.Players[actor].Protected = true
		ev.log(fmt.Sprintf("%s is protected until their next turn.", g.Players[actor].Name))
	case Prince:
		g.princeEffect(actor, target, ev)
	case Chancellor:
		g.chancellorEffect(actor, ev)
	case King:
		g.kingEffect(actor, target, ev)
	case Spy, Countess:
		ev.log(fmt.Sprintf("%s played the %s.", g.Players[actor].Name, card))
	case Princess:
		// discard() already knocked the actor out.
	}
}

// guardEffect eliminates target when their held card matches guess.
func (g *GameState) guardEffect(actor, target uint8, guess CardKind, ev *events) {
	a, t := &g.Players[actor], &g.Players[target]
	if t.HeldCard() == guess {
		ev.log(fmt.Sprintf("%s guessed %s holds the %s. Correct!", a.Name, t.Name, guess))
		g.eliminate(target, Guard, ev)
		return
	}
	ev.log(fmt.Sprintf("%s guessed %s holds the %s. Wrong.", a.Name, t.Name, guess))
}

// priestEffect shows target's card to the actor only.
func (g *GameState) priestEffect(actor, target uint8, ev *events) {
	ev.private(EventPrivateReveal, RevealPayload{
		Viewer: actor,
		Target: target,
		Card:   g.Players[target].HeldCard(),
	}, actor)
	ev.log(fmt.Sprintf("%s looked at %s's hand.", g.Players[actor].Name, g.Players[target].Name))
}

// baronEffect compares hands; the lower rank is eliminated and a tie does
// nothing. Both participants learn both cards.
func (g *GameState) baronEffect(actor, target uint8, ev *events) {
	a, t := &g.Players[actor], &g.Players[target]
	ac, tc := a.HeldCard(), t.HeldCard()
	loser := NoSeat
	switch {
	case ac.Rank() > tc.Rank():
		loser = target
	case ac.Rank() < tc.Rank():
		loser = actor
	}
	ev.private(EventPrivateCompare, ComparePayload{
		Actor:      actor,
		Target:     target,
		ActorCard:  ac,
		TargetCard: tc,
		Loser:      loser,
	}, actor, target)
	ev.log(fmt.Sprintf("%s compared hands with %s.", a.Name, t.Name))
	if loser == NoSeat {
		ev.log("It's a tie. Nobody is out.")
		return
	}
	g.eliminate(loser, Baron, ev)
}

// princeEffect makes target discard their hand and draw a replacement.
// A discarded Princess eliminates without a redraw. With an empty deck the
// target is left holding nothing unless PrinceDrawsBurnedCard is set.
func (g *GameState) princeEffect(actor, target uint8, ev *events) {
	t := &g.Players[target]
	if k := t.HeldCard(); k != NoCard {
		t.removeCard(k)
		ev.log(fmt.Sprintf("%s made %s discard the %s.", g.Players[actor].Name, t.Name, k))
		g.discard(target, k, Prince, ev)
	}
	if t.Eliminated {
		return
	}
	switch {
	case g.DeckLen > 0:
		t.addCard(g.draw())
	case g.Rules.PrinceDrawsBurnedCard && g.BurnedLen > 0:
		t.addCard(g.takeBurned())
	default:
		ev.log(fmt.Sprintf("The deck is empty. %s has no card.", t.Name))
	}
	ev.private(EventPrivateHand, HandPayload{Seat: target, Hand: t.HandCards()}, target)
}

// chancellorEffect draws up to two cards and, when there is a real choice,
// enters AwaitingChoice with the whole hand as candidates.
func (g *GameState) chancellorEffect(actor uint8, ev *events) {
	a := &g.Players[actor]
	for i := 0; i < 2 && g.DeckLen > 0; i++ {
		a.addCard(g.draw())
	}
	if a.HandLen <= 1 {
		ev.log(fmt.Sprintf("%s played the Chancellor, but the deck is empty.", a.Name))
		return
	}
	g.Pending = PendingAction{
		Type:       PendingChancellor,
		PlayerID:   actor,
		NumOptions: a.HandLen,
	}
	copy(g.Pending.Options[:], a.Hand[:a.HandLen])
	ev.private(EventPrivateChoiceOffered, ChoicePayload{Seat: actor, Options: g.Pending.OptionList()}, actor)
	ev.log(fmt.Sprintf("%s is choosing a card to keep.", a.Name))
}

// kingEffect swaps hands between actor and target.
func (g *GameState) kingEffect(actor, target uint8, ev *events) {
	a, t := &g.Players[actor], &g.Players[target]
	a.Hand, t.Hand = t.Hand, a.Hand
	a.HandLen, t.HandLen = t.HandLen, a.HandLen
	ev.private(EventPrivateHand, HandPayload{Seat: actor, Hand: a.HandCards()}, actor)
	ev.private(EventPrivateHand, HandPayload{Seat: target, Hand: t.HandCards()}, target)
	ev.log(fmt.Sprintf("%s traded hands with %s.", a.Name, t.Name))
}
