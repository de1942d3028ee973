package engine

import "fmt"

// ---------------------------------------------------------------------------
// Deck handling
// ---------------------------------------------------------------------------

// buildDeck fills the deck with one copy of every card, in catalog order.
func (g *GameState) buildDeck() {
	idx := 0
	for _, k := range AllKinds {
		for c := uint8(0); c < kindCounts[k]; c++ {
			g.Deck[idx] = k
			idx++
		}
	}
	g.DeckLen = uint8(idx)
}

// shuffle is a Fisher-Yates shuffle driven by the match RNG.
func (g *GameState) shuffle() {
	for i := int(g.DeckLen) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	}
}

// draw pops the top card. Callers check DeckLen first.
func (g *GameState) draw() CardKind {
	g.DeckLen--
	k := g.Deck[g.DeckLen]
	g.Deck[g.DeckLen] = NoCard
	return k
}

// putBottom places k under the rest of the deck.
func (g *GameState) putBottom(k CardKind) {
	copy(g.Deck[1:g.DeckLen+1], g.Deck[:g.DeckLen])
	g.Deck[0] = k
	g.DeckLen++
}

// takeBurned removes the first burned card, or returns NoCard.
func (g *GameState) takeBurned() CardKind {
	if g.BurnedLen == 0 {
		return NoCard
	}
	k := g.Burned[0]
	copy(g.Burned[:], g.Burned[1:g.BurnedLen])
	g.BurnedLen--
	g.Burned[g.BurnedLen] = NoCard
	return k
}

// ---------------------------------------------------------------------------
// Round lifecycle
// ---------------------------------------------------------------------------

// StartRound rebuilds and shuffles the deck, burns cards face-down, deals one
// card to every seat and starts the first turn. The opening seat is random in
// the first round of a match and moves one seat on every round after.
func (g *GameState) StartRound() ([]Event, error) {
	if g.NumPlayers == 0 {
		return nil, ErrConfiguration
	}
	if g.IsRoundActive() {
		return nil, ErrRoundActive
	}
	if g.IsMatchOver() {
		return nil, ErrMatchOver
	}

	n := int(g.NumPlayers)
	g.buildDeck()
	g.shuffle()
	g.Pending = PendingAction{}

	for i := 0; i < n; i++ {
		p := &g.Players[i]
		p.clearHand()
		p.Discards = [DeckSize]CardKind{}
		p.DiscardLen = 0
		p.Eliminated = false
		p.Protected = false
		p.PlayedSpy = false
	}

	g.Burned = [MaxBurned]CardKind{NoCard, NoCard, NoCard}
	g.BurnedLen = 0
	for b := g.Rules.burnCount(n); b > 0; b-- {
		g.Burned[g.BurnedLen] = g.draw()
		g.BurnedLen++
	}

	for i := 0; i < n; i++ {
		g.Players[i].addCard(g.draw())
	}

	if g.FirstPlayer == NoSeat || g.FirstPlayer >= g.NumPlayers {
		g.FirstPlayer = uint8(g.randN(uint64(n)))
	} else {
		g.FirstPlayer = (g.FirstPlayer + 1) % g.NumPlayers
	}
	g.CurrentPlayer = g.FirstPlayer
	g.Round++
	g.Flags |= FlagRoundActive

	var ev events
	ev.public(EventRoundStarted, RoundStartedPayload{
		Round:       g.Round,
		FirstPlayer: g.FirstPlayer,
		BurnedCount: g.BurnedLen,
	})
	ev.log(fmt.Sprintf("Round %d begins. %s goes first.", g.Round, g.Players[g.FirstPlayer].Name))
	for i := uint8(0); i < g.NumPlayers; i++ {
		ev.private(EventPrivateHand, HandPayload{Seat: i, Hand: g.Players[i].HandCards()}, i)
	}
	g.beginTurn(&ev)
	return ev, nil
}

// RoundShouldEnd reports whether at most one player is left or the deck is
// exhausted.
func (g *GameState) RoundShouldEnd() bool {
	return g.AliveCount() <= 1 || g.DeckLen == 0
}

// ResetMatch clears scores so the same roster can play again. The opening
// seat keeps rotating from where the previous match left it.
func (g *GameState) ResetMatch() error {
	if g.NumPlayers == 0 {
		return ErrConfiguration
	}
	if g.IsRoundActive() {
		return ErrRoundActive
	}
	for i := uint8(0); i < g.NumPlayers; i++ {
		g.Players[i].Score = 0
	}
	g.Flags &^= FlagMatchOver
	g.Round = 0
	return nil
}

// ---------------------------------------------------------------------------
// Turn sequencing
// ---------------------------------------------------------------------------

// beginTurn clears the seated player's protection and draws their card.
func (g *GameState) beginTurn(ev *events) {
	seat := g.CurrentPlayer
	p := &g.Players[seat]
	p.Protected = false
	g.TurnNumber++
	if g.DeckLen > 0 {
		p.addCard(g.draw())
	}

	ev.public(EventTurnStarted, TurnPayload{Seat: seat})
	ev.private(EventPrivateTurn, PrivateTurnPayload{
		Seat:             seat,
		Hand:             p.HandCards(),
		Playable:         g.LegalPlays(seat),
		MustPlayCountess: g.MustPlayCountess(seat),
	}, seat)
	ev.public(EventStateChanged, g.Public())
}

// finishPlay runs after every completed resolution: broadcast, check the
// round end, then hand the turn to the next live seat.
func (g *GameState) finishPlay(ev *events) {
	ev.public(EventStateChanged, g.Public())
	if g.RoundShouldEnd() {
		g.endRound(ev)
		return
	}
	g.CurrentPlayer = g.NextAlive(g.CurrentPlayer)
	g.beginTurn(ev)
}
