package engine

import (
	"errors"
	"reflect"
	"testing"
)

// play applies a play that is expected to succeed.
func play(t *testing.T, g *GameState, seat uint8, card CardKind, target uint8, guess CardKind) []Event {
	t.Helper()
	evs, err := g.PlayCard(seat, card, target, guess)
	if err != nil {
		t.Fatalf("PlayCard(%d, %v, %d, %v): %v", seat, card, target, guess, err)
	}
	assertCardTotal(t, g)
	return evs
}

func TestGuardCorrectGuessEliminates(t *testing.T) {
	g := startedGame(t, 3)
	stage(t, g, 0, [][]CardKind{{Guard, Baron}, {Priest}, {King}})
	evs := play(t, g, 0, Guard, 1, Priest)
	if !g.Players[1].Eliminated {
		t.Fatal("correct guess should eliminate the target")
	}
	out := findEvents(evs, EventPlayerEliminated)
	if len(out) != 1 || out[0].Payload.(EliminatedPayload).Seat != 1 {
		t.Fatalf("eliminated events = %+v", out)
	}
	if g.CurrentPlayer != 2 {
		t.Fatalf("CurrentPlayer = %d, want 2 (seat 1 skipped)", g.CurrentPlayer)
	}
}

func TestGuardWrongGuess(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Guard, Baron}, {Priest}})
	play(t, g, 0, Guard, 1, Princess)
	if g.Players[1].Eliminated {
		t.Fatal("wrong guess eliminated the target")
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("CurrentPlayer = %d, want 1", g.CurrentPlayer)
	}
}

func TestPriestRevealIsPrivate(t *testing.T) {
	g := startedGame(t, 3)
	stage(t, g, 0, [][]CardKind{{Priest, Guard}, {Countess}, {Baron}})
	evs := play(t, g, 0, Priest, 1, NoCard)
	reveals := findEvents(evs, EventPrivateReveal)
	if len(reveals) != 1 {
		t.Fatalf("got %d reveals, want 1", len(reveals))
	}
	r := reveals[0]
	if !reflect.DeepEqual(r.Recipients, []uint8{0}) {
		t.Fatalf("reveal recipients = %v, want [0]", r.Recipients)
	}
	if p := r.Payload.(RevealPayload); p.Card != Countess || p.Target != 1 {
		t.Fatalf("reveal = %+v", p)
	}
	for _, e := range evs {
		if e.Public() {
			if _, ok := e.Payload.(RevealPayload); ok {
				t.Fatal("reveal payload broadcast publicly")
			}
		}
	}
}

func TestBaron(t *testing.T) {
	tests := []struct {
		name       string
		mine, them CardKind
		loser      uint8
	}{
		{"actor higher", Handmaid, Priest, 1},
		{"actor lower", Guard, Prince, 0},
		{"tie", Priest, Priest, NoSeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := startedGame(t, 3)
			stage(t, g, 0, [][]CardKind{{Baron, tt.mine}, {tt.them}, {Guard}})
			evs := play(t, g, 0, Baron, 1, NoCard)

			cmp := findEvents(evs, EventPrivateCompare)
			if len(cmp) != 1 {
				t.Fatalf("got %d compare events, want 1", len(cmp))
			}
			if !reflect.DeepEqual(cmp[0].Recipients, []uint8{0, 1}) {
				t.Fatalf("compare recipients = %v, want [0 1]", cmp[0].Recipients)
			}
			p := cmp[0].Payload.(ComparePayload)
			if p.ActorCard != tt.mine || p.TargetCard != tt.them || p.Loser != tt.loser {
				t.Fatalf("compare = %+v", p)
			}
			for s := uint8(0); s < 2; s++ {
				if g.Players[s].Eliminated != (s == tt.loser) {
					t.Errorf("seat %d eliminated = %v", s, g.Players[s].Eliminated)
				}
			}
		})
	}
}

func TestHandmaidProtectsUntilOwnTurn(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Handmaid, Guard}, {Guard}}, Priest, Baron)
	play(t, g, 0, Handmaid, NoSeat, NoCard)
	if !g.Players[0].Protected {
		t.Fatal("Handmaid should protect the actor")
	}

	// Seat 1 has no legal Guard target; the card is spent harmlessly.
	evs := play(t, g, 1, Guard, NoSeat, NoCard)
	if len(findEvents(evs, EventPlayerEliminated)) != 0 {
		t.Fatal("protected player was hit")
	}
	if g.CurrentPlayer != 0 || g.Players[0].Protected {
		t.Fatal("protection should end when seat 0's turn starts")
	}
}

func TestHandmaidBlocksTargetingUntilOwnTurn(t *testing.T) {
	g := startedGame(t, 3)
	stage(t, g, 0, [][]CardKind{{Handmaid, Guard}, {Guard}, {Baron}}, Priest, King, Countess)
	play(t, g, 0, Handmaid, NoSeat, NoCard)

	blocked := func(seat uint8, card CardKind, guess CardKind) {
		t.Helper()
		before := g.Save()
		_, err := g.PlayCard(seat, card, 0, guess)
		var ip *IllegalPlayError
		if !errors.As(err, &ip) || ip.Reason != ReasonInvalidTarget || ip.Target != TargetProtected {
			t.Fatalf("seat %d %v at seat 0: err = %v, want protected target", seat, card, err)
		}
		if g.Save() != before {
			t.Fatal("rejected play changed the state")
		}
		if !g.Players[0].Protected {
			t.Fatal("protection cleared before seat 0's turn")
		}
	}

	blocked(1, Guard, Priest)
	play(t, g, 1, Guard, 2, Princess)

	blocked(2, Baron, NoCard)
	blocked(2, King, NoCard)
	play(t, g, 2, Baron, 1, NoCard)
	if !g.Players[1].Eliminated {
		t.Fatal("King should beat Priest")
	}

	if g.CurrentPlayer != 0 || g.Players[0].Protected {
		t.Fatal("protection should end when seat 0's turn starts")
	}
}

func TestPrinceDiscardAndRedraw(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Prince, Guard}, {Baron}}, Handmaid)
	evs := play(t, g, 0, Prince, 1, NoCard)
	p := &g.Players[1]
	if p.DiscardLen != 1 || p.Discards[0] != Baron {
		t.Fatalf("target discards = %v, want [Baron]", p.DiscardCards())
	}
	// Seat 1 drew Handmaid from the Prince, then its turn draw.
	if p.Hand[0] != Handmaid {
		t.Fatalf("replacement = %v, want Handmaid", p.Hand[0])
	}
	hands := findEvents(evs, EventPrivateHand)
	if len(hands) == 0 || hands[0].Recipients[0] != 1 {
		t.Fatal("target should be told its new hand")
	}
}

func TestPrinceSelf(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Prince, Guard}, {Baron}}, Countess)
	play(t, g, 0, Prince, 0, NoCard)
	a := &g.Players[0]
	if !reflect.DeepEqual(a.DiscardCards(), []CardKind{Prince, Guard}) {
		t.Fatalf("actor discards = %v", a.DiscardCards())
	}
	if a.HandLen != 1 || a.Hand[0] != Countess {
		t.Fatalf("actor hand = %v, want [Countess]", a.HandCards())
	}
}

func TestPrinceOnPrincessEliminatesWithoutRedraw(t *testing.T) {
	g := startedGame(t, 3)
	stage(t, g, 0, [][]CardKind{{Prince, Guard}, {Princess}, {Baron}})
	deck := g.DeckLen
	play(t, g, 0, Prince, 1, NoCard)
	p := &g.Players[1]
	if !p.Eliminated {
		t.Fatal("discarding the Princess must eliminate")
	}
	if p.HandLen != 0 {
		t.Fatalf("eliminated target redrew: %v", p.HandCards())
	}
	// Only seat 2's turn draw touched the deck.
	if g.DeckLen != deck-1 {
		t.Fatalf("DeckLen = %d, want %d", g.DeckLen, deck-1)
	}
}

func TestPrinceEmptyDeckLeavesNoCard(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Prince, Spy}, {Baron}})
	for g.DeckLen > 0 {
		g.draw()
	}
	if _, err := g.PlayCard(0, Prince, 1, NoCard); err != nil {
		t.Fatal(err)
	}
	if g.Players[1].HandLen != 0 {
		t.Fatalf("target hand = %v, want empty", g.Players[1].HandCards())
	}
	if g.IsRoundActive() {
		t.Fatal("round should end once the deck is empty")
	}
	// The empty hand ranks below the Spy.
	if g.Players[0].Score == 0 {
		t.Fatal("actor holding a Spy should beat an empty hand")
	}
}

// PrinceDrawsBurnedCard is a rule variant and off by default.
func TestPrinceDrawsBurnedCardVariant(t *testing.T) {
	g := startedGame(t, 2)
	g.Rules.PrinceDrawsBurnedCard = true
	stage(t, g, 0, [][]CardKind{{Prince, Guard}, {Baron}})
	for g.DeckLen > 0 {
		g.draw()
	}
	burned := g.Burned[0]
	left := g.BurnedLen
	if _, err := g.PlayCard(0, Prince, 1, NoCard); err != nil {
		t.Fatal(err)
	}
	if g.Players[1].HandLen != 1 || g.Players[1].Hand[0] != burned {
		t.Fatalf("target hand = %v, want [%v]", g.Players[1].HandCards(), burned)
	}
	if g.BurnedLen != left-1 {
		t.Fatalf("BurnedLen = %d, want %d", g.BurnedLen, left-1)
	}
}

func TestChancellorChoice(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Chancellor, Countess}, {Baron}}, King, Guard)
	evs := play(t, g, 0, Chancellor, NoSeat, NoCard)

	if g.CurrentPhase() != PhaseAwaitingChoice || g.Pending.PlayerID != 0 {
		t.Fatalf("phase = %d pending seat = %d", g.CurrentPhase(), g.Pending.PlayerID)
	}
	if g.CurrentPlayer != 0 {
		t.Fatal("turn must not advance while a choice is pending")
	}
	offers := findEvents(evs, EventPrivateChoiceOffered)
	if len(offers) != 1 || !reflect.DeepEqual(offers[0].Recipients, []uint8{0}) {
		t.Fatalf("choice offers = %+v", offers)
	}
	want := []CardKind{Countess, King, Guard}
	if got := offers[0].Payload.(ChoicePayload).Options; !reflect.DeepEqual(got, want) {
		t.Fatalf("options = %v, want %v", got, want)
	}
	if g.Public().PendingSeat != 0 {
		t.Fatal("public state should show who is choosing")
	}

	deck := g.DeckLen
	evs, err := g.ResolvePendingChoice(0, King)
	if err != nil {
		t.Fatal(err)
	}
	assertCardTotal(t, g)
	if a := &g.Players[0]; a.HandLen != 1 || a.Hand[0] != King {
		t.Fatalf("actor hand = %v, want [King]", a.HandCards())
	}
	// Returned cards sit at the bottom; Guard placed first, Countess under it.
	if g.Deck[0] != Countess || g.Deck[1] != Guard {
		t.Fatalf("bottom of deck = %v %v, want Countess Guard", g.Deck[0], g.Deck[1])
	}
	// Seat 1 drew one card for its turn.
	if g.DeckLen != deck+2-1 {
		t.Fatalf("DeckLen = %d, want %d", g.DeckLen, deck+1)
	}
	if g.CurrentPlayer != 1 || g.Pending.Type != PendingNone {
		t.Fatal("turn should pass after the choice")
	}
	if len(findEvents(evs, EventTurnStarted)) != 1 {
		t.Fatal("next turn should start after the choice")
	}
}

func TestChancellorShortDeck(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Chancellor, Guard}, {Baron}})
	g.Deck[0] = Priest
	g.DeckLen = 1
	if _, err := g.PlayCard(0, Chancellor, NoSeat, NoCard); err != nil {
		t.Fatal(err)
	}
	if got := g.Pending.OptionList(); !reflect.DeepEqual(got, []CardKind{Guard, Priest}) {
		t.Fatalf("options = %v, want [Guard Priest]", got)
	}
	if _, err := g.ResolvePendingChoice(0, Priest); err != nil {
		t.Fatal(err)
	}
	// The returned Guard was the only card left, so seat 1 drew it.
	if !g.Players[1].Holds(Guard) || g.DeckLen != 0 {
		t.Fatalf("seat 1 hand = %v, deck = %d", g.Players[1].HandCards(), g.DeckLen)
	}
}

func TestChancellorEmptyDeckResolvesImmediately(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Chancellor, Guard}, {Baron}})
	for g.DeckLen > 0 {
		g.draw()
	}
	evs, err := g.PlayCard(0, Chancellor, NoSeat, NoCard)
	if err != nil {
		t.Fatal(err)
	}
	if len(findEvents(evs, EventPrivateChoiceOffered)) != 0 || g.Pending.Type != PendingNone {
		t.Fatal("a single candidate needs no choice")
	}
	if a := &g.Players[0]; a.HandLen != 1 || a.Hand[0] != Guard {
		t.Fatalf("actor hand = %v, want [Guard]", a.HandCards())
	}
	if g.IsRoundActive() {
		t.Fatal("round should end on an empty deck")
	}
}

func TestChancellorLastCardDrawnResolvesImmediately(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 1, [][]CardKind{{Chancellor}, {Handmaid, Guard}}, Priest)
	// Park everything under the Priest in seat 1's discards so the deck
	// holds a single card when seat 0's turn begins.
	p1 := &g.Players[1]
	for i := uint8(0); i+1 < g.DeckLen; i++ {
		p1.Discards[p1.DiscardLen] = g.Deck[i]
		p1.DiscardLen++
	}
	g.Deck[0] = Priest
	for i := uint8(1); i < g.DeckLen; i++ {
		g.Deck[i] = NoCard
	}
	g.DeckLen = 1
	play(t, g, 1, Handmaid, NoSeat, NoCard)
	if g.DeckLen != 0 || !g.Players[0].Holds(Priest) {
		t.Fatalf("seat 0 should draw the last card: hand = %v deck = %d", g.Players[0].HandCards(), g.DeckLen)
	}

	evs := play(t, g, 0, Chancellor, NoSeat, NoCard)
	if len(findEvents(evs, EventPrivateChoiceOffered)) != 0 || g.Pending.Type != PendingNone {
		t.Fatal("no choice should be offered with nothing left to draw")
	}
	if a := &g.Players[0]; a.HandLen != 1 || a.Hand[0] != Priest {
		t.Fatalf("actor hand = %v, want [Priest]", a.HandCards())
	}
	if g.IsRoundActive() {
		t.Fatal("round should end on an empty deck")
	}
}

func TestKingSwapsHands(t *testing.T) {
	g := startedGame(t, 3)
	stage(t, g, 0, [][]CardKind{{King, Guard}, {Princess}, {Baron}})
	evs := play(t, g, 0, King, 1, NoCard)
	if g.Players[0].Hand[0] != Princess || g.Players[1].Hand[0] != Guard {
		t.Fatalf("hands = %v / %v", g.Players[0].HandCards(), g.Players[1].HandCards())
	}
	hands := findEvents(evs, EventPrivateHand)
	if len(hands) != 2 {
		t.Fatalf("got %d private hand events, want 2", len(hands))
	}
	for _, e := range hands {
		if len(e.Recipients) != 1 || e.Recipients[0] != e.Payload.(HandPayload).Seat {
			t.Fatalf("hand event misaddressed: %+v", e)
		}
	}
}

func TestPrincessPlayedEliminatesActor(t *testing.T) {
	g := startedGame(t, 3)
	stage(t, g, 0, [][]CardKind{{Princess, Guard}, {Baron}, {Priest}})
	play(t, g, 0, Princess, NoSeat, NoCard)
	if !g.Players[0].Eliminated {
		t.Fatal("playing the Princess must eliminate the actor")
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("CurrentPlayer = %d, want 1", g.CurrentPlayer)
	}
}

func TestSpyAndCountessHaveNoEffect(t *testing.T) {
	for _, card := range []CardKind{Spy, Countess} {
		g := startedGame(t, 2)
		stage(t, g, 0, [][]CardKind{{card, Guard}, {Baron}})
		play(t, g, 0, card, NoSeat, NoCard)
		if g.Players[0].PlayedSpy != (card == Spy) {
			t.Fatalf("%v: PlayedSpy = %v", card, g.Players[0].PlayedSpy)
		}
		for s := uint8(0); s < 2; s++ {
			if g.Players[s].Eliminated || g.Players[s].Protected {
				t.Fatalf("%v changed seat %d", card, s)
			}
		}
	}
}

func TestPrinceForcedSpyDiscardCounts(t *testing.T) {
	g := startedGame(t, 3)
	stage(t, g, 0, [][]CardKind{{Prince, Guard}, {Spy}, {Baron}})
	play(t, g, 0, Prince, 1, NoCard)
	if !g.Players[1].PlayedSpy {
		t.Fatal("a Spy discarded by the Prince counts for the bonus")
	}
}
