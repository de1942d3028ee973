package engine

import (
	"reflect"
	"testing"
)

func TestValidateTarget(t *testing.T) {
	g := startedGame(t, 4)
	stage(t, g, 0, [][]CardKind{{Guard, Priest}, {Baron}, {Handmaid}, {King}})
	g.Players[1].Protected = true
	g.Players[2].Eliminated = true

	tests := []struct {
		name                string
		target              uint8
		allowSelf, noShield bool
		want                TargetReason
	}{
		{"open opponent", 3, false, true, TargetOK},
		{"protected opponent", 1, false, true, TargetProtected},
		{"protection ignored", 1, false, false, TargetOK},
		{"eliminated", 2, false, true, TargetEliminated},
		{"eliminated ignores allowSelf", 2, true, false, TargetEliminated},
		{"self disallowed", 0, false, true, TargetSelf},
		{"self allowed", 0, true, true, TargetOK},
		{"out of roster", 4, true, false, TargetUnknown},
		{"no seat", NoSeat, true, false, TargetUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.ValidateTarget(0, tt.target, tt.allowSelf, tt.noShield); got != tt.want {
				t.Errorf("ValidateTarget(0,%d) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestSelfTargetIgnoresOwnProtection(t *testing.T) {
	g := startedGame(t, 2)
	stage(t, g, 0, [][]CardKind{{Prince, Guard}, {Baron}})
	g.Players[0].Protected = true
	if got := g.ValidateTarget(0, 0, true, true); got != TargetOK {
		t.Fatalf("self target while protected = %v, want ok", got)
	}
}

func TestLegalTargets(t *testing.T) {
	g := startedGame(t, 4)
	stage(t, g, 0, [][]CardKind{{Guard, Prince}, {Baron}, {Handmaid}, {King}})
	g.Players[1].Protected = true
	g.Players[3].Eliminated = true

	if got := g.LegalTargets(0, Guard); !reflect.DeepEqual(got, []uint8{2}) {
		t.Errorf("Guard targets = %v, want [2]", got)
	}
	if got := g.LegalTargets(0, Prince); !reflect.DeepEqual(got, []uint8{0, 2}) {
		t.Errorf("Prince targets = %v, want [0 2]", got)
	}
	if got := g.LegalTargets(0, Handmaid); got != nil {
		t.Errorf("Handmaid targets = %v, want nil", got)
	}

	g.Players[2].Protected = true
	if got := g.LegalTargets(0, King); len(got) != 0 {
		t.Errorf("King targets with everyone shielded = %v, want none", got)
	}
	if got := g.LegalTargets(0, Prince); !reflect.DeepEqual(got, []uint8{0}) {
		t.Errorf("Prince always keeps self: got %v", got)
	}
}

func TestMustPlayCountess(t *testing.T) {
	tests := []struct {
		hand []CardKind
		want bool
	}{
		{[]CardKind{Countess, King}, true},
		{[]CardKind{Prince, Countess}, true},
		{[]CardKind{Countess, Baron}, false},
		{[]CardKind{Countess, Chancellor}, false},
		{[]CardKind{Countess, Princess}, false},
		{[]CardKind{King, Prince}, false},
	}
	for _, tt := range tests {
		g := startedGame(t, 2)
		stage(t, g, 0, [][]CardKind{tt.hand, {Guard}})
		if got := g.MustPlayCountess(0); got != tt.want {
			t.Errorf("MustPlayCountess(%v) = %v, want %v", tt.hand, got, tt.want)
		}
	}
}

func TestLegalPlays(t *testing.T) {
	g := startedGame(t, 2)

	stage(t, g, 0, [][]CardKind{{King, Countess}, {Guard}})
	if got := g.LegalPlays(0); !reflect.DeepEqual(got, []CardKind{Countess}) {
		t.Errorf("locked hand plays = %v, want [Countess]", got)
	}

	stage(t, g, 0, [][]CardKind{{Guard, Guard}, {Priest}})
	if got := g.LegalPlays(0); !reflect.DeepEqual(got, []CardKind{Guard}) {
		t.Errorf("duplicate hand plays = %v, want [Guard]", got)
	}
	if got := g.LegalPlays(1); got != nil {
		t.Errorf("off-turn plays = %v, want nil", got)
	}

	g.Pending = PendingAction{Type: PendingChancellor, PlayerID: 0}
	if got := g.LegalPlays(0); got != nil {
		t.Errorf("plays while choosing = %v, want nil", got)
	}
	if g.CurrentPhase() != PhaseAwaitingChoice || g.ActingPlayer() != 0 {
		t.Errorf("phase = %d acting = %d", g.CurrentPhase(), g.ActingPlayer())
	}
}
