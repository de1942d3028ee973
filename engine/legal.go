package engine

// Phase describes where the match is between entry-point calls. The
// Resolving state of a play never outlives a single call.
type Phase uint8

const (
	PhaseNoRound        Phase = iota // 0: no round dealt, or the last one ended
	PhaseIdle                        // 1: waiting for the current seat to play
	PhaseAwaitingChoice              // 2: waiting for Pending.PlayerID to choose
)

// CurrentPhase returns the phase for the acting player.
func (g *GameState) CurrentPhase() Phase {
	if !g.IsRoundActive() {
		return PhaseNoRound
	}
	if g.Pending.Type != PendingNone {
		return PhaseAwaitingChoice
	}
	return PhaseIdle
}

// ---------------------------------------------------------------------------
// Target resolution
// ---------------------------------------------------------------------------

// TargetReason explains why a seat can or cannot be targeted.
type TargetReason uint8

const (
	TargetOK TargetReason = iota
	TargetUnknown
	TargetEliminated
	TargetSelf
	TargetProtected
)

var targetText = [...]string{
	TargetOK:         "ok",
	TargetUnknown:    "no such player",
	TargetEliminated: "player already out",
	TargetSelf:       "cannot target yourself",
	TargetProtected:  "player is protected",
}

func (r TargetReason) String() string {
	if int(r) < len(targetText) {
		return targetText[r]
	}
	return "unknown"
}

// ValidateTarget decides whether actor may aim an effect at target.
// Protection never shields a player from their own effect.
func (g *GameState) ValidateTarget(actor, target uint8, allowSelf, requireNotProtected bool) TargetReason {
	if !g.ValidSeat(target) {
		return TargetUnknown
	}
	p := &g.Players[target]
	if p.Eliminated {
		return TargetEliminated
	}
	if target == actor {
		if !allowSelf {
			return TargetSelf
		}
		return TargetOK
	}
	if requireNotProtected && p.Protected {
		return TargetProtected
	}
	return TargetOK
}

// LegalTargets lists the seats actor may aim k at, in seat order.
// Kinds without a target return nil.
func (g *GameState) LegalTargets(actor uint8, k CardKind) []uint8 {
	if !k.NeedsTarget() {
		return nil
	}
	shape := kindTargeting[k]
	var out []uint8
	for s := uint8(0); s < g.NumPlayers; s++ {
		if g.ValidateTarget(actor, s, shape.allowSelf, shape.requireNotProtected) == TargetOK {
			out = append(out, s)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Playable cards
// ---------------------------------------------------------------------------

// MustPlayCountess reports whether seat holds the Countess alongside the
// King or a Prince, in which case the Countess is the only legal play.
func (g *GameState) MustPlayCountess(seat uint8) bool {
	if !g.ValidSeat(seat) {
		return false
	}
	p := &g.Players[seat]
	return p.Holds(Countess) && (p.Holds(King) || p.Holds(Prince))
}

// LegalPlays lists the distinct kinds seat may play right now, in hand order.
// It is empty whenever seat cannot act.
func (g *GameState) LegalPlays(seat uint8) []CardKind {
	if g.CurrentPhase() != PhaseIdle || seat != g.CurrentPlayer || !g.ValidSeat(seat) {
		return nil
	}
	p := &g.Players[seat]
	if p.Eliminated {
		return nil
	}
	if g.MustPlayCountess(seat) {
		return []CardKind{Countess}
	}
	var out []CardKind
	for i := uint8(0); i < p.HandLen; i++ {
		k := p.Hand[i]
		dup := false
		for _, seen := range out {
			if seen == k {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, k)
		}
	}
	return out
}
