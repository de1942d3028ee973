package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when a match cannot be set up from the given roster.
	ErrConfiguration = errors.New("configuration error")
	// ErrIllegalPlay matches every *IllegalPlayError via errors.Is.
	ErrIllegalPlay = errors.New("illegal play")
	// ErrStalePendingChoice is returned when a choice arrives with no matching interaction.
	ErrStalePendingChoice = errors.New("stale pending choice")
	// ErrRoundActive is returned by StartRound while a round is still being played.
	ErrRoundActive = errors.New("round already in progress")
	// ErrMatchOver is returned by StartRound once a player has reached the winning score.
	ErrMatchOver = errors.New("match is over")
)

// Reason classifies why a play was rejected.
type Reason uint8

const (
	ReasonRoundInactive Reason = iota
	ReasonUnknownPlayer
	ReasonNotYourTurn
	ReasonEliminated
	ReasonCardNotHeld
	ReasonCountessLock
	ReasonChoicePending
	ReasonInvalidTarget
	ReasonInvalidGuess
)

var reasonText = [...]string{
	ReasonRoundInactive: "no round in progress",
	ReasonUnknownPlayer: "unknown player",
	ReasonNotYourTurn:   "not your turn",
	ReasonEliminated:    "player is eliminated",
	ReasonCardNotHeld:   "card not in hand",
	ReasonCountessLock:  "the Countess must be played",
	ReasonChoicePending: "a choice is still pending",
	ReasonInvalidTarget: "invalid target",
	ReasonInvalidGuess:  "invalid guess",
}

func (r Reason) String() string {
	if int(r) < len(reasonText) {
		return reasonText[r]
	}
	return fmt.Sprintf("reason(%d)", r)
}

// IllegalPlayError is returned when a play or choice is rejected. The match
// state is left untouched.
type IllegalPlayError struct {
	Reason Reason
	// Target is set for ReasonInvalidTarget.
	Target TargetReason
}

func (e *IllegalPlayError) Error() string {
	if e.Reason == ReasonInvalidTarget {
		return fmt.Sprintf("illegal play: %s: %s", e.Reason, e.Target)
	}
	return fmt.Sprintf("illegal play: %s", e.Reason)
}

// Is lets errors.Is(err, ErrIllegalPlay) match any rejection.
func (e *IllegalPlayError) Is(target error) bool { return target == ErrIllegalPlay }

func illegal(r Reason) error { return &IllegalPlayError{Reason: r} }
