package engine

// EventKind tags an outbound event.
type EventKind uint8

const (
	EventStateChanged         EventKind = iota // PublicState
	EventLog                                   // LogPayload
	EventRoundStarted                          // RoundStartedPayload
	EventTurnStarted                           // TurnPayload
	EventCardPlayed                            // CardPlayedPayload
	EventPlayerEliminated                      // EliminatedPayload
	EventPrivateHand                           // HandPayload
	EventPrivateTurn                           // PrivateTurnPayload
	EventPrivateReveal                         // RevealPayload
	EventPrivateCompare                        // ComparePayload
	EventPrivateChoiceOffered                  // ChoicePayload
	EventRoundEnded                            // RoundSummary
)

// Event is one outbound message. An empty Recipients list means every seat.
// Private kinds always name their recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []uint8
}

// Public reports whether every seat may see the event.
func (e Event) Public() bool { return len(e.Recipients) == 0 }

// LogPayload is human-readable game text. It never carries private cards.
type LogPayload struct {
	Message string
}

type RoundStartedPayload struct {
	Round       uint16
	FirstPlayer uint8
	BurnedCount uint8
}

type TurnPayload struct {
	Seat uint8
}

// CardPlayedPayload announces a play. Guess is only set for Guard plays.
type CardPlayedPayload struct {
	Seat     uint8
	Card     CardKind
	Target   uint8
	Guess    CardKind
	NoEffect bool // no legal target existed; the card was spent without effect
}

// EliminatedPayload announces an elimination. Cause is the card whose effect
// knocked the player out.
type EliminatedPayload struct {
	Seat  uint8
	Cause CardKind
}

// HandPayload is the recipient's full hand after it changed.
type HandPayload struct {
	Seat uint8
	Hand []CardKind
}

// PrivateTurnPayload is sent to the seated player when their turn begins.
type PrivateTurnPayload struct {
	Seat             uint8
	Hand             []CardKind
	Playable         []CardKind
	MustPlayCountess bool
}

// RevealPayload shows Viewer the card held by Target.
type RevealPayload struct {
	Viewer uint8
	Target uint8
	Card   CardKind
}

// ComparePayload is the Baron result, sent to both participants only.
// Loser is NoSeat on a tie.
type ComparePayload struct {
	Actor      uint8
	Target     uint8
	ActorCard  CardKind
	TargetCard CardKind
	Loser      uint8
}

// ChoicePayload offers the Chancellor candidates to the chooser.
type ChoicePayload struct {
	Seat    uint8
	Options []CardKind
}

// events collects the output of one entry point.
type events []Event

func (e *events) public(kind EventKind, payload any) {
	*e = append(*e, Event{Kind: kind, Payload: payload})
}

func (e *events) private(kind EventKind, payload any, seats ...uint8) {
	*e = append(*e, Event{Kind: kind, Payload: payload, Recipients: seats})
}

func (e *events) log(msg string) {
	e.public(EventLog, LogPayload{Message: msg})
}
