package domain

type Action string

const (
	ActionCall   Action = "call"
	ActionFinish Action = "finish"
	ActionAbsent Action = "absent"
)

var actionTargets = map[Action]BookingStatus{
	ActionCall:   BookingStatusPresent,
	ActionFinish: BookingStatusCompleted,
	ActionAbsent: BookingStatusAbsent,
}

var transitions = map[BookingStatus][]Action{
	BookingStatusWaiting: {ActionCall, ActionAbsent},
	BookingStatusPresent: {ActionFinish, ActionAbsent},
}

// AllowedActions lists the staff actions offered for a booking in the given status.
// Completed and Absent bookings get none.
func AllowedActions(s BookingStatus) []Action {
	out := make([]Action, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

func (a Action) Target() (BookingStatus, bool) {
	s, ok := actionTargets[a]
	return s, ok
}

func CanTransition(from, to BookingStatus) bool {
	for _, a := range transitions[from] {
		if actionTargets[a] == to {
			return true
		}
	}
	return false
}
