package workflows

// RegistrationState is a stage in the participant lifecycle.
type RegistrationState string

const (
	StateRegistered RegistrationState = "REGISTERED"
	StateCheckedIn  RegistrationState = "CHECKED_IN"
	StateCheckedOut RegistrationState = "CHECKED_OUT"
	StateEvaluated  RegistrationState = "EVALUATED"
	StateCertified  RegistrationState = "CERTIFIED"
)

// StateMachine enforces registration lifecycle transitions
type StateMachine struct {
	allowedTransitions map[RegistrationState][]RegistrationState
}

// NewStateMachine creates a new state machine with allowed transitions
func NewStateMachine() *StateMachine {
	return &StateMachine{
		allowedTransitions: map[RegistrationState][]RegistrationState{
			StateRegistered: {StateCheckedIn},
			StateCheckedIn:  {StateCheckedOut},
			StateCheckedOut: {StateEvaluated},
			StateEvaluated:  {StateCertified},
			StateCertified:  {},
		},
	}
}

// CanTransition checks if a lifecycle transition is allowed
func (sm *StateMachine) CanTransition(from, to RegistrationState) bool {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// GetAllowedTransitions returns the allowed next states for a given state
func (sm *StateMachine) GetAllowedTransitions(from RegistrationState) []RegistrationState {
	allowed, exists := sm.allowedTransitions[from]
	if !exists {
		return []RegistrationState{}
	}
	return allowed
}

// Snapshot is the record presence used to derive the current state.
type Snapshot struct {
	CheckedIn  bool
	CheckedOut bool
	Evaluated  bool
	Certified  bool
}

// Derive maps record presence to the lifecycle state. Presence is
// cumulative: a checkout implies a check-in and an evaluation implies a
// checkout.
func Derive(s Snapshot) RegistrationState {
	switch {
	case s.Certified:
		return StateCertified
	case s.Evaluated:
		return StateEvaluated
	case s.CheckedOut:
		return StateCheckedOut
	case s.CheckedIn:
		return StateCheckedIn
	default:
		return StateRegistered
	}
}
