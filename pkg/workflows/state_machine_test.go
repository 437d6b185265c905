package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	sm := NewStateMachine()

	assert.True(t, sm.CanTransition(StateRegistered, StateCheckedIn))
	assert.True(t, sm.CanTransition(StateCheckedIn, StateCheckedOut))
	assert.True(t, sm.CanTransition(StateCheckedOut, StateEvaluated))
	assert.True(t, sm.CanTransition(StateEvaluated, StateCertified))

	assert.False(t, sm.CanTransition(StateRegistered, StateCheckedOut))
	assert.False(t, sm.CanTransition(StateCheckedOut, StateCheckedIn))
	assert.False(t, sm.CanTransition(StateCheckedOut, StateCheckedOut))
	assert.False(t, sm.CanTransition(StateCertified, StateRegistered))
	assert.False(t, sm.CanTransition(RegistrationState("UNKNOWN"), StateCheckedIn))
}

func TestGetAllowedTransitions(t *testing.T) {
	sm := NewStateMachine()

	assert.Equal(t, []RegistrationState{StateCheckedIn}, sm.GetAllowedTransitions(StateRegistered))
	assert.Empty(t, sm.GetAllowedTransitions(StateCertified))
	assert.Empty(t, sm.GetAllowedTransitions(RegistrationState("UNKNOWN")))
}

func TestDerive(t *testing.T) {
	assert.Equal(t, StateRegistered, Derive(Snapshot{}))
	assert.Equal(t, StateCheckedIn, Derive(Snapshot{CheckedIn: true}))
	assert.Equal(t, StateCheckedOut, Derive(Snapshot{CheckedIn: true, CheckedOut: true}))
	assert.Equal(t, StateEvaluated, Derive(Snapshot{CheckedIn: true, CheckedOut: true, Evaluated: true}))
	assert.Equal(t, StateCertified, Derive(Snapshot{CheckedIn: true, CheckedOut: true, Evaluated: true, Certified: true}))
}
