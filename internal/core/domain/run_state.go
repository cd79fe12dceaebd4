package domain

// RunState identifies where one watchdog invocation is in its traversal
// from health classification to a terminal outcome.
type RunState string

const (
	StateHealthy       RunState = "healthy"
	StateInterfaceDown RunState = "interface_down"
	StateNoInternet    RunState = "no_internet"
	StateRecovering    RunState = "recovering"
	StateRecovered     RunState = "recovered"
	StateEscalated     RunState = "escalated"
	StateRebootPending RunState = "reboot_pending"
)

// Success reports whether the state maps to a zero process exit status.
func (s RunState) Success() bool {
	return s == StateHealthy || s == StateRecovered
}

// Terminal reports whether a run can end in this state.
func (s RunState) Terminal() bool {
	switch s {
	case StateHealthy, StateRecovered, StateEscalated, StateRebootPending:
		return true
	}
	return false
}
