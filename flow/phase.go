package flow

// Phase is the position of an action kind in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseAuthorizing
	PhaseSubmitting
	PhaseAwaiting
	PhaseSucceeded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseAuthorizing:
		return "authorizing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseAwaiting:
		return "awaiting"
	case PhaseSucceeded:
		return "succeeded"
	}
	return "unknown"
}
