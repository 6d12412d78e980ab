package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	// TriggerApprove records an approval that satisfies the final rule step
	TriggerApprove Trigger = "APPROVE"

	// TriggerAdvance records an approval that keeps the expense pending on
	// the next required approver
	TriggerAdvance Trigger = "ADVANCE"

	// TriggerReject records a rejection, which is always terminal
	TriggerReject Trigger = "REJECT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
