package entities

// RelayState names a checkpoint in the per-invocation relay state machine.
// The machine runs Received -> PreChecked -> Executed -> PostChecked ->
// Completed, or terminates early in Rejected. Nothing is persisted across
// invocations.
type RelayState string

const (
	StateReceived    RelayState = "received"
	StatePreChecked  RelayState = "pre_checked"
	StateExecuted    RelayState = "executed"
	StatePostChecked RelayState = "post_checked"
	StateCompleted   RelayState = "completed"
	StateRejected    RelayState = "rejected"
)

// ExecutionOutcome is what a completed relay invocation reports back to the
// calling module. A failed action is a reportable outcome (Success false),
// not a relay fault.
type ExecutionOutcome struct {
	Success     bool
	Data        []byte
	Fingerprint string
}
