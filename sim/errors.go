package sim

import (
	"errors"
	"fmt"
)

// ErrAllocationConflict is returned when a placement decision's slots are
// no longer free at apply time. The manager recovers by asking the
// placement scheme for one fresh decision, then deferring to the next tick.
var ErrAllocationConflict = errors.New("allocation conflict: decided slots no longer free")

// ErrPolicyNotFound is returned by SetScheduler/SetPlacement for
// unregistered names. The prior policy stays active.
var ErrPolicyNotFound = errors.New("policy not found")

// InvalidJobSpecError rejects a submission whose parameters are out of
// range or unplaceable on the cluster topology. The job never enters the
// pending queue.
type InvalidJobSpecError struct {
	Reason string
}

func (e *InvalidJobSpecError) Error() string {
	return fmt.Sprintf("invalid job spec: %s", e.Reason)
}

// InvariantViolationError records a broken allocation invariant, e.g. a
// job's slot count mismatching its GPU demand after allocation. Fatal for
// the job only; the simulation loop continues.
type InvariantViolationError struct {
	JobID  int64
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation for job %d: %s", e.JobID, e.Reason)
}
