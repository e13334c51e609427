package technician

import "errors"

var (
	// ErrJobConflict rejects a leave overlapping a committed job interval.
	ErrJobConflict = errors.New("requested leave overlaps an assigned job")
	// ErrLeaveConflict rejects a leave overlapping another pending or
	// approved leave. First requester holds the slot pending the admin
	// decision.
	ErrLeaveConflict = errors.New("requested leave overlaps an existing leave request")
	// ErrLeaveContention signals a concurrent writer holds the
	// technician's lock. The request is safe to retry.
	ErrLeaveContention = errors.New("leave request contention, please retry")
	// ErrInvalidInterval rejects a leave whose end does not follow its start.
	ErrInvalidInterval = errors.New("leave end must be after start")
	// ErrNotOwner rejects cancelling someone else's leave.
	ErrNotOwner = errors.New("leave belongs to another technician")
	// ErrNotLeave rejects operating on a job interval through the leave API.
	ErrNotLeave = errors.New("interval is a job assignment, not a leave")
	// ErrAlreadyDecided rejects a second admin decision on the same leave.
	ErrAlreadyDecided = errors.New("leave request already decided")
)
