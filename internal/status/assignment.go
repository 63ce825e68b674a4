package status

// AssignmentStatus is the per-worker state on a shift. It is a smaller,
// separate enumeration from ShiftStatus: a worker checking in drives the
// parent shift into checking_in, but the two are only correlated, never
// shared.
type AssignmentStatus string

const (
	AssignmentConfirmed  AssignmentStatus = "confirmed"
	AssignmentOnWay      AssignmentStatus = "on_way"
	AssignmentCheckedIn  AssignmentStatus = "checked_in"
	AssignmentCheckedOut AssignmentStatus = "checked_out"
	AssignmentCompleted  AssignmentStatus = "completed"
)

func (s AssignmentStatus) String() string { return string(s) }
