package status

import (
	"fmt"
)

// ShiftStatus is the lifecycle state of a shift posting. The set is closed:
// every status the system can store appears below, and every status has an
// explicit row in the transition table (empty for terminal states).
type ShiftStatus string

const (
	ShiftDraft        ShiftStatus = "draft"
	ShiftPublished    ShiftStatus = "published"
	ShiftApplications ShiftStatus = "applications"
	ShiftAccepted     ShiftStatus = "accepted"
	ShiftCheckingIn   ShiftStatus = "checking_in"
	ShiftInProgress   ShiftStatus = "in_progress"
	ShiftCompleted    ShiftStatus = "completed"
	ShiftReviewed     ShiftStatus = "reviewed"
	ShiftCancelled    ShiftStatus = "cancelled"
)

// ErrUnknownStatus marks a status value outside the closed enumeration.
// Callers hitting this have a data-integrity problem, not a rejected request.
type ErrUnknownStatus struct {
	Value string
}

func (e *ErrUnknownStatus) Error() string {
	return fmt.Sprintf("unknown shift status %q", e.Value)
}

// transitions is the full directed graph of legal status changes. No
// self-loops, no back-edges. A status absent from this map is unknown,
// never implicitly terminal.
var transitions = map[ShiftStatus][]ShiftStatus{
	ShiftDraft:        {ShiftPublished, ShiftCancelled},
	ShiftPublished:    {ShiftApplications, ShiftAccepted, ShiftCancelled},
	ShiftApplications: {ShiftAccepted, ShiftCancelled},
	ShiftAccepted:     {ShiftCheckingIn, ShiftInProgress, ShiftCancelled},
	ShiftCheckingIn:   {ShiftInProgress, ShiftCancelled},
	ShiftInProgress:   {ShiftCompleted, ShiftCancelled},
	ShiftCompleted:    {ShiftReviewed},
	ShiftReviewed:     {},
	ShiftCancelled:    {},
}

var labels = map[ShiftStatus]string{
	ShiftDraft:        "Draft",
	ShiftPublished:    "Published",
	ShiftApplications: "Accepting applications",
	ShiftAccepted:     "Crew accepted",
	ShiftCheckingIn:   "Checking in",
	ShiftInProgress:   "In progress",
	ShiftCompleted:    "Completed",
	ShiftReviewed:     "Reviewed",
	ShiftCancelled:    "Cancelled",
}

var colors = map[ShiftStatus]string{
	ShiftDraft:        "#9E9E9E",
	ShiftPublished:    "#2196F3",
	ShiftApplications: "#00BCD4",
	ShiftAccepted:     "#3F51B5",
	ShiftCheckingIn:   "#FF9800",
	ShiftInProgress:   "#FFC107",
	ShiftCompleted:    "#4CAF50",
	ShiftReviewed:     "#8BC34A",
	ShiftCancelled:    "#F44336",
}

// Parse validates a raw status string coming in over the wire.
func Parse(raw string) (ShiftStatus, error) {
	s := ShiftStatus(raw)
	if _, ok := transitions[s]; !ok {
		return "", &ErrUnknownStatus{Value: raw}
	}
	return s, nil
}

// Known reports whether s belongs to the closed enumeration.
func Known(s ShiftStatus) bool {
	_, ok := transitions[s]
	return ok
}

// ValidateTransition reports whether current → requested is a legal change.
// Unknown statuses on either side are an error, not a false result.
// current == requested is always false: a shift cannot be transitioned to
// the state it is already in.
func ValidateTransition(current, requested ShiftStatus) (bool, error) {
	allowed, ok := transitions[current]
	if !ok {
		return false, &ErrUnknownStatus{Value: string(current)}
	}
	if _, ok := transitions[requested]; !ok {
		return false, &ErrUnknownStatus{Value: string(requested)}
	}
	if current == requested {
		return false, nil
	}
	for _, s := range allowed {
		if s == requested {
			return true, nil
		}
	}
	return false, nil
}

// AllowedTransitions returns the legal next statuses for current. The result
// is a copy; mutating it cannot corrupt the table.
func AllowedTransitions(current ShiftStatus) ([]ShiftStatus, error) {
	allowed, ok := transitions[current]
	if !ok {
		return nil, &ErrUnknownStatus{Value: string(current)}
	}
	out := make([]ShiftStatus, len(allowed))
	copy(out, allowed)
	return out, nil
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s ShiftStatus) (bool, error) {
	allowed, ok := transitions[s]
	if !ok {
		return false, &ErrUnknownStatus{Value: string(s)}
	}
	return len(allowed) == 0, nil
}

// Label returns the display name for s. Unknown values fall back to the raw
// string so UI code never renders an empty badge.
func (s ShiftStatus) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Color returns the display color for s.
func (s ShiftStatus) Color() string {
	if c, ok := colors[s]; ok {
		return c
	}
	return "#9E9E9E"
}

func (s ShiftStatus) String() string { return string(s) }

// All returns every known shift status, in lifecycle order.
func All() []ShiftStatus {
	return []ShiftStatus{
		ShiftDraft,
		ShiftPublished,
		ShiftApplications,
		ShiftAccepted,
		ShiftCheckingIn,
		ShiftInProgress,
		ShiftCompleted,
		ShiftReviewed,
		ShiftCancelled,
	}
}
