package adapter

import (
	"strings"
)

// Phase is the lifecycle position of a Session.
type Phase int32

// Session phases. A session moves Closed → Opening → Open → Closing → Closed.
const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
	PhaseClosing
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseOpening:
		return "opening"
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Activity is a set of sub-states entered while a session is open.
type Activity uint32

// Activities.
const (
	ActivitySynchronizing Activity = 1 << iota
	ActivitySaving
	ActivityBackingUp
	ActivityChangingPassword
)

var activityNames = []struct {
	a    Activity
	name string
}{
	{ActivitySynchronizing, "synchronizing"},
	{ActivitySaving, "saving"},
	{ActivityBackingUp, "backing-up"},
	{ActivityChangingPassword, "changing-password"},
}

// Has reports whether every activity in other is set.
func (a Activity) Has(other Activity) bool {
	return a&other == other
}

func (a Activity) String() string {
	var parts []string
	for _, n := range activityNames {
		if a.Has(n.a) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// State is a snapshot of a session's phase and activities.
type State struct {
	Phase      Phase
	Activities Activity
}

func (s State) String() string {
	if s.Activities == 0 {
		return s.Phase.String()
	}
	return s.Phase.String() + "(" + s.Activities.String() + ")"
}
