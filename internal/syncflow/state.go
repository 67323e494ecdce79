package syncflow

import "github.com/filemanager/filemanager/internal/fsapi"

// Role names which endpoint the open browser is populating.
type Role int

const (
	RoleNone Role = iota
	RoleSource
	RoleDestination
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleDestination:
		return "destination"
	default:
		return "none"
	}
}

type State int

const (
	StateIdle State = iota
	StateBrowsing
	StateRequesting
	StateConfirmPending
	StateForcedRequesting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBrowsing:
		return "browsing"
	case StateRequesting:
		return "requesting"
	case StateConfirmPending:
		return "confirm_pending"
	case StateForcedRequesting:
		return "forced_requesting"
	default:
		return "unknown"
	}
}

type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeSuccess
	OutcomeConflictPending
	OutcomeFailed
	OutcomeDeclined
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeConflictPending:
		return "conflict_pending"
	case OutcomeFailed:
		return "failed"
	case OutcomeDeclined:
		return "declined"
	default:
		return "none"
	}
}

// Outcome is the result of the last sync attempt, for display.
type Outcome struct {
	Kind OutcomeKind
	Err  error
	// Forced is set when the outcome came from the confirmed retry.
	Forced bool
	Report *fsapi.SyncReport
}
