package authz

import "fmt"

// PermissionError is returned when an actor lacks a permission key.
// Surfaces as Forbidden.
type PermissionError struct {
	Key string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("missing permission: %s", e.Key)
}

// LockError is returned when a project lock blocks a mutation.
type LockError struct {
	// Completed distinguishes the two lock states: a completed project
	// rejects everyone (invalid state), a stopped project rejects
	// non-admins (forbidden).
	Completed bool
	Reason    string
}

func (e *LockError) Error() string {
	return e.Reason
}

var (
	errProjectCompleted = &LockError{Completed: true, Reason: "project is completed, no further changes allowed"}
	errProjectStopped   = &LockError{Completed: false, Reason: "project is stopped, only admins can make changes"}
)
