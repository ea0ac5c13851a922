package domain

import "fmt"

// StorageError indicates the durable monitor record could not be read or
// written.
type StorageError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// LookupError indicates a guild, member, role or channel could not be
// resolved through the platform.
type LookupError struct {
	Kind string // "guild", "member", "role", "channel"
	ID   string
	Err  error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lookup %s %s: %v", e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("lookup %s %s: not found", e.Kind, e.ID)
}

func (e *LookupError) Unwrap() error { return e.Err }

// ActionError indicates posting, reacting or granting failed at the
// transport layer.
type ActionError struct {
	Op  string // "post", "react", "grant", "reply", "dm"
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
