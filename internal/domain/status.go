package domain

import "fmt"

// Status is the closed set of conditions a tag can be in.
// Using a typed string keeps the wire and database representations readable
// while ParseStatus rejects anything outside the set, so services never see
// an ad hoc status literal.
type Status string

const (
	// StatusActive is the initial state: the tag is affixed and scannable.
	StatusActive Status = "active"
	// StatusDamaged means the tag was reported unreadable but is still attached.
	StatusDamaged Status = "damaged"
	// StatusMissing means the tag is gone entirely (external escalation).
	StatusMissing Status = "missing"
	// StatusReplaced means a fresh tag has been printed for the item.
	// Replaced tags can be reported damaged again later.
	StatusReplaced Status = "replaced"
)

// ParseStatus converts a raw string into a Status.
// Returns ErrValidation for anything outside the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusDamaged, StatusMissing, StatusReplaced:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}
