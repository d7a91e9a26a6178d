package event

import "strings"

// Name is the event's unique, case-normalized display name.
type Name struct {
	value string
}

func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Name{}, ErrEmptyName
	}
	return Name{value: s}, nil
}

// ReconstructName rebuilds a Name from storage, trusting that it already
// passed NewName when it was persisted.
func ReconstructName(s string) Name {
	return Name{value: s}
}

func (n Name) Value() string {
	return n.value
}

// Normalized returns the lowercase form used for uniqueness checks.
func (n Name) Normalized() string {
	return strings.ToLower(n.value)
}
