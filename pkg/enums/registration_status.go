package enums

import "fmt"

// RegistrationStatus maps to the registration_status enum in Postgres.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusAccepted RegistrationStatus = "accepted"
	RegistrationStatusVerified RegistrationStatus = "verified"
)

var validRegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPending,
	RegistrationStatusAccepted,
	RegistrationStatusVerified,
}

// String implements fmt.Stringer.
func (r RegistrationStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r RegistrationStatus) IsValid() bool {
	for _, candidate := range validRegistrationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegistrationStatus converts raw input into a RegistrationStatus.
func ParseRegistrationStatus(value string) (RegistrationStatus, error) {
	for _, candidate := range validRegistrationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid registration status %q", value)
}
