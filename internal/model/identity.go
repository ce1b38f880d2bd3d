package model

// Identity is a verified assertion from the identity provider.
// A nil *Identity means the caller is anonymous.
type Identity struct {
	Subject  string // Stable provider subject, e.g. "github|12345"
	Name     string // Display name claim, may be empty
	Provider string
}
