package domain

import "time"

// Creator is the owner of bookable slots and the settlement destination
type Creator struct {
	ID              string
	Wallet          string // unique, receives the transfer
	Username        string // unique display handle
	ProfileImageURL *string
	Bio             *string
	XHandle         *string
	CreatedAt       time.Time
}

// HasProfileImage returns true if the creator has any image reference
func (c *Creator) HasProfileImage() bool {
	return c.ProfileImageURL != nil && trimmed(*c.ProfileImageURL) != ""
}
