package connections

import "time"

type Invitation struct {
	ID           string    `gorm:"primaryKey"`
	InvitedEmail string    `gorm:"not null;index"`
	InvitedBy    string    `gorm:"not null;index"`
	InviterName  string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null"`
}

func (Invitation) TableName() string {
	return "connection_invitations"
}

// Expired reports whether the invitation can no longer be accepted at now.
func (i Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}

// Caller is the authenticated identity a request acts as.
type Caller struct {
	ID            string
	Email         string
	EmailVerified bool
}

type InviteInput struct {
	Caller      Caller
	InviterName string
	Email       string
}
