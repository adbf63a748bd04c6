package user

import (
	"time"

	"gorm.io/datatypes"
)

const DefaultDisplayCurrency = "USD"

type User struct {
	ID               string                      `gorm:"primaryKey"`
	Email            *string                     `gorm:"type:text"`
	DisplayName      *string                     `gorm:"type:text"`
	DisplayCurrency  string                      `gorm:"size:3;not null;default:USD"`
	ConnectedUserIDs datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime"`
}

// Name is what other members see: display name, then email, then id.
func (u User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	return u.ID
}

type UpdateSettingsInput struct {
	UserID          string
	DisplayName     *string
	DisplayCurrency *string
}
