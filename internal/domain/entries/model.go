package entries

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

type Entry struct {
	ID                  string          `gorm:"primaryKey" json:"id"`
	Type                string          `gorm:"size:16;not null" json:"type"`
	UserID              string          `gorm:"index;not null" json:"userId"`
	OriginalAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"originalAmount"`
	Currency            string          `gorm:"size:3;not null" json:"currency"`
	Category            string          `gorm:"not null" json:"category"`
	Description         *string         `gorm:"type:text" json:"description,omitempty"`
	Date                time.Time       `gorm:"type:date;not null" json:"date"`
	RecurringTemplateID *string         `gorm:"index" json:"recurringTemplateId,omitempty"`
	IsRecurringInstance bool            `gorm:"not null;default:false" json:"isRecurringInstance"`
	IsModified          bool            `gorm:"not null;default:false" json:"isModified"`
	CreatedBy           string          `gorm:"not null" json:"createdBy"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           *time.Time      `gorm:"autoUpdateTime:false" json:"updatedAt,omitempty"`
	UpdatedBy           *string         `json:"updatedBy,omitempty"`
}

// Draft is the user-editable part of an entry, shared with recurring templates.
type Draft struct {
	Type        string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
}

type ListFilter struct {
	From       *time.Time
	To         *time.Time
	Type       string
	Categories []string
	Limit      int
	Offset     int
}

type CreateInput struct {
	CallerID string
	// OwnerID defaults to the caller; any member of the caller's clique is allowed.
	OwnerID string
	Date    time.Time
	Draft
}

type UpdateInput struct {
	CallerID string
	ID       string
	Date     time.Time
	Draft
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
