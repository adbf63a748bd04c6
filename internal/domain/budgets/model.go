package budgets

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Allocation struct {
	ID         string                      `gorm:"primaryKey"`
	UserID     string                      `gorm:"index;not null"`
	Categories datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Amount     decimal.Decimal             `gorm:"type:numeric(14,2);not null"`
	Currency   string                      `gorm:"size:3;not null"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt  *time.Time                  `gorm:"autoUpdateTime:false"`
}

func (Allocation) TableName() string {
	return "budget_allocations"
}

type CreateInput struct {
	CallerID   string
	Categories []string
	Amount     decimal.Decimal
	Currency   string
}

type UpdateInput struct {
	CallerID   string
	ID         string
	Categories []string
	Amount     decimal.Decimal
	Currency   string
}

// Progress is what an allocation's categories cost during one month,
// expressed in the allocation currency. Unconverted counts entries skipped
// because no exchange rate covered them.
type Progress struct {
	Allocation  Allocation
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	Unconverted int
}
