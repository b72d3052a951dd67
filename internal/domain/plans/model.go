package plans

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       float64         `gorm:"not null" json:"price"`
	Currency    string          `gorm:"not null;default:'USDC'" json:"currency"`
	Blockchain  string          `gorm:"not null;default:'ethereum'" json:"blockchain"`
	Features    json.RawMessage `gorm:"type:jsonb;not null;default:'[]'" json:"features"`

	// DurationDays is nil for one-time plans that never expire.
	DurationDays *int `gorm:"column:duration_days" json:"duration_days,omitempty"`
	IsOneTime    bool `gorm:"column:is_one_time;not null;default:false" json:"is_one_time"`

	StripePriceID *string `gorm:"column:stripe_price_id;uniqueIndex:idx_plans_stripe_price_id" json:"stripe_price_id,omitempty"`
	Tier          string  `gorm:"column:tier;not null;default:'pro'" json:"tier"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if len(p.Features) == 0 {
		p.Features = json.RawMessage(`[]`)
	}
	if p.Currency == "" {
		p.Currency = "USDC"
	}
	return nil
}

// EndDate returns when a subscription to p started at start runs out, or nil
// when it does not expire.
func (p SubscriptionPlan) EndDate(start time.Time) *time.Time {
	if p.IsOneTime || p.DurationDays == nil || *p.DurationDays <= 0 {
		return nil
	}
	end := start.AddDate(0, 0, *p.DurationDays)
	return &end
}
