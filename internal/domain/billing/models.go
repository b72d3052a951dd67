package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"web3builder/internal/domain/plans"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"

	SubscriptionActive   = "active"
	SubscriptionExpired  = "expired"
	SubscriptionCanceled = "canceled"
)

type Payment struct {
	ID     string                  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string                  `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID string                  `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan   *plans.SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	Amount     float64 `gorm:"not null" json:"amount"`
	Currency   string  `gorm:"not null" json:"currency"`
	Blockchain string  `gorm:"not null" json:"blockchain"`
	Status     string  `gorm:"not null;default:'pending';index" json:"status"`

	TransactionHash *string `gorm:"column:transaction_hash;uniqueIndex:idx_payments_tx_hash" json:"transaction_hash,omitempty"`
	StripeSessionID *string `gorm:"column:stripe_session_id;uniqueIndex:idx_payments_stripe_session" json:"stripe_session_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PaymentPending
	}
	return nil
}

type UserSubscription struct {
	ID     string                  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string                  `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID string                  `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan   *plans.SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	Status    string     `gorm:"not null;default:'active';index" json:"status"`
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	TransactionHash *string `gorm:"column:transaction_hash" json:"transaction_hash,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SubscriptionActive
	}
	return nil
}

// ActiveAt reports whether the subscription grants access at now.
func (s UserSubscription) ActiveAt(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	return s.EndDate == nil || now.Before(*s.EndDate)
}
