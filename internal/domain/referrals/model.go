package referrals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"

	// CommissionRate is the share of a referred user's first payment paid to
	// the referrer.
	CommissionRate = 0.10
)

type Referral struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	ReferrerID string `gorm:"type:uuid;not null;index" json:"referrer_id"`
	ReferredID string `gorm:"type:uuid;not null;uniqueIndex:idx_referrals_referred" json:"referred_id"`
	Status     string `gorm:"not null;default:'pending'" json:"status"`

	CommissionAmount   *float64 `gorm:"column:commission_amount" json:"commission_amount,omitempty"`
	CommissionCurrency *string  `gorm:"column:commission_currency" json:"commission_currency,omitempty"`
	TransactionHash    *string  `gorm:"column:transaction_hash" json:"transaction_hash,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}

// Link is the shareable sign-up link for a referral code.
func Link(host, code string) string {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	return fmt.Sprintf("https://%s/ref/%s", host, code)
}

// Commission rounds to cents.
func Commission(amount float64) float64 {
	return float64(int64(amount*CommissionRate*100+0.5)) / 100
}
