package billing

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"web3builder/internal/domain/plans"
	"web3builder/internal/domain/referrals"
)

var ErrPaymentNotPending = errors.New("payment is not pending")

// LoadSubscriptions returns a user's subscriptions with their plans, newest
// first.
//
// Pass db in, do not import web3builder/database here.
func LoadSubscriptions(db *gorm.DB, userID string) ([]UserSubscription, error) {
	var subs []UserSubscription
	err := db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&subs).Error
	return subs, err
}

// Activate completes a pending payment inside tx: the payment is marked
// completed, a subscription to its plan starts at now and the payer's pending
// referral, if any, is completed with its commission.
func Activate(tx *gorm.DB, paymentID string, now time.Time) (*UserSubscription, error) {
	var p Payment
	if err := tx.First(&p, "id = ?", paymentID).Error; err != nil {
		return nil, err
	}
	if p.Status != PaymentPending {
		return nil, fmt.Errorf("payment %s is %s: %w", p.ID, p.Status, ErrPaymentNotPending)
	}

	var plan plans.SubscriptionPlan
	if err := tx.First(&plan, "id = ?", p.PlanID).Error; err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}

	res := tx.Model(&Payment{}).
		Where("id = ? AND status = ?", p.ID, PaymentPending).
		Updates(map[string]interface{}{"status": PaymentCompleted, "updated_at": now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("payment %s: %w", p.ID, ErrPaymentNotPending)
	}

	sub := UserSubscription{
		UserID:          p.UserID,
		PlanID:          plan.ID,
		Status:          SubscriptionActive,
		StartDate:       now,
		EndDate:         plan.EndDate(now),
		TransactionHash: p.TransactionHash,
	}
	if err := tx.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	sub.Plan = &plan

	commission := referrals.Commission(p.Amount)
	currency := p.Currency
	if err := tx.Model(&referrals.Referral{}).
		Where("referred_id = ? AND status = ?", p.UserID, referrals.StatusPending).
		Updates(map[string]interface{}{
			"status":              referrals.StatusCompleted,
			"commission_amount":   commission,
			"commission_currency": currency,
			"transaction_hash":    p.TransactionHash,
			"updated_at":          now,
		}).Error; err != nil {
		return nil, fmt.Errorf("complete referral: %w", err)
	}

	return &sub, nil
}
